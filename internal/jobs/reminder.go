package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/lexfield/practice-core/internal/apperr"
	"github.com/lexfield/practice-core/internal/log"
	"github.com/lexfield/practice-core/internal/model"
	"github.com/lexfield/practice-core/internal/notify"
	"github.com/lexfield/practice-core/internal/repository"
	"github.com/lexfield/practice-core/internal/schedule"
)

// WindowBounds — границы окна «встреча скоро начнётся» относительно
// текущего момента.
type WindowBounds struct {
	Min time.Duration
	Max time.Duration
}

// DefaultWindows — 23–25 часов для длинного окна, 90–150 минут для
// короткого.
func DefaultWindows() map[model.ReminderKind]WindowBounds {
	return map[model.ReminderKind]WindowBounds{
		model.ReminderKindLong:  {Min: 23 * time.Hour, Max: 25 * time.Hour},
		model.ReminderKindShort: {Min: 90 * time.Minute, Max: 150 * time.Minute},
	}
}

// ReminderDispatcher находит встречи, вошедшие в окно напоминания, и
// рассылает уведомления сторонам. Идемпотентность держится на монотонном
// флаге: после хотя бы одной успешной доставки флаг окна выставляется,
// и повторный прогон в том же окне ничего не шлёт.
type ReminderDispatcher struct {
	appts   repository.AppointmentRepository
	lawyers repository.LawyerRepository
	clients repository.ClientRepository

	notifier notify.Notifier
	windows  map[model.ReminderKind]WindowBounds

	// Пауза между последовательными отправками, чтобы не бить в канал
	// доставки пачкой. Рассылка поэтому строго последовательная.
	throttle time.Duration
	sleep    func(time.Duration)

	now func() time.Time
}

func NewReminderDispatcher(
	appts repository.AppointmentRepository,
	lawyers repository.LawyerRepository,
	clients repository.ClientRepository,
	notifier notify.Notifier,
	windows map[model.ReminderKind]WindowBounds,
	throttle time.Duration,
	now func() time.Time,
) *ReminderDispatcher {
	if windows == nil {
		windows = DefaultWindows()
	}
	if throttle <= 0 {
		throttle = 200 * time.Millisecond
	}
	if now == nil {
		now = time.Now
	}
	return &ReminderDispatcher{
		appts:    appts,
		lawyers:  lawyers,
		clients:  clients,
		notifier: notifier,
		windows:  windows,
		throttle: throttle,
		sleep:    time.Sleep,
		now:      now,
	}
}

// RunStats — агрегат одного прогона. Отказ доставки одному адресату не
// прерывает ни остальных адресатов, ни остальные встречи прогона.
type RunStats struct {
	Scanned int `json:"scanned"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Run сканирует одно окно kind и рассылает напоминания.
func (d *ReminderDispatcher) Run(ctx context.Context, kind model.ReminderKind) (RunStats, error) {
	bounds, ok := d.windows[kind]
	if !ok {
		return RunStats{}, apperr.Invalidf("unknown reminder window: %q", kind)
	}

	now := d.now().UTC()
	due, err := d.appts.ListDueForReminder(ctx, kind, now.Add(bounds.Min), now.Add(bounds.Max))
	if err != nil {
		return RunStats{}, err
	}

	stats := RunStats{Scanned: len(due)}
	for i, appt := range due {
		if i > 0 {
			d.sleep(d.throttle)
		}

		delivered := d.dispatchOne(ctx, &appt, kind)
		switch {
		case delivered > 0:
			if err := d.appts.MarkReminderSent(ctx, appt.ID, kind, now); err != nil {
				// Флаг не выставился — встреча попадёт в следующий
				// прогон, доставка задублируется. Логируем громко.
				log.Error("mark reminder sent", err, "appointment", appt.ID)
			}
			stats.Sent++
		case delivered == 0:
			// Ни у одной стороны нет контакта: пропуск, не ошибка.
			stats.Skipped++
		default:
			stats.Failed++
		}
	}

	log.Info("reminder scan finished",
		"window", string(kind),
		"scanned", stats.Scanned,
		"sent", stats.Sent,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)

	return stats, nil
}

// dispatchOne шлёт напоминание обеим сторонам встречи. Возвращает число
// успешных доставок, 0 — если слать было некому, -1 — если все попытки
// доставки провалились.
func (d *ReminderDispatcher) dispatchOne(ctx context.Context, appt *model.Appointment, kind model.ReminderKind) int {
	recipients := d.collectRecipients(ctx, appt)
	if len(recipients) == 0 {
		log.Info("reminder skipped: no contacts", "appointment", appt.ID)
		return 0
	}

	subject, body := reminderMessage(appt, kind)

	delivered := 0
	for _, to := range recipients {
		if err := d.notifier.Send(ctx, to, subject, body); err != nil {
			// Отказ одному адресату не мешает остальным.
			log.Error("reminder delivery failed", err, "appointment", appt.ID, "to", to)
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return -1
	}
	return delivered
}

// collectRecipients собирает адреса сторон; стороны без контакта просто
// пропускаются.
func (d *ReminderDispatcher) collectRecipients(ctx context.Context, appt *model.Appointment) []string {
	var recipients []string

	lawyer, err := d.lawyers.GetByID(ctx, appt.LawyerID)
	if err != nil {
		log.Error("reminder: load lawyer", err, "appointment", appt.ID)
	} else if lawyer.ContactEmail != "" {
		recipients = append(recipients, lawyer.ContactEmail)
	}

	client, err := d.clients.GetByID(ctx, appt.ClientID)
	if err != nil {
		log.Error("reminder: load client", err, "appointment", appt.ID)
	} else if client.ContactEmail != "" {
		recipients = append(recipients, client.ContactEmail)
	}

	return recipients
}

func reminderMessage(appt *model.Appointment, kind model.ReminderKind) (subject, body string) {
	when := schedule.FormatRangeForUser(schedule.TimeRange{Start: appt.StartsAt, End: appt.EndsAt}, nil)

	if kind == model.ReminderKindShort {
		subject = "Напоминание: встреча через 2 часа"
	} else {
		subject = "Напоминание: встреча завтра"
	}

	body = fmt.Sprintf("Встреча (%s): %s", appt.Type, when)
	if appt.MeetingURL != nil && *appt.MeetingURL != "" {
		body += "\nСсылка: " + *appt.MeetingURL
	} else if appt.Address != nil && *appt.Address != "" {
		body += "\nАдрес: " + *appt.Address
	}
	return subject, body
}
