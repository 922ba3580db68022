package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lexfield/practice-core/internal/log"
	"github.com/lexfield/practice-core/internal/model"
	"github.com/lexfield/practice-core/internal/repository"
)

// Sweeper — периодическая зачистка: встречи, чьё время окончания прошло,
// одним UPDATE переводятся из активных статусов в completed. Прогон
// идемпотентен: повторный запуск без сдвига времени затрагивает 0 строк.
type Sweeper struct {
	appts  repository.AppointmentRepository
	events repository.EventRepository
	now    func() time.Time
}

func NewSweeper(appts repository.AppointmentRepository, events repository.EventRepository, now func() time.Time) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{appts: appts, events: events, now: now}
}

// Run выполняет один прогон и возвращает число затронутых строк.
func (s *Sweeper) Run(ctx context.Context) (int64, error) {
	n, err := s.appts.CompleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}

	if n > 0 {
		log.Info("sweep completed", "completed", n)
		if err := s.events.Create(ctx, &model.Event{
			ID:        uuid.New(),
			EventType: model.EventTypeSweepCompleted,
			Details:   fmt.Sprintf("auto-completed %d appointments", n),
		}); err != nil {
			// Аудит не должен ронять сам прогон.
			log.Error("sweep audit event", err)
		}
	}

	return n, nil
}
