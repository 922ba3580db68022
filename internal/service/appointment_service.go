package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexfield/practice-core/internal/apperr"
	"github.com/lexfield/practice-core/internal/model"
	"github.com/lexfield/practice-core/internal/repository"
	"github.com/lexfield/practice-core/internal/schedule"
)

// AppointmentService — разовые встречи: создание, правка, отмена.
// Проверка пересечений и вставка идут в одной транзакции под
// per-lawyer advisory-блокировкой, чтобы два конкурентных бронирования
// одного календаря не прошли между чтением и записью.
type AppointmentService struct {
	db    *gorm.DB
	appts repository.AppointmentRepository
}

func NewAppointmentService(db *gorm.DB, appts repository.AppointmentRepository) *AppointmentService {
	return &AppointmentService{db: db, appts: appts}
}

// AppointmentInput — заявка на разовую встречу.
type AppointmentInput struct {
	LawyerID uuid.UUID  `json:"lawyerId"`
	ClientID uuid.UUID  `json:"clientId"`
	CaseID   *uuid.UUID `json:"caseId,omitempty"`

	Type     model.AppointmentType `json:"type"`
	Location LocationInput         `json:"location"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	PrivateNotes string `json:"privateNotes,omitempty"`
	SharedNotes  string `json:"sharedNotes,omitempty"`
}

func (in *AppointmentInput) validate() error {
	if err := validateParties(in.LawyerID, in.ClientID); err != nil {
		return err
	}
	if !model.ValidAppointmentType(in.Type) {
		return apperr.Invalidf("unknown appointment type: %q", in.Type)
	}
	if err := validateInterval(in.Start, in.End); err != nil {
		return err
	}
	return validateLocation(in.Location)
}

// Create валидирует заявку, проверяет пересечения и вставляет встречу.
// Конфликт календаря — типизированная ошибка CONFLICT, без частичной записи.
func (s *AppointmentService) Create(ctx context.Context, in AppointmentInput) (*model.Appointment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	appt := &model.Appointment{
		ID:           uuid.New(),
		LawyerID:     in.LawyerID,
		ClientID:     in.ClientID,
		CaseID:       in.CaseID,
		Type:         in.Type,
		Status:       model.AppointmentStatusScheduled,
		StartsAt:     in.Start,
		EndsAt:       in.End,
		LocationKind: in.Location.Kind,
		Address:      in.Location.Address,
		Latitude:     in.Location.Latitude,
		Longitude:    in.Location.Longitude,
		MeetingURL:   in.Location.MeetingURL,
		PrivateNotes: in.PrivateNotes,
		SharedNotes:  in.SharedNotes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockLawyerCalendar(tx, in.LawyerID); err != nil {
			return err
		}

		conflicts, err := repository.NewGormAppointmentRepository(tx).
			ListActiveOverlapping(ctx, in.LawyerID, in.Start, in.End, nil)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			tr := schedule.TimeRange{Start: conflicts[0].StartsAt, End: conflicts[0].EndsAt}
			return apperr.Conflict("время уже занято: " + schedule.FormatRangeForUser(tr, nil))
		}

		return tx.Create(appt).Error
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, storeErr("create appointment", err)
	}

	return appt, nil
}

// Reschedule переносит встречу на новый интервал. Сама встреча исключается
// из проверки пересечений, поэтому перенос «на то же время» конфликтом
// не считается.
func (s *AppointmentService) Reschedule(ctx context.Context, id uuid.UUID, start, end time.Time) (*model.Appointment, error) {
	if err := validateInterval(start, end); err != nil {
		return nil, err
	}

	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr("get appointment", "appointment", id.String(), err)
	}
	if !appt.IsActive() {
		return nil, apperr.Invalidf("appointment in status %q cannot be rescheduled", appt.Status)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockLawyerCalendar(tx, appt.LawyerID); err != nil {
			return err
		}

		excludeID := id
		conflicts, err := repository.NewGormAppointmentRepository(tx).
			ListActiveOverlapping(ctx, appt.LawyerID, start, end, &excludeID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			tr := schedule.TimeRange{Start: conflicts[0].StartsAt, End: conflicts[0].EndsAt}
			return apperr.Conflict("время уже занято: " + schedule.FormatRangeForUser(tr, nil))
		}

		return tx.Model(&model.Appointment{}).
			Where("id = ?", id).
			Updates(map[string]any{"starts_at": start, "ends_at": end}).
			Error
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, storeErr("reschedule appointment", err)
	}

	appt.StartsAt = start
	appt.EndsAt = end
	return appt, nil
}

// Confirm переводит scheduled-встречу в confirmed.
func (s *AppointmentService) Confirm(ctx context.Context, id uuid.UUID) error {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return lookupErr("get appointment", "appointment", id.String(), err)
	}
	if appt.Status != model.AppointmentStatusScheduled {
		return apperr.Invalidf("appointment in status %q cannot be confirmed", appt.Status)
	}
	if err := s.appts.UpdateFields(ctx, id, map[string]any{"status": model.AppointmentStatusConfirmed}); err != nil {
		return storeErr("confirm appointment", err)
	}
	return nil
}

// Cancel отменяет активную встречу. Терминальные статусы не отменяются.
func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID) error {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return lookupErr("get appointment", "appointment", id.String(), err)
	}
	if !appt.IsActive() {
		return apperr.Invalidf("appointment in status %q cannot be cancelled", appt.Status)
	}
	if err := s.appts.Cancel(ctx, id); err != nil {
		return storeErr("cancel appointment", err)
	}
	return nil
}

// ListQuery — необязательные фильтры календарного листинга.
type ListQuery struct {
	Type     *model.AppointmentType
	Status   *model.AppointmentStatus
	CaseID   *uuid.UUID
	ClientID *uuid.UUID
}

// List возвращает встречи юриста за период [from, to) с необязательными
// фильтрами по типу, статусу, делу и клиенту. В отличие от календарных
// расчётов сюда попадают и терминальные статусы.
func (s *AppointmentService) List(ctx context.Context, lawyerID uuid.UUID, from, to time.Time, q ListQuery) ([]model.Appointment, error) {
	if lawyerID == uuid.Nil {
		return nil, apperr.Invalid("lawyerId is required")
	}
	if err := validateInterval(from, to); err != nil {
		return nil, err
	}
	if q.Type != nil && !model.ValidAppointmentType(*q.Type) {
		return nil, apperr.Invalidf("unknown appointment type: %q", *q.Type)
	}

	var filters []repository.Filter
	if q.Type != nil {
		filters = append(filters, repository.ByType{Type: *q.Type})
	}
	if q.Status != nil {
		filters = append(filters, repository.ByStatus{Status: *q.Status})
	}
	if q.CaseID != nil {
		filters = append(filters, repository.ByCase{CaseID: *q.CaseID})
	}
	if q.ClientID != nil {
		filters = append(filters, repository.ByClient{ClientID: *q.ClientID})
	}

	appts, err := s.appts.List(ctx, lawyerID, from, to, filters...)
	if err != nil {
		return nil, storeErr("list appointments", err)
	}
	return appts, nil
}

// Get возвращает встречу по ID.
func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr("get appointment", "appointment", id.String(), err)
	}
	return appt, nil
}

// lockLawyerCalendar берёт advisory-блокировку календаря юриста на время
// транзакции. Работает только на postgres; на sqlite (тесты) запись и так
// сериализуется единственным писателем.
func lockLawyerCalendar(tx *gorm.DB, lawyerID uuid.UUID) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", lawyerID.String()).Error
}
