package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lexfield/practice-core/internal/apperr"
	"github.com/lexfield/practice-core/internal/model"
	"github.com/lexfield/practice-core/internal/repository"
	"github.com/lexfield/practice-core/internal/schedule"
)

// SeriesService управляет жизненным циклом серий повторяющихся встреч:
// создание с генерацией экземпляров, массовое обновление и отмена будущих
// экземпляров. Все многострочные записи идут в одной транзакции.
type SeriesService struct {
	db     *gorm.DB
	series repository.SeriesRepository
	appts  repository.AppointmentRepository
	now    func() time.Time
}

func NewSeriesService(
	db *gorm.DB,
	series repository.SeriesRepository,
	appts repository.AppointmentRepository,
	now func() time.Time,
) *SeriesService {
	if now == nil {
		now = time.Now
	}
	return &SeriesService{db: db, series: series, appts: appts, now: now}
}

// SeriesRule — входное правило повторения.
type SeriesRule struct {
	Frequency model.SeriesFrequency `json:"frequency"`
	Interval  int                   `json:"interval"`
	// Дни недели (0 = воскресенье … 6 = суббота), только для weekly.
	DaysOfWeek  []int      `json:"daysOfWeek,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Occurrences *int       `json:"occurrences,omitempty"`
}

// SeriesTemplate — шаблон встречи, размножаемый по датам правила.
type SeriesTemplate struct {
	LawyerID uuid.UUID  `json:"lawyerId"`
	ClientID uuid.UUID  `json:"clientId"`
	CaseID   *uuid.UUID `json:"caseId,omitempty"`

	Type     model.AppointmentType `json:"type"`
	Location LocationInput         `json:"location"`

	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"durationMinutes"`

	PrivateNotes string `json:"privateNotes,omitempty"`
	SharedNotes  string `json:"sharedNotes,omitempty"`
}

// CreateSeriesResult — серия и её сгенерированные экземпляры.
type CreateSeriesResult struct {
	SeriesID     uuid.UUID           `json:"seriesId"`
	Appointments []model.Appointment `json:"appointments"`
	Count        int                 `json:"count"`
}

// CreateSeries сохраняет правило, разворачивает его в конкретные даты и
// вставляет экземпляры одним пакетом. Строка серии и все экземпляры
// пишутся в одной транзакции: либо всё, либо ничего.
func (s *SeriesService) CreateSeries(ctx context.Context, rule SeriesRule, tpl SeriesTemplate) (*CreateSeriesResult, error) {
	if err := validateParties(tpl.LawyerID, tpl.ClientID); err != nil {
		return nil, err
	}
	if !model.ValidAppointmentType(tpl.Type) {
		return nil, apperr.Invalidf("unknown appointment type: %q", tpl.Type)
	}
	if err := validateLocation(tpl.Location); err != nil {
		return nil, err
	}
	if tpl.Start.IsZero() {
		return nil, apperr.Invalid("start is required")
	}
	if tpl.DurationMinutes <= 0 {
		return nil, apperr.Invalid("durationMinutes must be positive")
	}
	if !model.ValidSeriesFrequency(rule.Frequency) {
		return nil, apperr.Invalidf("unknown frequency: %q", rule.Frequency)
	}
	if rule.EndDate != nil && rule.Occurrences != nil {
		return nil, apperr.Invalid("endDate and occurrences are mutually exclusive")
	}
	for _, d := range rule.DaysOfWeek {
		if d < 0 || d > 6 {
			return nil, apperr.Invalidf("invalid weekday index: %d", d)
		}
	}

	dates, err := schedule.ExpandDates(tpl.Start, toScheduleRule(rule))
	if err != nil {
		return nil, apperr.Invalid(err.Error())
	}
	if len(dates) == 0 {
		return nil, apperr.Invalid("rule generates no occurrences")
	}

	seriesRow := &model.RecurringSeries{
		ID:        uuid.New(),
		LawyerID:  tpl.LawyerID,
		Frequency: rule.Frequency,
		Interval:  maxInt(rule.Interval, 1),
		Status:    model.SeriesStatusActive,
	}
	if len(rule.DaysOfWeek) > 0 {
		seriesRow.DaysOfWeek = datatypes.NewJSONSlice(rule.DaysOfWeek)
	}
	if rule.EndDate != nil {
		d := datatypes.Date(*rule.EndDate)
		seriesRow.EndDate = &d
	}
	if rule.Occurrences != nil {
		n := *rule.Occurrences
		seriesRow.Occurrences = &n
	}

	duration := time.Duration(tpl.DurationMinutes) * time.Minute
	instances := make([]model.Appointment, 0, len(dates))
	for _, start := range dates {
		seriesID := seriesRow.ID
		instances = append(instances, model.Appointment{
			ID:           uuid.New(),
			LawyerID:     tpl.LawyerID,
			ClientID:     tpl.ClientID,
			CaseID:       tpl.CaseID,
			Type:         tpl.Type,
			Status:       model.AppointmentStatusScheduled,
			StartsAt:     start,
			EndsAt:       start.Add(duration),
			LocationKind: tpl.Location.Kind,
			Address:      tpl.Location.Address,
			Latitude:     tpl.Location.Latitude,
			Longitude:    tpl.Location.Longitude,
			MeetingURL:   tpl.Location.MeetingURL,
			PrivateNotes: tpl.PrivateNotes,
			SharedNotes:  tpl.SharedNotes,
			SeriesID:     &seriesID,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(seriesRow).Error; err != nil {
			return err
		}
		if err := tx.Create(&instances).Error; err != nil {
			return err
		}
		return tx.Create(&model.Event{
			ID:        uuid.New(),
			EventType: model.EventTypeSeriesCreated,
			SeriesID:  &seriesRow.ID,
			Details:   fmt.Sprintf("generated %d instances", len(instances)),
		}).Error
	})
	if err != nil {
		return nil, storeErr("create series", err)
	}

	return &CreateSeriesResult{
		SeriesID:     seriesRow.ID,
		Appointments: instances,
		Count:        len(instances),
	}, nil
}

// SeriesUpdate — необязательные поля массового обновления. Время начала и
// стороны через этот путь не меняются.
type SeriesUpdate struct {
	Type         *model.AppointmentType `json:"type,omitempty"`
	LocationKind *model.LocationKind    `json:"locationKind,omitempty"`
	Address      *string                `json:"address,omitempty"`
	Latitude     *float64               `json:"latitude,omitempty"`
	Longitude    *float64               `json:"longitude,omitempty"`
	MeetingURL   *string                `json:"meetingUrl,omitempty"`
	PrivateNotes *string                `json:"privateNotes,omitempty"`
	SharedNotes  *string                `json:"sharedNotes,omitempty"`
}

// UpdateSeries применяет поля только к будущим активным экземплярам
// серии: прошедшие и терминальные экземпляры через этот путь неизменяемы.
func (s *SeriesService) UpdateSeries(ctx context.Context, seriesID uuid.UUID, upd SeriesUpdate) (int64, error) {
	fields := map[string]any{}
	if upd.Type != nil {
		if !model.ValidAppointmentType(*upd.Type) {
			return 0, apperr.Invalidf("unknown appointment type: %q", *upd.Type)
		}
		fields["type"] = *upd.Type
	}
	if upd.LocationKind != nil {
		if !model.ValidLocationKind(*upd.LocationKind) {
			return 0, apperr.Invalidf("unknown location kind: %q", *upd.LocationKind)
		}
		fields["location_kind"] = *upd.LocationKind
	}
	if upd.Address != nil {
		fields["address"] = *upd.Address
	}
	if upd.Latitude != nil {
		fields["latitude"] = *upd.Latitude
	}
	if upd.Longitude != nil {
		fields["longitude"] = *upd.Longitude
	}
	if upd.MeetingURL != nil {
		fields["meeting_url"] = *upd.MeetingURL
	}
	if upd.PrivateNotes != nil {
		fields["private_notes"] = *upd.PrivateNotes
	}
	if upd.SharedNotes != nil {
		fields["shared_notes"] = *upd.SharedNotes
	}
	if len(fields) == 0 {
		return 0, apperr.Invalid("no fields to update")
	}

	if _, err := s.series.GetByID(ctx, seriesID); err != nil {
		return 0, lookupErr("get series", "series", seriesID.String(), err)
	}

	var updated int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Appointment{}).
			Where("series_id = ?", seriesID).
			Where("starts_at >= ?", s.now().UTC()).
			Where("status IN ?", model.ActiveStatuses()).
			Updates(fields)
		updated = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, storeErr("update series instances", err)
	}

	return updated, nil
}

// DeleteSeries отменяет будущие активные экземпляры и переводит серию в
// ended. Прошедшие экземпляры не трогаются — история сохраняется,
// строка серии остаётся инертной записью.
func (s *SeriesService) DeleteSeries(ctx context.Context, seriesID uuid.UUID) (int64, error) {
	if _, err := s.series.GetByID(ctx, seriesID); err != nil {
		return 0, lookupErr("get series", "series", seriesID.String(), err)
	}

	var cancelled int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Appointment{}).
			Where("series_id = ?", seriesID).
			Where("starts_at >= ?", s.now().UTC()).
			Where("status IN ?", model.ActiveStatuses()).
			Update("status", model.AppointmentStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		cancelled = res.RowsAffected

		if err := tx.Model(&model.RecurringSeries{}).
			Where("id = ?", seriesID).
			Update("status", model.SeriesStatusEnded).Error; err != nil {
			return err
		}

		sid := seriesID
		return tx.Create(&model.Event{
			ID:        uuid.New(),
			EventType: model.EventTypeSeriesCancelled,
			SeriesID:  &sid,
			Details:   fmt.Sprintf("cancelled %d future instances", cancelled),
		}).Error
	})
	if err != nil {
		return 0, storeErr("delete series", err)
	}

	return cancelled, nil
}

// ListSeries возвращает все экземпляры серии независимо от статуса,
// по возрастанию начала.
func (s *SeriesService) ListSeries(ctx context.Context, seriesID uuid.UUID) ([]model.Appointment, error) {
	if _, err := s.series.GetByID(ctx, seriesID); err != nil {
		return nil, lookupErr("get series", "series", seriesID.String(), err)
	}

	appts, err := s.series.ListInstances(ctx, seriesID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("list series instances", err)
	}
	return appts, nil
}

func toScheduleRule(rule SeriesRule) schedule.Rule {
	out := schedule.Rule{
		Freq:     schedule.Frequency(rule.Frequency),
		Interval: rule.Interval,
		Until:    rule.EndDate,
		Count:    rule.Occurrences,
	}
	for _, d := range rule.DaysOfWeek {
		out.Weekdays = append(out.Weekdays, time.Weekday(d))
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
