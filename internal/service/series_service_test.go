package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexfield/practice-core/internal/apperr"
	"github.com/lexfield/practice-core/internal/model"
	"github.com/lexfield/practice-core/internal/repository"
	"github.com/lexfield/practice-core/internal/testdb"
)

func newSeriesService(t *testing.T, now func() time.Time) (*SeriesService, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	svc := NewSeriesService(
		db,
		repository.NewGormSeriesRepository(db),
		repository.NewGormAppointmentRepository(db),
		now,
	)
	return svc, db
}

func weeklyRule(count int) SeriesRule {
	return SeriesRule{
		Frequency:   model.SeriesFrequencyWeekly,
		Interval:    1,
		Occurrences: &count,
	}
}

func seriesTemplate(t *testing.T, lawyerID uuid.UUID) SeriesTemplate {
	t.Helper()
	return SeriesTemplate{
		LawyerID:        lawyerID,
		ClientID:        uuid.New(),
		Type:            model.AppointmentTypeConsultation,
		Location:        officeLocation(),
		Start:           day(t, 10, 0), // понедельник 2026-03-02
		DurationMinutes: 60,
	}
}

func TestCreateSeries_GeneratesInstancesInOneTransaction(t *testing.T) {
	svc, db := newSeriesService(t, nil)
	ctx := context.Background()
	lawyerID := uuid.New()

	res, err := svc.CreateSeries(ctx, weeklyRule(4), seriesTemplate(t, lawyerID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 4 || len(res.Appointments) != 4 {
		t.Fatalf("expected 4 instances, got %+v", res)
	}

	for i, a := range res.Appointments {
		if a.SeriesID == nil || *a.SeriesID != res.SeriesID {
			t.Fatalf("instance %d is not linked to series", i)
		}
		if a.EndsAt.Sub(a.StartsAt) != time.Hour {
			t.Fatalf("instance %d duration = %v, want 1h", i, a.EndsAt.Sub(a.StartsAt))
		}
		want := day(t, 10, 0).AddDate(0, 0, 7*i)
		if !a.StartsAt.Equal(want) {
			t.Fatalf("instance %d starts at %v, want %v", i, a.StartsAt, want)
		}
	}

	// Строка серии активна, событие создания записано.
	var series model.RecurringSeries
	if err := db.First(&series, "id = ?", res.SeriesID).Error; err != nil {
		t.Fatalf("series row missing: %v", err)
	}
	if series.Status != model.SeriesStatusActive {
		t.Fatalf("series status = %s, want active", series.Status)
	}

	var events int64
	db.Model(&model.Event{}).
		Where("series_id = ? AND event_type = ?", res.SeriesID, model.EventTypeSeriesCreated).
		Count(&events)
	if events != 1 {
		t.Fatalf("expected 1 series_created event, got %d", events)
	}
}

func TestCreateSeries_Validation(t *testing.T) {
	svc, _ := newSeriesService(t, nil)
	ctx := context.Background()
	lawyerID := uuid.New()

	// endDate и occurrences взаимоисключающие.
	end := day(t, 23, 59).AddDate(0, 1, 0)
	n := 5
	rule := SeriesRule{Frequency: model.SeriesFrequencyWeekly, EndDate: &end, Occurrences: &n}
	if _, err := svc.CreateSeries(ctx, rule, seriesTemplate(t, lawyerID)); apperr.KindOf(err) != apperr.KindInvalidArgument {
		t.Fatalf("both bounds: kind = %v, want INVALID_ARGUMENT", apperr.KindOf(err))
	}

	// Индекс дня недели вне 0–6.
	rule = weeklyRule(4)
	rule.DaysOfWeek = []int{7}
	if _, err := svc.CreateSeries(ctx, rule, seriesTemplate(t, lawyerID)); apperr.KindOf(err) != apperr.KindInvalidArgument {
		t.Fatalf("bad weekday: kind = %v, want INVALID_ARGUMENT", apperr.KindOf(err))
	}

	// Неизвестная частота.
	rule = SeriesRule{Frequency: "hourly"}
	if _, err := svc.CreateSeries(ctx, rule, seriesTemplate(t, lawyerID)); apperr.KindOf(err) != apperr.KindInvalidArgument {
		t.Fatalf("bad frequency: kind = %v, want INVALID_ARGUMENT", apperr.KindOf(err))
	}

	// Нулевая длительность.
	tpl := seriesTemplate(t, lawyerID)
	tpl.DurationMinutes = 0
	if _, err := svc.CreateSeries(ctx, weeklyRule(4), tpl); apperr.KindOf(err) != apperr.KindInvalidArgument {
		t.Fatalf("zero duration: kind = %v, want INVALID_ARGUMENT", apperr.KindOf(err))
	}
}

func TestCreateSeries_UnboundedCapsGeneration(t *testing.T) {
	svc, _ := newSeriesService(t, nil)
	ctx := context.Background()

	rule := SeriesRule{Frequency: model.SeriesFrequencyWeekly, Interval: 1}
	res, err := svc.CreateSeries(ctx, rule, seriesTemplate(t, uuid.New()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 52 {
		t.Fatalf("unbounded weekly series must cap at 52 instances, got %d", res.Count)
	}
}

func TestUpdateSeries_TouchesOnlyFutureActive(t *testing.T) {
	// «Сейчас» — полдень понедельника: первый экземпляр (10:00) уже в прошлом.
	now := func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }
	svc, db := newSeriesService(t, now)
	ctx := context.Background()

	res, err := svc.CreateSeries(ctx, weeklyRule(4), seriesTemplate(t, uuid.New()))
	if err != nil {
		t.Fatalf("create series: %v", err)
	}

	notes := "перенесли в переговорную"
	updated, err := svc.UpdateSeries(ctx, res.SeriesID, SeriesUpdate{SharedNotes: &notes})
	if err != nil {
		t.Fatalf("update series: %v", err)
	}
	if updated != 3 {
		t.Fatalf("expected 3 future instances updated, got %d", updated)
	}

	var rows []model.Appointment
	if err := db.Where("series_id = ?", res.SeriesID).Order("starts_at ASC").Find(&rows).Error; err != nil {
		t.Fatalf("load instances: %v", err)
	}
	if rows[0].SharedNotes != "" {
		t.Fatalf("past instance must stay untouched, got notes %q", rows[0].SharedNotes)
	}
	for _, a := range rows[1:] {
		if a.SharedNotes != notes {
			t.Fatalf("future instance %s missing update", a.ID)
		}
	}
}

func TestUpdateSeries_NoFieldsAndNotFound(t *testing.T) {
	svc, _ := newSeriesService(t, nil)
	ctx := context.Background()

	if _, err := svc.UpdateSeries(ctx, uuid.New(), SeriesUpdate{}); apperr.KindOf(err) != apperr.KindInvalidArgument {
		t.Fatalf("empty update: kind = %v, want INVALID_ARGUMENT", apperr.KindOf(err))
	}

	notes := "x"
	if _, err := svc.UpdateSeries(ctx, uuid.New(), SeriesUpdate{SharedNotes: &notes}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("missing series: kind = %v, want NOT_FOUND", apperr.KindOf(err))
	}
}

func TestDeleteSeries_CancelsFutureKeepsHistory(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }
	svc, db := newSeriesService(t, now)
	ctx := context.Background()

	res, err := svc.CreateSeries(ctx, weeklyRule(4), seriesTemplate(t, uuid.New()))
	if err != nil {
		t.Fatalf("create series: %v", err)
	}

	cancelled, err := svc.DeleteSeries(ctx, res.SeriesID)
	if err != nil {
		t.Fatalf("delete series: %v", err)
	}
	if cancelled != 3 {
		t.Fatalf("expected 3 cancelled future instances, got %d", cancelled)
	}

	var rows []model.Appointment
	if err := db.Where("series_id = ?", res.SeriesID).Order("starts_at ASC").Find(&rows).Error; err != nil {
		t.Fatalf("load instances: %v", err)
	}
	if rows[0].Status != model.AppointmentStatusScheduled {
		t.Fatalf("past instance must keep its status, got %s", rows[0].Status)
	}
	for _, a := range rows[1:] {
		if a.Status != model.AppointmentStatusCancelled {
			t.Fatalf("future instance %s has status %s, want cancelled", a.ID, a.Status)
		}
	}

	// Серия переведена в ended, но строка не удалена.
	var series model.RecurringSeries
	if err := db.First(&series, "id = ?", res.SeriesID).Error; err != nil {
		t.Fatalf("series row must survive deletion: %v", err)
	}
	if series.Status != model.SeriesStatusEnded {
		t.Fatalf("series status = %s, want ended", series.Status)
	}

	var events int64
	db.Model(&model.Event{}).
		Where("series_id = ? AND event_type = ?", res.SeriesID, model.EventTypeSeriesCancelled).
		Count(&events)
	if events != 1 {
		t.Fatalf("expected 1 series_cancelled event, got %d", events)
	}
}

func TestListSeries(t *testing.T) {
	svc, _ := newSeriesService(t, nil)
	ctx := context.Background()

	res, err := svc.CreateSeries(ctx, weeklyRule(3), seriesTemplate(t, uuid.New()))
	if err != nil {
		t.Fatalf("create series: %v", err)
	}

	appts, err := svc.ListSeries(ctx, res.SeriesID)
	if err != nil {
		t.Fatalf("list series: %v", err)
	}
	if len(appts) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(appts))
	}
	for i := 1; i < len(appts); i++ {
		if appts[i].StartsAt.Before(appts[i-1].StartsAt) {
			t.Fatalf("instances must be ordered by start")
		}
	}

	if _, err := svc.ListSeries(ctx, uuid.New()); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("missing series: kind = %v, want NOT_FOUND", apperr.KindOf(err))
	}
}
