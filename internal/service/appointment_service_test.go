package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/lexfield/practice-core/internal/apperr"
	"github.com/lexfield/practice-core/internal/model"
	"github.com/lexfield/practice-core/internal/repository"
	"github.com/lexfield/practice-core/internal/testdb"
)

func newAppointmentService(t *testing.T) (*AppointmentService, *repository.GormAppointmentRepository) {
	t.Helper()
	db := testdb.Open(t)
	repo := repository.NewGormAppointmentRepository(db)
	return NewAppointmentService(db, repo), repo
}

func validInput(lawyerID uuid.UUID) AppointmentInput {
	return AppointmentInput{
		LawyerID: lawyerID,
		ClientID: uuid.New(),
		Type:     model.AppointmentTypeConsultation,
		Location: officeLocation(),
	}
}

func TestAppointmentCreate_HappyPath(t *testing.T) {
	svc, repo := newAppointmentService(t)
	ctx := context.Background()

	in := validInput(uuid.New())
	in.Start = day(t, 10, 0)
	in.End = day(t, 11, 0)

	appt, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != model.AppointmentStatusScheduled {
		t.Fatalf("status = %s, want scheduled", appt.Status)
	}

	stored, err := repo.GetByID(ctx, appt.ID)
	if err != nil {
		t.Fatalf("stored appointment not found: %v", err)
	}
	if !stored.StartsAt.Equal(in.Start) || !stored.EndsAt.Equal(in.End) {
		t.Fatalf("stored interval [%v, %v) differs from input", stored.StartsAt, stored.EndsAt)
	}
}

func TestAppointmentCreate_ConflictRejected(t *testing.T) {
	svc, repo := newAppointmentService(t)
	ctx := context.Background()
	lawyerID := uuid.New()

	in := validInput(lawyerID)
	in.Start = day(t, 10, 0)
	in.End = day(t, 11, 0)
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	in2 := validInput(lawyerID)
	in2.Start = day(t, 10, 30)
	in2.End = day(t, 11, 30)
	_, err := svc.Create(ctx, in2)
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("kind = %v, want CONFLICT (err: %v)", apperr.KindOf(err), err)
	}

	// Конфликтная запись не оставила частичных данных.
	rows, err := repo.ListActiveInRange(ctx, lawyerID, day(t, 0, 0), day(t, 23, 59))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 stored appointment, got %d", len(rows))
	}
}

func TestAppointmentCreate_BackToBackAllowed(t *testing.T) {
	svc, _ := newAppointmentService(t)
	ctx := context.Background()
	lawyerID := uuid.New()

	in := validInput(lawyerID)
	in.Start = day(t, 10, 0)
	in.End = day(t, 11, 0)
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	in2 := validInput(lawyerID)
	in2.Start = day(t, 11, 0)
	in2.End = day(t, 12, 0)
	if _, err := svc.Create(ctx, in2); err != nil {
		t.Fatalf("back-to-back booking must pass: %v", err)
	}
}

func TestAppointmentCreate_Validation(t *testing.T) {
	svc, _ := newAppointmentService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*AppointmentInput)
	}{
		{"nil lawyer", func(in *AppointmentInput) { in.LawyerID = uuid.Nil }},
		{"nil client", func(in *AppointmentInput) { in.ClientID = uuid.Nil }},
		{"unknown type", func(in *AppointmentInput) { in.Type = "lunch" }},
		{"inverted interval", func(in *AppointmentInput) { in.Start, in.End = in.End, in.Start }},
		{"office without address", func(in *AppointmentInput) {
			in.Location = LocationInput{Kind: model.LocationKindOffice}
		}},
		{"online without url", func(in *AppointmentInput) {
			in.Location = LocationInput{Kind: model.LocationKindOnline}
		}},
		{"online with address", func(in *AppointmentInput) {
			addr, u := "Тверская, 7", "https://meet.example/abc"
			in.Location = LocationInput{Kind: model.LocationKindOnline, MeetingURL: &u, Address: &addr}
		}},
		{"lonely latitude", func(in *AppointmentInput) {
			lat := 55.75
			in.Location = LocationInput{Kind: model.LocationKindClientSite, Latitude: &lat}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput(uuid.New())
			in.Start = day(t, 10, 0)
			in.End = day(t, 11, 0)
			tc.mutate(&in)

			_, err := svc.Create(ctx, in)
			if apperr.KindOf(err) != apperr.KindInvalidArgument {
				t.Fatalf("kind = %v, want INVALID_ARGUMENT (err: %v)", apperr.KindOf(err), err)
			}
		})
	}
}

func TestAppointmentReschedule(t *testing.T) {
	svc, repo := newAppointmentService(t)
	ctx := context.Background()
	lawyerID := uuid.New()

	in := validInput(lawyerID)
	in.Start = day(t, 10, 0)
	in.End = day(t, 11, 0)
	appt, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Перенос «на то же время» не конфликтует сам с собой.
	if _, err := svc.Reschedule(ctx, appt.ID, day(t, 10, 0), day(t, 11, 0)); err != nil {
		t.Fatalf("same-slot reschedule: %v", err)
	}

	// Обычный перенос.
	moved, err := svc.Reschedule(ctx, appt.ID, day(t, 14, 0), day(t, 15, 0))
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if !moved.StartsAt.Equal(day(t, 14, 0)) {
		t.Fatalf("moved start = %v, want 14:00", moved.StartsAt)
	}

	stored, _ := repo.GetByID(ctx, appt.ID)
	if !stored.StartsAt.Equal(day(t, 14, 0)) || !stored.EndsAt.Equal(day(t, 15, 0)) {
		t.Fatalf("stored interval [%v, %v), want [14:00, 15:00)", stored.StartsAt, stored.EndsAt)
	}
}

func TestAppointmentReschedule_ConflictWithOther(t *testing.T) {
	svc, _ := newAppointmentService(t)
	ctx := context.Background()
	lawyerID := uuid.New()

	first := validInput(lawyerID)
	first.Start = day(t, 10, 0)
	first.End = day(t, 11, 0)
	a, err := svc.Create(ctx, first)
	if err != nil {
		t.Fatalf("create first: %v", err)
	}

	second := validInput(lawyerID)
	second.Start = day(t, 14, 0)
	second.End = day(t, 15, 0)
	if _, err := svc.Create(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	_, err = svc.Reschedule(ctx, a.ID, day(t, 14, 30), day(t, 15, 30))
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("kind = %v, want CONFLICT (err: %v)", apperr.KindOf(err), err)
	}
}

func TestAppointmentLifecycle_ConfirmAndCancel(t *testing.T) {
	svc, repo := newAppointmentService(t)
	ctx := context.Background()

	in := validInput(uuid.New())
	in.Start = day(t, 10, 0)
	in.End = day(t, 11, 0)
	appt, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Confirm(ctx, appt.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	stored, _ := repo.GetByID(ctx, appt.ID)
	if stored.Status != model.AppointmentStatusConfirmed {
		t.Fatalf("status = %s, want confirmed", stored.Status)
	}

	// Повторное подтверждение — ошибка валидации.
	if err := svc.Confirm(ctx, appt.ID); apperr.KindOf(err) != apperr.KindInvalidArgument {
		t.Fatalf("double confirm: kind = %v, want INVALID_ARGUMENT", apperr.KindOf(err))
	}

	if err := svc.Cancel(ctx, appt.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	stored, _ = repo.GetByID(ctx, appt.ID)
	if stored.Status != model.AppointmentStatusCancelled {
		t.Fatalf("status = %s, want cancelled", stored.Status)
	}

	// Терминальный статус не отменяется повторно.
	if err := svc.Cancel(ctx, appt.ID); apperr.KindOf(err) != apperr.KindInvalidArgument {
		t.Fatalf("double cancel: kind = %v, want INVALID_ARGUMENT", apperr.KindOf(err))
	}
}

func TestAppointmentList_Filters(t *testing.T) {
	svc, _ := newAppointmentService(t)
	ctx := context.Background()
	lawyerID := uuid.New()

	consult := validInput(lawyerID)
	consult.Start = day(t, 9, 0)
	consult.End = day(t, 10, 0)
	if _, err := svc.Create(ctx, consult); err != nil {
		t.Fatalf("create consultation: %v", err)
	}

	court := validInput(lawyerID)
	court.Type = model.AppointmentTypeCourt
	court.Start = day(t, 11, 0)
	court.End = day(t, 12, 0)
	if _, err := svc.Create(ctx, court); err != nil {
		t.Fatalf("create court: %v", err)
	}

	all, err := svc.List(ctx, lawyerID, day(t, 0, 0), day(t, 23, 59), ListQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(all))
	}

	courtType := model.AppointmentTypeCourt
	onlyCourt, err := svc.List(ctx, lawyerID, day(t, 0, 0), day(t, 23, 59), ListQuery{Type: &courtType})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(onlyCourt) != 1 || onlyCourt[0].Type != model.AppointmentTypeCourt {
		t.Fatalf("type filter: %+v", onlyCourt)
	}

	bad := model.AppointmentType("lunch")
	if _, err := svc.List(ctx, lawyerID, day(t, 0, 0), day(t, 23, 59), ListQuery{Type: &bad}); apperr.KindOf(err) != apperr.KindInvalidArgument {
		t.Fatalf("unknown type filter: kind = %v, want INVALID_ARGUMENT", apperr.KindOf(err))
	}
}

func TestAppointmentGet_NotFound(t *testing.T) {
	svc, _ := newAppointmentService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("kind = %v, want NOT_FOUND", apperr.KindOf(err))
	}
}
