package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexfield/practice-core/internal/model"
)

func day(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func officeLocation() LocationInput {
	addr := "Тверская, 7"
	return LocationInput{Kind: model.LocationKindOffice, Address: &addr}
}

func seedActive(t *testing.T, db *gorm.DB, lawyerID uuid.UUID, start, end time.Time) *model.Appointment {
	t.Helper()

	a := &model.Appointment{
		ID:           uuid.New(),
		LawyerID:     lawyerID,
		ClientID:     uuid.New(),
		Type:         model.AppointmentTypeConsultation,
		Status:       model.AppointmentStatusScheduled,
		StartsAt:     start,
		EndsAt:       end,
		LocationKind: model.LocationKindOffice,
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	return a
}
