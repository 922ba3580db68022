package model

import (
	"time"

	"github.com/google/uuid"
)

// Тип события аудита.
type EventType string

const (
	EventTypeSeriesCreated   EventType = "series_created"
	EventTypeSeriesCancelled EventType = "series_cancelled"
	EventTypeSweepCompleted  EventType = "sweep_completed"
	EventTypeReminderSent    EventType = "reminder_sent"
)

// events — события аудита
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`

	AppointmentID *uuid.UUID `gorm:"type:uuid;index"`
	SeriesID      *uuid.UUID `gorm:"type:uuid;index"`

	Details string `gorm:"type:text"`

	// Навигационные поля
	Appointment *Appointment     `gorm:"foreignKey:AppointmentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Series      *RecurringSeries `gorm:"foreignKey:SeriesID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}
