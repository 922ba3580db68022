package model

import (
	"time"

	"github.com/google/uuid"
)

// Статус встречи.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// ActiveStatuses — статусы, участвующие в проверке конфликтов,
// подборе слотов и построении маршрута.
func ActiveStatuses() []AppointmentStatus {
	return []AppointmentStatus{AppointmentStatusScheduled, AppointmentStatusConfirmed}
}

// Тип встречи.
type AppointmentType string

const (
	AppointmentTypeConsultation  AppointmentType = "consultation"
	AppointmentTypeCourt         AppointmentType = "court"
	AppointmentTypeClientMeeting AppointmentType = "client_meeting"
	AppointmentTypeExpertReview  AppointmentType = "expert_review"
	AppointmentTypeMediation     AppointmentType = "mediation"
	AppointmentTypeOther         AppointmentType = "other"
)

// ValidAppointmentType проверяет значение перечисления.
func ValidAppointmentType(t AppointmentType) bool {
	switch t {
	case AppointmentTypeConsultation, AppointmentTypeCourt, AppointmentTypeClientMeeting,
		AppointmentTypeExpertReview, AppointmentTypeMediation, AppointmentTypeOther:
		return true
	}
	return false
}

// Вид места проведения встречи.
type LocationKind string

const (
	LocationKindOffice     LocationKind = "office"
	LocationKindCourt      LocationKind = "court"
	LocationKindClientSite LocationKind = "client_site"
	LocationKindOnline     LocationKind = "online"
)

func ValidLocationKind(k LocationKind) bool {
	switch k {
	case LocationKindOffice, LocationKindCourt, LocationKindClientSite, LocationKindOnline:
		return true
	}
	return false
}

// Вид окна напоминания.
type ReminderKind string

const (
	// За сутки до встречи.
	ReminderKindLong ReminderKind = "24h"
	// За два часа до встречи.
	ReminderKindShort ReminderKind = "2h"
)

// appointments
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	LawyerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClientID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CaseID   *uuid.UUID `gorm:"type:uuid;index"`

	Type   AppointmentType   `gorm:"type:varchar(32);not null"`
	Status AppointmentStatus `gorm:"type:varchar(32);not null;default:'scheduled';index"`

	StartsAt time.Time `gorm:"type:timestamp with time zone;not null;index"`
	EndsAt   time.Time `gorm:"type:timestamp with time zone;not null"`

	// Для физических видов места заполняются Address/Latitude/Longitude,
	// для online — MeetingURL. Ровно одно представление соответствует LocationKind.
	LocationKind LocationKind `gorm:"type:varchar(32);not null"`
	Address      *string      `gorm:"type:text"`
	Latitude     *float64
	Longitude    *float64
	MeetingURL   *string `gorm:"type:text"`

	// Приватные заметки видны только юристу, общие — обеим сторонам.
	PrivateNotes string `gorm:"type:text"`
	SharedNotes  string `gorm:"type:text"`

	// Связь с серией повторяющихся встреч; nil для разовых.
	SeriesID *uuid.UUID `gorm:"type:uuid;index"`

	// Флаги напоминаний монотонные: выставленный флаг никогда не сбрасывается.
	Reminder24hSent   bool       `gorm:"not null;default:false"`
	Reminder24hSentAt *time.Time `gorm:"type:timestamp with time zone"`
	Reminder2hSent    bool       `gorm:"not null;default:false"`
	Reminder2hSentAt  *time.Time `gorm:"type:timestamp with time zone"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// Навигационные поля (опционально, удобно для Preload).
	Lawyer *Lawyer          `gorm:"foreignKey:LawyerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Client *Client          `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Case   *Case            `gorm:"foreignKey:CaseID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Series *RecurringSeries `gorm:"foreignKey:SeriesID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// IsActive — участвует ли встреча в календарных расчётах.
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentStatusScheduled || a.Status == AppointmentStatusConfirmed
}

// HasCoordinates — заданы ли географические координаты.
func (a *Appointment) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// ReminderSent возвращает состояние флага для окна kind.
func (a *Appointment) ReminderSent(kind ReminderKind) bool {
	if kind == ReminderKindShort {
		return a.Reminder2hSent
	}
	return a.Reminder24hSent
}
