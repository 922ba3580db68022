package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Частота повторения серии.
type SeriesFrequency string

const (
	SeriesFrequencyDaily   SeriesFrequency = "daily"
	SeriesFrequencyWeekly  SeriesFrequency = "weekly"
	SeriesFrequencyMonthly SeriesFrequency = "monthly"
)

func ValidSeriesFrequency(f SeriesFrequency) bool {
	switch f {
	case SeriesFrequencyDaily, SeriesFrequencyWeekly, SeriesFrequencyMonthly:
		return true
	}
	return false
}

// Статус серии: active — экземпляры сопровождаются,
// ended — условие остановки достигнуто или серия удалена.
// Строка серии не удаляется физически, остаётся инертной записью.
type SeriesStatus string

const (
	SeriesStatusActive SeriesStatus = "active"
	SeriesStatusEnded  SeriesStatus = "ended"
)

// recurring_series
type RecurringSeries struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	LawyerID uuid.UUID `gorm:"type:uuid;not null;index"`

	Frequency SeriesFrequency `gorm:"type:varchar(16);not null"`

	// Шаг: каждые Interval дней/недель/месяцев (>= 1).
	Interval int `gorm:"not null;default:1"`

	// Набор дней недели (0 = воскресенье … 6 = суббота), имеет смысл
	// только для weekly.
	DaysOfWeek datatypes.JSONSlice[int] `gorm:"type:jsonb"`

	// Не более одного из EndDate/Occurrences действует как условие
	// остановки; без обоих применяется жёсткий потолок генерации.
	EndDate     *datatypes.Date `gorm:"type:date"`
	Occurrences *int

	Status SeriesStatus `gorm:"type:varchar(16);not null;default:'active';index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Lawyer *Lawyer `gorm:"foreignKey:LawyerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
