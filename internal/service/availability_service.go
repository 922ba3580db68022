package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lexfield/practice-core/internal/apperr"
	"github.com/lexfield/practice-core/internal/schedule"
)

// Длительность слота по умолчанию, минут.
const defaultSlotDurationMin = 60

// AvailabilityService подбирает свободные слоты в рабочем окне дня.
// Оракулом занятости служит ConflictService.
type AvailabilityService struct {
	conflicts *ConflictService
	window    schedule.WorkingWindow
}

func NewAvailabilityService(conflicts *ConflictService, window schedule.WorkingWindow) *AvailabilityService {
	if window.GridMinutes <= 0 {
		window = schedule.DefaultWorkingWindow()
	}
	return &AvailabilityService{conflicts: conflicts, window: window}
}

// FindSlots перечисляет кандидатов длительности durationMinutes на сетке
// рабочего окна дня day и отбрасывает пересекающиеся с активными
// встречами. Календарь юриста трактуется как UTC, пока извне не задана
// политика часовых поясов.
func (s *AvailabilityService) FindSlots(
	ctx context.Context,
	lawyerID uuid.UUID,
	day time.Time,
	durationMinutes int,
) ([]schedule.Slot, error) {
	if lawyerID == uuid.Nil {
		return nil, apperr.Invalid("lawyerId is required")
	}
	if day.IsZero() {
		return nil, apperr.Invalid("date is required")
	}
	if durationMinutes <= 0 {
		durationMinutes = defaultSlotDurationMin
	}

	year, month, dom := day.UTC().Date()
	open := time.Date(year, month, dom, s.window.OpenHour, 0, 0, 0, time.UTC)
	close := time.Date(year, month, dom, s.window.CloseHour, 0, 0, 0, time.UTC)

	// Один запрос занятости на весь день через детектор конфликтов.
	report, err := s.conflicts.CheckConflicts(ctx, lawyerID, open, close, nil)
	if err != nil {
		return nil, err
	}

	busy := make([]schedule.TimeRange, 0, len(report.Conflicts))
	for _, a := range report.Conflicts {
		busy = append(busy, schedule.TimeRange{Start: a.StartsAt, End: a.EndsAt})
	}

	slots, err := schedule.EnumerateSlots(open, s.window, time.Duration(durationMinutes)*time.Minute, busy)
	if err != nil {
		return nil, apperr.Invalid(err.Error())
	}
	return slots, nil
}
