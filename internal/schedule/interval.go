package schedule

import (
	"errors"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrSlotDuration     = errors.New("slot duration must be positive")
)

// TimeRange представляет полуоткрытый интервал [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange создаёт интервал и делает простую валидацию.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Overlaps — единственная точка истины про пересечение интервалов.
// Полуоткрытые [a1,a2) и [b1,b2) пересекаются, если a1 < b2 && b1 < a2;
// касание концами пересечением не считается. Все три формы пересечения
// (начало внутри, конец внутри, полное вложение) сводятся к этому
// неравенству и отдельно не разбираются.
func Overlaps(a, b TimeRange) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// FindOverlaps возвращает интервалы из existing, пересекающиеся с candidate.
// Порядок existing сохраняется.
func FindOverlaps(candidate TimeRange, existing []TimeRange) []TimeRange {
	var conflicts []TimeRange
	for _, tr := range existing {
		if Overlaps(candidate, tr) {
			conflicts = append(conflicts, tr)
		}
	}
	return conflicts
}
