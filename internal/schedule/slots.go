package schedule

import (
	"fmt"
	"time"
)

// WorkingWindow — рабочее окно дня, внутри которого подбираются слоты.
type WorkingWindow struct {
	OpenHour    int
	CloseHour   int
	GridMinutes int
}

// DefaultWorkingWindow — 09:00–18:00, сетка 30 минут.
func DefaultWorkingWindow() WorkingWindow {
	return WorkingWindow{OpenHour: 9, CloseHour: 18, GridMinutes: 30}
}

// Slot — кандидат свободного времени.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// EnumerateSlots перебирает кандидатов длительности duration, начинающихся
// на сетке window.GridMinutes внутри рабочего окна дня day, и отбрасывает
// пересекающиеся с busy. Это перечисление по сетке, а не слияние свободных
// промежутков: два смежных свободных интервала дают несколько кандидатов,
// а не одно большое окно. Порядок хронологический.
func EnumerateSlots(day time.Time, window WorkingWindow, duration time.Duration, busy []TimeRange) ([]Slot, error) {
	if duration <= 0 {
		return nil, ErrSlotDuration
	}

	year, month, dom := day.Date()
	loc := day.Location()
	open := time.Date(year, month, dom, window.OpenHour, 0, 0, 0, loc)
	close := time.Date(year, month, dom, window.CloseHour, 0, 0, 0, loc)

	grid := time.Duration(window.GridMinutes) * time.Minute
	if grid <= 0 {
		grid = 30 * time.Minute
	}

	slots := make([]Slot, 0)
	for cur := open; cur.Before(close); cur = cur.Add(grid) {
		end := cur.Add(duration)
		// Кандидат не должен вылезать за закрытие окна.
		if end.After(close) {
			break
		}
		candidate := TimeRange{Start: cur, End: end}
		if len(FindOverlaps(candidate, busy)) > 0 {
			continue
		}
		slots = append(slots, Slot{
			Start: cur,
			End:   end,
			Label: fmt.Sprintf("%s–%s", cur.Format("15:04"), end.Format("15:04")),
		})
	}

	return slots, nil
}
