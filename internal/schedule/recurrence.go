package schedule

import (
	"errors"
	"time"
)

type Frequency string

const (
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
)

// MaxOccurrences — жёсткий потолок генерации, когда правило не ограничено
// ни Until, ни Count.
const MaxOccurrences = 52

// Rule — правило повторения серии встреч.
type Rule struct {
	Freq Frequency
	// Шаг: каждые Interval дней/недель/месяцев (>= 1).
	Interval int
	// Дни недели для weekly; пустой набор — без фильтра.
	Weekdays []time.Weekday
	// Опционально: последняя допустимая дата начала (включительно).
	Until *time.Time
	// Опционально: максимальное количество сгенерированных дат.
	Count *int
}

// ExpandDates разворачивает правило в конкретные даты начала встреч,
// начиная со start (первая дата всегда кандидат).
//
// Месячный шаг использует наивную арифметику AddDate: 31 января плюс месяц
// уезжает в начало марта. Дрейф по коротким месяцам допускается сознательно.
func ExpandDates(start time.Time, rule Rule) ([]time.Time, error) {
	if start.IsZero() {
		return nil, errors.New("recurrence: start is required")
	}
	if !ValidFrequency(rule.Freq) {
		return nil, errors.New("recurrence: unknown frequency")
	}
	if rule.Interval <= 0 {
		rule.Interval = 1
	}
	if rule.Count != nil && *rule.Count <= 0 {
		return []time.Time{}, nil
	}

	// Потолок количества: Count, иначе — защитный MaxOccurrences,
	// когда правило не ограничено вовсе.
	cap := MaxOccurrences
	if rule.Count != nil {
		cap = *rule.Count
	} else if rule.Until != nil {
		cap = 0 // не ограничиваем количеством, остановит Until
	}

	if rule.Freq == FreqWeekly && len(rule.Weekdays) > 0 {
		return expandWeeklyFiltered(start, rule, cap)
	}

	var dates []time.Time
	for cur := start; ; cur = nextOccurrence(rule, cur) {
		if rule.Until != nil && cur.After(*rule.Until) {
			break
		}
		dates = append(dates, cur)
		if cap > 0 && len(dates) >= cap {
			break
		}
	}

	return dates, nil
}

// expandWeeklyFiltered идёт по дням и оставляет только даты, чей день
// недели входит в набор, а неделя попадает на шаг Interval. При нескольких
// днях недели расстояния между датами получаются неравномерными — так и
// задумано.
func expandWeeklyFiltered(start time.Time, rule Rule, cap int) ([]time.Time, error) {
	if cap <= 0 && rule.Until == nil {
		cap = MaxOccurrences
	}

	weekAnchor := startOfWeek(start)

	var dates []time.Time
	for cur := start; ; cur = cur.AddDate(0, 0, 1) {
		if rule.Until != nil && cur.After(*rule.Until) {
			break
		}

		weeks := int(startOfWeek(cur).Sub(weekAnchor).Hours() / 24 / 7)
		if weeks%rule.Interval == 0 && containsWeekday(rule.Weekdays, cur.Weekday()) {
			dates = append(dates, cur)
			if cap > 0 && len(dates) >= cap {
				break
			}
		}
	}

	return dates, nil
}

func nextOccurrence(rule Rule, cur time.Time) time.Time {
	switch rule.Freq {
	case FreqDaily:
		return cur.AddDate(0, 0, rule.Interval)
	case FreqWeekly:
		return cur.AddDate(0, 0, 7*rule.Interval)
	case FreqMonthly:
		return cur.AddDate(0, rule.Interval, 0)
	default:
		return cur.AddDate(0, 0, rule.Interval)
	}
}

func ValidFrequency(f Frequency) bool {
	switch f {
	case FreqDaily, FreqWeekly, FreqMonthly:
		return true
	}
	return false
}

func containsWeekday(list []time.Weekday, w time.Weekday) bool {
	for _, d := range list {
		if d == w {
			return true
		}
	}
	return false
}

// startOfWeek возвращает понедельник недели, содержащей t (дата без времени).
func startOfWeek(t time.Time) time.Time {
	year, month, day := t.Date()
	d := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
