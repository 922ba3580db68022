package schedule

import (
	"fmt"
	"time"
)

var ruWeekdays = map[time.Weekday]string{
	time.Monday:    "Понедельник",
	time.Tuesday:   "Вторник",
	time.Wednesday: "Среда",
	time.Thursday:  "Четверг",
	time.Friday:    "Пятница",
	time.Saturday:  "Суббота",
	time.Sunday:    "Воскресенье",
}

// FormatRangeForUser форматирует интервал в человекочитаемую строку.
// Если loc != nil, время переводится в указанный часовой пояс.
func FormatRangeForUser(tr TimeRange, loc *time.Location) string {
	start := tr.Start
	end := tr.End

	if loc != nil {
		start = start.In(loc)
		end = end.In(loc)
	}

	weekday := ruWeekdays[start.Weekday()]
	// Дата в формате ДД.ММ.ГГГГ, время в формате ЧЧ:ММ.
	return fmt.Sprintf("%s, %s, %s–%s",
		weekday,
		start.Format("02.01.2006"),
		start.Format("15:04"),
		end.Format("15:04"),
	)
}
