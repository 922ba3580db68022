package schedule

import (
	"testing"
	"time"
)

func TestExpandDates_WeeklyUnboundedCapsAtMax(t *testing.T) {
	start := mustTime(t, 2026, 3, 2, 10, 0) // понедельник

	dates, err := ExpandDates(start, Rule{Freq: FreqWeekly, Interval: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != MaxOccurrences {
		t.Fatalf("expected cap of %d dates, got %d", MaxOccurrences, len(dates))
	}
	if !dates[0].Equal(start) {
		t.Fatalf("first date must equal start, got %v", dates[0])
	}
	if got := dates[1].Sub(dates[0]); got != 7*24*time.Hour {
		t.Fatalf("weekly step = %v, want 168h", got)
	}
}

func TestExpandDates_WeeklyWithWeekdaysAndUntil(t *testing.T) {
	// Пн/Ср на протяжении четырёх недель: ровно 8 дат.
	start := mustTime(t, 2026, 3, 2, 10, 0) // понедельник
	until := mustTime(t, 2026, 3, 28, 23, 59)

	dates, err := ExpandDates(start, Rule{
		Freq:     FreqWeekly,
		Interval: 1,
		Weekdays: []time.Weekday{time.Monday, time.Wednesday},
		Until:    &until,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 8 {
		t.Fatalf("expected 8 dates, got %d: %v", len(dates), dates)
	}
	for _, d := range dates {
		if wd := d.Weekday(); wd != time.Monday && wd != time.Wednesday {
			t.Fatalf("date %v has weekday %v, want Mon or Wed", d, wd)
		}
		if d.Hour() != 10 {
			t.Fatalf("time of day must be preserved, got %v", d)
		}
	}
}

func TestExpandDates_WeeklyEveryOtherWeek(t *testing.T) {
	start := mustTime(t, 2026, 3, 2, 10, 0) // понедельник
	count := 3

	dates, err := ExpandDates(start, Rule{
		Freq:     FreqWeekly,
		Interval: 2,
		Weekdays: []time.Weekday{time.Monday},
		Count:    &count,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []time.Time{
		mustTime(t, 2026, 3, 2, 10, 0),
		mustTime(t, 2026, 3, 16, 10, 0),
		mustTime(t, 2026, 3, 30, 10, 0),
	}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %d", len(want), len(dates))
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Fatalf("dates[%d] = %v, want %v", i, dates[i], want[i])
		}
	}
}

func TestExpandDates_DailyWithInterval(t *testing.T) {
	start := mustTime(t, 2026, 3, 2, 9, 0)
	count := 4

	dates, err := ExpandDates(start, Rule{Freq: FreqDaily, Interval: 3, Count: &count})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 4 {
		t.Fatalf("expected 4 dates, got %d", len(dates))
	}
	for i := 1; i < len(dates); i++ {
		if got := dates[i].Sub(dates[i-1]); got != 72*time.Hour {
			t.Fatalf("step between dates = %v, want 72h", got)
		}
	}
}

func TestExpandDates_MonthlyDriftsOnShortMonths(t *testing.T) {
	// 31 января + месяц по AddDate уезжает в март. Дрейф допускается.
	start := mustTime(t, 2026, 1, 31, 15, 0)
	count := 2

	dates, err := ExpandDates(start, Rule{Freq: FreqMonthly, Interval: 1, Count: &count})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(dates))
	}
	if got, want := dates[1], mustTime(t, 2026, 3, 3, 15, 0); !got.Equal(want) {
		t.Fatalf("dates[1] = %v, want %v", got, want)
	}
}

func TestExpandDates_CountZeroIsEmpty(t *testing.T) {
	start := mustTime(t, 2026, 3, 2, 10, 0)
	count := 0

	dates, err := ExpandDates(start, Rule{Freq: FreqDaily, Count: &count})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 0 {
		t.Fatalf("expected no dates, got %d", len(dates))
	}
}

func TestExpandDates_InvalidInput(t *testing.T) {
	if _, err := ExpandDates(time.Time{}, Rule{Freq: FreqDaily}); err == nil {
		t.Fatalf("expected error for zero start")
	}
	if _, err := ExpandDates(mustTime(t, 2026, 3, 2, 10, 0), Rule{Freq: "hourly"}); err == nil {
		t.Fatalf("expected error for unknown frequency")
	}
}
