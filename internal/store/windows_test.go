package store

import (
	"testing"
	"time"
)

func TestDayWindow(t *testing.T) {
	now := time.Date(2025, 3, 14, 18, 42, 7, 0, time.UTC)
	start, end := DayWindow(now)
	if !start.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day start = %v", start)
	}
	if !end.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day end = %v", end)
	}
}

func TestDayWindow_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 22:30 local on the 14th is already the 15th in UTC.
	now := time.Date(2025, 3, 14, 22, 30, 0, 0, loc)
	start, _ := DayWindow(now)
	if !start.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day start = %v, want UTC day of the instant", start)
	}
}

func TestWeekWindow(t *testing.T) {
	cases := []struct {
		now       time.Time
		wantStart time.Time
	}{
		// Wednesday
		{time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		// Monday itself
		{time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		// Sunday belongs to the week started the previous Monday
		{time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		start, end := WeekWindow(tc.now)
		if !start.Equal(tc.wantStart) {
			t.Fatalf("WeekWindow(%v) start = %v, want %v", tc.now, start, tc.wantStart)
		}
		if !end.Equal(tc.wantStart.AddDate(0, 0, 7)) {
			t.Fatalf("WeekWindow(%v) end = %v", tc.now, end)
		}
	}
}
