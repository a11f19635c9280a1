package store

import "time"

// DayWindow returns the UTC calendar-day window containing t:
// [midnight today, midnight tomorrow).
func DayWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// WeekWindow returns the UTC week window containing t:
// [most recent Monday 00:00 UTC, +7 days).
func WeekWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := time.Date(t.Year(), t.Month(), t.Day()-weekday+1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 7)
}
