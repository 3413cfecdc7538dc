package dateutil

import "time"

// Day truncates a time to its calendar date in the given location. All streak
// logic compares calendar dates, never 24h durations, so crossing a DST
// boundary cannot split or merge days.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether two times fall on the same calendar date.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return Day(a, loc).Equal(Day(b, loc))
}

// IsYesterday reports whether last falls exactly one calendar day before now.
func IsYesterday(last, now time.Time, loc *time.Location) bool {
	return Day(last, loc).AddDate(0, 0, 1).Equal(Day(now, loc))
}
