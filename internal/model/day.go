package model

import "time"

// DayKey returns the start-of-day instant identifying the local calendar day
// containing t. Every per-day lookup in the ledger keys on this value.
func DayKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	return DayKey(a).Equal(DayKey(b))
}

// AddDays steps n calendar days in year/month/day units, preserving the
// wall-clock time. Stepping in calendar units rather than adding 24h
// durations keeps the clock time stable across DST transitions.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// Weekday numbering persisted by the ledger: 1 = Sunday … 7 = Saturday.
const (
	WeekdaySunday   = 1
	WeekdaySaturday = 7
)

func WeekdayOf(t time.Time) int {
	return int(t.Weekday()) + 1
}
