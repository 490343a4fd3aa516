package model

import (
	"errors"
	"testing"
	"time"
)

// 2026-02-09 is a Monday.
func localDate(t *testing.T, day int, hour, min int) time.Time {
	t.Helper()
	return time.Date(2026, 2, day, hour, min, 0, 0, time.Local)
}

func TestNextOccurrenceLaterSameWeek(t *testing.T) {
	sched := WeeklySchedule{Hour: 8, Minute: 30, Weekdays: []int{2, 4, 6}, Enabled: true} // Mon/Wed/Fri
	after := localDate(t, 12, 9, 0)                                                       // Thursday 09:00

	next, ok := sched.NextOccurrence(after, after)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	if next.Weekday() != time.Friday || next.Format("2006-01-02 15:04") != "2026-02-13 08:30" {
		t.Fatalf("unexpected next occurrence: %s", next.Format(time.RFC3339))
	}
}

func TestNextOccurrenceSameDayTimeNotPassed(t *testing.T) {
	sched := WeeklySchedule{Hour: 8, Minute: 30, Weekdays: []int{2, 4, 6}, Enabled: true}
	after := localDate(t, 13, 8, 0) // Friday 08:00

	next, ok := sched.NextOccurrence(after, after)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	if next.Format("2006-01-02 15:04") != "2026-02-13 08:30" {
		t.Fatalf("unexpected next occurrence: %s", next.Format(time.RFC3339))
	}
}

func TestNextOccurrenceWrapsToNextWeek(t *testing.T) {
	sched := WeeklySchedule{Hour: 9, Minute: 0, Weekdays: []int{2}, Enabled: true} // Monday
	after := localDate(t, 10, 10, 0)                                               // Tuesday

	next, ok := sched.NextOccurrence(after, after)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	if next.Weekday() != time.Monday || next.Format("2006-01-02") != "2026-02-16" {
		t.Fatalf("expected next Monday, got %s", next.Format(time.RFC3339))
	}
}

func TestNextOccurrenceSameWeekdayAfterTimePassed(t *testing.T) {
	sched := WeeklySchedule{Hour: 9, Minute: 0, Weekdays: []int{2}, Enabled: true}
	after := localDate(t, 9, 9, 30) // Monday, past 09:00

	next, ok := sched.NextOccurrence(after, after)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	if next.Format("2006-01-02 15:04") != "2026-02-16 09:00" {
		t.Fatalf("expected Monday next week, got %s", next.Format(time.RFC3339))
	}
}

func TestNextOccurrenceStrictlyAfterReference(t *testing.T) {
	sched := WeeklySchedule{Hour: 9, Minute: 0, Weekdays: []int{2}, Enabled: true}
	after := localDate(t, 9, 9, 0) // exactly 09:00 Monday

	next, ok := sched.NextOccurrence(after, after)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	if !next.After(after) {
		t.Fatalf("occurrence %s is not strictly after reference %s", next, after)
	}
}

func TestNextOccurrenceRecomputesFromStaleReference(t *testing.T) {
	sched := WeeklySchedule{Hour: 9, Minute: 0, Weekdays: []int{2}, Enabled: true}
	after := localDate(t, 2, 8, 0)  // Monday two weeks back
	now := localDate(t, 12, 12, 0) // Thursday

	next, ok := sched.NextOccurrence(after, now)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	if !next.After(now) {
		t.Fatalf("occurrence %s is not in the future relative to now %s", next, now)
	}
	if next.Format("2006-01-02 15:04") != "2026-02-16 09:00" {
		t.Fatalf("unexpected recomputed occurrence: %s", next.Format(time.RFC3339))
	}
}

func TestNextOccurrenceEndDateInclusive(t *testing.T) {
	end := localDate(t, 13, 0, 0) // Friday
	sched := WeeklySchedule{Hour: 8, Minute: 30, Weekdays: []int{6}, Enabled: true, EndDate: &end}

	next, ok := sched.NextOccurrence(localDate(t, 12, 9, 0), localDate(t, 12, 9, 0))
	if !ok {
		t.Fatal("expected occurrence landing exactly on the end date")
	}
	if next.Format("2006-01-02") != "2026-02-13" {
		t.Fatalf("unexpected occurrence: %s", next.Format(time.RFC3339))
	}

	if _, ok := sched.NextOccurrence(localDate(t, 13, 9, 0), localDate(t, 13, 9, 0)); ok {
		t.Fatal("expected no occurrence past the end date")
	}
}

func TestNextOccurrenceDisabledOrEmpty(t *testing.T) {
	after := localDate(t, 9, 8, 0)
	if _, ok := (WeeklySchedule{Hour: 9, Weekdays: []int{2}, Enabled: false}).NextOccurrence(after, after); ok {
		t.Fatal("disabled schedule produced an occurrence")
	}
	if _, ok := (WeeklySchedule{Hour: 9, Enabled: true}).NextOccurrence(after, after); ok {
		t.Fatal("empty weekday set produced an occurrence")
	}
}

func TestOccursOn(t *testing.T) {
	end := localDate(t, 11, 0, 0) // Wednesday
	sched := WeeklySchedule{Hour: 8, Minute: 30, Weekdays: []int{2, 4}, Enabled: true, EndDate: &end}

	if !sched.OccursOn(localDate(t, 9, 15, 0)) { // Monday, within range
		t.Fatal("expected occurrence on Monday")
	}
	if sched.OccursOn(localDate(t, 10, 15, 0)) { // Tuesday, not in set
		t.Fatal("unexpected occurrence on Tuesday")
	}
	if !sched.OccursOn(localDate(t, 11, 15, 0)) { // Wednesday, end date itself
		t.Fatal("expected occurrence on the end date")
	}
	if sched.OccursOn(localDate(t, 18, 15, 0)) { // Wednesday after end date
		t.Fatal("unexpected occurrence past the end date")
	}
}

func TestScheduleValidate(t *testing.T) {
	if err := (WeeklySchedule{Hour: 24, Minute: 0, Weekdays: []int{1}, Enabled: true}).Validate(); !errors.Is(err, ErrInvalidClockTime) {
		t.Fatalf("expected ErrInvalidClockTime, got %v", err)
	}
	if err := (WeeklySchedule{Hour: 9, Minute: 0, Weekdays: []int{8}, Enabled: true}).Validate(); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
	if err := (WeeklySchedule{Hour: 9, Minute: 0, Enabled: true}).Validate(); !errors.Is(err, ErrNoWeekdays) {
		t.Fatalf("expected ErrNoWeekdays, got %v", err)
	}
	if err := (WeeklySchedule{Hour: 9, Minute: 0, Weekdays: []int{3, 3}, Enabled: true}).Validate(); err == nil {
		t.Fatal("expected duplicate weekday error")
	}
	if err := (WeeklySchedule{Hour: 9, Minute: 0, Weekdays: []int{1, 7}, Enabled: true}).Validate(); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}
}

func TestAddDaysKeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	// 2026-03-08 is the spring-forward date in America/New_York.
	before := time.Date(2026, 3, 7, 8, 30, 0, 0, loc)
	after := AddDays(before, 1)
	if after.Hour() != 8 || after.Minute() != 30 {
		t.Fatalf("wall clock shifted across DST: %s", after)
	}
	if !SameDay(after, time.Date(2026, 3, 8, 23, 0, 0, 0, loc)) {
		t.Fatalf("unexpected day after DST step: %s", after)
	}
}
