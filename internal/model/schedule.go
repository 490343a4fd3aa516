package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidClockTime = errors.New("model: invalid schedule clock time")
	ErrInvalidWeekday   = errors.New("model: invalid schedule weekday")
	ErrNoWeekdays       = errors.New("model: enabled schedule requires at least one weekday")
)

// WeeklySchedule fires at Hour:Minute local time on each listed weekday.
// EndDate, when set, is the last calendar day (inclusive) the schedule is
// valid for.
type WeeklySchedule struct {
	Hour     int
	Minute   int
	Weekdays []int
	Enabled  bool
	EndDate  *time.Time
}

func (s WeeklySchedule) Validate() error {
	if s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidClockTime, s.Hour, s.Minute)
	}
	seen := make(map[int]bool, len(s.Weekdays))
	for _, d := range s.Weekdays {
		if d < WeekdaySunday || d > WeekdaySaturday {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, d)
		}
		if seen[d] {
			return fmt.Errorf("model: duplicate weekday in schedule: %d", d)
		}
		seen[d] = true
	}
	if s.Enabled && len(s.Weekdays) == 0 {
		return ErrNoWeekdays
	}
	return nil
}

// NextOccurrence returns the smallest instant strictly after `after` at which
// the schedule fires. ok is false when the schedule is disabled, has no
// weekdays, or every remaining candidate falls past EndDate. A candidate that
// is not strictly in the future relative to `now` (stale `after`) triggers a
// recompute from `now`, so the result is always strictly ahead of the caller's
// wall clock.
func (s WeeklySchedule) NextOccurrence(after, now time.Time) (time.Time, bool) {
	if !s.Enabled || len(s.Weekdays) == 0 {
		return time.Time{}, false
	}
	next, ok := s.nextAfter(after)
	if ok && !next.After(now) {
		next, ok = s.nextAfter(now)
	}
	return next, ok
}

// OccursOn reports whether the schedule has an occurrence on the calendar day
// containing `day`.
func (s WeeklySchedule) OccursOn(day time.Time) bool {
	if !s.Enabled || len(s.Weekdays) == 0 {
		return false
	}
	if !s.weekdaySet()[WeekdayOf(day)] {
		return false
	}
	if s.EndDate != nil && DayKey(day).After(DayKey(*s.EndDate)) {
		return false
	}
	return true
}

// At returns the fire instant on the calendar day containing `day`.
func (s WeeklySchedule) At(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, s.Hour, s.Minute, 0, 0, day.Location())
}

// TimeLabel is the formatted time-of-day captured into ledger snapshots.
func (s WeeklySchedule) TimeLabel() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

func (s WeeklySchedule) nextAfter(after time.Time) (time.Time, bool) {
	allowed := s.weekdaySet()
	// Offsets 0..7 cover today, the rest of the week, and the wrap back to
	// the same weekday next week. Candidates grow with the offset, so the
	// first qualifying one is the minimal occurrence; the first one past
	// EndDate means none exist.
	for offset := 0; offset <= 7; offset++ {
		day := AddDays(after, offset)
		if !allowed[WeekdayOf(day)] {
			continue
		}
		candidate := s.At(day)
		if !candidate.After(after) {
			continue
		}
		if s.EndDate != nil && DayKey(candidate).After(DayKey(*s.EndDate)) {
			return time.Time{}, false
		}
		return candidate, true
	}
	return time.Time{}, false
}

func (s WeeklySchedule) weekdaySet() map[int]bool {
	m := make(map[int]bool, len(s.Weekdays))
	for _, d := range s.Weekdays {
		m[d] = true
	}
	return m
}
