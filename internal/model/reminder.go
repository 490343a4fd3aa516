package model

import (
	"errors"
	"strings"
	"time"
)

// Reminder is the live, mutable record owned by the surrounding application.
// For one-time reminders ScheduledAt is the fire instant; for recurring ones
// it holds the most recently computed occurrence. CompletedOn and SkippedOn
// are per-day flags: non-nil means done/skipped for the calendar day
// containing the stored instant. The two are independent of each other and of
// Enabled.
type Reminder struct {
	ID          string
	Title       string
	Note        string
	ScheduledAt time.Time
	Enabled     bool
	CompletedOn *time.Time
	SkippedOn   *time.Time
	CreatedAt   time.Time
	Schedule    *WeeklySchedule
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: reminder id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("model: reminder title is required")
	}
	if r.ScheduledAt.IsZero() {
		return errors.New("model: reminder scheduled_at is required")
	}
	if r.CreatedAt.IsZero() {
		return errors.New("model: reminder created_at is required")
	}
	if r.Schedule != nil {
		if err := r.Schedule.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r Reminder) Recurring() bool {
	return r.Schedule != nil && r.Schedule.Enabled
}

// Snapshot copies the reminder into an immutable value record safe to hold
// across deferred boundaries. The schedule, when present, is deep-copied so
// later edits to the live reminder cannot leak through.
func (r Reminder) Snapshot() ReminderSnapshot {
	snap := ReminderSnapshot{
		ID:          r.ID,
		Title:       r.Title,
		Note:        r.Note,
		ScheduledAt: r.ScheduledAt,
		Enabled:     r.Enabled,
		CreatedAt:   r.CreatedAt,
	}
	if r.Schedule != nil {
		sc := *r.Schedule
		sc.Weekdays = append([]int(nil), r.Schedule.Weekdays...)
		if r.Schedule.EndDate != nil {
			end := *r.Schedule.EndDate
			sc.EndDate = &end
		}
		snap.Schedule = &sc
	}
	return snap
}

type ReminderSnapshot struct {
	ID          string
	Title       string
	Note        string
	ScheduledAt time.Time
	Enabled     bool
	CreatedAt   time.Time
	Schedule    *WeeklySchedule
}

func (s ReminderSnapshot) Recurring() bool {
	return s.Schedule != nil && s.Schedule.Enabled
}

// ScheduledOn reports whether the reminder had an occurrence on the calendar
// day containing `day`: weekday membership for recurring reminders, date
// equality for one-time ones.
func (s ReminderSnapshot) ScheduledOn(day time.Time) bool {
	if s.Recurring() {
		return s.Schedule.OccursOn(day)
	}
	return SameDay(s.ScheduledAt, day)
}

// OccurrenceOn returns the fire instant on the given calendar day. Only
// meaningful when ScheduledOn reports true for that day.
func (s ReminderSnapshot) OccurrenceOn(day time.Time) time.Time {
	if s.Recurring() {
		return s.Schedule.At(day)
	}
	return s.ScheduledAt
}

// TimeLabel is the formatted time-of-day captured into ledger snapshots.
func (s ReminderSnapshot) TimeLabel() string {
	if s.Recurring() {
		return s.Schedule.TimeLabel()
	}
	return s.ScheduledAt.Format("15:04")
}
