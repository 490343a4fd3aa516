// Package tracker owns the per-day completed/skipped flags on a reminder.
// Both flags are derived purely from their stored instants and the caller's
// wall clock; neither ever reads or writes the other.
package tracker

import (
	"time"

	"remindd/internal/model"
)

func IsDoneToday(r model.Reminder, now time.Time) bool {
	return r.CompletedOn != nil && model.SameDay(*r.CompletedOn, now)
}

func IsSkippedToday(r model.Reminder, now time.Time) bool {
	return r.SkippedOn != nil && model.SameDay(*r.SkippedOn, now)
}

func SetDoneToday(r *model.Reminder, done bool, now time.Time) {
	if done {
		at := now
		r.CompletedOn = &at
		return
	}
	r.CompletedOn = nil
}

func SetSkippedToday(r *model.Reminder, skipped bool, now time.Time) {
	if skipped {
		at := now
		r.SkippedOn = &at
		return
	}
	r.SkippedOn = nil
}

// ResetIfNewDay clears each flag whose stored instant falls on a calendar day
// other than now's. Idempotent: a second call on the same day changes
// nothing. Reports whether either flag was cleared so callers can persist
// only touched reminders.
func ResetIfNewDay(r *model.Reminder, now time.Time) bool {
	changed := false
	if r.CompletedOn != nil && !model.SameDay(*r.CompletedOn, now) {
		r.CompletedOn = nil
		changed = true
	}
	if r.SkippedOn != nil && !model.SameDay(*r.SkippedOn, now) {
		r.SkippedOn = nil
		changed = true
	}
	return changed
}
