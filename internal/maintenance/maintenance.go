// Package maintenance runs the periodic pass that keeps reminder state and
// the history ledger current. The order inside one pass is load-bearing:
// daily flags reset before anything else reads them, backfill runs over
// snapshots taken before any occurrence refresh mutates the reminders it is
// based on, and retention prunes last.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"remindd/internal/history"
	"remindd/internal/model"
	"remindd/internal/scheduler"
	"remindd/internal/storage"
	"remindd/internal/tracker"
)

type Runner struct {
	repo       storage.Repository
	reconciler *history.Reconciler
	cleaner    *history.Cleaner
	engine     *scheduler.Engine
	diag       *log.Logger

	backfillDays  int
	retentionDays int
}

type Summary struct {
	FlagsReset       int
	OccurrencesMoved int
	Backfilled       int
	Pruned           int64
}

// NewRunner wires a maintenance pass. engine may be nil when notification
// scheduling is not wanted (tests, headless runs).
func NewRunner(repo storage.Repository, reconciler *history.Reconciler, cleaner *history.Cleaner, engine *scheduler.Engine, diag *log.Logger, backfillDays, retentionDays int) *Runner {
	if diag == nil {
		diag = log.New(io.Discard, "", 0)
	}
	return &Runner{
		repo:          repo,
		reconciler:    reconciler,
		cleaner:       cleaner,
		engine:        engine,
		diag:          diag,
		backfillDays:  backfillDays,
		retentionDays: retentionDays,
	}
}

// Run executes one maintenance pass anchored at now. Per-reminder persistence
// failures are best-effort (logged, pass continues); failures of the backfill
// or retention steps abort the pass since their partial state self-heals on
// the next successful run anyway.
func (r *Runner) Run(ctx context.Context, now time.Time) (Summary, error) {
	var sum Summary

	rows, err := r.repo.ListReminders(ctx, storage.ReminderListFilter{})
	if err != nil {
		return sum, fmt.Errorf("maintenance: list reminders: %w", err)
	}
	reminders := make([]model.Reminder, 0, len(rows))
	for _, row := range rows {
		rem, convErr := row.ToModel()
		if convErr != nil {
			r.diag.Printf("maintenance: skipping malformed reminder %s: %v", row.ID, convErr)
			continue
		}
		reminders = append(reminders, rem)
	}

	// Step 1: clear daily flags left over from earlier days.
	for i := range reminders {
		if !tracker.ResetIfNewDay(&reminders[i], now) {
			continue
		}
		if updateErr := r.repo.UpdateReminder(ctx, storage.ReminderFromModel(reminders[i])); updateErr != nil {
			if errors.Is(updateErr, storage.ErrNotFound) {
				r.diag.Printf("maintenance: reminder %s vanished during flag reset", reminders[i].ID)
				continue
			}
			r.diag.Printf("maintenance: persist flag reset for %s: %v", reminders[i].ID, updateErr)
			continue
		}
		sum.FlagsReset++
	}

	// Step 2: backfill over snapshots taken before any occurrence refresh
	// can move ScheduledAt out from under the reconciler.
	snaps := make([]model.ReminderSnapshot, 0, len(reminders))
	for _, rem := range reminders {
		snaps = append(snaps, rem.Snapshot())
	}
	written, err := r.reconciler.Backfill(ctx, snaps, r.backfillDays, now)
	if err != nil {
		return sum, err
	}
	sum.Backfilled = written

	// Step 3: advance recurring reminders to their next occurrence and hand
	// future instants to the notification engine.
	for i := range reminders {
		rem := &reminders[i]
		if !rem.Enabled {
			continue
		}
		// Only a stale occurrence is advanced; one still in the future has
		// not fired yet and must keep its slot.
		if rem.Recurring() && !rem.ScheduledAt.After(now) {
			next, ok := rem.Schedule.NextOccurrence(rem.ScheduledAt, now)
			if !ok {
				// Expired or never-occurring schedule; not an error.
				continue
			}
			if !next.Equal(rem.ScheduledAt) {
				rem.ScheduledAt = next
				if updateErr := r.repo.UpdateReminder(ctx, storage.ReminderFromModel(*rem)); updateErr != nil {
					if errors.Is(updateErr, storage.ErrNotFound) {
						r.diag.Printf("maintenance: reminder %s vanished during occurrence refresh", rem.ID)
						continue
					}
					r.diag.Printf("maintenance: persist occurrence for %s: %v", rem.ID, updateErr)
					continue
				}
				sum.OccurrencesMoved++
			}
		}
		if r.engine != nil && rem.ScheduledAt.After(now) {
			ev := scheduler.NotificationEvent{
				ReminderID: rem.ID,
				Title:      rem.Title,
				Note:       rem.Note,
				FireAt:     rem.ScheduledAt,
				Enabled:    rem.Enabled,
			}
			if schedErr := r.engine.Schedule(ev); schedErr != nil {
				r.diag.Printf("maintenance: schedule notification for %s: %v", rem.ID, schedErr)
			}
		}
	}

	// Step 4: prune history past the retention horizon.
	pruned, err := r.cleaner.Cleanup(ctx, r.retentionDays, now)
	if err != nil {
		return sum, err
	}
	sum.Pruned = pruned
	return sum, nil
}
