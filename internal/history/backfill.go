package history

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"time"

	"remindd/internal/model"
	"remindd/internal/storage"
)

// Reconciler synthesizes missed entries for past days the application was
// not observing. At most one backfill runs at a time; a concurrent call is a
// defined no-op, since app-lifecycle events can trigger backfill in close
// succession.
type Reconciler struct {
	ledger  *Ledger
	repo    storage.Repository
	diag    *log.Logger
	running atomic.Bool
}

func NewReconciler(ledger *Ledger, repo storage.Repository, diag *log.Logger) *Reconciler {
	if diag == nil {
		diag = log.New(io.Discard, "", 0)
	}
	return &Reconciler{ledger: ledger, repo: repo, diag: diag}
}

// Backfill walks the lastNDays calendar days strictly before today and writes
// a missed entry for every (reminder, day) pair that was scheduled but has no
// entry. Today itself is never touched; it is still in progress. Writes go
// through the priority-gated upsert with downgrades disallowed, so the pass
// is idempotent and can never clobber a recorded outcome. Returns the number
// of entries written.
func (r *Reconciler) Backfill(ctx context.Context, snaps []model.ReminderSnapshot, lastNDays int, today time.Time) (int, error) {
	if lastNDays <= 0 || len(snaps) == 0 {
		return 0, nil
	}
	if !r.running.CompareAndSwap(false, true) {
		r.diag.Printf("history: backfill already in flight, skipping")
		return 0, nil
	}
	defer r.running.Store(false)

	todayKey := model.DayKey(today)
	windowStart := model.AddDays(todayKey, -lastNDays)
	windowEnd := model.AddDays(todayKey, -1)

	existing, err := r.repo.ListLogEntriesByRange(ctx, windowStart, windowEnd)
	if err != nil {
		return 0, fmt.Errorf("history: load backfill window: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[pairKey(e.ReminderID, e.DayKey)] = true
	}

	written := 0
	for offset := lastNDays; offset >= 1; offset-- {
		day := model.AddDays(todayKey, -offset)
		for _, snap := range snaps {
			if day.Before(model.DayKey(snap.CreatedAt)) {
				continue
			}
			if seen[pairKey(snap.ID, day)] {
				continue
			}
			if !snap.ScheduledOn(day) {
				continue
			}
			// On the creation day itself, occurrences earlier than the
			// creation instant were never due.
			if model.SameDay(snap.CreatedAt, day) && snap.OccurrenceOn(day).Before(snap.CreatedAt) {
				continue
			}
			if upsertErr := r.ledger.Upsert(ctx, snap, day, model.StatusMissed, false); upsertErr != nil {
				return written, fmt.Errorf("history: backfill %s/%s: %w", snap.ID, day.Format("2006-01-02"), upsertErr)
			}
			seen[pairKey(snap.ID, day)] = true
			written++
		}
	}
	return written, nil
}

func pairKey(reminderID string, day time.Time) string {
	return reminderID + "|" + day.Format("2006-01-02")
}
