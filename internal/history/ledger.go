// Package history maintains the daily ledger: exactly one entry per
// (reminder, calendar day), written through a priority-gated upsert, plus the
// backfill and retention passes that keep the ledger gap-free and bounded.
package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"remindd/internal/model"
	"remindd/internal/storage"
)

// Ledger performs all reads and writes of daily log entries. It holds only
// the storage handle and a diagnostic logger; reminder state always arrives
// as snapshots.
type Ledger struct {
	repo storage.Repository
	diag *log.Logger
	now  func() time.Time
}

func NewLedger(repo storage.Repository, diag *log.Logger) *Ledger {
	if diag == nil {
		diag = log.New(io.Discard, "", 0)
	}
	return &Ledger{repo: repo, diag: diag, now: time.Now}
}

// Upsert records a status for (snap.ID, dayKey). A missing entry is created.
// An existing entry is overwritten when allowDowngrade is true (explicit user
// action) or when the new status outranks the stored one; snapshot fields are
// refreshed on any status change and also when they drifted without one, so
// the ledger reflects the latest known naming. An entry deleted between
// lookup and write is an expected race and no-ops.
func (l *Ledger) Upsert(ctx context.Context, snap model.ReminderSnapshot, dayKey time.Time, status model.Status, allowDowngrade bool) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}
	dayKey = model.DayKey(dayKey)
	now := l.now()

	title := snap.Title
	note := model.TruncateNote(snap.Note)
	recurring := snap.Recurring()
	label := snap.TimeLabel()

	existing, err := l.repo.GetLogEntry(ctx, snap.ID, dayKey)
	if errors.Is(err, storage.ErrNotFound) {
		entry := storage.LogEntry{
			ReminderID:    snap.ID,
			DayKey:        dayKey,
			Status:        string(status),
			Title:         title,
			Note:          note,
			Recurring:     recurring,
			TimeLabel:     label,
			CreatedAt:     now,
			LastUpdatedAt: now,
		}
		if createErr := l.repo.CreateLogEntry(ctx, entry); createErr != nil {
			return fmt.Errorf("history: create entry: %w", createErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("history: lookup entry: %w", err)
	}

	next := existing
	statusChanged := false
	if allowDowngrade || status.Priority() > model.Status(existing.Status).Priority() {
		statusChanged = existing.Status != string(status)
		next.Status = string(status)
	}
	drifted := existing.Title != title || existing.Note != note ||
		existing.Recurring != recurring || existing.TimeLabel != label
	if !statusChanged && !drifted {
		return nil
	}
	next.Title = title
	next.Note = note
	next.Recurring = recurring
	next.TimeLabel = label
	next.LastUpdatedAt = now

	if updateErr := l.repo.UpdateLogEntry(ctx, next); updateErr != nil {
		if errors.Is(updateErr, storage.ErrNotFound) {
			l.diag.Printf("history: entry %s/%s vanished during upsert", snap.ID, dayKey.Format("2006-01-02"))
			return nil
		}
		return fmt.Errorf("history: update entry: %w", updateErr)
	}
	return nil
}

// LogPaused records a paused status for the calendar day containing `at`,
// but only when the reminder actually had an occurrence that day; pausing a
// reminder that was never due leaves no trace. The write is priority-gated,
// so a day already completed or skipped keeps its status.
func (l *Ledger) LogPaused(ctx context.Context, snap model.ReminderSnapshot, at time.Time) error {
	day := model.DayKey(at)
	if !snap.ScheduledOn(day) {
		return nil
	}
	return l.Upsert(ctx, snap, day, model.StatusPaused, false)
}

// RemoveForDay deletes the entry for (reminderID, day); an already-missing
// entry is not an error.
func (l *Ledger) RemoveForDay(ctx context.Context, reminderID string, day time.Time) error {
	err := l.repo.DeleteLogEntry(ctx, reminderID, model.DayKey(day))
	if errors.Is(err, storage.ErrNotFound) {
		l.diag.Printf("history: no entry to remove for %s/%s", reminderID, model.DayKey(day).Format("2006-01-02"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("history: remove entry: %w", err)
	}
	return nil
}

func (l *Ledger) EntriesForDay(ctx context.Context, day time.Time) ([]model.DailyLogEntry, error) {
	rows, err := l.repo.ListLogEntriesByDay(ctx, model.DayKey(day))
	if err != nil {
		return nil, fmt.Errorf("history: list by day: %w", err)
	}
	return toModelEntries(rows), nil
}

// DayGroup is one calendar day's worth of entries.
type DayGroup struct {
	Day     time.Time
	Entries []model.DailyLogEntry
}

// EntriesForRange returns entries between from and to (day-inclusive),
// grouped by calendar day, newest day first.
func (l *Ledger) EntriesForRange(ctx context.Context, from, to time.Time) ([]DayGroup, error) {
	rows, err := l.repo.ListLogEntriesByRange(ctx, model.DayKey(from), model.DayKey(to))
	if err != nil {
		return nil, fmt.Errorf("history: list by range: %w", err)
	}
	groups := make([]DayGroup, 0)
	for _, row := range rows {
		entry := row.ToModel()
		if n := len(groups); n > 0 && groups[n-1].Day.Equal(entry.DayKey) {
			groups[n-1].Entries = append(groups[n-1].Entries, entry)
			continue
		}
		groups = append(groups, DayGroup{Day: entry.DayKey, Entries: []model.DailyLogEntry{entry}})
	}
	return groups, nil
}

// CompletionRate is completed entries over all entries in the range, 0.0
// when the range holds no entries.
func (l *Ledger) CompletionRate(ctx context.Context, from, to time.Time) (float64, error) {
	rows, err := l.repo.ListLogEntriesByRange(ctx, model.DayKey(from), model.DayKey(to))
	if err != nil {
		return 0, fmt.Errorf("history: list by range: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	completed := 0
	for _, row := range rows {
		if model.Status(row.Status) == model.StatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(rows)), nil
}

func toModelEntries(rows []storage.LogEntry) []model.DailyLogEntry {
	out := make([]model.DailyLogEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToModel())
	}
	return out
}
