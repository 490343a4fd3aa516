package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidStatus = errors.New("model: invalid log status")

// Status is the persisted outcome vocabulary for a (reminder, day) pair. The
// string tokens are stable wire values; historical rows depend on them.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusPaused    Status = "paused"
	StatusMissed    Status = "missed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusSkipped, StatusPaused, StatusMissed:
		return true
	default:
		return false
	}
}

// Priority totally orders statuses for upserts: an automatic write may only
// replace a lower-priority status, never a higher one.
func (s Status) Priority() int {
	switch s {
	case StatusCompleted:
		return 4
	case StatusSkipped:
		return 3
	case StatusPaused:
		return 2
	case StatusMissed:
		return 1
	default:
		return 0
	}
}

// NoteSnapshotLen caps the note text captured into a ledger entry.
const NoteSnapshotLen = 120

// TruncateNote trims a note to the snapshot cap on rune boundaries.
func TruncateNote(note string) string {
	runes := []rune(note)
	if len(runes) <= NoteSnapshotLen {
		return note
	}
	return string(runes[:NoteSnapshotLen])
}

// DailyLogEntry is one row of the history ledger: exactly one may exist per
// (ReminderID, DayKey) pair. Title, Note, Recurring and TimeLabel are
// snapshots taken at write time so history stays readable after the reminder
// is edited or deleted.
type DailyLogEntry struct {
	ReminderID    string
	DayKey        time.Time
	Status        Status
	Title         string
	Note          string
	Recurring     bool
	TimeLabel     string
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

func (e DailyLogEntry) Validate() error {
	if strings.TrimSpace(e.ReminderID) == "" {
		return errors.New("model: log entry reminder_id is required")
	}
	if e.DayKey.IsZero() {
		return errors.New("model: log entry day_key is required")
	}
	if !e.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, e.Status)
	}
	if e.CreatedAt.IsZero() {
		return errors.New("model: log entry created_at is required")
	}
	return nil
}
