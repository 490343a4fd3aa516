package history

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"remindd/internal/model"
	"remindd/internal/storage"
)

// Cleaner prunes ledger entries older than the retention horizon. Deletion is
// purely age-based; status plays no part.
type Cleaner struct {
	repo storage.Repository
	diag *log.Logger
}

func NewCleaner(repo storage.Repository, diag *log.Logger) *Cleaner {
	if diag == nil {
		diag = log.New(io.Discard, "", 0)
	}
	return &Cleaner{repo: repo, diag: diag}
}

// Cleanup removes every entry whose day key falls strictly before
// today − retentionDays; the boundary day itself is retained. A
// non-positive retentionDays disables pruning entirely.
func (c *Cleaner) Cleanup(ctx context.Context, retentionDays int, today time.Time) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := model.AddDays(model.DayKey(today), -retentionDays)
	removed, err := c.repo.DeleteLogEntriesBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: cleanup: %w", err)
	}
	if removed > 0 {
		c.diag.Printf("history: pruned %d entries older than %s", removed, cutoff.Format("2006-01-02"))
	}
	return removed, nil
}
