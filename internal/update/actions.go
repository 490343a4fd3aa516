package update

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"remindd/internal/model"
	"remindd/internal/storage"
	"remindd/internal/tracker"
)

// The action layer: every reminder mutation the TUI can perform. Each action
// resolves its target, applies the change through tracker and ledger, and
// persists the reminder row. Callers reload the views afterwards.

var errNoSelection = errors.New("update: no reminder selected")

func (m Model) listFilter() storage.ReminderListFilter {
	// Paused reminders stay visible on Today so the user can resume them.
	return storage.ReminderListFilter{}
}

func (m Model) resolveTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" || strings.EqualFold(target, "selected") {
		sel, ok := m.selectedTodayItem()
		if !ok {
			return "", errNoSelection
		}
		return sel.ID, nil
	}
	return target, nil
}

func (m Model) reminderByTarget(ctx context.Context, target string) (model.Reminder, error) {
	id, err := m.resolveTarget(target)
	if err != nil {
		return model.Reminder{}, err
	}
	row, err := m.deps.Repo.GetReminder(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return model.Reminder{}, fmt.Errorf("update: no reminder with id %s", id)
	}
	if err != nil {
		return model.Reminder{}, fmt.Errorf("update: load reminder: %w", err)
	}
	return row.ToModel()
}

func (m Model) addReminder(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.New("update: reminder title is empty")
	}
	now := m.deps.Now()
	rem := model.Reminder{
		ID:          uuid.NewString(),
		Title:       title,
		ScheduledAt: now,
		Enabled:     true,
		CreatedAt:   now,
	}
	if err := rem.Validate(); err != nil {
		return "", err
	}
	if err := m.deps.Repo.CreateReminder(context.Background(), storage.ReminderFromModel(rem)); err != nil {
		return "", fmt.Errorf("update: create reminder: %w", err)
	}
	return fmt.Sprintf("added: %s", title), nil
}

// completeReminder marks the target done for today and records a completed
// ledger entry. The entry write allows downgrades: an explicit user action
// always wins over whatever the day held before.
func (m Model) completeReminder(target string) (string, error) {
	ctx := context.Background()
	rem, err := m.reminderByTarget(ctx, target)
	if err != nil {
		return "", err
	}
	now := m.deps.Now()
	tracker.SetDoneToday(&rem, true, now)
	if err := m.deps.Repo.UpdateReminder(ctx, storage.ReminderFromModel(rem)); err != nil {
		return "", fmt.Errorf("update: persist reminder: %w", err)
	}
	if err := m.deps.Ledger.Upsert(ctx, rem.Snapshot(), now, model.StatusCompleted, true); err != nil {
		return "", err
	}
	return fmt.Sprintf("completed: %s", rem.Title), nil
}

func (m Model) uncompleteReminder(target string) (string, error) {
	ctx := context.Background()
	rem, err := m.reminderByTarget(ctx, target)
	if err != nil {
		return "", err
	}
	now := m.deps.Now()
	if !tracker.IsDoneToday(rem, now) {
		return fmt.Sprintf("not completed today: %s", rem.Title), nil
	}
	tracker.SetDoneToday(&rem, false, now)
	if err := m.deps.Repo.UpdateReminder(ctx, storage.ReminderFromModel(rem)); err != nil {
		return "", fmt.Errorf("update: persist reminder: %w", err)
	}
	if err := m.deps.Ledger.RemoveForDay(ctx, rem.ID, now); err != nil {
		return "", err
	}
	return fmt.Sprintf("uncompleted: %s", rem.Title), nil
}

func (m Model) skipReminder(target string) (string, error) {
	ctx := context.Background()
	rem, err := m.reminderByTarget(ctx, target)
	if err != nil {
		return "", err
	}
	now := m.deps.Now()
	tracker.SetSkippedToday(&rem, true, now)
	if err := m.deps.Repo.UpdateReminder(ctx, storage.ReminderFromModel(rem)); err != nil {
		return "", fmt.Errorf("update: persist reminder: %w", err)
	}
	if err := m.deps.Ledger.Upsert(ctx, rem.Snapshot(), now, model.StatusSkipped, true); err != nil {
		return "", err
	}
	return fmt.Sprintf("skipped: %s", rem.Title), nil
}

func (m Model) unskipReminder(target string) (string, error) {
	ctx := context.Background()
	rem, err := m.reminderByTarget(ctx, target)
	if err != nil {
		return "", err
	}
	now := m.deps.Now()
	if !tracker.IsSkippedToday(rem, now) {
		return fmt.Sprintf("not skipped today: %s", rem.Title), nil
	}
	tracker.SetSkippedToday(&rem, false, now)
	if err := m.deps.Repo.UpdateReminder(ctx, storage.ReminderFromModel(rem)); err != nil {
		return "", fmt.Errorf("update: persist reminder: %w", err)
	}
	if err := m.deps.Ledger.RemoveForDay(ctx, rem.ID, now); err != nil {
		return "", err
	}
	return fmt.Sprintf("unskipped: %s", rem.Title), nil
}

// pauseReminder disables the reminder and, when it had an occurrence today,
// leaves a paused entry in the ledger for the day.
func (m Model) pauseReminder(target string) (string, error) {
	ctx := context.Background()
	rem, err := m.reminderByTarget(ctx, target)
	if err != nil {
		return "", err
	}
	now := m.deps.Now()
	rem.Enabled = false
	if err := m.deps.Repo.UpdateReminder(ctx, storage.ReminderFromModel(rem)); err != nil {
		return "", fmt.Errorf("update: persist reminder: %w", err)
	}
	if err := m.deps.Ledger.LogPaused(ctx, rem.Snapshot(), now); err != nil {
		return "", err
	}
	return fmt.Sprintf("paused: %s", rem.Title), nil
}

func (m Model) removeReminder(target string) (string, error) {
	ctx := context.Background()
	rem, err := m.reminderByTarget(ctx, target)
	if err != nil {
		return "", err
	}
	if err := m.deps.Repo.DeleteReminder(ctx, rem.ID); err != nil {
		return "", fmt.Errorf("update: delete reminder: %w", err)
	}
	return fmt.Sprintf("removed: %s", rem.Title), nil
}

// removeTodayEntry drops today's ledger entry for the target without touching
// the reminder itself.
func (m Model) removeTodayEntry(target string) (string, error) {
	ctx := context.Background()
	id, err := m.resolveTarget(target)
	if err != nil {
		return "", err
	}
	if err := m.deps.Ledger.RemoveForDay(ctx, id, m.deps.Now()); err != nil {
		return "", err
	}
	return "cleared today's entry", nil
}
