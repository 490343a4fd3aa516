package update

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"remindd/internal/history"
	"remindd/internal/model"
	"remindd/internal/scheduler"
	"remindd/internal/storage"
)

// 2026-02-12 is a Thursday.
var testNow = time.Date(2026, 2, 12, 10, 0, 0, 0, time.Local)

func setupModel(t *testing.T, reminders ...model.Reminder) (Model, *storage.SQLiteRepository) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "remindd-update.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := storage.MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	for _, rem := range reminders {
		if err := repo.CreateReminder(context.Background(), storage.ReminderFromModel(rem)); err != nil {
			t.Fatalf("seed reminder %s: %v", rem.ID, err)
		}
	}

	m := NewModel(Deps{
		Repo:   repo,
		Ledger: history.NewLedger(repo, nil),
		Now:    func() time.Time { return testNow },
	})
	return m, repo
}

func seedReminder(id, title string, at time.Time) model.Reminder {
	return model.Reminder{
		ID:          id,
		Title:       title,
		Note:        "note for " + title,
		ScheduledAt: at,
		Enabled:     true,
		CreatedAt:   at.Add(-24 * time.Hour),
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func TestTodayListsOnlyRemindersDueToday(t *testing.T) {
	m, _ := setupModel(t,
		seedReminder("rem-a", "water plants", testNow.Add(time.Hour)),
		seedReminder("rem-b", "call dentist", testNow.AddDate(0, 0, 1)),
	)

	if len(m.Today.Items) != 1 {
		t.Fatalf("expected 1 today item, got %d", len(m.Today.Items))
	}
	if m.Today.Items[0].ID != "rem-a" {
		t.Fatalf("unexpected item: %+v", m.Today.Items[0])
	}
}

func TestTodayIncludesRecurringOccurrence(t *testing.T) {
	rem := seedReminder("rem-weekly", "gym", testNow)
	rem.Schedule = &model.WeeklySchedule{
		Hour: 18, Minute: 0,
		Weekdays: []int{model.WeekdayOf(testNow)},
		Enabled:  true,
	}
	m, _ := setupModel(t, rem)

	if len(m.Today.Items) != 1 {
		t.Fatalf("expected 1 today item, got %d", len(m.Today.Items))
	}
	if !m.Today.Items[0].Recurring || m.Today.Items[0].TimeLabel != "18:00" {
		t.Fatalf("unexpected item: %+v", m.Today.Items[0])
	}
}

func TestCompleteKeyWritesLedgerEntry(t *testing.T) {
	m, repo := setupModel(t, seedReminder("rem-a", "water plants", testNow))

	m = press(t, m, "d")

	if !m.Today.Items[0].Done {
		t.Fatalf("expected done marker, got %+v", m.Today.Items[0])
	}
	entry, err := repo.GetLogEntry(context.Background(), "rem-a", model.DayKey(testNow))
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if entry.Status != string(model.StatusCompleted) {
		t.Fatalf("status = %s, want completed", entry.Status)
	}
	if len(m.History.Groups) != 1 {
		t.Fatalf("expected history refresh, got %d groups", len(m.History.Groups))
	}
}

func TestUncompleteKeyRemovesEntry(t *testing.T) {
	m, repo := setupModel(t, seedReminder("rem-a", "water plants", testNow))

	m = press(t, m, "d", "u")

	if m.Today.Items[0].Done {
		t.Fatalf("expected done cleared, got %+v", m.Today.Items[0])
	}
	_, err := repo.GetLogEntry(context.Background(), "rem-a", model.DayKey(testNow))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected entry removed, got err %v", err)
	}
}

func TestSkipAndUnskipKeys(t *testing.T) {
	m, repo := setupModel(t, seedReminder("rem-a", "water plants", testNow))

	m = press(t, m, "s")
	if !m.Today.Items[0].Skipped {
		t.Fatalf("expected skipped marker, got %+v", m.Today.Items[0])
	}
	entry, err := repo.GetLogEntry(context.Background(), "rem-a", model.DayKey(testNow))
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if entry.Status != string(model.StatusSkipped) {
		t.Fatalf("status = %s, want skipped", entry.Status)
	}

	m = press(t, m, "S")
	if m.Today.Items[0].Skipped {
		t.Fatalf("expected skip cleared, got %+v", m.Today.Items[0])
	}
	if _, err := repo.GetLogEntry(context.Background(), "rem-a", model.DayKey(testNow)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected entry removed, got err %v", err)
	}
}

func TestPauseKeyDisablesAndLogs(t *testing.T) {
	m, repo := setupModel(t, seedReminder("rem-a", "water plants", testNow))

	m = press(t, m, "p")

	row, err := repo.GetReminder(context.Background(), "rem-a")
	if err != nil {
		t.Fatalf("get reminder: %v", err)
	}
	if row.Enabled {
		t.Fatal("expected reminder disabled")
	}
	entry, err := repo.GetLogEntry(context.Background(), "rem-a", model.DayKey(testNow))
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if entry.Status != string(model.StatusPaused) {
		t.Fatalf("status = %s, want paused", entry.Status)
	}
	if m.Today.Items[0].Enabled {
		t.Fatalf("expected paused item, got %+v", m.Today.Items[0])
	}
}

func TestPaletteAddCreatesReminder(t *testing.T) {
	m, repo := setupModel(t)

	m = press(t, m, "/")
	if !m.Palette.Active {
		t.Fatal("expected palette active")
	}
	m.Palette.Input = "add stretch breaks"
	m.commandInput.SetValue(m.Palette.Input)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if m.Palette.Active {
		t.Fatal("expected palette closed")
	}
	rows, err := repo.ListReminders(context.Background(), storage.ReminderListFilter{})
	if err != nil {
		t.Fatalf("list reminders: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "stretch breaks" {
		t.Fatalf("unexpected reminders: %+v", rows)
	}
	if len(m.Today.Items) != 1 {
		t.Fatalf("expected today refresh, got %d items", len(m.Today.Items))
	}
}

func TestPaletteHistorySwitchesView(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, "/")
	m.Palette.Input = "history 14"
	m.commandInput.SetValue(m.Palette.Input)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if m.CurrentView != ViewHistory {
		t.Fatalf("view = %s, want History", m.CurrentView)
	}
	if m.History.Days != 14 {
		t.Fatalf("days = %d, want 14", m.History.Days)
	}
}

func TestPaletteUnknownCommandSetsErrorStatus(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, "/")
	m.Palette.Input = "frobnicate"
	m.commandInput.SetValue(m.Palette.Input)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestHistoryWindowKeys(t *testing.T) {
	m, _ := setupModel(t)
	m.CurrentView = ViewHistory

	m = press(t, m, "]")
	if m.History.Days != defaultHistoryDays+1 {
		t.Fatalf("days = %d, want %d", m.History.Days, defaultHistoryDays+1)
	}
	m = press(t, m, "[", "[")
	if m.History.Days != defaultHistoryDays-1 {
		t.Fatalf("days = %d, want %d", m.History.Days, defaultHistoryDays-1)
	}
}

func TestNotificationDueMsgUpdatesStatus(t *testing.T) {
	m, _ := setupModel(t)

	ev := scheduler.NotificationEvent{ReminderID: "rem-a", Title: "water plants", FireAt: testNow}
	next, _ := m.Update(NotificationDueMsg{Event: ev})
	m = next.(Model)

	if len(m.Due) != 1 {
		t.Fatalf("expected 1 due event, got %d", len(m.Due))
	}
	if m.Status.Text != "reminder due: water plants" {
		t.Fatalf("status = %q", m.Status.Text)
	}
}

func TestViewRendersWithoutSelection(t *testing.T) {
	m, _ := setupModel(t)
	out := m.View()
	if out == "" {
		t.Fatal("expected non-empty view")
	}
}
