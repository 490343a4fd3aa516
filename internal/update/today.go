package update

import (
	"context"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"remindd/internal/model"
	"remindd/internal/tracker"
	"remindd/internal/views"
)

// reloadToday rebuilds the Today list from storage: every reminder with an
// occurrence on the current calendar day, ordered by time then title. The
// cursor is clamped rather than reset so acting on an item keeps the
// selection nearby.
func (m *Model) reloadToday() {
	ctx := context.Background()
	now := m.deps.Now()
	day := model.DayKey(now)

	rows, err := m.deps.Repo.ListReminders(ctx, m.listFilter())
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}

	items := make([]TodayItem, 0, len(rows))
	for _, row := range rows {
		rem, convErr := row.ToModel()
		if convErr != nil {
			m.deps.Diag.Printf("update: skipping malformed reminder %s: %v", row.ID, convErr)
			continue
		}
		snap := rem.Snapshot()
		if !snap.ScheduledOn(day) {
			continue
		}
		items = append(items, TodayItem{
			ID:        rem.ID,
			Title:     rem.Title,
			Note:      rem.Note,
			TimeLabel: snap.TimeLabel(),
			Recurring: snap.Recurring(),
			Done:      tracker.IsDoneToday(rem, now),
			Skipped:   tracker.IsSkippedToday(rem, now),
			Enabled:   rem.Enabled,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].TimeLabel != items[j].TimeLabel {
			return items[i].TimeLabel < items[j].TimeLabel
		}
		return items[i].Title < items[j].Title
	})

	m.Today.Items = items
	if m.Today.Cursor >= len(items) {
		m.Today.Cursor = len(items) - 1
	}
	if m.Today.Cursor < 0 {
		m.Today.Cursor = 0
	}
}

func (m Model) selectedTodayItem() (TodayItem, bool) {
	if m.Today.Cursor < 0 || m.Today.Cursor >= len(m.Today.Items) {
		return TodayItem{}, false
	}
	return m.Today.Items[m.Today.Cursor], true
}

func (m Model) handleTodayKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		if m.Today.Cursor < len(m.Today.Items)-1 {
			m.Today.Cursor++
		}
	case "k", "up":
		if m.Today.Cursor > 0 {
			m.Today.Cursor--
		}
	case "d":
		m.runAction(func() (string, error) { return m.completeReminder("selected") })
	case "u":
		m.runAction(func() (string, error) { return m.uncompleteReminder("selected") })
	case "s":
		m.runAction(func() (string, error) { return m.skipReminder("selected") })
	case "S":
		m.runAction(func() (string, error) { return m.unskipReminder("selected") })
	case "p":
		m.runAction(func() (string, error) { return m.pauseReminder("selected") })
	case "x":
		m.runAction(func() (string, error) { return m.removeTodayEntry("selected") })
	}
	return m
}

// runAction executes one reminder mutation and reflects its outcome in the
// status bar and both views.
func (m *Model) runAction(action func() (string, error)) {
	message, err := action()
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.Status = StatusBar{Text: message}
	m.reloadToday()
	m.reloadHistory()
}

func (m Model) renderTodayView() string {
	items := make([]views.TodayEntryData, 0, len(m.Today.Items))
	for _, item := range m.Today.Items {
		items = append(items, views.TodayEntryData{
			ID:        item.ID,
			Title:     item.Title,
			Note:      item.Note,
			TimeLabel: item.TimeLabel,
			Recurring: item.Recurring,
			Done:      item.Done,
			Skipped:   item.Skipped,
			Enabled:   item.Enabled,
		})
	}
	selectedID := ""
	if sel, ok := m.selectedTodayItem(); ok {
		selectedID = sel.ID
	}
	return views.RenderTodayPanel(views.TodayPanelData{
		DateLabel:  m.deps.Now().Format("2006-01-02"),
		ListView:   m.todayList.View(),
		Items:      items,
		SelectedID: selectedID,
	})
}

func (m Model) renderDetailPane() string {
	sel, ok := m.selectedTodayItem()
	if !ok {
		return views.RenderDetailPane(views.TodayEntryData{}, "")
	}
	return views.RenderDetailPane(views.TodayEntryData{
		ID:        sel.ID,
		Title:     sel.Title,
		TimeLabel: sel.TimeLabel,
		Recurring: sel.Recurring,
	}, m.noteViewport.View())
}
