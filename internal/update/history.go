package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"remindd/internal/model"
	"remindd/internal/views"
)

const (
	minHistoryDays = 1
	maxHistoryDays = 365
)

// reloadHistory pulls the grouped ledger window ending today, plus its
// completion rate.
func (m *Model) reloadHistory() {
	ctx := context.Background()
	now := m.deps.Now()
	if m.History.Days < minHistoryDays {
		m.History.Days = defaultHistoryDays
	}
	from := model.AddDays(model.DayKey(now), -(m.History.Days - 1))

	groups, err := m.deps.Ledger.EntriesForRange(ctx, from, now)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	rate, err := m.deps.Ledger.CompletionRate(ctx, from, now)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.History.Groups = groups
	m.History.CompletionRate = rate
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "[":
		if m.History.Days > minHistoryDays {
			m.History.Days--
			m.reloadHistory()
		}
	case "]":
		if m.History.Days < maxHistoryDays {
			m.History.Days++
			m.reloadHistory()
		}
	case "j", "down":
		m.noteViewport.LineDown(1)
	case "k", "up":
		m.noteViewport.LineUp(1)
	}
	return m
}

func (m Model) renderHistoryView() string {
	groups := make([]views.HistoryDayData, 0, len(m.History.Groups))
	for _, group := range m.History.Groups {
		day := views.HistoryDayData{Date: group.Day.Format("2006-01-02")}
		for _, entry := range group.Entries {
			day.Entries = append(day.Entries, views.HistoryEntryData{
				Status:    string(entry.Status),
				TimeLabel: entry.TimeLabel,
				Title:     entry.Title,
				Recurring: entry.Recurring,
			})
		}
		groups = append(groups, day)
	}
	return views.RenderHistoryPanel(views.HistoryPanelData{
		Days:           m.History.Days,
		CompletionRate: m.History.CompletionRate,
		Groups:         groups,
	})
}
