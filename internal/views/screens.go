package views

import (
	"fmt"
	"strings"
)

type TodayEntryData struct {
	ID        string
	Title     string
	Note      string
	TimeLabel string
	Recurring bool
	Done      bool
	Skipped   bool
	Enabled   bool
}

type TodayPanelData struct {
	DateLabel  string
	ListView   string
	Items      []TodayEntryData
	SelectedID string
}

type HistoryEntryData struct {
	Status    string
	TimeLabel string
	Title     string
	Recurring bool
}

type HistoryDayData struct {
	Date    string
	Entries []HistoryEntryData
}

type HistoryPanelData struct {
	Days           int
	CompletionRate float64
	Groups         []HistoryDayData
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTodayPanel(data TodayPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("today %s:\n", data.DateLabel))
	b.WriteString("actions: [j/k]move [d]done [u]undone [s]skip [S]unskip [p]pause [x]clear-entry\n")
	b.WriteString(data.ListView + "\n")
	if len(data.Items) == 0 {
		b.WriteString("(nothing scheduled today)")
		return strings.TrimSpace(b.String())
	}
	for _, item := range data.Items {
		cursor := " "
		if data.SelectedID == item.ID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s", cursor, todayMarker(item), item.TimeLabel, item.Title))
		if item.Recurring {
			b.WriteString(" (weekly)")
		}
		if !item.Enabled {
			b.WriteString(" (paused)")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderHistoryPanel(data HistoryPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("history (last %d days):\n", data.Days))
	b.WriteString("actions: [[/]]window [j/k]scroll\n")
	b.WriteString(fmt.Sprintf("completion: %.0f%%\n", data.CompletionRate*100))
	if len(data.Groups) == 0 {
		b.WriteString("(no entries in range)")
		return strings.TrimSpace(b.String())
	}
	for _, day := range data.Groups {
		b.WriteString(fmt.Sprintf("\n%s:\n", day.Date))
		for _, entry := range day.Entries {
			b.WriteString(fmt.Sprintf("  %s %s %s", statusBadge(entry.Status), entry.TimeLabel, entry.Title))
			if entry.Recurring {
				b.WriteString(" (weekly)")
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(title string, fireAt string) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}
	return fmt.Sprintf("due: %s @ %s", title, fireAt)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func RenderDetailPane(data TodayEntryData, markdownView string) string {
	if strings.TrimSpace(data.ID) == "" {
		return "detail:\n(no selection)"
	}
	kind := "one-time"
	if data.Recurring {
		kind = "weekly"
	}
	return fmt.Sprintf("detail:\nid: %s\nkind: %s\ntime: %s\n\nnote:\n%s",
		data.ID,
		kind,
		data.TimeLabel,
		markdownView,
	)
}

func todayMarker(item TodayEntryData) string {
	switch {
	case item.Done:
		return "[x]"
	case item.Skipped:
		return "[-]"
	default:
		return "[ ]"
	}
}

func statusBadge(status string) string {
	switch status {
	case "completed":
		return "[DONE]"
	case "skipped":
		return "[SKIP]"
	case "paused":
		return "[PAUSE]"
	case "missed":
		return "[MISS]"
	default:
		return "[" + strings.ToUpper(status) + "]"
	}
}
