// Package update holds the Elm-style application model. Update handles key
// and message routing; every reminder mutation goes through the action layer
// in actions.go so the TUI never touches storage or the ledger directly.
package update

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"remindd/internal/history"
	"remindd/internal/scheduler"
	"remindd/internal/storage"
	"remindd/internal/views"
)

type View string

const (
	ViewToday   View = "Today"
	ViewHistory View = "History"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Today   string
	History string
	Help    string
	Quit    string
}

// Deps are the collaborators the model acts through. Now is injectable so
// tests can pin the clock; nil means time.Now.
type Deps struct {
	Repo   storage.Repository
	Ledger *history.Ledger
	Engine *scheduler.Engine
	Diag   *log.Logger
	Now    func() time.Time
}

type TodayItem struct {
	ID        string
	Title     string
	Note      string
	TimeLabel string
	Recurring bool
	Done      bool
	Skipped   bool
	Enabled   bool
}

type TodayState struct {
	Items  []TodayItem
	Cursor int
}

type HistoryState struct {
	Days           int
	Groups         []history.DayGroup
	CompletionRate float64
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView View
	Today       TodayState
	History     HistoryState
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error
	Due         []scheduler.NotificationEvent

	deps         Deps
	todayList    list.Model
	commandInput textinput.Model
	helpModel    help.Model
	noteViewport viewport.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type NotificationDueMsg struct {
	Event scheduler.NotificationEvent
}

const defaultHistoryDays = 7

func NewModel(deps Deps) Model {
	if deps.Diag == nil {
		deps.Diag = log.New(io.Discard, "", 0)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	m := Model{
		CurrentView: ViewToday,
		History:     HistoryState{Days: defaultHistoryDays},
		Keys: GlobalKeyMap{
			Today:   "1",
			History: "2",
			Help:    "?",
			Quit:    "q",
		},
		deps: deps,
	}
	m.initBubbleComponents()
	m.reloadToday()
	m.reloadHistory()
	m.syncBubbleData()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.deps.Engine != nil {
		return waitForNotificationCmd(m.deps.Engine.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.syncBubbleData()

	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			next := m.handlePaletteKey(typed)
			return next, nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Today:
			m.CurrentView = ViewToday
			m.reloadToday()
			return m, nil
		case m.Keys.History:
			m.CurrentView = ViewHistory
			m.reloadHistory()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		if m.CurrentView == ViewToday {
			return m.handleTodayKey(typed), nil
		}
		return m.handleHistoryKey(typed), nil
	case SwitchViewMsg:
		switch typed.View {
		case ViewToday:
			m.CurrentView = ViewToday
			m.reloadToday()
		case ViewHistory:
			m.CurrentView = ViewHistory
			m.reloadHistory()
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case NotificationDueMsg:
		m.Due = append(m.Due, typed.Event)
		if len(m.Due) > 20 {
			m.Due = m.Due[len(m.Due)-20:]
		}
		m.Status = StatusBar{Text: fmt.Sprintf("reminder due: %s", typed.Event.Title)}
		m.reloadToday()
		if m.deps.Engine != nil {
			return m, waitForNotificationCmd(m.deps.Engine.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewToday:
		leftPane = m.renderTodayView()
		rightPane = m.renderDetailPane() + m.renderCommandPalette() + m.renderHelpIfVisible()
	case ViewHistory:
		leftPane = m.renderHistoryView()
		rightPane = m.renderCommandPalette() + m.renderHelpIfVisible()
	}

	notification := ""
	if len(m.Due) > 0 {
		last := m.Due[len(m.Due)-1]
		notification = views.RenderNotification(last.Title, last.FireAt.Format("15:04"))
	}

	day := m.deps.Now().Format("Mon 2006-01-02")
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("remindd | view: %s | %s", m.CurrentView, day),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Notification: notification,
		Footer:       fmt.Sprintf("keys: %s today | %s history | / palette | %s help | %s quit", m.Keys.Today, m.Keys.History, m.Keys.Help, m.Keys.Quit),
	})
}

func waitForNotificationCmd(ch <-chan scheduler.NotificationEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationDueMsg{Event: ev}
	}
}

func (m *Model) initBubbleComponents() {
	m.todayList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.todayList.Title = "Today"
	m.todayList.SetShowHelp(false)
	m.todayList.SetFilteringEnabled(false)

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 40

	m.helpModel = help.New()
	m.noteViewport = viewport.New(40, 8)
}

func (m *Model) syncBubbleData() {
	items := make([]list.Item, 0, len(m.Today.Items))
	for _, item := range m.Today.Items {
		desc := item.TimeLabel
		if item.Recurring {
			desc += " weekly"
		}
		items = append(items, listItem{title: item.Title, description: desc})
	}
	m.todayList.SetItems(items)
	if len(items) > 0 {
		m.todayList.Select(m.Today.Cursor)
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}

	if sel, ok := m.selectedTodayItem(); ok {
		note := sel.Note
		if strings.TrimSpace(note) == "" {
			note = "_No note_"
		}
		m.noteViewport.SetContent(views.RenderMarkdown(note))
	}
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}
