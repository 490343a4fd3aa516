package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"remindd/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			msg, actErr := m.addReminder(a.Title)
			return commands.Result{Message: msg}, actErr
		},
		Done: func(a commands.TargetArgs) (commands.Result, error) {
			msg, actErr := m.completeReminder(a.Target)
			return commands.Result{Message: msg}, actErr
		},
		Undone: func(a commands.TargetArgs) (commands.Result, error) {
			msg, actErr := m.uncompleteReminder(a.Target)
			return commands.Result{Message: msg}, actErr
		},
		Skip: func(a commands.TargetArgs) (commands.Result, error) {
			msg, actErr := m.skipReminder(a.Target)
			return commands.Result{Message: msg}, actErr
		},
		Unskip: func(a commands.TargetArgs) (commands.Result, error) {
			msg, actErr := m.unskipReminder(a.Target)
			return commands.Result{Message: msg}, actErr
		},
		Pause: func(a commands.TargetArgs) (commands.Result, error) {
			msg, actErr := m.pauseReminder(a.Target)
			return commands.Result{Message: msg}, actErr
		},
		Remove: func(a commands.TargetArgs) (commands.Result, error) {
			msg, actErr := m.removeReminder(a.Target)
			return commands.Result{Message: msg}, actErr
		},
		History: func(a commands.HistoryArgs) (commands.Result, error) {
			m.CurrentView = ViewHistory
			m.History.Days = a.Days
			return commands.Result{Message: "showing history"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
		m.reloadToday()
		m.reloadHistory()
	}

	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	return m
}
