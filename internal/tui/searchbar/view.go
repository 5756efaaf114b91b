package searchbar

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/harvester-reports/internal/ui"
)

// Model is the free-text search box above the results.
type Model struct {
	input textinput.Model
	width int
}

func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Search within selected run..."
	ti.Prompt = "/ "
	ti.CharLimit = 512

	return Model{input: ti}
}

func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

func (m *Model) Blur() {
	m.input.Blur()
}

func (m Model) Focused() bool {
	return m.input.Focused()
}

func (m Model) Value() string {
	return m.input.Value()
}

// SetValue replaces the buffer without emitting an input message.
func (m *Model) SetValue(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update forwards edits to the text input. Every change of the buffer is
// reported with a QueryInputMsg; enter reports a QuerySubmittedMsg.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.input.Focused() {
			return m, nil
		}
		if key.Matches(msg, ui.Keys.Enter) {
			text := m.input.Value()
			return m, func() tea.Msg { return ui.QuerySubmittedMsg{Text: text} }
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			input := func() tea.Msg { return ui.QueryInputMsg{Text: after} }
			return m, tea.Batch(cmd, input)
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 6
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Search Logs")
	return " " + title + "\n " + m.input.View()
}
