package confirm

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/harvester-reports/internal/ui"
)

// ResultMsg is emitted once when the dialog closes.
type ResultMsg struct {
	Confirmed bool
	Action    string
	Data      interface{}
}

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorWarning).
			Padding(1, 2).
			Width(50)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorWarning)
	buttonStyle = lipgloss.NewStyle().Padding(0, 1)
	idleButton  = buttonStyle.Foreground(ui.ColorMuted)
	lightText   = lipgloss.Color("#F9FAFB")
)

// Model is a modal yes/no prompt, or a single-button alert.
type Model struct {
	Title   string
	Message string
	Action  string
	Data    interface{}

	open  bool
	yes   bool
	alert bool
}

func New(title, message, action string, data interface{}) Model {
	return Model{Title: title, Message: message, Action: action, Data: data, open: true}
}

// NewAlert returns an informational dialog. Dismissing it reports a
// confirmed result for action.
func NewAlert(title, message, action string) Model {
	return Model{Title: title, Message: message, Action: action, open: true, yes: true, alert: true}
}

func (m Model) IsActive() bool { return m.open }

func (m Model) IsAlert() bool { return m.alert }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !m.open || !ok {
		return m, nil
	}

	k := km.String()
	if m.alert {
		if oneOf(k, "enter", "esc", " ", "y", "Y", "n", "N") {
			return m.close(true)
		}
		return m, nil
	}

	switch {
	case oneOf(k, "y", "Y"):
		return m.close(true)
	case oneOf(k, "n", "N", "esc"):
		return m.close(false)
	case k == "enter":
		return m.close(m.yes)
	case oneOf(k, "tab", "left", "right", "h", "l"):
		m.yes = !m.yes
	}
	return m, nil
}

func (m Model) close(confirmed bool) (Model, tea.Cmd) {
	m.open = false
	res := ResultMsg{Confirmed: confirmed, Action: m.Action, Data: m.Data}
	return m, func() tea.Msg { return res }
}

func (m Model) View() string {
	if !m.open {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Title))
	b.WriteString("\n\n")
	b.WriteString(m.Message)
	b.WriteString("\n\n")

	if m.alert {
		b.WriteString(activeButton(ui.ColorPrimary).Render("OK"))
		b.WriteString("\n\nenter or esc to close")
		return frameStyle.Render(b.String())
	}

	yes, no := idleButton, activeButton(ui.ColorFailure)
	if m.yes {
		yes, no = activeButton(ui.ColorSuccess), idleButton
	}
	b.WriteString(yes.Render("Yes") + "  " + no.Render("No"))
	b.WriteString("\n\ny/n to confirm, esc to cancel")
	return frameStyle.Render(b.String())
}

func activeButton(bg lipgloss.Color) lipgloss.Style {
	return buttonStyle.Bold(true).Background(bg).Foreground(lightText)
}

func oneOf(s string, opts ...string) bool {
	for _, o := range opts {
		if s == o {
			return true
		}
	}
	return false
}
