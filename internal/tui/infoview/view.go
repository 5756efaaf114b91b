package infoview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/harvester-reports/internal/model"
	"github.com/altinukshini/harvester-reports/internal/ui"
)

// Height is how many lines the details block needs without a message.
const Height = 6

// Model shows status, duration and timestamps of the selected run.
type Model struct {
	run    *model.Run
	width  int
	height int
}

func New() Model {
	return Model{}
}

func (m *Model) SetRun(run *model.Run) {
	m.run = run
}

func (m Model) Run() *model.Run {
	return m.run
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}
	return m, nil
}

func (m Model) View() string {
	bold := lipgloss.NewStyle().Bold(true)
	if m.run == nil {
		return "\n  " + bold.Render("Select Harvest Run") + "\n\n  " +
			ui.StyleMuted.Render("Select a harvest run...")
	}

	r := m.run
	status := string(r.Status)
	label := lipgloss.NewStyle().Foreground(ui.ColorMuted).Width(11)
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))

	row := func(l, v string) string {
		return "  " + label.Render(l) + value.Render(v) + "\n"
	}

	var b strings.Builder
	b.WriteString("  " + ui.StatusGlyph(status) + " " +
		ui.StatusStyle(status).Bold(true).Render(ui.StatusLabel(status)))
	if r.Title != "" {
		b.WriteString("  " + bold.Render(r.Title))
	}
	b.WriteString("\n")
	b.WriteString(row("Duration", ui.FormatRunDuration(r.StartedAt, r.FinishedAt)))
	b.WriteString(row("Started", ui.FormatDate(r.StartedAt)))
	if !r.FinishedAt.IsZero() {
		b.WriteString(row("Finished", ui.FormatDate(r.FinishedAt)))
	}
	if r.Message != "" {
		msg := r.Message
		if m.width > 6 {
			msg = lipgloss.NewStyle().Width(m.width - 4).Render(msg)
		}
		b.WriteString("\n" + indent(ui.StyleMuted.Render(msg), "  ") + "\n")
	}

	out := b.String()
	if m.height > 0 {
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		if len(lines) > m.height {
			lines = lines[:m.height]
		}
		out = strings.Join(lines, "\n")
	}
	return out
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
