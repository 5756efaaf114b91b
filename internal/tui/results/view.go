package results

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/harvester-reports/internal/model"
	"github.com/altinukshini/harvester-reports/internal/ui"
)

const (
	EmptyTitle = "No logs found"
	EmptyHint  = "No logs match your current filters. Try selecting a different run or adjusting your search."
)

// headerH is the summary line plus a blank line.
const headerH = 2

// Model lists one page of audit log hits for the active query.
type Model struct {
	viewport viewport.Model
	page     model.AuditLogPage
	state    model.QueryState
	cursor   int
	width    int
	height   int
	loading  bool
	loaded   bool
	err      error
	ready    bool
}

func New() Model {
	return Model{}
}

// SetLoading shows the spinner text for the given query state.
func (m *Model) SetLoading(state model.QueryState) {
	m.state = state
	m.loading = true
}

func (m Model) Page() model.AuditLogPage {
	return m.page
}

func (m Model) Err() error {
	return m.err
}

func (m Model) IsLoading() bool {
	return m.loading
}

// SelectedEntry returns the hit under the cursor, or nil.
func (m Model) SelectedEntry() *model.LogEntry {
	if m.cursor < 0 || m.cursor >= len(m.page.Entries) {
		return nil
	}
	return &m.page.Entries[m.cursor]
}

// TotalPages is how many pages the current total spans.
func (m Model) TotalPages() int {
	return m.state.TotalPages(m.page.Total)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.AuditLogsLoadedMsg:
		m.loading = false
		m.loaded = true
		m.cursor = 0
		m.err = msg.Err
		if msg.Err != nil {
			m.page = model.AuditLogPage{}
		} else {
			m.page = msg.Page
		}
		if m.ready {
			m.viewport.SetContent(m.render())
			m.viewport.GotoTop()
		}
		return m, nil

	case ui.QueryChangedMsg:
		m.state = msg.State
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ui.Keys.Down):
			if m.cursor < len(m.page.Entries)-1 {
				m.cursor++
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, ui.Keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.refresh()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - headerH
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = h
		}
		m.viewport.SetContent(m.render())
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refresh re-renders and keeps the cursor row on screen.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.render())
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m Model) render() string {
	if len(m.page.Entries) == 0 {
		return ""
	}
	ts := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	action := lipgloss.NewStyle().Foreground(ui.ColorInfo)
	highlight := lipgloss.NewStyle().Background(ui.ColorHighlight)
	if m.width > 0 {
		highlight = highlight.Width(m.width)
	}

	var b strings.Builder
	for i, e := range m.page.Entries {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s %s %s/%s %s",
			cursor,
			ts.Render("["+orNA(e.Created)+"]"),
			action.Render(orNA(e.Action)),
			orNA(e.ResourceType), orNA(e.ResourceID),
			ts.Render(orNA(e.UserEmail)))
		if i == m.cursor {
			line = highlight.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return model.NotAvailable
	}
	return s
}

// Summary is the one-line result count and paging position.
func (m Model) Summary() string {
	return fmt.Sprintf("%d results  |  page %d/%d  |  sort: %s",
		m.page.Total, m.state.Page, m.TotalPages(), m.state.SortBy)
}

func (m Model) View() string {
	if m.loading && !m.loaded {
		return "\n  Loading logs..."
	}
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press r to retry.", m.err)
	}
	if !m.loaded {
		return "\n  Select a run to view its logs"
	}
	if len(m.page.Entries) == 0 {
		title := lipgloss.NewStyle().Bold(true).Render(EmptyTitle)
		hint := ui.StyleMuted.Render(EmptyHint)
		if m.width > 4 {
			hint = ui.StyleMuted.Width(m.width - 4).Render(EmptyHint)
		}
		return "\n  " + title + "\n\n" + indent(hint, "  ")
	}

	summary := m.Summary()
	if m.loading {
		summary += "  (loading...)"
	}
	header := ui.StyleMuted.Render("  " + summary)
	if !m.ready {
		return header + "\n\n" + m.render()
	}
	return header + "\n\n" + m.viewport.View()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
