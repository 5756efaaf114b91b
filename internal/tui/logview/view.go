package logview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/harvester-reports/internal/search"
	"github.com/altinukshini/harvester-reports/internal/ui"
)

var (
	matchStyle  = lipgloss.NewStyle().Background(ui.ColorBorder)
	activeStyle = lipgloss.NewStyle().Background(lipgloss.Color("#92400E")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9FAFB"))
)

// Model is the full-screen viewer for a plain-text export.
type Model struct {
	viewport viewport.Model
	engine   *search.Engine
	content  string
	title    string
	width    int
	height   int
	ready    bool
	loading  bool

	// In-log search
	searchInput textinput.Model
	searching   bool
	query       search.Query
	results     *search.Results
	searchErr   error
	matchLines  []int // 0-based line indices of matches
	matchIndex  int

	// onlyMatches shows the filtered export instead of the full one.
	onlyMatches bool
}

func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Search in export (/regex/ for a pattern)..."
	ti.CharLimit = 256
	return Model{searchInput: ti, engine: search.New()}
}

func (m *Model) SetContent(title, content string) {
	m.title = title
	m.content = content
	m.loading = false
	m.query = search.Query{}
	m.results = nil
	m.searchErr = nil
	m.matchLines = nil
	m.matchIndex = 0
	m.onlyMatches = false
	if m.ready {
		m.viewport.SetContent(content)
		m.viewport.GotoTop()
	}
}

func (m *Model) SetLoading() {
	m.loading = true
}

func (m Model) Content() string {
	return m.content
}

func (m Model) IsSearching() bool {
	return m.searching
}

// Results returns the last in-log search, or nil.
func (m Model) Results() *search.Results {
	return m.results
}

func (m Model) Init() tea.Cmd {
	return nil
}

// ParseQuery turns the typed text into a search query. Text wrapped in
// slashes is a regular expression.
func ParseQuery(text string) search.Query {
	if len(text) > 2 && strings.HasPrefix(text, "/") && strings.HasSuffix(text, "/") {
		return search.Query{Pattern: text[1 : len(text)-1], IsRegex: true}
	}
	return search.Query{Pattern: text}
}

type viewerKeys struct {
	Search  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Filter  key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

var keys = viewerKeys{
	Search:  ui.Keys.Search,
	Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
	Prev:    key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "prev match")),
	Filter:  key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "only matches")),
	Top:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom:  key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Confirm: ui.Keys.Enter,
	Cancel:  ui.Keys.Back,
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updatePrompt(msg)
		}
		switch {
		case key.Matches(msg, keys.Search):
			m.searching = true
			m.searchInput.SetValue("")
			m.searchInput.Focus()
			return m, textinput.Blink
		case key.Matches(msg, keys.Next):
			m.jump(1)
			return m, nil
		case key.Matches(msg, keys.Prev):
			m.jump(-1)
			return m, nil
		case key.Matches(msg, keys.Filter):
			if m.results != nil {
				m.onlyMatches = !m.onlyMatches
				m.viewport.SetContent(m.applyHighlights())
				m.viewport.GotoTop()
			}
			return m, nil
		case key.Matches(msg, keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updatePrompt feeds keys to the search input until it is submitted
// or dismissed.
func (m Model) updatePrompt(msg tea.KeyMsg) (Model, tea.Cmd) {
	submit := key.Matches(msg, keys.Confirm)
	if !submit && !key.Matches(msg, keys.Cancel) {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	if text := m.searchInput.Value(); submit && text != "" {
		m.runSearch(ParseQuery(text))
	}
	m.searching = false
	m.searchInput.Blur()
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	body := h - 1
	if m.searching {
		body--
	}
	if m.ready {
		m.viewport.Width, m.viewport.Height = w, body
		return
	}
	m.viewport = viewport.New(w, body)
	m.ready = true
	if m.content != "" {
		m.viewport.SetContent(m.applyHighlights())
	}
}

func (m *Model) runSearch(q search.Query) {
	m.query = q
	m.matchLines = nil
	m.matchIndex = 0
	m.onlyMatches = false
	res, err := m.engine.Search(m.content, q)
	m.searchErr = err
	if err != nil {
		m.results = nil
	} else {
		m.results = res
		for _, match := range res.Matches {
			m.matchLines = append(m.matchLines, match.Line-1)
		}
	}
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.applyHighlights())
	if len(m.matchLines) > 0 {
		m.viewport.SetYOffset(m.matchLines[0])
	}
}

func (m *Model) jump(step int) {
	if len(m.matchLines) == 0 || m.onlyMatches {
		return
	}
	m.matchIndex = (m.matchIndex + step + len(m.matchLines)) % len(m.matchLines)
	m.viewport.SetContent(m.applyHighlights())
	m.viewport.SetYOffset(m.matchLines[m.matchIndex])
}

// applyHighlights returns the content with matching lines highlighted,
// or only the matching lines when filtering.
func (m Model) applyHighlights() string {
	if m.onlyMatches && m.results != nil {
		var b strings.Builder
		for _, match := range m.results.Matches {
			b.WriteString(match.Content + "\n")
		}
		return b.String()
	}
	if len(m.matchLines) == 0 {
		return m.content
	}

	matchSet := make(map[int]bool, len(m.matchLines))
	for _, idx := range m.matchLines {
		matchSet[idx] = true
	}
	current := m.matchLines[m.matchIndex]

	lines := strings.Split(m.content, "\n")
	for i, line := range lines {
		switch {
		case i == current:
			lines[i] = activeStyle.Render(line)
		case matchSet[i]:
			lines[i] = matchStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) View() string {
	if m.loading {
		return "\n  Downloading export..."
	}
	if m.content == "" {
		return "\n  No logs found"
	}

	header := fmt.Sprintf(" %s  %3.f%%", m.title, m.viewport.ScrollPercent()*100)
	switch {
	case m.searchErr != nil:
		header += "  [invalid pattern]"
	case m.results != nil && m.results.TotalCount > 0:
		header += fmt.Sprintf("  [%d/%d matches]", m.matchIndex+1, m.results.TotalCount)
		if m.onlyMatches {
			header += " [filtered]"
		}
	case m.results != nil:
		header += "  [no matches]"
	}
	hints := ui.StyleMuted.Render("  /:search  n/N:match  F:only matches  j/k:line  g/G:top/bot  esc:back")

	parts := []string{titleStyle.Render(header) + hints}
	if m.searching {
		parts = append(parts, "  /"+m.searchInput.View())
	}
	parts = append(parts, m.viewport.View())
	return strings.Join(parts, "\n")
}
