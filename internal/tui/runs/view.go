package runs

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/harvester-reports/internal/model"
	"github.com/altinukshini/harvester-reports/internal/ui"
)

// --- Custom delegate (avoids DefaultDelegate ANSI corruption during filtering) ---

type runDelegate struct {
	current *string // id of the run the query points at
}

func (d runDelegate) Height() int                             { return 2 }
func (d runDelegate) Spacing() int                            { return 0 }
func (d runDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d runDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(runItem)
	if !ok {
		return
	}
	status := string(ri.run.Status)

	mark := " "
	if *d.current == ri.run.ID {
		mark = ui.StyleWarning.Render("●")
	}

	label := ui.StatusStyle(status).Render(ui.StatusLabel(status))
	dur := ui.StyleMuted.Render(ui.FormatRunDuration(ri.run.StartedAt, ri.run.FinishedAt))

	line1 := fmt.Sprintf(" %s%s %s  %s", mark, ui.StatusGlyph(status), ui.RunOptionText(ri.run), label)
	line2 := fmt.Sprintf("    %s", dur)
	if ri.run.Title != "" {
		line2 = fmt.Sprintf("    %s  %s", dur, ui.StyleMuted.Render(ri.run.Title))
	}

	if index == m.Index() {
		hl := lipgloss.NewStyle().Background(ui.ColorHighlight).Width(m.Width())
		line1 = hl.Render(line1)
		line2 = hl.Render(line2)
	}

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}

// --- Item ---

type runItem struct {
	run model.Run
}

func (r runItem) FilterValue() string {
	return ui.RunOptionText(r.run) + " " + ui.StatusLabel(string(r.run.Status)) + " " + r.run.Title + " " + r.run.ID
}

// --- Model ---

// Model is the run selector list.
type Model struct {
	list    list.Model
	runs    []model.Run
	current *string
	width   int
	height  int
	loading bool
	err     error
}

func New() Model {
	current := ""
	delegate := runDelegate{current: &current}

	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowFilter(true)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("run", "runs")
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
	// h/l and the arrows page the audit log results; the list only pages
	// with pgup/pgdown so a key is never handled twice.
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next page"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page"))
	l.DisableQuitKeybindings()

	return Model{
		list:    l,
		current: &current,
		loading: true,
	}
}

// HighlightedRun is the run under the cursor, which is not necessarily
// the selected one until enter is pressed.
func (m Model) HighlightedRun() *model.Run {
	if item, ok := m.list.SelectedItem().(runItem); ok {
		return &item.run
	}
	return nil
}

// SetCurrent marks the run the active query points at and moves the
// cursor onto it.
func (m *Model) SetCurrent(run *model.Run) {
	if run == nil {
		*m.current = ""
		return
	}
	*m.current = run.ID
	if m.IsFiltering() || m.HasActiveFilter() {
		return
	}
	for i := range m.runs {
		if m.runs[i].ID == run.ID {
			m.list.Select(i)
			return
		}
	}
}

func (m Model) Current() string {
	return *m.current
}

func (m Model) Runs() []model.Run {
	return m.runs
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.RunsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.runs = msg.Payload.Runs
		items := make([]list.Item, len(m.runs))
		for i, r := range m.runs {
			items[i] = runItem{run: r}
		}
		cmd := m.list.SetItems(items)
		m.list.Select(0)
		return m, cmd

	case tea.KeyMsg:
		// The list's updateKeybindings can disable filtering (e.g. after
		// SetSize with zero items); re-enable it whenever items exist.
		if msg.String() == "f" && !m.IsFiltering() && len(m.list.Items()) > 0 {
			m.list.KeyMap.Filter.SetEnabled(true)
		}

		if !m.IsFiltering() && key.Matches(msg, ui.Keys.Enter) {
			if item, ok := m.list.SelectedItem().(runItem); ok {
				id := item.run.ID
				return m, func() tea.Msg { return ui.RunSelectedMsg{RunID: id} }
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading {
		return "\n  Loading runs..."
	}
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v", m.err)
	}
	if len(m.runs) == 0 {
		return "\n  No harvest runs found."
	}
	return m.list.View()
}

func (m Model) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) HasActiveFilter() bool {
	return m.list.FilterState() != list.Unfiltered
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{
		ui.Keys.Enter,
		ui.Keys.Search,
		ui.Keys.Refresh,
	}
}
