package cacheview

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/harvester-reports/internal/cache"
	"github.com/altinukshini/harvester-reports/internal/ui"
)

type exportItem struct {
	entry cache.Entry
}

func (e exportItem) Title() string {
	q := e.entry.Query
	if q == "" {
		q = e.entry.Key
	}
	return q
}

func (e exportItem) Description() string {
	parts := fmt.Sprintf("%s  %s",
		ui.StyleWarning.Render(formatSize(e.entry.Size)),
		ui.StyleInfo.Render(fmt.Sprintf("%d lines", e.entry.Lines)))
	if e.entry.RunID != "" {
		parts += "  " + ui.StyleMuted.Render("run "+e.entry.RunID)
	}
	if !e.entry.StoredAt.IsZero() {
		parts += "  " + ui.StyleMuted.Render("stored "+relativeTime(e.entry.StoredAt))
	}
	return parts
}

func (e exportItem) FilterValue() string {
	return e.entry.Query + " " + e.entry.RunID
}

// SortMode determines how cached exports are ordered.
type SortMode int

const (
	SortByDate SortMode = iota
	SortBySize
	SortByLines
	sortModes
)

var sortNames = [sortModes]string{"stored", "size", "lines"}

// orderings put the newest, biggest or longest export first.
var orderings = [sortModes]func(a, b cache.Entry) bool{
	func(a, b cache.Entry) bool { return a.StoredAt.After(b.StoredAt) },
	func(a, b cache.Entry) bool { return a.Size > b.Size },
	func(a, b cache.Entry) bool { return a.Lines > b.Lines },
}

func (s SortMode) String() string {
	if s < 0 || s >= sortModes {
		return sortNames[SortByDate]
	}
	return sortNames[s]
}

// Model lists exports kept in the local export cache.
type Model struct {
	list      list.Model
	entries   []cache.Entry
	sortMode  SortMode
	totalSize int64
	width     int
	height    int
	loading   bool
	err       error
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("export", "exports")
	l.SetFilteringEnabled(true)
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
	l.DisableQuitKeybindings()

	return Model{list: l, loading: true}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.ExportsListedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.entries = msg.Entries
		m.totalSize = msg.TotalSize
		m.sortEntries()
		cmd := m.list.SetItems(m.buildItems())
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve one line for the header.
		m.list.SetSize(msg.Width, msg.Height-1)

	case tea.KeyMsg:
		if key.Matches(msg, ui.Keys.Sort) && !m.IsFiltering() {
			m.sortMode = (m.sortMode + 1) % sortModes
			m.sortEntries()
			cmd := m.list.SetItems(m.buildItems())
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading {
		return "\n  Loading exports..."
	}
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press r to retry.", m.err)
	}
	if len(m.entries) == 0 {
		return "\n  No cached exports.\n\n  Press v on the Reports tab to download the logs of a query."
	}

	header := fmt.Sprintf("  %d exports | Total: %s | Sort: %s | s: sort  enter: view  d: delete  x: clear all",
		len(m.entries),
		formatSize(m.totalSize),
		m.sortMode.String(),
	)
	return ui.StyleMuted.Render(header) + "\n" + m.list.View()
}

// SelectedEntry returns the highlighted export, or nil.
func (m Model) SelectedEntry() *cache.Entry {
	if item, ok := m.list.SelectedItem().(exportItem); ok {
		return &item.entry
	}
	return nil
}

func (m Model) Len() int {
	return len(m.entries)
}

func (m Model) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) HasActiveFilter() bool {
	return m.list.FilterState() != list.Unfiltered
}

func (m *Model) sortEntries() {
	less := orderings[SortByDate]
	if m.sortMode >= 0 && m.sortMode < sortModes {
		less = orderings[m.sortMode]
	}
	sort.SliceStable(m.entries, func(i, j int) bool {
		return less(m.entries[i], m.entries[j])
	})
}

func (m Model) buildItems() []list.Item {
	items := make([]list.Item, len(m.entries))
	for i, e := range m.entries {
		items[i] = exportItem{entry: e}
	}
	return items
}

func formatSize(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n) / 1024
	unit := 0
	for v >= 1024 && unit < 2 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", v, [...]string{"KB", "MB", "GB"}[unit])
}

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	default:
		return plural(int(d.Hours()/24), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
