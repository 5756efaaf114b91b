package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/altinukshini/harvester-reports/internal/api"
	"github.com/altinukshini/harvester-reports/internal/cache"
	"github.com/altinukshini/harvester-reports/internal/model"
	"github.com/altinukshini/harvester-reports/internal/query"
	"github.com/altinukshini/harvester-reports/internal/selection"
	"github.com/altinukshini/harvester-reports/internal/store"
	"github.com/altinukshini/harvester-reports/internal/tui/cacheview"
	"github.com/altinukshini/harvester-reports/internal/tui/confirm"
	"github.com/altinukshini/harvester-reports/internal/tui/infoview"
	"github.com/altinukshini/harvester-reports/internal/tui/logview"
	"github.com/altinukshini/harvester-reports/internal/tui/results"
	"github.com/altinukshini/harvester-reports/internal/tui/runs"
	"github.com/altinukshini/harvester-reports/internal/tui/searchbar"
	"github.com/altinukshini/harvester-reports/internal/ui"
)

// NoQueryMessage is shown instead of downloading when the query is empty.
const NoQueryMessage = "No query to download"

// Backend is the reports service the terminal client talks to.
type Backend interface {
	ListRuns(ctx context.Context) (model.RunsPayload, error)
	SearchAuditLogs(ctx context.Context, p api.SearchParams) (model.AuditLogPage, error)
	DownloadLogs(ctx context.Context, q string) (io.ReadCloser, error)
	DownloadURL(q string) (string, error)
}

// Browser opens URLs outside the terminal.
type Browser interface {
	Browse(url string) error
}

type Options struct {
	Backend Backend
	// Runs, when set, replaces the backend's runs endpoint.
	Runs      store.RunStore
	RunsLimit int
	Exports   *cache.ExportCache
	Browser   Browser
	// Query is the initial query string, as if opened from a link.
	Query   string
	Host    string
	Timeout time.Duration
}

type View int

const (
	ViewReports View = iota
	ViewExports
)

type Pane int

const (
	PaneRuns Pane = iota
	PaneSearch
	PaneResults
)

// detailsH is the height of the run details block above the run list.
const detailsH = infoview.Height + 3

type App struct {
	opts    Options
	queries *query.Container
	sync    *selection.Synchronizer

	// Views
	runsView      runs.Model
	infoView      infoview.Model
	searchBar     searchbar.Model
	resultsView   results.Model
	logView       logview.Model
	exportsView   cacheview.Model
	confirmDialog confirm.Model

	// State
	currentView   View
	focusedPane   Pane
	width         int
	height        int
	status        string
	statusErr     bool
	fetched       string // request of the results on screen or in flight
	showHelp      bool
	logFullScreen bool
}

func NewApp(opts Options) App {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RunsLimit <= 0 {
		opts.RunsLimit = store.DefaultLimit
	}
	initial := model.DefaultQueryState()
	initial.QueryString = opts.Query

	return App{
		opts:        opts,
		queries:     query.NewContainer(initial),
		runsView:    runs.New(),
		infoView:    infoview.New(),
		searchBar:   searchbar.New(),
		resultsView: results.New(),
		logView:     logview.New(),
		exportsView: cacheview.New(),
		currentView: ViewReports,
		focusedPane: PaneRuns,
		status:      "Loading runs...",
	}
}

// Queries is the shared query state.
func (a App) Queries() *query.Container {
	return a.queries
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.fetchRuns(), a.listExports())
}

// --- Data fetching commands ---

func (a App) fetchRuns() tea.Cmd {
	backend, runStore, limit := a.opts.Backend, a.opts.Runs, a.opts.RunsLimit
	timeout := a.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var (
			payload model.RunsPayload
			err     error
		)
		if runStore != nil {
			payload, err = store.LoadPayload(ctx, runStore, limit)
		} else {
			payload, err = backend.ListRuns(ctx)
		}
		return ui.RunsLoadedMsg{Payload: payload, Err: err}
	}
}

func (a App) fetchAuditLogs(state model.QueryState, req string) tea.Cmd {
	backend, timeout := a.opts.Backend, a.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := backend.SearchAuditLogs(ctx, api.ParamsFromState(state))
		return ui.AuditLogsLoadedMsg{Query: req, Page: page, Err: err}
	}
}

// fetchExport loads the plain-text export of q, from the cache when a
// fresh copy exists.
func (a App) fetchExport(q, runID string) tea.Cmd {
	backend, exports, timeout := a.opts.Backend, a.opts.Exports, a.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if exports != nil {
			if content, _, ok := exports.Get(q); ok {
				return ui.ExportLoadedMsg{Query: q, Content: content, Cached: true}
			}
		}
		body, err := backend.DownloadLogs(ctx, q)
		if err != nil {
			return ui.ExportLoadedMsg{Query: q, Err: err}
		}
		defer body.Close()
		data, err := ioutil.ReadAll(body)
		if err != nil {
			return ui.ExportLoadedMsg{Query: q, Err: errors.Wrap(err, "read export")}
		}
		if exports != nil {
			if _, err := exports.Store(q, runID, bytes.NewReader(data)); err != nil {
				log.Warn().Err(err).Msg("tui: store export")
			} else if err := exports.Evict(); err != nil {
				log.Warn().Err(err).Msg("tui: evict exports")
			}
		}
		return ui.ExportLoadedMsg{Query: q, Content: string(data)}
	}
}

func (a App) listExports() tea.Cmd {
	exports := a.opts.Exports
	if exports == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := exports.ListEntries()
		if err != nil {
			return ui.ExportsListedMsg{Err: err}
		}
		var total int64
		for _, e := range entries {
			total += e.Size
		}
		return ui.ExportsListedMsg{Entries: entries, TotalSize: total}
	}
}

func (a App) deleteExports(keys []string) tea.Cmd {
	exports := a.opts.Exports
	return func() tea.Msg {
		for i, k := range keys {
			if err := exports.DeleteEntry(k); err != nil {
				return ui.ExportsDeletedMsg{Count: i, Err: err}
			}
		}
		return ui.ExportsDeletedMsg{Count: len(keys)}
	}
}

func (a App) clearExports() tea.Cmd {
	exports := a.opts.Exports
	n := a.exportsView.Len()
	return func() tea.Msg {
		if err := exports.DeleteAll(); err != nil {
			return ui.ExportsDeletedMsg{Err: err}
		}
		return ui.ExportsDeletedMsg{Count: n}
	}
}

func (a App) openDownload(q string) tea.Cmd {
	backend, browser := a.opts.Backend, a.opts.Browser
	return func() tea.Msg {
		url, err := backend.DownloadURL(q)
		if err != nil {
			return ui.BrowserOpenedMsg{Err: err}
		}
		if browser == nil {
			return ui.BrowserOpenedMsg{URL: url, Err: errors.New("no browser configured")}
		}
		return ui.BrowserOpenedMsg{URL: url, Err: browser.Browse(url)}
	}
}

// --- Query state ---

// syncQuery brings the views in line with the synchronizer and the shared
// query state, and fetches results when the request changed.
func (a *App) syncQuery() tea.Cmd {
	if a.sync != nil {
		selected := a.sync.Selected()
		a.runsView.SetCurrent(selected)
		a.infoView.SetRun(selected)
		if a.searchBar.Value() != a.sync.Input() {
			a.searchBar.SetValue(a.sync.Input())
		}
	}

	state := a.queries.State()
	a.resultsView, _ = a.resultsView.Update(ui.QueryChangedMsg{State: state})
	if state.QueryString == "" {
		return nil
	}
	req := api.ParamsFromState(state).QueryString()
	if req == a.fetched {
		return nil
	}
	a.fetched = req
	a.resultsView.SetLoading(state)
	log.Debug().Str("query", state.QueryString).Int("page", state.Page).Msg("tui: search audit logs")
	return a.fetchAuditLogs(state, req)
}

func (a *App) toggleSort() tea.Cmd {
	next := a.queries.State()
	if next.SortBy == model.SortOldest {
		next.SortBy, next.SortOrder = model.SortNewest, model.SortOrderDesc
	} else {
		next.SortBy, next.SortOrder = model.SortOldest, model.SortOrderAsc
	}
	a.queries.Update(next)
	return a.syncQuery()
}

func (a *App) turnPage(delta int) tea.Cmd {
	next := a.queries.State()
	page := next.Page + delta
	if page < 1 || page > a.resultsView.TotalPages() {
		return nil
	}
	next.Page = page
	a.queries.Update(next)
	return a.syncQuery()
}

// applyQuery makes q the active query as if it came from outside the run
// selector, e.g. from a cached export.
func (a *App) applyQuery(q string) tea.Cmd {
	a.queries.SetQueryString(q)
	if a.sync != nil {
		a.sync.Resync()
	}
	return a.syncQuery()
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

func (a *App) alertNoQuery() {
	a.confirmDialog = confirm.NewAlert("Download", NoQueryMessage, "no-query")
}

func (a *App) viewExport(q, runID string) tea.Cmd {
	if strings.TrimSpace(q) == "" {
		a.alertNoQuery()
		return nil
	}
	a.logView.SetLoading()
	a.logFullScreen = true
	a.propagateSize()
	return a.fetchExport(q, runID)
}

func (a App) selectedRunID() string {
	if a.sync == nil || a.sync.Selected() == nil {
		return ""
	}
	return a.sync.Selected().ID
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Handle confirm dialog result (arrives AFTER dialog deactivates itself)
	if result, ok := msg.(confirm.ResultMsg); ok {
		if result.Confirmed {
			switch result.Action {
			case "delete-export":
				a.setStatus("Deleting export...", false)
				cmds = append(cmds, a.deleteExports([]string{result.Data.(string)}))
			case "clear-exports":
				a.setStatus("Deleting all exports...", false)
				cmds = append(cmds, a.clearExports())
			}
		}
		return &a, tea.Batch(cmds...)
	}

	// Handle confirmation dialog input (key events while dialog is showing)
	if a.confirmDialog.IsActive() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			var cmd tea.Cmd
			a.confirmDialog, cmd = a.confirmDialog.Update(msg)
			return &a, cmd
		}
	}

	if keyMsg, isKey := msg.(tea.KeyMsg); isKey {
		// Full-screen log search: keys go directly to the log view.
		if a.logFullScreen && a.logView.IsSearching() {
			var cmd tea.Cmd
			a.logView, cmd = a.logView.Update(msg)
			return &a, cmd
		}

		// Typing in the search box.
		if a.currentView == ViewReports && !a.logFullScreen && a.focusedPane == PaneSearch {
			switch keyMsg.String() {
			case "ctrl+c":
				return &a, tea.Quit
			case "esc":
				a.searchBar.Blur()
				a.focusedPane = PaneRuns
				return &a, nil
			case "tab":
				a.searchBar.Blur()
				a.focusedPane = PaneResults
				return &a, nil
			case "shift+tab":
				a.searchBar.Blur()
				a.focusedPane = PaneRuns
				return &a, nil
			}
			var cmd tea.Cmd
			a.searchBar, cmd = a.searchBar.Update(msg)
			return &a, cmd
		}

		// List filter mode: keys go directly to the filtering list.
		if a.isListFiltering() {
			var cmd tea.Cmd
			if a.currentView == ViewExports {
				a.exportsView, cmd = a.exportsView.Update(msg)
			} else {
				a.runsView, cmd = a.runsView.Update(msg)
			}
			return &a, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()
		return &a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case ui.RunsLoadedMsg:
		var cmd tea.Cmd
		a.runsView, cmd = a.runsView.Update(msg)
		cmds = append(cmds, cmd)
		payload := msg.Payload
		if msg.Err != nil {
			log.Error().Err(msg.Err).Msg("tui: load runs")
			payload = model.RunsPayload{Runs: []model.Run{}}
		}
		a.sync = selection.New(selection.ConfigFromPayload(payload), a.queries)
		a.sync.Mount()
		if msg.Err != nil {
			a.setStatus(fmt.Sprintf("Error loading runs: %v", msg.Err), true)
		} else {
			a.setStatus(fmt.Sprintf("%d runs", len(payload.Runs)), false)
		}
		cmds = append(cmds, a.syncQuery())

	case ui.RunSelectedMsg:
		if a.sync == nil {
			return &a, nil
		}
		if err := a.sync.SelectRun(msg.RunID); err != nil {
			a.setStatus(err.Error(), true)
			return &a, nil
		}
		cmds = append(cmds, a.syncQuery())

	case ui.QueryInputMsg:
		if a.sync != nil {
			a.sync.SetInput(msg.Text)
		}

	case ui.QuerySubmittedMsg:
		if a.sync == nil {
			a.setStatus("Runs are still loading", false)
			return &a, nil
		}
		a.sync.SetInput(msg.Text)
		a.sync.Submit()
		cmds = append(cmds, a.syncQuery())

	case ui.AuditLogsLoadedMsg:
		if msg.Query != a.fetched {
			// Superseded by a newer request.
			return &a, nil
		}
		a.resultsView, _ = a.resultsView.Update(msg)
		if msg.Err != nil {
			log.Error().Err(msg.Err).Msg("tui: search audit logs")
			a.setStatus(fmt.Sprintf("Search failed: %v", msg.Err), true)
			// Allow r to retry the same request.
			a.fetched = ""
		} else {
			a.setStatus(a.resultsView.Summary(), false)
		}

	case ui.ExportLoadedMsg:
		if msg.Err != nil {
			log.Error().Err(msg.Err).Msg("tui: load export")
			a.logFullScreen = false
			a.logView.SetContent("", "")
			if errors.Is(msg.Err, query.ErrEmptyQuery) {
				a.alertNoQuery()
			} else {
				a.setStatus(fmt.Sprintf("Download failed: %v", msg.Err), true)
			}
			return &a, nil
		}
		lines := strings.Count(msg.Content, "\n")
		title := fmt.Sprintf("%s (%d lines)", query.ExportFilename(time.Now()), lines)
		if msg.Cached {
			title += " [cached]"
		}
		a.logView.SetContent(title, msg.Content)
		a.propagateSize()
		a.setStatus(fmt.Sprintf("Export: %d lines", lines), false)
		if !msg.Cached {
			cmds = append(cmds, a.listExports())
		}

	case ui.BrowserOpenedMsg:
		if msg.Err != nil {
			log.Error().Err(msg.Err).Str("url", msg.URL).Msg("tui: open browser")
			a.setStatus(fmt.Sprintf("Could not open browser: %v", msg.Err), true)
		} else {
			a.setStatus("Opened "+msg.URL, false)
		}

	case ui.ExportsListedMsg:
		var cmd tea.Cmd
		a.exportsView, cmd = a.exportsView.Update(msg)
		cmds = append(cmds, cmd)

	case ui.ExportsDeletedMsg:
		if msg.Err != nil {
			a.setStatus(fmt.Sprintf("Error deleting exports: %v", msg.Err), true)
		} else {
			a.setStatus(fmt.Sprintf("Deleted %d exports", msg.Count), false)
		}
		cmds = append(cmds, a.listExports())

	case ui.StatusMsg:
		a.setStatus(msg.Text, false)

	default:
		// Blink, list filter results and other widget messages.
		var cmd tea.Cmd
		a.searchBar, cmd = a.searchBar.Update(msg)
		cmds = append(cmds, cmd)
		a.runsView, cmd = a.runsView.Update(msg)
		cmds = append(cmds, cmd)
		a.exportsView, cmd = a.exportsView.Update(msg)
		cmds = append(cmds, cmd)
		if a.logFullScreen {
			a.logView, cmd = a.logView.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return &a, tea.Batch(cmds...)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay dismisses on any key
	if a.showHelp {
		a.showHelp = false
		return &a, nil
	}

	switch {
	case key.Matches(msg, ui.Keys.Quit):
		return &a, tea.Quit
	case key.Matches(msg, ui.Keys.Help):
		a.showHelp = true
		return &a, nil
	}

	// Full-screen log mode: keys go to log view, esc exits
	if a.logFullScreen {
		switch msg.String() {
		case "esc", "backspace", "delete":
			a.logFullScreen = false
			a.propagateSize()
			return &a, nil
		}
		var cmd tea.Cmd
		a.logView, cmd = a.logView.Update(msg)
		return &a, cmd
	}

	switch msg.String() {
	case "1":
		a.currentView = ViewReports
		return &a, nil
	case "2":
		a.currentView = ViewExports
		return &a, a.listExports()
	}

	if a.currentView == ViewExports {
		return a.handleExportsKey(msg)
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, ui.Keys.Tab):
		a.focusedPane = (a.focusedPane + 1) % 3
		if a.focusedPane == PaneSearch {
			cmd = a.searchBar.Focus()
		}
	case key.Matches(msg, ui.Keys.ShiftTab):
		a.focusedPane = (a.focusedPane + 2) % 3
		if a.focusedPane == PaneSearch {
			cmd = a.searchBar.Focus()
		}
	case key.Matches(msg, ui.Keys.Search):
		a.focusedPane = PaneSearch
		cmd = a.searchBar.Focus()
	case key.Matches(msg, ui.Keys.Sort):
		cmd = a.toggleSort()
	case key.Matches(msg, ui.Keys.PrevPage):
		cmd = a.turnPage(-1)
	case key.Matches(msg, ui.Keys.NextPage):
		cmd = a.turnPage(1)
	case key.Matches(msg, ui.Keys.Refresh):
		a.setStatus("Refreshing...", false)
		a.fetched = ""
		cmd = a.fetchRuns()
	case key.Matches(msg, ui.Keys.Download):
		q := a.queries.State().QueryString
		if strings.TrimSpace(q) == "" {
			a.alertNoQuery()
			return &a, nil
		}
		cmd = a.openDownload(q)
	case key.Matches(msg, ui.Keys.View):
		cmd = a.viewExport(a.queries.State().QueryString, a.selectedRunID())
	default:
		// Key events go ONLY to the focused pane.
		switch a.focusedPane {
		case PaneRuns:
			a.runsView, cmd = a.runsView.Update(msg)
		case PaneResults:
			a.resultsView, cmd = a.resultsView.Update(msg)
		}
	}
	return &a, cmd
}

func (a App) handleExportsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.opts.Exports == nil {
		return &a, nil
	}
	entry := a.exportsView.SelectedEntry()
	switch msg.String() {
	case "enter":
		if entry != nil {
			return &a, a.viewExport(entry.Query, entry.RunID)
		}
		return &a, nil
	case "a":
		if entry != nil && entry.Query != "" {
			a.currentView = ViewReports
			return &a, a.applyQuery(entry.Query)
		}
		return &a, nil
	case "d":
		if entry != nil {
			a.confirmDialog = confirm.New("Delete export",
				fmt.Sprintf("Delete the cached export of\n%s?", entry.Query),
				"delete-export", entry.Key)
		}
		return &a, nil
	case "x":
		if a.exportsView.Len() > 0 {
			a.confirmDialog = confirm.New("Clear exports",
				fmt.Sprintf("Delete all %d cached exports?", a.exportsView.Len()),
				"clear-exports", nil)
		}
		return &a, nil
	case "r":
		return &a, a.listExports()
	}
	var cmd tea.Cmd
	a.exportsView, cmd = a.exportsView.Update(msg)
	return &a, cmd
}

func (a App) isListFiltering() bool {
	if a.logFullScreen {
		return false
	}
	switch a.currentView {
	case ViewReports:
		return a.focusedPane == PaneRuns && a.runsView.IsFiltering()
	case ViewExports:
		return a.exportsView.IsFiltering()
	}
	return false
}

func (a *App) propagateSize() {
	// Total vertical budget:
	//   header(1) + tabs(1) + status(1) = 3 lines of chrome
	//   pane border top(1) + bottom(1) = 2 lines
	contentH := a.height - 5
	if contentH < 1 {
		contentH = 1
	}

	leftW, rightW := a.paneWidths()

	runsH := contentH - detailsH - 1
	if runsH < 1 {
		runsH = 1
	}
	a.infoView, _ = a.infoView.Update(tea.WindowSizeMsg{Width: leftW, Height: detailsH})
	a.runsView, _ = a.runsView.Update(tea.WindowSizeMsg{Width: leftW, Height: runsH})

	// Search box: title + input + blank line.
	resultsH := contentH - 3
	if resultsH < 1 {
		resultsH = 1
	}
	a.searchBar, _ = a.searchBar.Update(tea.WindowSizeMsg{Width: rightW, Height: 2})
	a.resultsView, _ = a.resultsView.Update(tea.WindowSizeMsg{Width: rightW, Height: resultsH})

	a.logView, _ = a.logView.Update(tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
	a.exportsView, _ = a.exportsView.Update(tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
}

func (a App) paneWidths() (int, int) {
	// 2-pane layout: each border = 2 chars horizontal, 2 panes = 4
	leftW := a.width * 40 / 100
	rightW := a.width - leftW - 4
	if rightW < 1 {
		rightW = 1
	}
	return leftW, rightW
}

// --- View ---

func (a App) View() string {
	total := -1
	if a.fetched != "" && a.resultsView.Err() == nil {
		total = a.resultsView.Page().Total
	}
	header := RenderHeader(a.opts.Host, total, a.resultsView.IsLoading(), a.width)
	tabs := a.renderTabs()

	contentH := a.height - 5
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case a.showHelp:
		content = a.renderHelp()
	case a.confirmDialog.IsActive():
		content = a.confirmDialog.View()
	case a.logFullScreen:
		style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
		content = style.Render(a.logView.View())
	case a.currentView == ViewExports:
		style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
		content = style.Render(a.exportsView.View())
	default:
		content = a.renderReportsLayout(contentH)
	}

	statusBar := RenderStatusBar(a.status, a.statusErr, a.contextHints(), a.width)

	// Hard clamp: ensure content never overflows the terminal.
	maxContentLines := a.height - 3
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			content = strings.Join(lines[:maxContentLines], "\n")
		}
	}

	return header + "\n" + tabs + "\n" + content + "\n" + statusBar
}

func (a App) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Padding(0, 2)
	activeTab := tabStyle.Bold(true).Foreground(ui.ColorPrimary)
	inactiveTab := tabStyle.Foreground(ui.ColorMuted)

	reportsTab := inactiveTab.Render("[1] Reports")
	exportsTab := inactiveTab.Render("[2] Exports")

	switch a.currentView {
	case ViewReports:
		reportsTab = activeTab.Render("[1] Reports")
	case ViewExports:
		exportsTab = activeTab.Render("[2] Exports")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, reportsTab, exportsTab)
}

func (a App) renderReportsLayout(contentH int) string {
	leftW, rightW := a.paneWidths()

	leftStyle := ui.StylePane.Width(leftW).Height(contentH)
	rightStyle := ui.StylePane.Width(rightW).Height(contentH)
	if a.focusedPane == PaneRuns {
		leftStyle = ui.StylePaneFocused.Width(leftW).Height(contentH)
	} else {
		rightStyle = ui.StylePaneFocused.Width(rightW).Height(contentH)
	}

	details := lipgloss.NewStyle().Height(detailsH).MaxHeight(detailsH).Render(a.infoView.View())
	left := leftStyle.Render(details + "\n" + a.runsView.View())
	right := rightStyle.Render(a.searchBar.View() + "\n\n" + a.resultsView.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (a App) contextHints() string {
	if a.logFullScreen {
		if a.logView.IsSearching() {
			return "enter:confirm  esc:cancel"
		}
		return "/:search  n/N:match  F:only matches  j/k:scroll  g/G:top/bot  esc:back"
	}
	if a.confirmDialog.IsActive() {
		if a.confirmDialog.IsAlert() {
			return "enter:close"
		}
		return "y/n:confirm  esc:cancel"
	}
	if a.currentView == ViewExports {
		return "enter:view  a:apply query  d:delete  x:clear all  s:sort  f:filter  ?:help"
	}
	switch a.focusedPane {
	case PaneSearch:
		return "enter:search  esc:leave  tab:results"
	case PaneResults:
		return "j/k:navigate  <-/->:page  s:sort  D:download  v:view export  /:search  ?:help"
	}
	legend := fmt.Sprintf("%s=success %s=failure %s=running %s=partial",
		ui.StatusGlyph("S"), ui.StatusGlyph("F"), ui.StatusGlyph("R"), ui.StatusGlyph("P"))
	return legend + "  |  enter:select  f:filter  r:refresh  /:search  ?:help"
}

func (a App) renderHelp() string {
	contentH := a.height - 5
	if contentH < 1 {
		contentH = 1
	}

	bold := lipgloss.NewStyle().Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Width(14)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))

	row := func(k, d string) string {
		return "  " + keyStyle.Render(k) + desc.Render(d) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + bold.Render("  Navigation") + "\n\n")
	b.WriteString(row("1 / 2", "Switch tab: Reports, Exports"))
	b.WriteString(row("tab", "Next pane"))
	b.WriteString(row("shift+tab", "Previous pane"))
	b.WriteString(row("j / k", "Move down / up"))
	b.WriteString(row("q", "Quit"))

	b.WriteString("\n" + bold.Render("  Reports") + "\n\n")
	b.WriteString(row("enter", "Select the highlighted harvest run"))
	b.WriteString(row("f", "Filter the run list"))
	b.WriteString(row("/", "Search within selected run"))
	b.WriteString(row("s", "Toggle sort (newest / oldest)"))
	b.WriteString(row("<- / ->", "Previous / next page"))
	b.WriteString(row("h / l", "Previous / next page"))
	b.WriteString(row("r", "Reload runs and results"))
	b.WriteString(row("D", "Download logs in the browser"))
	b.WriteString(row("v", "View all logs of the query"))

	b.WriteString("\n" + bold.Render("  Log Viewer") + "\n\n")
	b.WriteString(row("/", "Search in export (/regex/ for a pattern)"))
	b.WriteString(row("n / N", "Next / previous match"))
	b.WriteString(row("F", "Show only matching lines"))
	b.WriteString(row("g / G", "Go to top / bottom"))
	b.WriteString(row("esc", "Exit log view"))

	b.WriteString("\n" + bold.Render("  Exports") + "\n\n")
	b.WriteString(row("enter", "View cached export"))
	b.WriteString(row("a", "Make the export's query the active search"))
	b.WriteString(row("d", "Delete cached export"))
	b.WriteString(row("x", "Clear all cached exports"))
	b.WriteString(row("s", "Cycle sort mode (stored / size / lines)"))

	b.WriteString("\n" + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  Press any key to close") + "\n")

	style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
	return style.Render(b.String())
}
