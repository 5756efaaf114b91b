package results

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/harvester-reports/internal/model"
	"github.com/altinukshini/harvester-reports/internal/ui"
)

func sized() Model {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	return m
}

func TestEmptyResults(t *testing.T) {
	m := sized()
	assert.Contains(t, m.View(), "Select a run")

	m.SetLoading(model.DefaultQueryState())
	assert.Contains(t, m.View(), "Loading logs")

	m, _ = m.Update(ui.AuditLogsLoadedMsg{Page: model.AuditLogPage{}})
	view := m.View()
	assert.Contains(t, view, EmptyTitle)
	assert.Contains(t, view, "Try selecting a different run")
}

func TestResultsRenderEntries(t *testing.T) {
	m := sized()
	state := model.DefaultQueryState()
	state.QueryString = "q"
	m, _ = m.Update(ui.QueryChangedMsg{State: state})
	m, _ = m.Update(ui.AuditLogsLoadedMsg{Page: model.AuditLogPage{
		Total: 45,
		Entries: []model.LogEntry{
			{Created: "2024-01-01T00:00:00Z", Action: "record.publish", ResourceType: "record", ResourceID: "abc", UserEmail: "system@cds"},
			{Action: "record.publish"},
		},
	}})

	view := m.View()
	assert.Contains(t, view, "45 results")
	assert.Contains(t, view, "page 1/3")
	assert.Contains(t, view, "record/abc")
	assert.Contains(t, view, "N/A/N/A")
	assert.Equal(t, 3, m.TotalPages())

	require.NotNil(t, m.SelectedEntry())
	assert.Equal(t, "abc", m.SelectedEntry().ResourceID)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, "record.publish", m.SelectedEntry().Action)
	assert.Equal(t, "", m.SelectedEntry().ResourceID)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, m.cursor, "cursor stops at the last entry")
}

func TestResultsError(t *testing.T) {
	m := sized()
	m, _ = m.Update(ui.AuditLogsLoadedMsg{Err: assert.AnError})
	assert.Contains(t, m.View(), "Press r to retry")
	assert.Error(t, m.Err())
	assert.Nil(t, m.SelectedEntry())
}
