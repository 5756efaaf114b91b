package cacheview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/harvester-reports/internal/cache"
	"github.com/altinukshini/harvester-reports/internal/ui"
)

func loaded(t *testing.T) Model {
	t.Helper()
	now := time.Now()
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m, _ = m.Update(ui.ExportsListedMsg{
		Entries: []cache.Entry{
			{Meta: cache.Meta{Query: "q-small", Lines: 3, StoredAt: now}, Key: "a", Size: 10},
			{Meta: cache.Meta{Query: "q-big", Lines: 1, StoredAt: now.Add(-time.Hour)}, Key: "b", Size: 4096},
		},
		TotalSize: 4106,
	})
	return m
}

func TestExportsListed(t *testing.T) {
	m := loaded(t)
	require.Equal(t, 2, m.Len())
	assert.Equal(t, "q-small", m.SelectedEntry().Query)

	view := m.View()
	assert.True(t, strings.Contains(view, "2 exports"))
	assert.True(t, strings.Contains(view, "4.0 KB"))
}

func TestSortCycles(t *testing.T) {
	m := loaded(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	assert.Equal(t, SortBySize, m.sortMode)
	assert.Equal(t, "q-big", m.SelectedEntry().Query)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	assert.Equal(t, SortByLines, m.sortMode)
	assert.Equal(t, "q-small", m.SelectedEntry().Query)
}

func TestEmptyAndError(t *testing.T) {
	m := New()
	assert.Contains(t, m.View(), "Loading exports")

	m, _ = m.Update(ui.ExportsListedMsg{})
	assert.Contains(t, m.View(), "No cached exports")

	m, _ = m.Update(ui.ExportsListedMsg{Err: assert.AnError})
	assert.Contains(t, m.View(), "Press r to retry")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.5 KB", formatSize(1536))
	assert.Equal(t, "2.0 MB", formatSize(2*1024*1024))
}
