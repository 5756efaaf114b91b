package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, sizeMB int, ttl time.Duration) (*ExportCache, *time.Time) {
	t.Helper()
	c, err := NewExportCache(filepath.Join(t.TempDir(), "exports"), sizeMB, ttl)
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestStoreAndGet(t *testing.T) {
	c, _ := newCache(t, 10, time.Hour)

	meta, err := c.Store("q1", "run-1", strings.NewReader("[a] x r/1 u\n[b] y r/2 u\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Lines)
	assert.Equal(t, "run-1", meta.RunID)

	content, got, ok := c.Get("q1")
	require.True(t, ok)
	assert.Equal(t, "[a] x r/1 u\n[b] y r/2 u\n", content)
	assert.Equal(t, "q1", got.Query)

	_, _, ok = c.Get("q2")
	assert.False(t, ok)
}

func TestStoreCountsUnterminatedLastLine(t *testing.T) {
	c, _ := newCache(t, 10, time.Hour)
	meta, err := c.Store("q", "", strings.NewReader("one\ntwo"))
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Lines)

	meta, err = c.Store("empty", "", strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, meta.Lines)
}

func TestGetIgnoresStaleEntries(t *testing.T) {
	c, now := newCache(t, 10, time.Hour)
	_, err := c.Store("q", "", strings.NewReader("line\n"))
	require.NoError(t, err)

	*now = now.Add(2 * time.Hour)
	_, _, ok := c.Get("q")
	assert.False(t, ok)
}

func TestEvictExpired(t *testing.T) {
	c, now := newCache(t, 10, time.Hour)
	_, err := c.Store("old", "", strings.NewReader("line\n"))
	require.NoError(t, err)

	*now = now.Add(90 * time.Minute)
	_, err = c.Store("new", "", strings.NewReader("line\n"))
	require.NoError(t, err)

	require.NoError(t, c.Evict())
	entries, err := c.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Query)
	assert.Equal(t, Key("new"), entries[0].Key)
}

func TestEvictOverSize(t *testing.T) {
	c, now := newCache(t, 1, 0)
	big := strings.Repeat("x", 700*1024) + "\n"

	_, err := c.Store("first", "", strings.NewReader(big))
	require.NoError(t, err)
	*now = now.Add(time.Minute)
	_, err = c.Store("second", "", strings.NewReader(big))
	require.NoError(t, err)

	require.NoError(t, c.Evict())
	entries, err := c.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "second", entries[0].Query)
}

func TestDeleteEntryAndAll(t *testing.T) {
	c, _ := newCache(t, 10, time.Hour)
	for _, q := range []string{"a", "b", "c"} {
		_, err := c.Store(q, "", strings.NewReader(q+"\n"))
		require.NoError(t, err)
	}
	size, err := c.TotalSize()
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))

	require.NoError(t, c.DeleteEntry(Key("a")))
	entries, err := c.ListEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, c.DeleteAll())
	entries, err = c.ListEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = os.Stat(c.dir)
	assert.NoError(t, err)
}
