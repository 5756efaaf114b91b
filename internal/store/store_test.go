package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/harvester-reports/internal/model"
)

func sampleRuns() []model.Run {
	return []model.Run{
		{ID: "old", StartedAt: "2024-01-01T00:00:00", FinishedAt: "2024-01-01T01:00:00", Status: model.RunStatusSuccess},
		{ID: "pending", Status: model.RunStatusQueued},
		{ID: "new", StartedAt: "2024-03-01T00:00:00", Status: model.RunStatusRunning},
		{ID: "mid", StartedAt: "2024-02-01T00:00:00.250000", FinishedAt: "2024-02-01T00:10:00", Status: model.RunStatusFailure},
	}
}

func ids(runs []model.Run) []string {
	var out []string
	for _, r := range runs {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterRuns(t *testing.T) {
	tests := []struct {
		name   string
		filter RunFilter
		want   []string
	}{
		{name: "started only, newest first", filter: RunFilter{StartedOnly: true}, want: []string{"new", "mid", "old"}},
		{name: "unstarted runs sort last", filter: RunFilter{}, want: []string{"new", "mid", "old", "pending"}},
		{name: "by status", filter: RunFilter{Status: "f"}, want: []string{"mid"}},
		{name: "limit", filter: RunFilter{StartedOnly: true, Limit: 2}, want: []string{"new", "mid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterRuns(sampleRuns(), tt.filter)))
		})
	}
}

type fakeStore struct {
	runs []model.Run
	err  error
	got  int
}

func (f *fakeStore) RecentRuns(ctx context.Context, limit int) ([]model.Run, error) {
	f.got = limit
	return f.runs, f.err
}

func TestLoadPayload(t *testing.T) {
	fs := &fakeStore{runs: FilterRuns(sampleRuns(), RunFilter{StartedOnly: true})}
	p, err := LoadPayload(context.Background(), fs, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, fs.got)
	require.NotNil(t, p.DefaultRun)
	assert.Equal(t, "new", p.DefaultRun.ID)
	assert.Same(t, &p.Runs[0], p.DefaultRun)

	empty, err := LoadPayload(context.Background(), &fakeStore{}, 5)
	require.NoError(t, err)
	assert.Nil(t, empty.DefaultRun)
	data, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"runs":[],"default_run":null}`, string(data))

	_, err = LoadPayload(context.Background(), &fakeStore{err: errors.New("boom")}, 5)
	assert.Error(t, err)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()

	arr, err := json.Marshal(sampleRuns())
	require.NoError(t, err)
	arrPath := filepath.Join(dir, "runs.json")
	require.NoError(t, os.WriteFile(arrPath, arr, 0o644))

	runs, err := NewFileStore(arrPath).RecentRuns(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, ids(runs))
	assert.True(t, runs[0].InProgress())

	payloadPath := filepath.Join(dir, "payload.json")
	require.NoError(t, os.WriteFile(payloadPath, []byte(`{"runs":[{"id":"a","started_at":"2024-01-01T00:00:00Z","finished_at":null,"status":"S"}],"default_run":null}`), 0o644))
	runs, err = NewFileStore(payloadPath).RecentRuns(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(runs))

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`[{"id":`), 0o644))
	_, err = NewFileStore(badPath).RecentRuns(context.Background(), 20)
	assert.Error(t, err)

	_, err = NewFileStore(filepath.Join(dir, "missing.json")).RecentRuns(context.Background(), 20)
	assert.Error(t, err)
}

func TestRunsQuerySQL(t *testing.T) {
	stmt, args, err := RunsQuery("job-1", 20).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id::text, title, started_at, finished_at, status::text, message FROM jobs_run "+
			"WHERE job_id = $1 AND parent_run_id IS NULL AND started_at IS NOT NULL "+
			"ORDER BY started_at DESC LIMIT 20",
		stmt)
	assert.Equal(t, []interface{}{"job-1"}, args)

	stmt, args, err = JobQuery("process_inspire").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id::text FROM jobs_job WHERE task = $1 LIMIT 1", stmt)
	assert.Equal(t, []interface{}{"process_inspire"}, args)
}

func TestRunFromRow(t *testing.T) {
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	finished := time.Date(2024, 1, 1, 1, 2, 3, 456789000, time.UTC)
	status := "S"

	r := runFromRow("7", nil, &started, &finished, &status, nil)
	assert.Equal(t, "Run 7", r.Title)
	assert.Equal(t, model.Timestamp("2024-01-01T00:00:00"), r.StartedAt)
	assert.Equal(t, model.Timestamp("2024-01-01T01:02:03.456789"), r.FinishedAt)
	assert.Equal(t, model.RunStatusSuccess, r.Status)

	title := "Nightly"
	r = runFromRow("8", &title, &started, nil, nil, nil)
	assert.Equal(t, "Nightly", r.Title)
	assert.True(t, r.InProgress())
}
