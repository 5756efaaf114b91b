package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/altinukshini/harvester-reports/internal/api"
	"github.com/altinukshini/harvester-reports/internal/auth"
	"github.com/altinukshini/harvester-reports/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSearcher struct {
	page model.AuditLogPage
	err  error
	got  api.SearchParams
}

func (f *fakeSearcher) SearchAuditLogs(ctx context.Context, p api.SearchParams) (model.AuditLogPage, error) {
	f.got = p
	return f.page, f.err
}

type fakeRuns struct {
	runs []model.Run
	err  error
}

func (f fakeRuns) RecentRuns(ctx context.Context, limit int) ([]model.Run, error) {
	return f.runs, f.err
}

type fixture struct {
	handler http.Handler
	search  *fakeSearcher
	curator string
	reader  string
}

func newFixture(t *testing.T, enabled bool) *fixture {
	t.Helper()
	mgr, err := auth.NewManager("test-secret-0123456789", time.Hour)
	require.NoError(t, err)
	curator, _, err := mgr.Issue("1", "curator@cds", []string{auth.CuratorRole})
	require.NoError(t, err)
	reader, _, err := mgr.Issue("2", "reader@cds", []string{"reader"})
	require.NoError(t, err)

	search := &fakeSearcher{page: model.AuditLogPage{Total: 2, Entries: []model.LogEntry{
		{ID: "a", Created: "2024-01-01T01:00:00", Action: "record.publish", ResourceType: "record", ResourceID: "abc", UserID: "system", UserEmail: "system@cds"},
		{ID: "b", Action: "record.publish"},
	}}}
	srv := New(Config{
		Enabled: enabled,
		Runs: fakeRuns{runs: []model.Run{
			{ID: "2", StartedAt: "2024-02-01T00:00:00", Status: model.RunStatusRunning},
			{ID: "1", StartedAt: "2024-01-01T00:00:00", FinishedAt: "2024-01-01T01:00:00", Status: model.RunStatusSuccess},
		}},
		Search: search,
		Auth:   mgr,
		Now:    func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) },
	})
	return &fixture{handler: srv.Handler(), search: search, curator: curator, reader: reader}
}

func (f *fixture) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"]
}

func TestHealthIsPublic(t *testing.T) {
	f := newFixture(t, true)
	rec := f.get("/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(t, true)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestDownloadRequiresCurator(t *testing.T) {
	f := newFixture(t, true)

	for _, tok := range []string{"", "garbage", f.reader} {
		rec := f.get("/harvester-reports/download?q=x", tok)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Permission denied", message(t, rec))
	}
}

func TestDownloadWithoutQuery(t *testing.T) {
	f := newFixture(t, true)
	rec := f.get("/harvester-reports/download", f.curator)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No query provided", message(t, rec))
}

func TestDownloadStreamsLines(t *testing.T) {
	f := newFixture(t, true)
	rec := f.get("/harvester-reports/download?q=action%3Arecord.publish%20AND%20%28x%29", f.curator)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "action:record.publish AND (x)", f.search.got.Query)
	assert.Equal(t, api.MaxExportSize, f.search.got.Size)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, `attachment; filename="harvester_logs_20240506_070809.txt"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t,
		"[2024-01-01T01:00:00] record.publish record/abc system@cds\n"+
			"[N/A] record.publish N/A/N/A N/A\n",
		rec.Body.String())
}

func TestDownloadSearchFailure(t *testing.T) {
	f := newFixture(t, true)
	f.search.err = errors.New("upstream down")
	rec := f.get("/harvester-reports/download?q=x", f.curator)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDisabledRoutes404(t *testing.T) {
	f := newFixture(t, false)
	assert.Equal(t, http.StatusNotFound, f.get("/harvester-reports/download?q=x", f.curator).Code)
	assert.Equal(t, http.StatusNotFound, f.get("/harvester-reports/runs", f.curator).Code)
	assert.Equal(t, http.StatusOK, f.get("/health", "").Code)
}

func TestRunsPayload(t *testing.T) {
	f := newFixture(t, true)
	rec := f.get("/harvester-reports/runs", f.curator)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload model.RunsPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Runs, 2)
	require.NotNil(t, payload.DefaultRun)
	assert.Equal(t, "2", payload.DefaultRun.ID)
	assert.True(t, payload.Runs[0].InProgress())
	assert.Contains(t, rec.Body.String(), `"finished_at":null`)

	assert.Equal(t, http.StatusForbidden, f.get("/harvester-reports/runs", "").Code)
}

func TestAuditLogsPassthrough(t *testing.T) {
	f := newFixture(t, true)
	rec := f.get("/api/audit-logs/?q=foo&sort=oldest&page=2&size=5000", f.curator)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, api.SearchParams{Query: "foo", SortBy: "oldest", Page: 2, Size: api.MaxExportSize}, f.search.got)

	page, err := api.DecodeAuditLogs(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, f.search.page.Entries, page.Entries)
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := New(Config{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
