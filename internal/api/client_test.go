package api

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/harvester-reports/internal/model"
	"github.com/altinukshini/harvester-reports/internal/query"
)

const auditLogsBody = `{
  "hits": {
    "total": 2,
    "hits": [
      {"id": "a1", "created": "2024-01-01T01:00:00+00:00", "action": "record.publish",
       "resource": {"type": "record", "id": "abcd-1234"},
       "user": {"id": "system", "email": "system@cds"}},
      {"id": "a2", "created": "2024-01-01T02:00:00+00:00", "action": "record.publish",
       "resource": {"type": "record"}}
    ]
  }
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Options{BaseURL: srv.URL + "/", Token: "secret"})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresBaseURLAndToken(t *testing.T) {
	_, err := NewClient(Options{Token: "x"})
	assert.Error(t, err)
	_, err = NewClient(Options{BaseURL: "https://cds.example.org"})
	assert.Error(t, err)
	_, err = NewClient(Options{BaseURL: "cds.example.org", Token: "x"})
	assert.Error(t, err)
}

func TestSearchAuditLogs(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(auditLogsBody))
	})

	q := query.Build(&model.Run{StartedAt: "2024-01-01T00:00:00Z"}, "")
	page, err := c.SearchAuditLogs(context.Background(), SearchParams{Query: q, SortBy: model.SortNewest, Page: 2, Size: 20})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, auditLogsPath, got.URL.Path)
	assert.Equal(t, q, got.URL.Query().Get("q"))
	assert.Equal(t, "2", got.URL.Query().Get("page"))
	assert.Equal(t, "newest", got.URL.Query().Get("sort"))
	assert.Equal(t, "Bearer secret", got.Header.Get("Authorization"))
	assert.Equal(t, acceptHeader, got.Header.Get("Accept"))

	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "abcd-1234", page.Entries[0].ResourceID)
	assert.Equal(t, "system@cds", page.Entries[0].UserEmail)
	assert.Equal(t, "[2024-01-01T02:00:00+00:00] record.publish record/N/A N/A\n", page.Entries[1].Line())
}

func TestDecodeAuditLogsTotalObject(t *testing.T) {
	page, err := DecodeAuditLogs([]byte(`{"hits":{"total":{"value":7,"relation":"eq"},"hits":[]}}`))
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
	assert.Empty(t, page.Entries)

	_, err = DecodeAuditLogs([]byte(`{"hits":`))
	assert.Error(t, err)
}

func TestSearchParamsQueryString(t *testing.T) {
	tests := []struct {
		name   string
		params SearchParams
		want   string
	}{
		{
			name:   "empty params",
			params: SearchParams{},
			want:   "?size=20",
		},
		{
			name:   "query and page",
			params: SearchParams{Query: "a b", Page: 3, Size: 10},
			want:   "?page=3&q=a+b&size=10",
		},
		{
			name:   "sort order only",
			params: SearchParams{SortOrder: model.SortOrderAsc},
			want:   "?size=20&sort=oldest",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.QueryString())
		})
	}
}

func TestParamsFromState(t *testing.T) {
	s := model.DefaultQueryState()
	s.QueryString = "x"
	p := ParamsFromState(s)
	assert.Equal(t, SearchParams{Query: "x", SortBy: "newest", SortOrder: "desc", Page: 1, Size: 20}, p)
}

func TestFacetFiltersBecomeParams(t *testing.T) {
	s := model.DefaultQueryState()
	s.QueryString = "x"
	s.Filters = []model.FacetFilter{
		{Field: "resource.type", Value: "record"},
		{Field: "resource.type", Value: "community"},
		{Field: "page", Value: "9"},
		{Value: "orphan"},
	}
	p := ParamsFromState(s)
	require.Len(t, p.Filters, 4)

	v := p.Values()
	assert.Equal(t, []string{"record", "community"}, v["resource.type"])
	assert.Equal(t, "1", v.Get("page"))
	assert.Equal(t,
		"?page=1&q=x&resource.type=record&resource.type=community&size=20&sort=newest",
		p.QueryString())

	// Filters change the request key, so a response for other facets is stale.
	s.Filters = s.Filters[:1]
	assert.NotEqual(t, p.QueryString(), ParamsFromState(s).QueryString())
}

func TestListRuns(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, runsPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"runs":[{"id":"9","started_at":"2024-01-01T00:00:00Z","finished_at":null,"status":"R"}],
			"default_run":{"id":"9","started_at":"2024-01-01T00:00:00Z","finished_at":null,"status":"R"}}`))
	})

	payload, err := c.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, payload.Runs, 1)
	assert.True(t, payload.Runs[0].InProgress())
	require.NotNil(t, payload.DefaultRun)
	assert.Equal(t, "9", payload.DefaultRun.ID)
}

func TestListRunsDisabled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	payload, err := c.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, payload.Runs)
	assert.Nil(t, payload.DefaultRun)
}

func TestListRunsMalformedPayload(t *testing.T) {
	for name, body := range map[string]string{
		"not json":   `not json`,
		"numeric id": `{"runs":[{"id":9,"started_at":"2024-01-01T00:00:00Z","status":"R"}]}`,
		"no runs":    `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			})
			payload, err := c.ListRuns(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, payload.Runs)
			assert.Empty(t, payload.Runs)
			assert.Nil(t, payload.DefaultRun)
		})
	}
}

func TestDownloadLogs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "forbidden" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"Permission denied"}`))
			return
		}
		assert.Equal(t, query.DownloadPath, r.URL.Path)
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("[t] record.publish record/1 a@b\n"))
	})

	rc, err := c.DownloadLogs(context.Background(), "action:record.publish")
	require.NoError(t, err)
	data, err := ioutil.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "[t] record.publish record/1 a@b\n", string(data))

	_, err = c.DownloadLogs(context.Background(), "forbidden")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, StatusCode(err))
	assert.Contains(t, err.Error(), "Permission denied")

	_, err = c.DownloadLogs(context.Background(), "")
	assert.ErrorIs(t, err, query.ErrEmptyQuery)
}

func TestClientDownloadURL(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "https://cds.example.org/", Token: "x"})
	require.NoError(t, err)
	got, err := c.DownloadURL("a b")
	require.NoError(t, err)
	assert.Equal(t, "https://cds.example.org/harvester-reports/download?q=a%20b", got)
}
