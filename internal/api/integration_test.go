package api

import (
	"context"
	"os"
	"testing"

	"github.com/altinukshini/harvester-reports/internal/query"
)

func integrationClient(t *testing.T) *Client {
	if os.Getenv("HARVESTER_INTEGRATION") == "" {
		t.Skip("Set HARVESTER_INTEGRATION=1 to run integration tests")
	}
	client, err := NewClient(Options{
		BaseURL: os.Getenv("HARVESTER_BASE_URL"),
		Token:   os.Getenv("HARVESTER_TOKEN"),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestIntegrationListRuns(t *testing.T) {
	client := integrationClient(t)

	payload, err := client.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	t.Logf("Found %d runs", len(payload.Runs))
	for _, r := range payload.Runs {
		t.Logf("  %s [%s] %s -> %s", r.ID, r.Status, r.StartedAt, r.FinishedAt)
	}
}

func TestIntegrationSearchAuditLogs(t *testing.T) {
	client := integrationClient(t)

	payload, err := client.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if payload.DefaultRun == nil {
		t.Skip("instance has no harvester runs")
	}

	page, err := client.SearchAuditLogs(context.Background(), SearchParams{
		Query: query.Build(payload.DefaultRun, ""),
		Size:  5,
	})
	if err != nil {
		t.Fatalf("SearchAuditLogs: %v", err)
	}
	t.Logf("Found %d audit logs for run %s", page.Total, payload.DefaultRun.ID)
	for _, e := range page.Entries {
		t.Logf("  %s", e.Line())
	}
}
