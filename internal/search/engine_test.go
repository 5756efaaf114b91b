package search

import (
	"testing"
)

const export = `[2024-01-01T01:00:00] record.publish record/abc-1 system@cds
[2024-01-01T01:05:00] record.publish record/abc-2 N/A
[2024-01-01T01:06:00] draft.create draft/xyz-9 system@cds
`

func TestSearchPlainText(t *testing.T) {
	engine := New()
	results, err := engine.Search(export, Query{Pattern: "abc", CaseSensitive: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", results.TotalCount)
	}
	if results.Matches[1].Line != 2 {
		t.Errorf("Line = %d, want 2", results.Matches[1].Line)
	}
	if results.ActionCounts["record.publish"] != 2 {
		t.Errorf("ActionCounts = %v", results.ActionCounts)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	engine := New()
	results, err := engine.Search(export, Query{Pattern: "SYSTEM@CDS"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", results.TotalCount)
	}
}

func TestSearchRegex(t *testing.T) {
	engine := New()
	results, err := engine.Search(export, Query{Pattern: `record/abc-\d+\s+N/A$`, IsRegex: true, CaseSensitive: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", results.TotalCount)
	}

	if _, err := engine.Search(export, Query{Pattern: "(", IsRegex: true}); err == nil {
		t.Error("expected error for invalid regex")
	}
}

func TestSearchAction(t *testing.T) {
	engine := New()
	results, err := engine.Search(export, Query{Action: "draft.create"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", results.TotalCount)
	}
	if results.Matches[0].Line != 3 {
		t.Errorf("Line = %d, want 3", results.Matches[0].Line)
	}
}

func TestActionOf(t *testing.T) {
	tests := map[string]string{
		"[t] record.publish record/1 a": "record.publish",
		"no brackets":                   "",
		"[t] ":                          "",
		"[t]":                           "",
	}
	for line, want := range tests {
		if got := ActionOf(line); got != want {
			t.Errorf("ActionOf(%q) = %q, want %q", line, got, want)
		}
	}
}

func TestFilter(t *testing.T) {
	got, err := New().Filter(export, Query{Pattern: "draft"})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	want := "[2024-01-01T01:06:00] draft.create draft/xyz-9 system@cds\n"
	if got != want {
		t.Errorf("Filter() = %q, want %q", got, want)
	}
}
