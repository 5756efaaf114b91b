package store

import (
	"sort"
	"strings"

	"github.com/altinukshini/harvester-reports/internal/model"
)

type RunFilter struct {
	// StartedOnly drops runs without a start timestamp.
	StartedOnly bool
	// Status keeps only runs with this status code (case-insensitive).
	Status string
	Limit  int
}

// FilterRuns applies f and orders the result newest first.
func FilterRuns(runs []model.Run, f RunFilter) []model.Run {
	var matched []model.Run
	for _, r := range runs {
		if f.StartedOnly && r.StartedAt.IsZero() {
			continue
		}
		if f.Status != "" && !strings.EqualFold(string(r.Status), f.Status) {
			continue
		}
		matched = append(matched, r)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return startedAfter(matched[i], matched[j])
	})

	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched
}

func startedAfter(a, b model.Run) bool {
	ta, okA := a.StartedAt.Time()
	tb, okB := b.StartedAt.Time()
	switch {
	case okA && okB:
		return ta.After(tb)
	case okA != okB:
		return okA
	default:
		return a.StartedAt > b.StartedAt
	}
}
