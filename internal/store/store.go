// Package store loads harvester runs for the run selector.
package store

import (
	"context"

	"github.com/altinukshini/harvester-reports/internal/model"
)

// DefaultLimit is how many runs the selector offers.
const DefaultLimit = 20

// RunStore lists the most recent started parent runs, newest first.
type RunStore interface {
	RecentRuns(ctx context.Context, limit int) ([]model.Run, error)
}

// LoadPayload builds the run selector configuration. The newest run is the
// default; with no runs there is no default.
func LoadPayload(ctx context.Context, s RunStore, limit int) (model.RunsPayload, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	runs, err := s.RecentRuns(ctx, limit)
	if err != nil {
		return model.RunsPayload{}, err
	}
	return NewPayload(runs), nil
}

// NewPayload wraps runs, never leaving Runs nil so it encodes as [].
func NewPayload(runs []model.Run) model.RunsPayload {
	if runs == nil {
		runs = []model.Run{}
	}
	p := model.RunsPayload{Runs: runs}
	if len(runs) > 0 {
		p.DefaultRun = &p.Runs[0]
	}
	return p
}
