// Package ops runs long operations over many harvest runs.
package ops

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/altinukshini/harvester-reports/internal/cache"
	"github.com/altinukshini/harvester-reports/internal/model"
	"github.com/altinukshini/harvester-reports/internal/query"
)

// Downloader fetches the plain-text export of a query.
type Downloader interface {
	DownloadLogs(ctx context.Context, q string) (io.ReadCloser, error)
}

type PrefetchOptions struct {
	// Text is added to every run query as free text.
	Text string
	// Force downloads even when a fresh export is cached.
	Force bool
	// Pause waits between batches of Batch downloads. Zero disables it.
	Batch int
	Pause time.Duration
}

type PrefetchResult struct {
	Completed int
	Cached    int
	Failed    int
	Errors    []error
}

// PrefetchExports stores the export of every run's query in exports.
// Failures of single runs are collected; only cancellation stops early.
func PrefetchExports(ctx context.Context, d Downloader, exports *cache.ExportCache, runs []model.Run, opts PrefetchOptions, onProgress func(completed, total int)) (*PrefetchResult, error) {
	result := &PrefetchResult{}
	total := len(runs)
	downloaded := 0

	for i := range runs {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		run := runs[i]
		q := query.Build(&run, opts.Text)

		if _, _, ok := exports.Get(q); ok && !opts.Force {
			result.Cached++
		} else if err := fetchOne(ctx, d, exports, q, run.ID); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, errors.Wrapf(err, "run %s", run.ID))
			log.Warn().Err(err).Str("run", run.ID).Msg("ops: prefetch export")
		} else {
			result.Completed++
			downloaded++
		}

		if onProgress != nil {
			onProgress(i+1, total)
		}

		if opts.Batch > 0 && opts.Pause > 0 && downloaded > 0 && downloaded%opts.Batch == 0 && i < total-1 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(opts.Pause):
			}
		}
	}

	if err := exports.Evict(); err != nil {
		return result, errors.Wrap(err, "evict exports")
	}
	return result, nil
}

func fetchOne(ctx context.Context, d Downloader, exports *cache.ExportCache, q, runID string) error {
	body, err := d.DownloadLogs(ctx, q)
	if err != nil {
		return err
	}
	defer body.Close()
	_, err = exports.Store(q, runID, body)
	return err
}
