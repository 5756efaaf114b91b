package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/altinukshini/harvester-reports/internal/api"
	"github.com/altinukshini/harvester-reports/internal/cache"
	"github.com/altinukshini/harvester-reports/internal/model"
	"github.com/altinukshini/harvester-reports/internal/store"
)

// newClient builds the instance client. It needs base_url and token.
func newClient() (*api.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := api.Options{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Timeout: cfg.HTTP.Timeout.Std(),
	}
	if cfg.HTTP.Verbose {
		opts.Log = os.Stderr
	}
	if cfg.HTTP.CacheResponse {
		opts.CacheTTL = cfg.HTTP.CacheTTL.Std()
	}
	return api.NewClient(opts)
}

func newExportCache() (*cache.ExportCache, error) {
	dir := cfg.Cache.Dir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "harvester-reports", "exports")
	}
	exports, err := cache.NewExportCache(dir, cfg.Cache.SizeMB, cfg.Cache.TTL.Std())
	if err != nil {
		return nil, errors.Wrap(err, "export cache")
	}
	return exports, nil
}

// openRunStore picks the runs file, then the database. It returns nil
// when neither is configured. The closer releases the database pool.
func openRunStore(ctx context.Context) (store.RunStore, func(), error) {
	if cfg.RunsFile != "" {
		return store.NewFileStore(cfg.RunsFile), func() {}, nil
	}
	if cfg.Database.URL != "" {
		pool, err := store.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("task", cfg.Database.Task).Msg("runs from database")
		return store.NewPostgresStore(pool, cfg.Database.Task), pool.Close, nil
	}
	return nil, func() {}, nil
}

// loadPayload reads the run selector payload from the configured store,
// falling back to the instance's runs endpoint.
func loadPayload(ctx context.Context) (model.RunsPayload, error) {
	runStore, closeStore, err := openRunStore(ctx)
	if err != nil {
		return model.RunsPayload{}, err
	}
	defer closeStore()
	if runStore != nil {
		return store.LoadPayload(ctx, runStore, cfg.Database.Limit)
	}

	client, err := newClient()
	if err != nil {
		return model.RunsPayload{}, err
	}
	return client.ListRuns(ctx)
}

// findRun returns the run with id, or the default run when id is empty.
func findRun(p model.RunsPayload, id string) (*model.Run, error) {
	if id == "" {
		if p.DefaultRun == nil {
			return nil, errors.New("no runs available")
		}
		return p.DefaultRun, nil
	}
	if run := p.RunByID(id); run != nil {
		return run, nil
	}
	return nil, errors.Errorf("run %q not found", id)
}
