package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/altinukshini/harvester-reports/internal/auth"
	"github.com/altinukshini/harvester-reports/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the runs list and the plain-text export over HTTP",
	Long: `Serves GET /harvester-reports/runs and GET /harvester-reports/download.

Runs come from database.url (the jobs tables) or from --runs-file. Audit
log searches for the export are sent to base_url with the configured
token. Callers authenticate with tokens minted by the token command.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runStore, closeStore, err := openRunStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	if runStore == nil {
		return errors.New("serve needs database.url or a runs file")
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	authMgr, err := auth.NewManager(cfg.Server.JWTSecret, 24*time.Hour)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:      cfg.Server.Addr,
		Enabled:   cfg.Server.Enabled,
		Timeout:   cfg.Server.Timeout.Std(),
		Runs:      runStore,
		RunsLimit: cfg.Database.Limit,
		Search:    client,
		Auth:      authMgr,
	})
	if err := srv.Run(ctx); err != nil {
		return errors.Wrap(err, "serve")
	}
	log.Info().Msg("stopped")
	return nil
}
