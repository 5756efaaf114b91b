// Package server serves the harvester reports endpoints: the run list, the
// plain-text audit log export and an audit log search passthrough.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/altinukshini/harvester-reports/internal/api"
	"github.com/altinukshini/harvester-reports/internal/auth"
	"github.com/altinukshini/harvester-reports/internal/model"
	"github.com/altinukshini/harvester-reports/internal/store"
)

// Searcher runs audit log searches against the upstream instance.
type Searcher interface {
	SearchAuditLogs(ctx context.Context, p api.SearchParams) (model.AuditLogPage, error)
}

type Config struct {
	Addr string
	// Enabled gates the /harvester-reports routes; when false they 404.
	Enabled   bool
	Timeout   time.Duration
	Runs      store.RunStore
	RunsLimit int
	Search    Searcher
	Auth      *auth.Manager
	// Now stamps export file names. Defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	httpServer *http.Server
	handler    http.Handler
}

func New(cfg Config) *Server {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	h := &handlers{cfg: cfg}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /harvester-reports/runs", h.enabled(requireRole(auth.CuratorRole, h.runs)))
	mux.HandleFunc("GET /harvester-reports/download", h.enabled(requireRole(auth.CuratorRole, h.download)))
	mux.HandleFunc("GET /api/audit-logs/", requireRole(auth.CuratorRole, h.auditLogs))

	// Outermost first: request id, logging, auth, recovery, handler.
	var handler http.Handler = mux
	handler = recoveryMiddleware(handler)
	handler = authMiddleware(cfg.Auth, handler)
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:        cfg.Addr,
			Handler:     handler,
			ReadTimeout: cfg.Timeout,
		},
		handler: handler,
	}
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("http server starting")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
