package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/romainsacchi/carculator/config"
	"github.com/romainsacchi/carculator/core/logging"
	"github.com/romainsacchi/carculator/core/resultstore"
	"github.com/romainsacchi/carculator/core/stagewatch"
	"github.com/romainsacchi/carculator/infra/logger"
)

// NewHealthHandler returns the unauthenticated liveness endpoint.
func NewHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Server bundles the HTTP API endpoints.
type Server struct {
	srv *http.Server
	log logger.Logger
}

// NewServer wires the handlers onto a mux and configures the HTTP server.
func NewServer(cfg config.APIConfig, runner Runner, results resultstore.Store, stages stagewatch.Store, logs logging.Store) *Server {
	mux := http.NewServeMux()
	mux.Handle("/healthz", NewHealthHandler())
	mux.Handle("/api/v1/calculations", NewCalculationHandler(runner, cfg.BearerToken))
	mux.Handle("/api/v1/results", NewResultsHandler(results, cfg.BearerToken))
	mux.Handle("/api/v1/stages", NewStagesHandler(stages, cfg.BearerToken))
	mux.Handle("/api/v1/logs", NewLogsHandler(logs, cfg.BearerToken))

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}
	return &Server{srv: srv, log: logger.New("api")}
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.ListenAndServe() }()
	s.log.Infof("HTTP API listening on %s", s.srv.Addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
