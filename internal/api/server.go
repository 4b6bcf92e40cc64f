// Package api provides the HTTP REST API for ledger-core.
//
// It exposes ledger accounts and entries over JSON and owns the
// per-request database lifecycle: every request runs inside its own
// session scope, and the application's teardown hooks (which close the
// scoped session) run when the request finishes.
//
// The server follows the usual lifecycle pattern:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ledgerhouse/ledger-core/internal/app"
	"github.com/ledgerhouse/ledger-core/internal/infrastructure/config"
	"github.com/ledgerhouse/ledger-core/internal/infrastructure/logging"
	"github.com/ledgerhouse/ledger-core/internal/ledger"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.APIConfig
	Logger  *logging.Logger
	App     *app.App
	Repo    *ledger.Repository
	Version string
}

// Server is the HTTP API server for ledger-core.
type Server struct {
	cfg     config.APIConfig
	logger  *logging.Logger
	app     *app.App
	repo    *ledger.Repository
	version string
	server  *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.App == nil {
		return nil, fmt.Errorf("application is required")
	}
	if deps.Repo == nil {
		return nil, fmt.Errorf("ledger repository is required")
	}

	return &Server{
		cfg:     deps.Config,
		logger:  deps.Logger,
		app:     deps.App,
		repo:    deps.Repo,
		version: deps.Version,
	}, nil
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	_ = ctx // Listener lifetime is controlled by Close, not the parent context.

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server started", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the API server, waiting for in-flight
// requests to complete.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
