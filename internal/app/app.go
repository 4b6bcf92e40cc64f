// Package app defines the application object that ties configuration,
// logging, and the database interface together.
//
// An App is what the database.InterfaceSelector binds to: it exposes the
// testing flag and database configuration, receives the chosen interface,
// and collects the teardown hooks the api package runs at the end of each
// request context.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/ledgerhouse/ledger-core/internal/infrastructure/config"
	"github.com/ledgerhouse/ledger-core/internal/infrastructure/database"
	"github.com/ledgerhouse/ledger-core/internal/infrastructure/logging"
)

// Option configures an App at construction time.
type Option func(*App)

// WithTesting marks the application as a test run. The interface selector
// builds a fresh database interface for testing apps instead of reusing
// the process-wide default.
func WithTesting() Option {
	return func(a *App) {
		a.testing = true
	}
}

// App is the application object.
type App struct {
	cfg     *config.Config
	log     *logging.Logger
	testing bool

	mu        sync.Mutex
	db        *database.Interface
	teardowns []func(context.Context) error
}

// Compile-time check that App satisfies the selector's host contract.
var _ database.Host = (*App)(nil)

// New creates an application object from loaded configuration.
func New(cfg *config.Config, log *logging.Logger, opts ...Option) *App {
	a := &App{
		cfg: cfg,
		log: log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the application configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Log returns the application logger.
func (a *App) Log() *logging.Logger {
	return a.log
}

// Testing reports whether this is a test-mode application.
func (a *App) Testing() bool {
	return a.testing
}

// DatabasePath returns the configured path to the database file.
func (a *App) DatabasePath() string {
	return a.cfg.Database.Path
}

// InterfaceOptions translates the database.interface config section into
// constructor options for interfaces built fresh in test mode.
func (a *App) InterfaceOptions() []database.Option {
	opts := []database.Option{database.WithLogger(a.log)}
	if a.cfg.Database.Interface.EchoEngine {
		opts = append(opts, database.WithEchoEngine())
	}
	return opts
}

// AttachInterface exposes the active database interface to the rest of
// the application.
func (a *App) AttachInterface(in *database.Interface) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.db = in
}

// DB returns the active database interface, or nil before initialisation.
func (a *App) DB() *database.Interface {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.db
}

// RegisterTeardown installs a hook to run at the end of each request
// context. Hooks run in registration order.
func (a *App) RegisterTeardown(fn func(context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.teardowns = append(a.teardowns, fn)
}

// Teardown runs every registered hook for the given context and joins
// their errors. The api middleware calls this after each request.
func (a *App) Teardown(ctx context.Context) error {
	a.mu.Lock()
	hooks := make([]func(context.Context) error, len(a.teardowns))
	copy(hooks, a.teardowns)
	a.mu.Unlock()

	var errs []error
	for _, fn := range hooks {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
