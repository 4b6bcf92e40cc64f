// ledgerd is the ledger-core service binary.
//
// It loads configuration, installs the default database interface, runs
// the interface selector to bind the database to the application, and
// serves the ledger HTTP API until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ledgerhouse/ledger-core/internal/api"
	"github.com/ledgerhouse/ledger-core/internal/app"
	"github.com/ledgerhouse/ledger-core/internal/infrastructure/config"
	"github.com/ledgerhouse/ledger-core/internal/infrastructure/database"
	"github.com/ledgerhouse/ledger-core/internal/infrastructure/logging"
	"github.com/ledgerhouse/ledger-core/internal/ledger"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting ledger-core", "version", version, "commit", commit)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	// Install the default interface before initialising the application.
	// The interface selector refuses to start outside test mode without it.
	database.CreateDefaultInterface(
		database.WithLogger(log.With("component", "database")),
	)

	a := app.New(cfg, log)
	initApp := database.InterfaceSelector(func(database.Host) error {
		// Routes and handlers are wired by the api server below; the
		// initialiser itself has nothing further to prepare.
		return nil
	})
	if err := initApp(a); err != nil {
		return fmt.Errorf("initialising application: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := a.DB().Shutdown(context.Background()); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database ready", "path", cfg.Database.Path)

	// Ensure the declared schema exists. Safe to repeat on every boot:
	// existing tables are left untouched.
	if err := a.DB().CreateTables(ctx); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	repo := ledger.NewRepository(a.DB())

	server, err := api.New(api.Deps{
		Config:  cfg.API,
		Logger:  log.With("component", "api"),
		App:     a,
		Repo:    repo,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses LEDGERD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("LEDGERD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
