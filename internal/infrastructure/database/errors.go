package database

import "errors"

// Domain-specific errors for database lifecycle operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrEngineNotReady is returned when a session is requested before
	// SetupEngine has been called on the interface.
	ErrEngineNotReady = errors.New("database: engine not initialised, call SetupEngine first")

	// ErrNoDefaultInterface is returned by the interface selector when an
	// application starts in non-test mode without a previously installed
	// default interface. This is fatal at startup: create a default
	// interface for all apps running in production or development mode.
	ErrNoDefaultInterface = errors.New("database: no default interface has been installed")
)
