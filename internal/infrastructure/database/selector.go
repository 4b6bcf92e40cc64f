package database

import (
	"context"
	"fmt"
)

// Host is the application surface the interface selector binds to. The
// app package satisfies it; tests provide lightweight fakes.
type Host interface {
	// Testing reports whether the application is running in test mode.
	Testing() bool

	// DatabasePath returns the configured path to the database file.
	DatabasePath() string

	// InterfaceOptions returns the constructor options for interfaces the
	// selector builds fresh in test mode.
	InterfaceOptions() []Option

	// AttachInterface exposes the chosen interface to the application.
	AttachInterface(*Interface)

	// RegisterTeardown installs a hook the application runs at the end of
	// each request context.
	RegisterTeardown(func(context.Context) error)
}

// InitFunc initialises an application, typically from its factory function.
type InitFunc func(Host) error

// InterfaceSelector wraps an application-initialisation function to choose
// the database interface for this run.
//
// Outside test mode the previously installed default interface is
// required; a missing default is a configuration error that halts startup.
// In test mode a brand-new interface is built from the host's configured
// options, so test runs never share state with each other or with the
// default interface.
//
// The selector always sets up the engine from the configured database
// path, delegates to the wrapped initialiser, and registers a teardown
// hook that closes the scoped session at the end of each request. In test
// mode it additionally initialises the fresh interface immediately, since
// there is no CLI step to create tables before the test exercises them.
func InterfaceSelector(init InitFunc) InitFunc {
	return func(h Host) error {
		var in *Interface
		if !h.Testing() {
			in = DefaultInterface()
			if in == nil {
				return fmt.Errorf("%w: create a default interface for all apps running in production or development mode", ErrNoDefaultInterface)
			}
		} else {
			in = NewInterface(h.InterfaceOptions()...)
		}
		h.AttachInterface(in)

		if err := in.SetupEngine(h.DatabasePath()); err != nil {
			return fmt.Errorf("setting up database engine: %w", err)
		}

		if err := init(h); err != nil {
			return err
		}

		h.RegisterTeardown(in.Close)

		if h.Testing() {
			ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
			defer cancel()
			if err := in.Initialize(ctx); err != nil {
				return fmt.Errorf("initialising test database: %w", err)
			}
		}
		return nil
	}
}
