// Package database binds the application lifecycle to SQLite persistence.
//
// This package manages:
//   - The Interface object: an engine (connection pool) plus a registry of
//     request-scoped sessions
//   - A process-wide default interface for production and development, and
//     freshly built interfaces for tests
//   - The InterfaceSelector, which wires an interface to an application
//     during initialisation based on its testing flag
//   - Transaction scoping with commit-on-return and rollback-on-error
//   - Foreign-key enforcement on every new physical connection
//
// # Engine and sessions
//
// An Interface owns one engine. Sessions are created on demand, one per
// scope, where a scope is normally an HTTP request (the api package places
// a scope key in the request context). Each session lazily claims a
// dedicated connection from the engine pool and returns it when the
// session is closed at request teardown.
//
// # Foreign keys
//
// SQLite leaves foreign-key enforcement off by default. The engine is
// opened through a driver registered with a connect hook that issues
// PRAGMA foreign_keys = ON once per new physical connection, so every
// pooled connection enforces constraints from its first query.
//
// # Usage
//
//	database.CreateDefaultInterface(database.WithLogger(log))
//	initApp := database.InterfaceSelector(registerRoutes)
//	if err := initApp(app); err != nil {
//	    log.Fatal(err)
//	}
//
// Thread Safety: Interface methods are safe for concurrent use. A single
// Session must not be shared across concurrent requests; the per-request
// scoping in the api package guarantees this.
package database
