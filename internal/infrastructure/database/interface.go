package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ledgerhouse/ledger-core/internal/infrastructure/logging"
)

const (
	// dirPermissions is the permission mode for the database directory.
	dirPermissions = 0750

	// busyTimeoutMS is how long a connection waits for a database lock
	// before failing, preventing spurious "database is locked" errors.
	busyTimeoutMS = 5000

	// connectionTimeout is the timeout for verifying engine connectivity.
	connectionTimeout = 5 * time.Second

	// connMaxIdleTime is how long idle connections are kept open.
	connMaxIdleTime = 30 * time.Minute

	// memoryPath selects a shared in-memory database instead of a file.
	memoryPath = ":memory:"
)

// Option configures an Interface at construction time.
type Option func(*Interface)

// WithEchoEngine enables statement logging on every session query.
func WithEchoEngine() Option {
	return func(in *Interface) {
		in.echoEngine = true
	}
}

// WithLogger sets the logger used for engine echo and lifecycle messages.
func WithLogger(log *logging.Logger) Option {
	return func(in *Interface) {
		in.log = log
	}
}

// WithMetadata overrides the shared process-wide table metadata. Tests use
// this to create tables in isolation from the registered application schema.
func WithMetadata(m *Metadata) Option {
	return func(in *Interface) {
		in.metadata = m
	}
}

// Interface holds an engine and a registry of scoped sessions.
//
// One interface serves a whole application process (the default interface)
// or a single test run (freshly constructed). The engine owns the physical
// connection pool; the session registry owns session construction, one per
// scope. Table metadata is shared process-wide unless overridden.
type Interface struct {
	mu       sync.RWMutex
	engine   *sqlx.DB
	sessions *sessionRegistry
	path     string

	metadata   *Metadata
	echoEngine bool
	log        *logging.Logger
}

// NewInterface constructs an interface. SetupEngine must be called before
// sessions are available.
func NewInterface(opts ...Option) *Interface {
	in := &Interface{
		metadata: sharedMetadata,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// SetupEngine opens the engine for the database at the given filesystem
// path and prepares the session registry.
//
// The database directory is created if missing, the pool is opened through
// the foreign-key-enforcing driver, and connectivity is verified with a
// ping before the engine is installed.
//
// Parameters:
//   - dbPath: Path to the local database file, or ":memory:"
//
// Returns:
//   - error: If the directory, pool, or ping fails
func (in *Interface) SetupEngine(dbPath string) error {
	registerDriver()

	var dsn string
	if dbPath == memoryPath {
		// A shared cache keeps every pooled connection on one in-memory
		// database rather than each opening its own.
		dsn = fmt.Sprintf("file::memory:?mode=memory&cache=shared&_busy_timeout=%d", busyTimeoutMS)
	} else {
		if err := os.MkdirAll(filepath.Dir(dbPath), dirPermissions); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_busy_timeout=%d", dbPath, busyTimeoutMS)
	}

	engine, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	engine.SetMaxIdleConns(2)
	engine.SetConnMaxLifetime(time.Hour)
	engine.SetConnMaxIdleTime(connMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := engine.PingContext(ctx); err != nil {
		engine.Close() //nolint:errcheck // Best effort cleanup on error path
		return fmt.Errorf("verifying database connection: %w", err)
	}

	in.mu.Lock()
	old := in.engine
	in.engine = engine
	in.sessions = newSessionRegistry()
	in.path = dbPath
	in.mu.Unlock()

	// Re-running setup replaces the engine; release the old pool.
	if old != nil {
		old.Close() //nolint:errcheck // Best effort cleanup of the replaced pool
	}
	return nil
}

// Engine returns the underlying pool handle, or nil before SetupEngine.
func (in *Interface) Engine() *sqlx.DB {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.engine
}

// Path returns the filesystem path the engine was set up with.
func (in *Interface) Path() string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.path
}

// Tables returns the table names declared in the interface's metadata.
func (in *Interface) Tables() []string {
	return in.metadata.Tables()
}

// Session returns the session scoped to the current context, constructing
// it on first lookup. Contexts without a scope share a single default
// session, which suits startup tasks and CLI commands.
//
// Returns ErrEngineNotReady when called before SetupEngine.
func (in *Interface) Session(ctx context.Context) (*Session, error) {
	in.mu.RLock()
	engine, sessions := in.engine, in.sessions
	in.mu.RUnlock()

	if engine == nil || sessions == nil {
		return nil, ErrEngineNotReady
	}
	return sessions.getOrCreate(scopeFrom(ctx), in), nil
}

// Initialize prepares the database for use by creating the declared
// tables. Applications with richer bootstrap needs (seed rows, migrations)
// wrap the interface and extend this step.
func (in *Interface) Initialize(ctx context.Context) error {
	return in.CreateTables(ctx)
}

// CreateTables creates all tables declared in the metadata. Tables that
// already exist are left untouched.
func (in *Interface) CreateTables(ctx context.Context) error {
	in.mu.RLock()
	engine := in.engine
	in.mu.RUnlock()

	if engine == nil {
		return ErrEngineNotReady
	}
	return in.metadata.createAll(ctx, engine)
}

// Close removes the session for the current scope and returns its
// connection to the pool. Closing before SetupEngine, or when the scope
// has no session, is a silent no-op.
func (in *Interface) Close(ctx context.Context) error {
	in.mu.RLock()
	sessions := in.sessions
	in.mu.RUnlock()

	if sessions == nil {
		return nil
	}
	sess := sessions.remove(scopeFrom(ctx))
	if sess == nil {
		return nil
	}
	return sess.Close()
}

// Shutdown releases every live session and closes the engine. It is the
// process-exit counterpart to the per-request Close.
func (in *Interface) Shutdown(ctx context.Context) error {
	in.mu.Lock()
	engine, sessions := in.engine, in.sessions
	in.engine = nil
	in.sessions = nil
	in.mu.Unlock()

	if sessions != nil {
		for _, sess := range sessions.drain() {
			if err := sess.Close(); err != nil {
				in.logger().Warn("closing session during shutdown", "scope", sess.Scope(), "error", err)
			}
		}
	}
	if engine == nil {
		return nil
	}
	if err := engine.Close(); err != nil {
		return fmt.Errorf("closing engine: %w", err)
	}
	return nil
}

// logger returns the configured logger, falling back to the default.
func (in *Interface) logger() *logging.Logger {
	if in.log != nil {
		return in.log
	}
	return logging.Default()
}

// The default interface is process-wide state: one per application,
// installed once at startup and reused for the process lifetime.
var (
	defaultMu        sync.Mutex
	defaultInterface *Interface
)

// CreateDefaultInterface constructs and installs the default interface
// used by applications running in production or development mode. The
// constructed interface is returned for convenience.
func CreateDefaultInterface(opts ...Option) *Interface {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultInterface = NewInterface(opts...)
	return defaultInterface
}

// DefaultInterface returns the installed default interface, or nil when
// none has been created.
func DefaultInterface() *Interface {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultInterface
}

// ResetDefaultInterface clears the installed default interface. Tests use
// this to restore a clean process state.
func ResetDefaultInterface() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultInterface = nil
}
