package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// scopeCtxKey is a private type for the session scope context key.
type scopeCtxKey struct{}

// defaultScope is used when a context carries no scope key, giving
// non-request code (CLI commands, startup tasks) a single shared session.
const defaultScope = "default"

// WithScope returns a context carrying a fresh session scope and the scope
// identifier. Each HTTP request gets its own scope, so sessions looked up
// through the derived context are never shared between requests.
func WithScope(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, scopeCtxKey{}, id), id
}

// ScopeID extracts the session scope from a context. The second return
// value reports whether the context carried a scope.
func ScopeID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(scopeCtxKey{}).(string)
	return id, ok
}

// scopeFrom resolves the effective scope for a context.
func scopeFrom(ctx context.Context) string {
	if id, ok := ScopeID(ctx); ok {
		return id
	}
	return defaultScope
}

// Session is a unit-of-work handle bound to one interface. It lazily
// claims a dedicated connection from the engine pool on first use and
// holds it until the session is closed at scope teardown, so all queries
// within one scope observe the same connection state.
//
// A Session is safe to use from the single request goroutine it belongs
// to; it must not be shared across concurrent requests.
type Session struct {
	scope string
	in    *Interface

	mu   sync.Mutex
	conn *sqlx.Conn
}

// Scope returns the scope identifier this session belongs to.
func (s *Session) Scope() string {
	return s.scope
}

// connection returns the session's dedicated connection, claiming one
// from the pool on first use.
func (s *Session) connection(ctx context.Context) (*sqlx.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return s.conn, nil
	}
	engine := s.in.Engine()
	if engine == nil {
		return nil, ErrEngineNotReady
	}
	conn, err := engine.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("database: claiming connection: %w", err)
	}
	s.conn = conn
	return conn, nil
}

// ExecContext executes a statement that returns no rows.
func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	conn, err := s.connection(ctx)
	if err != nil {
		return nil, err
	}
	s.echo(query)
	return conn.ExecContext(ctx, query, args...)
}

// GetContext runs a query expected to return one row and scans it into dest.
func (s *Session) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	conn, err := s.connection(ctx)
	if err != nil {
		return err
	}
	s.echo(query)
	return conn.GetContext(ctx, dest, query, args...)
}

// SelectContext runs a query and scans all rows into the dest slice.
func (s *Session) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	conn, err := s.connection(ctx)
	if err != nil {
		return err
	}
	s.echo(query)
	return conn.SelectContext(ctx, dest, query, args...)
}

// QueryxContext runs a query and returns the rows for manual iteration.
func (s *Session) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	conn, err := s.connection(ctx)
	if err != nil {
		return nil, err
	}
	s.echo(query)
	return conn.QueryxContext(ctx, query, args...)
}

// BeginTxx begins a transaction on the session's connection.
func (s *Session) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	conn, err := s.connection(ctx)
	if err != nil {
		return nil, err
	}
	s.echo("BEGIN")
	return conn.BeginTxx(ctx, nil)
}

// Close returns the session's connection to the engine pool. Closing a
// session that never claimed a connection is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	conn := s.conn
	s.conn = nil
	if err := conn.Close(); err != nil {
		return fmt.Errorf("database: releasing connection: %w", err)
	}
	return nil
}

// echo logs the statement when the interface has engine echo enabled.
func (s *Session) echo(query string) {
	if !s.in.echoEngine {
		return
	}
	s.in.logger().Debug("sql statement", "scope", s.scope, "query", query)
}

// sessionRegistry maps scope identifiers to live sessions. It is the
// session-factory half of an interface: sessions are constructed on
// first lookup and removed at scope teardown.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]*Session),
	}
}

// getOrCreate returns the session for a scope, constructing it if absent.
func (r *sessionRegistry) getOrCreate(scope string, in *Interface) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[scope]; ok {
		return sess
	}
	sess := &Session{scope: scope, in: in}
	r.sessions[scope] = sess
	return sess
}

// remove detaches and returns the session for a scope, or nil if none exists.
func (r *sessionRegistry) remove(scope string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess := r.sessions[scope]
	delete(r.sessions, scope)
	return sess
}

// drain detaches and returns all live sessions.
func (r *sessionRegistry) drain() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		sessions = append(sessions, sess)
	}
	r.sessions = make(map[string]*Session)
	return sessions
}
