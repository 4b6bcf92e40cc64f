package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Metadata is an ordered registry of table definitions. Domain packages
// declare their tables against the shared process-wide metadata at init
// time; CreateTables replays the definitions against an engine.
type Metadata struct {
	mu     sync.RWMutex
	order  []string
	tables map[string]string
}

// NewMetadata creates an empty metadata registry. Most code uses the
// shared registry via the package-level RegisterTable; fresh registries
// exist for tests and for embedding applications with their own schema.
func NewMetadata() *Metadata {
	return &Metadata{
		tables: make(map[string]string),
	}
}

// sharedMetadata is the process-wide table registry. Like the driver
// registry in database/sql, it is populated once during package init and
// shared by every interface that does not override it.
var sharedMetadata = NewMetadata()

// RegisterTable declares a table in the shared process-wide metadata.
// It is intended to be called from init functions of model packages.
// It panics if the name is empty or already registered, mirroring
// sql.Register semantics for init-time registries.
func RegisterTable(name, ddl string) {
	sharedMetadata.RegisterTable(name, ddl)
}

// SharedMetadata returns the process-wide table registry.
func SharedMetadata() *Metadata {
	return sharedMetadata
}

// RegisterTable declares a table and its CREATE TABLE statement.
// Tables are created in registration order, so parents must be
// registered before children that reference them.
func (m *Metadata) RegisterTable(name, ddl string) {
	if name == "" {
		panic("database: RegisterTable called with empty table name")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.tables[name]; dup {
		panic(fmt.Sprintf("database: RegisterTable called twice for table %q", name))
	}
	m.order = append(m.order, name)
	m.tables[name] = ddl
}

// Tables returns the registered table names in registration order.
func (m *Metadata) Tables() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// createAll creates every registered table that does not already exist.
// Existing tables are left untouched, so the call is idempotent.
func (m *Metadata) createAll(ctx context.Context, engine *sqlx.DB) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, name := range m.order {
		var count int
		err := engine.GetContext(ctx, &count,
			"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name)
		if err != nil {
			return fmt.Errorf("checking for table %q: %w", name, err)
		}
		if count > 0 {
			continue
		}
		if _, err := engine.ExecContext(ctx, m.tables[name]); err != nil {
			return fmt.Errorf("creating table %q: %w", name, err)
		}
	}
	return nil
}
