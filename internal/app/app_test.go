package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ledgerhouse/ledger-core/internal/infrastructure/config"
	"github.com/ledgerhouse/ledger-core/internal/infrastructure/database"
	"github.com/ledgerhouse/ledger-core/internal/infrastructure/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{
			Path: filepath.Join(t.TempDir(), "app.db"),
		},
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, logging.Default())

	if a.Testing() {
		t.Error("Testing() = true for a default app")
	}
	if a.DatabasePath() != cfg.Database.Path {
		t.Errorf("DatabasePath() = %q, want %q", a.DatabasePath(), cfg.Database.Path)
	}
	if a.DB() != nil {
		t.Error("DB() != nil before initialisation")
	}
}

func TestWithTesting(t *testing.T) {
	a := New(testConfig(t), logging.Default(), WithTesting())
	if !a.Testing() {
		t.Error("Testing() = false, want true")
	}
}

func TestInterfaceOptions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Interface.EchoEngine = true

	a := New(cfg, logging.Default(), WithTesting())
	if got := len(a.InterfaceOptions()); got != 2 {
		t.Errorf("len(InterfaceOptions()) = %d, want 2 (logger + echo)", got)
	}

	cfg.Database.Interface.EchoEngine = false
	if got := len(a.InterfaceOptions()); got != 1 {
		t.Errorf("len(InterfaceOptions()) = %d, want 1 (logger only)", got)
	}
}

func TestAttachInterface(t *testing.T) {
	a := New(testConfig(t), logging.Default())
	in := database.NewInterface(database.WithMetadata(database.NewMetadata()))

	a.AttachInterface(in)
	if a.DB() != in {
		t.Error("DB() does not return the attached interface")
	}
}

func TestTeardown(t *testing.T) {
	t.Run("runs hooks in order", func(t *testing.T) {
		a := New(testConfig(t), logging.Default())

		var order []int
		a.RegisterTeardown(func(context.Context) error {
			order = append(order, 1)
			return nil
		})
		a.RegisterTeardown(func(context.Context) error {
			order = append(order, 2)
			return nil
		})

		if err := a.Teardown(context.Background()); err != nil {
			t.Fatalf("Teardown() error = %v", err)
		}
		if len(order) != 2 || order[0] != 1 || order[1] != 2 {
			t.Errorf("hook order = %v, want [1 2]", order)
		}
	})

	t.Run("joins hook errors", func(t *testing.T) {
		a := New(testConfig(t), logging.Default())

		boom := errors.New("boom")
		a.RegisterTeardown(func(context.Context) error { return boom })
		a.RegisterTeardown(func(context.Context) error { return nil })

		if err := a.Teardown(context.Background()); !errors.Is(err, boom) {
			t.Errorf("Teardown() error = %v, want %v", err, boom)
		}
	})

	t.Run("no hooks is a no-op", func(t *testing.T) {
		a := New(testConfig(t), logging.Default())
		if err := a.Teardown(context.Background()); err != nil {
			t.Errorf("Teardown() error = %v, want nil", err)
		}
	})
}

func TestAppSatisfiesSelectorHost(t *testing.T) {
	t.Cleanup(database.ResetDefaultInterface)
	database.ResetDefaultInterface()

	a := New(testConfig(t), logging.Default(), WithTesting())
	init := database.InterfaceSelector(func(database.Host) error { return nil })

	if err := init(a); err != nil {
		t.Fatalf("selector error = %v", err)
	}
	defer a.DB().Shutdown(context.Background()) //nolint:errcheck // Test cleanup

	if a.DB() == nil {
		t.Fatal("no interface attached after selector")
	}
}
