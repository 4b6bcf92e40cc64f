package database

import (
	"context"
	"testing"
)

func TestWithScope(t *testing.T) {
	ctx, id := WithScope(context.Background())

	got, ok := ScopeID(ctx)
	if !ok {
		t.Fatal("ScopeID() ok = false for scoped context")
	}
	if got != id {
		t.Errorf("ScopeID() = %q, want %q", got, id)
	}

	if _, ok := ScopeID(context.Background()); ok {
		t.Error("ScopeID() ok = true for unscoped context")
	}
}

func TestSession_ScopedLookup(t *testing.T) {
	in := newTestInterface(t)

	t.Run("same scope returns same session", func(t *testing.T) {
		ctx, _ := WithScope(context.Background())

		first, err := in.Session(ctx)
		if err != nil {
			t.Fatalf("Session() error = %v", err)
		}
		second, err := in.Session(ctx)
		if err != nil {
			t.Fatalf("Session() error = %v", err)
		}
		if first != second {
			t.Error("Session() returned different sessions for one scope")
		}
	})

	t.Run("distinct scopes get distinct sessions", func(t *testing.T) {
		ctx1, _ := WithScope(context.Background())
		ctx2, _ := WithScope(context.Background())

		s1, err := in.Session(ctx1)
		if err != nil {
			t.Fatalf("Session() error = %v", err)
		}
		s2, err := in.Session(ctx2)
		if err != nil {
			t.Fatalf("Session() error = %v", err)
		}
		if s1 == s2 {
			t.Error("Session() shared one session across two scopes")
		}
	})

	t.Run("unscoped contexts share the default session", func(t *testing.T) {
		s1, err := in.Session(context.Background())
		if err != nil {
			t.Fatalf("Session() error = %v", err)
		}
		s2, err := in.Session(context.TODO())
		if err != nil {
			t.Fatalf("Session() error = %v", err)
		}
		if s1 != s2 {
			t.Error("unscoped contexts received distinct sessions")
		}
	})

	t.Run("derived contexts keep the scope", func(t *testing.T) {
		ctx, _ := WithScope(context.Background())
		child, cancel := context.WithCancel(ctx)
		defer cancel()

		s1, err := in.Session(ctx)
		if err != nil {
			t.Fatalf("Session() error = %v", err)
		}
		s2, err := in.Session(child)
		if err != nil {
			t.Fatalf("Session() error = %v", err)
		}
		if s1 != s2 {
			t.Error("derived context lost its session scope")
		}
	})
}

func TestSession_Queries(t *testing.T) {
	in := newTestInterface(t)
	ctx, _ := WithScope(context.Background())

	if err := in.CreateTables(ctx); err != nil {
		t.Fatalf("CreateTables() error = %v", err)
	}

	sess, err := in.Session(ctx)
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}

	res, err := sess.ExecContext(ctx, "INSERT INTO parents (name) VALUES (?)", "alpha")
	if err != nil {
		t.Fatalf("ExecContext() error = %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("LastInsertId() error = %v", err)
	}

	var name string
	if err := sess.GetContext(ctx, &name, "SELECT name FROM parents WHERE id = ?", id); err != nil {
		t.Fatalf("GetContext() error = %v", err)
	}
	if name != "alpha" {
		t.Errorf("name = %q, want %q", name, "alpha")
	}

	var names []string
	if err := sess.SelectContext(ctx, &names, "SELECT name FROM parents ORDER BY id"); err != nil {
		t.Fatalf("SelectContext() error = %v", err)
	}
	if len(names) != 1 {
		t.Errorf("SelectContext() returned %d rows, want 1", len(names))
	}
}

func TestSession_CloseReleasesConnection(t *testing.T) {
	in := newTestInterface(t)
	ctx, _ := WithScope(context.Background())

	sess, err := in.Session(ctx)
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}

	// Claim a connection by running a query.
	if _, err := sess.ExecContext(ctx, "SELECT 1"); err != nil {
		t.Fatalf("ExecContext() error = %v", err)
	}

	if err := sess.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Closing again is a no-op.
	if err := sess.Close(); err != nil {
		t.Errorf("Close() second call error = %v", err)
	}
}

func TestSession_EchoEngine(t *testing.T) {
	// Echo only changes logging; queries must behave identically.
	in := newTestInterface(t, WithEchoEngine())
	ctx, _ := WithScope(context.Background())

	sess, err := in.Session(ctx)
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	var one int
	if err := sess.GetContext(ctx, &one, "SELECT 1"); err != nil {
		t.Fatalf("GetContext() with echo error = %v", err)
	}
	if one != 1 {
		t.Errorf("SELECT 1 = %d, want 1", one)
	}
}
