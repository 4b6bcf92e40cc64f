package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ledgerhouse/ledger-core/internal/infrastructure/database"
)

// newTestRepo builds a repository over a fresh temp-dir database with the
// ledger schema created, plus a scoped context standing in for a request.
func newTestRepo(t *testing.T) (*Repository, context.Context) {
	t.Helper()

	in := database.NewInterface()
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	if err := in.SetupEngine(dbPath); err != nil {
		t.Fatalf("SetupEngine() error = %v", err)
	}
	t.Cleanup(func() {
		_ = in.Shutdown(context.Background())
	})

	ctx, _ := database.WithScope(context.Background())
	if err := in.CreateTables(ctx); err != nil {
		t.Fatalf("CreateTables() error = %v", err)
	}
	return NewRepository(in), ctx
}

func TestCreateAccount(t *testing.T) {
	repo, ctx := newTestRepo(t)

	t.Run("creates and returns the account", func(t *testing.T) {
		account, err := repo.CreateAccount(ctx, "current")
		if err != nil {
			t.Fatalf("CreateAccount() error = %v", err)
		}
		if account.ID == 0 {
			t.Error("account ID was not assigned")
		}
		if account.Name != "current" {
			t.Errorf("Name = %q, want %q", account.Name, "current")
		}
		if account.CreatedAt.IsZero() {
			t.Error("CreatedAt was not populated")
		}
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		if _, err := repo.CreateAccount(ctx, "savings"); err != nil {
			t.Fatalf("CreateAccount() error = %v", err)
		}
		_, err := repo.CreateAccount(ctx, "savings")
		if !errors.Is(err, ErrAccountExists) {
			t.Errorf("CreateAccount() duplicate error = %v, want ErrAccountExists", err)
		}
	})

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := repo.CreateAccount(ctx, "")
		if !errors.Is(err, ErrEmptyName) {
			t.Errorf("CreateAccount() error = %v, want ErrEmptyName", err)
		}
	})
}

func TestAccount(t *testing.T) {
	repo, ctx := newTestRepo(t)

	created, err := repo.CreateAccount(ctx, "current")
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	got, err := repo.Account(ctx, created.ID)
	if err != nil {
		t.Fatalf("Account() error = %v", err)
	}
	if got.Name != "current" {
		t.Errorf("Name = %q, want %q", got.Name, "current")
	}

	_, err = repo.Account(ctx, 9999)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Account(9999) error = %v, want ErrAccountNotFound", err)
	}
}

func TestListAccounts(t *testing.T) {
	repo, ctx := newTestRepo(t)

	accounts, err := repo.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("fresh database has %d accounts, want 0", len(accounts))
	}

	for _, name := range []string{"a", "b", "c"} {
		if _, err := repo.CreateAccount(ctx, name); err != nil {
			t.Fatalf("CreateAccount(%q) error = %v", name, err)
		}
	}

	accounts, err = repo.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if len(accounts) != 3 {
		t.Errorf("ListAccounts() returned %d accounts, want 3", len(accounts))
	}
}

func TestAddEntry(t *testing.T) {
	repo, ctx := newTestRepo(t)

	account, err := repo.CreateAccount(ctx, "current")
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	t.Run("posts an entry", func(t *testing.T) {
		entry, err := repo.AddEntry(ctx, account.ID, 1250, "deposit")
		if err != nil {
			t.Fatalf("AddEntry() error = %v", err)
		}
		if entry.AccountID != account.ID {
			t.Errorf("AccountID = %d, want %d", entry.AccountID, account.ID)
		}
		if entry.AmountCents != 1250 {
			t.Errorf("AmountCents = %d, want 1250", entry.AmountCents)
		}
	})

	t.Run("rejects unknown accounts via foreign key", func(t *testing.T) {
		_, err := repo.AddEntry(ctx, 9999, 100, "orphan")
		if !errors.Is(err, ErrAccountNotFound) {
			t.Errorf("AddEntry() error = %v, want ErrAccountNotFound", err)
		}
	})
}

func TestEntriesAndBalance(t *testing.T) {
	repo, ctx := newTestRepo(t)

	account, err := repo.CreateAccount(ctx, "current")
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	amounts := []int64{1000, -250, 40}
	for _, cents := range amounts {
		if _, err := repo.AddEntry(ctx, account.ID, cents, ""); err != nil {
			t.Fatalf("AddEntry(%d) error = %v", cents, err)
		}
	}

	entries, err := repo.Entries(ctx, account.ID)
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("Entries() returned %d rows, want 3", len(entries))
	}
	// Newest first.
	if entries[0].AmountCents != 40 {
		t.Errorf("first entry = %d, want 40", entries[0].AmountCents)
	}

	balance, err := repo.Balance(ctx, account.ID)
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if balance != 790 {
		t.Errorf("Balance() = %d, want 790", balance)
	}

	if _, err := repo.Balance(ctx, 9999); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Balance(9999) error = %v, want ErrAccountNotFound", err)
	}
}

func TestTransfer(t *testing.T) {
	repo, ctx := newTestRepo(t)

	from, err := repo.CreateAccount(ctx, "current")
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	to, err := repo.CreateAccount(ctx, "savings")
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if _, err := repo.AddEntry(ctx, from.ID, 5000, "opening"); err != nil {
		t.Fatalf("AddEntry() error = %v", err)
	}

	t.Run("moves funds atomically", func(t *testing.T) {
		if err := repo.Transfer(ctx, from.ID, to.ID, 2000, "move"); err != nil {
			t.Fatalf("Transfer() error = %v", err)
		}

		fromBalance, err := repo.Balance(ctx, from.ID)
		if err != nil {
			t.Fatalf("Balance() error = %v", err)
		}
		if fromBalance != 3000 {
			t.Errorf("from balance = %d, want 3000", fromBalance)
		}

		toBalance, err := repo.Balance(ctx, to.ID)
		if err != nil {
			t.Fatalf("Balance() error = %v", err)
		}
		if toBalance != 2000 {
			t.Errorf("to balance = %d, want 2000", toBalance)
		}
	})

	t.Run("failed transfer leaves no partial writes", func(t *testing.T) {
		before, err := repo.Balance(ctx, from.ID)
		if err != nil {
			t.Fatalf("Balance() error = %v", err)
		}

		// The debit against the source succeeds; the credit hits a
		// missing account and the foreign key rolls the pair back.
		err = repo.Transfer(ctx, from.ID, 9999, 1000, "lost")
		if !errors.Is(err, ErrAccountNotFound) {
			t.Fatalf("Transfer() error = %v, want ErrAccountNotFound", err)
		}

		after, err := repo.Balance(ctx, from.ID)
		if err != nil {
			t.Fatalf("Balance() error = %v", err)
		}
		if after != before {
			t.Errorf("source balance changed on failed transfer: %d -> %d", before, after)
		}
	})
}
