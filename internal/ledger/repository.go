package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ledgerhouse/ledger-core/internal/infrastructure/database"
)

// Repository provides access to ledger accounts and entries through a
// database interface. Reads use the session scoped to the caller's
// context; writes run inside a begun transaction.
type Repository struct {
	db *database.Interface
}

// NewRepository creates a repository bound to the given interface.
func NewRepository(db *database.Interface) *Repository {
	return &Repository{db: db}
}

// CreateAccount inserts a new account and returns it.
func (r *Repository) CreateAccount(ctx context.Context, name string) (Account, error) {
	if name == "" {
		return Account{}, ErrEmptyName
	}

	var account Account
	err := r.db.Transaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "INSERT INTO accounts (name) VALUES (?)", name)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %q", ErrAccountExists, name)
			}
			return fmt.Errorf("inserting account: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading account id: %w", err)
		}
		return tx.GetContext(ctx, &account, "SELECT * FROM accounts WHERE id = ?", id)
	})
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

// Account fetches a single account by id.
func (r *Repository) Account(ctx context.Context, id int64) (Account, error) {
	sess, err := r.db.Session(ctx)
	if err != nil {
		return Account{}, err
	}

	var account Account
	err = sess.GetContext(ctx, &account, "SELECT * FROM accounts WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, fmt.Errorf("%w: id %d", ErrAccountNotFound, id)
	}
	if err != nil {
		return Account{}, fmt.Errorf("fetching account: %w", err)
	}
	return account, nil
}

// ListAccounts returns all accounts ordered by creation.
func (r *Repository) ListAccounts(ctx context.Context) ([]Account, error) {
	sess, err := r.db.Session(ctx)
	if err != nil {
		return nil, err
	}

	accounts := []Account{}
	if err := sess.SelectContext(ctx, &accounts, "SELECT * FROM accounts ORDER BY id"); err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return accounts, nil
}

// AddEntry posts an entry against an account and returns it.
func (r *Repository) AddEntry(ctx context.Context, accountID, amountCents int64, memo string) (Entry, error) {
	var entry Entry
	err := r.db.Transaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO entries (account_id, amount_cents, memo) VALUES (?, ?, ?)",
			accountID, amountCents, memo)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: id %d", ErrAccountNotFound, accountID)
			}
			return fmt.Errorf("inserting entry: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading entry id: %w", err)
		}
		return tx.GetContext(ctx, &entry, "SELECT * FROM entries WHERE id = ?", id)
	})
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Entries returns all entries for an account, newest first.
func (r *Repository) Entries(ctx context.Context, accountID int64) ([]Entry, error) {
	if _, err := r.Account(ctx, accountID); err != nil {
		return nil, err
	}

	sess, err := r.db.Session(ctx)
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	err = sess.SelectContext(ctx, &entries,
		"SELECT * FROM entries WHERE account_id = ? ORDER BY id DESC", accountID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

// Balance returns the sum of an account's entries in cents.
func (r *Repository) Balance(ctx context.Context, accountID int64) (int64, error) {
	if _, err := r.Account(ctx, accountID); err != nil {
		return 0, err
	}

	sess, err := r.db.Session(ctx)
	if err != nil {
		return 0, err
	}

	var balance int64
	err = sess.GetContext(ctx, &balance,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM entries WHERE account_id = ?", accountID)
	if err != nil {
		return 0, fmt.Errorf("computing balance: %w", err)
	}
	return balance, nil
}

// Transfer posts a matched debit and credit pair between two accounts in
// one transaction. If either insert fails, neither is kept.
func (r *Repository) Transfer(ctx context.Context, fromID, toID, amountCents int64, memo string) error {
	return r.db.Transaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		insert := func(accountID, amount int64) error {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO entries (account_id, amount_cents, memo) VALUES (?, ?, ?)",
				accountID, amount, memo)
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: id %d", ErrAccountNotFound, accountID)
			}
			return err
		}
		if err := insert(fromID, -amountCents); err != nil {
			return err
		}
		return insert(toID, amountCents)
	})
}
