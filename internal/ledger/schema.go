package ledger

import "github.com/ledgerhouse/ledger-core/internal/infrastructure/database"

func init() {
	database.RegisterTable("accounts", `
		CREATE TABLE accounts (
			id         INTEGER PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	database.RegisterTable("entries", `
		CREATE TABLE entries (
			id          INTEGER PRIMARY KEY,
			account_id  INTEGER NOT NULL REFERENCES accounts (id),
			amount_cents INTEGER NOT NULL,
			memo        TEXT NOT NULL DEFAULT '',
			posted_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
}
