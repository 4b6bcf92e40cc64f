package ledger

import "time"

// Account is a named ledger account.
type Account struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Entry is a single posting against an account. Amounts are integer
// cents; positive values credit the account, negative values debit it.
type Entry struct {
	ID          int64     `db:"id" json:"id"`
	AccountID   int64     `db:"account_id" json:"account_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Memo        string    `db:"memo" json:"memo"`
	PostedAt    time.Time `db:"posted_at" json:"posted_at"`
}
