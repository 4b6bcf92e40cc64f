package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TxFunc is the body of a database transaction.
type TxFunc func(ctx context.Context, tx *sqlx.Tx) error

// Transaction runs fn inside a begun transaction on the session scoped to
// the current context.
//
// The transaction commits when fn returns nil and rolls back when fn
// returns an error. A panic inside fn rolls the transaction back and
// re-panics, so partial writes are never visible either way.
func (in *Interface) Transaction(ctx context.Context, fn TxFunc) (err error) {
	sess, err := in.Session(ctx)
	if err != nil {
		return err
	}

	tx, err := sess.BeginTxx(ctx)
	if err != nil {
		return fmt.Errorf("database: starting transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("database: rolling back: %w", rbErr))
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("database: committing transaction: %w", cErr)
		}
	}()

	err = fn(ctx, tx)

	// The deferred handler above may reassign err on commit or rollback.
	return err
}
