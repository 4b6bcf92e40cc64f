package ledger

import (
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Domain-specific errors for ledger operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrAccountNotFound is returned when an account id does not exist.
	ErrAccountNotFound = errors.New("ledger: account not found")

	// ErrAccountExists is returned when creating an account whose name is taken.
	ErrAccountExists = errors.New("ledger: account name already exists")

	// ErrEmptyName is returned when creating an account with an empty name.
	ErrEmptyName = errors.New("ledger: account name cannot be empty")
)

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// isForeignKeyViolation reports whether err is a FOREIGN KEY constraint failure.
func isForeignKeyViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
