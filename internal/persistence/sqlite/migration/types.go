// Package migration applies ordered, versioned schema migrations to a SQLite
// database, tracking applied versions in a schema_migrations table. Each
// migration runs inside its own transaction.
package migration

import (
	"errors"
	"fmt"
)

// Migration is one versioned schema change.
type Migration struct {
	Version     string
	Description string
	SQL         string
}

// ErrOutOfOrder indicates the migration list is not sorted by version.
var ErrOutOfOrder = errors.New("migration: versions must be strictly ascending")

// Error wraps a failure while applying a specific migration version.
type Error struct {
	Version   string
	Operation string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("migration %s: %s: %v", e.Version, e.Operation, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(version, operation string, err error) *Error {
	return &Error{Version: version, Operation: operation, Err: err}
}
