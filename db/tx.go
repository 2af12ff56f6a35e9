package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNoDB is returned by Tx when no database handle is available, which
// happens when the events store runs in its disabled configuration.
var ErrNoDB = errors.New("database handle unavailable")

// Tx runs fn inside one transaction and commits on success. Any error from
// fn rolls the transaction back and is returned as-is.
func Tx[T any](ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) (T, error)) (T, error) {
	var zero T
	if db == nil {
		return zero, ErrNoDB
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("begin tx: %w", err)
	}

	out, err := fn(tx)
	if err != nil {
		_ = tx.Rollback()
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("commit tx: %w", err)
	}
	return out, nil
}
