// Package db holds the small database/sql helpers shared by the
// library cache and the player state store.
package db

import (
	"database/sql"
)

// WithTx runs fn inside a transaction, committing on success and
// rolling back when fn returns an error. The queue save uses it to
// replace queue_tracks and queue_state atomically.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after a successful commit

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// NullInt64Value unwraps a scanned nullable integer column, mapping
// NULL to 0. Track and disc numbers treat 0 as "not set".
func NullInt64Value(n sql.NullInt64) int64 {
	if !n.Valid {
		return 0
	}
	return n.Int64
}

// NullStringValue unwraps a scanned nullable text column, mapping NULL
// to the empty string.
func NullStringValue(n sql.NullString) string {
	if !n.Valid {
		return ""
	}
	return n.String
}
