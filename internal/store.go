package internal

import "database/sql"

// Store is the snapshot persistence engine. It wraps a single *sql.DB opened
// for the process lifetime; the SQLite single-writer discipline serializes
// concurrent save operations.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by the given database connection
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for health checks
func (s *Store) DB() *sql.DB {
	return s.db
}

// rollback aborts tx, logging instead of propagating rollback failures so
// the original error stays visible to the caller.
func rollback(tx *sql.Tx, op string) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		LogWarn("rollback after %s failed: %v", op, err)
	}
}
