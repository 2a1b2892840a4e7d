package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Schema creates the five tables backing the snapshot store. All statements
// are idempotent so it can run on every startup.
const Schema = `
CREATE TABLE IF NOT EXISTS value_pool (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    value_hash TEXT UNIQUE NOT NULL,
    value_type TEXT NOT NULL,
    value_data TEXT NOT NULL,
    ref_count INTEGER DEFAULT 0,
    created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS variable_structures (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    structure_hash TEXT UNIQUE NOT NULL,
    structure TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS message_variables (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    message_id TEXT,
    chat_file TEXT NOT NULL,
    structure_id INTEGER NOT NULL,
    identifier TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (structure_id) REFERENCES variable_structures(id)
);
CREATE TABLE IF NOT EXISTS global_snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    snapshot_id TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    structure_id INTEGER NOT NULL,
    tags TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (structure_id) REFERENCES variable_structures(id)
);
CREATE TABLE IF NOT EXISTS variable_templates (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    character_name TEXT UNIQUE,
    template_content TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_value_hash ON value_pool(value_hash);
CREATE INDEX IF NOT EXISTS idx_structure_hash ON variable_structures(structure_hash);
CREATE INDEX IF NOT EXISTS idx_msg_chat ON message_variables(chat_file);
CREATE UNIQUE INDEX IF NOT EXISTS idx_msg_identifier ON message_variables(identifier);
CREATE INDEX IF NOT EXISTS idx_global_updated ON global_snapshots(updated_at);
`

// OpenDatabase opens the SQLite database at path for reading and writing.
// Write transactions begin in immediate mode (_txlock=immediate) so writer
// intent is established before any reads inside the transaction. Pragmas
// follow the usual production set: WAL journal, foreign keys on, a busy
// timeout for writer contention.
func OpenDatabase(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pool connection to ":memory:" would get its own database, so
	// in-memory stores must stay on a single connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}
