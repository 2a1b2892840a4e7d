package internal

import (
	"path/filepath"
	"testing"
)

func TestOpenDatabase_CreatesSchemaAndDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.db")

	db, err := OpenDatabase(path)
	if err != nil {
		t.Fatalf("OpenDatabase() error: %v", err)
	}
	defer db.Close()

	tables := []string{
		"value_pool",
		"variable_structures",
		"message_variables",
		"global_snapshots",
		"variable_templates",
	}
	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("read foreign_keys pragma: %v", err)
	}
	if fk != 1 {
		t.Error("foreign_keys pragma is off")
	}
}

func TestOpenDatabase_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	db, err := OpenDatabase(path)
	if err != nil {
		t.Fatalf("first OpenDatabase() error: %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO variable_structures (structure_hash, structure, created_at) VALUES (?, ?, ?)",
		"h1", "{}", 1,
	); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db.Close()

	// The schema is idempotent, so reopening keeps existing rows.
	db, err = OpenDatabase(path)
	if err != nil {
		t.Fatalf("second OpenDatabase() error: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM variable_structures").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("rows after reopen = %d, want 1", count)
	}
}

func TestOpenDatabase_ForeignKeyEnforced(t *testing.T) {
	db, err := OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("OpenDatabase() error: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(
		"INSERT INTO message_variables (chat_file, structure_id, identifier, created_at) VALUES (?, ?, ?, ?)",
		"chat.jsonl", 9999, "orphan", 1,
	)
	if err == nil {
		t.Error("insert with dangling structure_id should fail")
	}
}
