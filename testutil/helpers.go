package testutil

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/iksnae/var-manager/internal"
)

// OpenTestDB opens an in-memory database with the schema applied and
// registers cleanup to close it.
func OpenTestDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := internal.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// NewTestStore creates a Store over a fresh in-memory database
func NewTestStore(t testing.TB) *internal.Store {
	t.Helper()
	return internal.NewStore(OpenTestDB(t))
}

// JSONMarshal marshals a value to JSON for testing
func JSONMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal JSON: %v", err)
	}
	return data
}

// JSONUnmarshal unmarshals JSON for testing
func JSONUnmarshal(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
}

// DeepNested builds a payload nested to the given depth, for depth guard tests
func DeepNested(depth int) map[string]interface{} {
	root := map[string]interface{}{}
	current := root
	for i := 0; i < depth; i++ {
		next := map[string]interface{}{}
		current["child"] = next
		current = next
	}
	current["leaf"] = "done"
	return root
}
