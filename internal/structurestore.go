package internal

import (
	"database/sql"
	"fmt"
)

// persistStructure stores a reference-laden tree once per distinct shape.
// The tree is serialized canonically (sorted keys), so semantically equal
// trees collapse to the same row no matter what key order the caller used.
func persistStructure(tx *sql.Tx, structure interface{}, now int64) (int64, string, error) {
	serialized, err := StableStringify(structure)
	if err != nil {
		return 0, "", fmt.Errorf("failed to serialize structure: %w", err)
	}
	hash := HashContent(serialized)

	// No-op update on conflict so RETURNING yields the existing row's id.
	var id int64
	err = tx.QueryRow(`
		INSERT INTO variable_structures (structure_hash, structure, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(structure_hash) DO UPDATE SET structure_hash = excluded.structure_hash
		RETURNING id`,
		hash, serialized, now,
	).Scan(&id)
	if err != nil {
		return 0, "", fmt.Errorf("failed to store structure: %w", err)
	}

	return id, hash, nil
}
