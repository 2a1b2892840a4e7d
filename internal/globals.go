package internal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultListLimit is the page size for listing global snapshots when the
// caller does not specify one.
const DefaultListLimit = 100

// SaveGlobalSnapshot persists a named, taggable snapshot through the same
// dedup pipeline as message snapshots. Re-saving an existing snapshotId
// replaces every mutable field but keeps the original createdAt.
func (s *Store) SaveGlobalSnapshot(params GlobalSnapshotParams) (*SaveGlobalSnapshotResult, error) {
	if params.Name == "" {
		return nil, &ValidationError{Field: "name", Err: errors.New("must not be empty")}
	}
	if params.SnapshotBody == nil {
		return nil, &ValidationError{Field: "snapshotBody", Err: errors.New("must not be empty")}
	}
	if err := checkDepth(params.SnapshotBody, 0); err != nil {
		return nil, &ValidationError{Field: "snapshotBody", Err: err}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, &StorageError{Op: "begin", Err: err}
	}

	now := time.Now().UnixMilli()

	structure, err := buildStructure(params.SnapshotBody, newValueContext(tx, now), 0)
	if err != nil {
		rollback(tx, "build")
		return nil, &StorageError{Op: "build", Err: err}
	}

	structureID, structureHash, err := persistStructure(tx, structure, now)
	if err != nil {
		rollback(tx, "persist")
		return nil, &StorageError{Op: "persist", Err: err}
	}

	snapshotID := params.SnapshotID
	if snapshotID == "" {
		snapshotID = GenerateIdentifier()
	}

	createdAt := now
	replaced := true
	err = tx.QueryRow("SELECT created_at FROM global_snapshots WHERE snapshot_id = ?", snapshotID).Scan(&createdAt)
	if err == sql.ErrNoRows {
		replaced = false
		createdAt = now
	} else if err != nil {
		rollback(tx, "upsert")
		return nil, &StorageError{Op: "upsert", Err: err}
	}

	_, err = tx.Exec(`
		INSERT INTO global_snapshots (snapshot_id, name, description, structure_id, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(snapshot_id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			structure_id = excluded.structure_id,
			tags = excluded.tags,
			updated_at = excluded.updated_at`,
		snapshotID, params.Name, nullableString(params.Description), structureID,
		serializeTags(params.Tags), createdAt, now)
	if err != nil {
		rollback(tx, "upsert")
		return nil, &StorageError{Op: "upsert", Err: err}
	}

	if err := tx.Commit(); err != nil {
		rollback(tx, "commit")
		return nil, &StorageError{Op: "commit", Err: err}
	}

	LogDebug("saved global snapshot %s (structure %d, replaced=%v)", snapshotID, structureID, replaced)

	return &SaveGlobalSnapshotResult{
		SnapshotID:    snapshotID,
		StructureID:   structureID,
		StructureHash: structureHash,
		CreatedAt:     createdAt,
		UpdatedAt:     now,
		Replaced:      replaced,
	}, nil
}

// GetGlobalSnapshot fetches a global snapshot by id and hydrates its body.
// Returns (nil, nil) when no binding exists.
func (s *Store) GetGlobalSnapshot(snapshotID string) (*GlobalSnapshotRecord, error) {
	var (
		record      GlobalSnapshotRecord
		description sql.NullString
		tags        sql.NullString
		structure   string
	)
	err := s.db.QueryRow(`
		SELECT gs.snapshot_id, gs.name, gs.description, gs.tags, gs.created_at, gs.updated_at, vs.structure
		FROM global_snapshots gs
		JOIN variable_structures vs ON vs.id = gs.structure_id
		WHERE gs.snapshot_id = ?`,
		snapshotID,
	).Scan(&record.SnapshotID, &record.Name, &description, &tags, &record.CreatedAt, &record.UpdatedAt, &structure)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read global snapshot: %w", err)
	}
	if description.Valid {
		record.Description = description.String
	}
	record.Tags = parseTags(tags)

	stmt, err := s.db.Prepare("SELECT value_data FROM value_pool WHERE id = ?")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare value lookup: %w", err)
	}
	defer stmt.Close()

	record.SnapshotBody = hydrateStructure(parseStoredJSON(structure), stmt)
	return &record, nil
}

// ListGlobalSnapshots returns one page of snapshot metadata, most recently
// updated first, plus the total count ignoring pagination. A tag filter
// matches exact tag elements via json_each, not substrings of the
// serialized array.
func (s *Store) ListGlobalSnapshots(opts ListGlobalSnapshotsOptions) (*ListGlobalSnapshotsResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	countQuery := "SELECT COUNT(*) FROM global_snapshots"
	selectQuery := `
		SELECT snapshot_id, name, description, tags, created_at, updated_at
		FROM global_snapshots`

	var filterArgs []interface{}
	if opts.Tag != "" {
		filter := ` WHERE tags IS NOT NULL
			AND EXISTS (SELECT 1 FROM json_each(global_snapshots.tags) WHERE json_each.value = ?)`
		countQuery += filter
		selectQuery += filter
		filterArgs = append(filterArgs, opts.Tag)
	}
	selectQuery += " ORDER BY updated_at DESC LIMIT ? OFFSET ?"

	var total int
	if err := s.db.QueryRow(countQuery, filterArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count global snapshots: %w", err)
	}

	args := append(append([]interface{}{}, filterArgs...), limit, offset)
	rows, err := s.db.Query(selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list global snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]GlobalSnapshotMetadata, 0)
	for rows.Next() {
		var (
			meta        GlobalSnapshotMetadata
			description sql.NullString
			tags        sql.NullString
		)
		if err := rows.Scan(&meta.SnapshotID, &meta.Name, &description, &tags, &meta.CreatedAt, &meta.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan global snapshot: %w", err)
		}
		if description.Valid {
			meta.Description = description.String
		}
		meta.Tags = parseTags(tags)
		snapshots = append(snapshots, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return &ListGlobalSnapshotsResult{Snapshots: snapshots, Total: total}, nil
}

// DeleteGlobalSnapshot removes the binding row only; shared structure and
// value pool rows stay.
func (s *Store) DeleteGlobalSnapshot(snapshotID string) error {
	if _, err := s.db.Exec("DELETE FROM global_snapshots WHERE snapshot_id = ?", snapshotID); err != nil {
		return fmt.Errorf("failed to delete global snapshot: %w", err)
	}
	return nil
}

func serializeTags(tags []string) interface{} {
	if len(tags) == 0 {
		return nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	return string(data)
}

// parseTags parses the serialized tag array, dropping non-string elements.
// Corrupt tag text degrades to an empty list.
func parseTags(tags sql.NullString) []string {
	if !tags.Valid || tags.String == "" {
		return []string{}
	}
	var raw []interface{}
	if err := json.Unmarshal([]byte(tags.String), &raw); err != nil {
		return []string{}
	}
	parsed := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			parsed = append(parsed, s)
		}
	}
	return parsed
}
