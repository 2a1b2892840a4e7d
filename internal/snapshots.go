package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveSnapshot persists a per-message variable snapshot. The payload is
// decomposed leaf by leaf through the value pool, the resulting tree is
// stored once per distinct shape, and the identifier binding is upserted,
// all inside one immediate write transaction. Re-saving an existing
// identifier replaces the binding and reports Replaced.
func (s *Store) SaveSnapshot(params SnapshotParams) (*SaveSnapshotResult, error) {
	if params.ChatFile == "" {
		return nil, &ValidationError{Field: "chatFile", Err: errors.New("must not be empty")}
	}
	if params.Payload == nil {
		return nil, &ValidationError{Field: "payload", Err: errors.New("must not be empty")}
	}
	if !IsComposite(params.Payload) {
		return nil, &ValidationError{Field: "payload", Err: errors.New("must be an object or array")}
	}
	if err := checkDepth(params.Payload, 0); err != nil {
		return nil, &ValidationError{Field: "payload", Err: err}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, &StorageError{Op: "begin", Err: err}
	}

	now := time.Now().UnixMilli()

	structure, err := buildStructure(params.Payload, newValueContext(tx, now), 0)
	if err != nil {
		rollback(tx, "build")
		return nil, &StorageError{Op: "build", Err: err}
	}

	structureID, structureHash, err := persistStructure(tx, structure, now)
	if err != nil {
		rollback(tx, "persist")
		return nil, &StorageError{Op: "persist", Err: err}
	}

	identifier := params.Identifier
	if identifier == "" {
		identifier = GenerateIdentifier()
	}

	var existing int64
	replaced := true
	err = tx.QueryRow("SELECT structure_id FROM message_variables WHERE identifier = ?", identifier).Scan(&existing)
	if err == sql.ErrNoRows {
		replaced = false
	} else if err != nil {
		rollback(tx, "upsert")
		return nil, &StorageError{Op: "upsert", Err: err}
	}

	_, err = tx.Exec(`
		INSERT INTO message_variables (identifier, chat_file, message_id, structure_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(identifier) DO UPDATE SET
			chat_file = excluded.chat_file,
			message_id = excluded.message_id,
			structure_id = excluded.structure_id,
			created_at = excluded.created_at`,
		identifier, params.ChatFile, nullableString(params.MessageID), structureID, now)
	if err != nil {
		rollback(tx, "upsert")
		return nil, &StorageError{Op: "upsert", Err: err}
	}

	if err := tx.Commit(); err != nil {
		rollback(tx, "commit")
		return nil, &StorageError{Op: "commit", Err: err}
	}

	LogDebug("saved snapshot %s (structure %d, replaced=%v)", identifier, structureID, replaced)

	return &SaveSnapshotResult{
		Identifier:    identifier,
		ChatFile:      params.ChatFile,
		MessageID:     params.MessageID,
		StructureID:   structureID,
		StructureHash: structureHash,
		CreatedAt:     now,
		Replaced:      replaced,
	}, nil
}

// GetSnapshot fetches a snapshot by identifier and hydrates its payload.
// Returns (nil, nil) when no binding exists.
func (s *Store) GetSnapshot(identifier string) (*SnapshotRecord, error) {
	var (
		record    SnapshotRecord
		messageID sql.NullString
		structure string
	)
	err := s.db.QueryRow(`
		SELECT mv.identifier, mv.chat_file, mv.message_id, mv.created_at, vs.structure
		FROM message_variables mv
		JOIN variable_structures vs ON vs.id = mv.structure_id
		WHERE mv.identifier = ?`,
		identifier,
	).Scan(&record.Identifier, &record.ChatFile, &messageID, &record.CreatedAt, &structure)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if messageID.Valid {
		record.MessageID = messageID.String
	}

	stmt, err := s.db.Prepare("SELECT value_data FROM value_pool WHERE id = ?")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare value lookup: %w", err)
	}
	defer stmt.Close()

	record.Payload = hydrateStructure(parseStoredJSON(structure), stmt)
	return &record, nil
}

// DeleteSnapshot removes a binding by identifier. Structure and value pool
// rows stay untouched: other snapshots may share them, reclamation belongs
// to an external maintenance task.
func (s *Store) DeleteSnapshot(identifier string) error {
	if _, err := s.db.Exec("DELETE FROM message_variables WHERE identifier = ?", identifier); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// DeleteSnapshotsByChatFile removes every binding for one chat scope and
// returns the number of rows deleted.
func (s *Store) DeleteSnapshotsByChatFile(chatFile string) (int64, error) {
	result, err := s.db.Exec("DELETE FROM message_variables WHERE chat_file = ?", chatFile)
	if err != nil {
		return 0, fmt.Errorf("failed to delete snapshots for chat %q: %w", chatFile, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// CleanupOrphanedSnapshots bulk-deletes bindings whose chat scope no longer
// exists. With an empty active set every binding is considered orphaned.
// This is advisory maintenance, never triggered by save or read.
func (s *Store) CleanupOrphanedSnapshots(activeChatFiles []string) (*CleanupResult, error) {
	rows, err := s.db.Query("SELECT DISTINCT chat_file FROM message_variables")
	if err != nil {
		return nil, fmt.Errorf("failed to scan chat files: %w", err)
	}
	defer rows.Close()

	active := make(map[string]bool, len(activeChatFiles))
	for _, f := range activeChatFiles {
		active[f] = true
	}

	var scanned int
	var orphaned []string
	for rows.Next() {
		var chatFile string
		if err := rows.Scan(&chatFile); err != nil {
			return nil, fmt.Errorf("failed to scan chat file: %w", err)
		}
		scanned++
		if chatFile != "" && !active[chatFile] {
			orphaned = append(orphaned, chatFile)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if len(orphaned) == 0 {
		return &CleanupResult{TotalScanned: scanned, DeletedChatFiles: []string{}}, nil
	}

	var result sql.Result
	if len(activeChatFiles) > 0 {
		query := "DELETE FROM message_variables WHERE chat_file NOT IN (?" + repeatPlaceholder(len(activeChatFiles)-1) + ")"
		args := make([]interface{}, len(activeChatFiles))
		for i, f := range activeChatFiles {
			args[i] = f
		}
		result, err = s.db.Exec(query, args...)
	} else {
		result, err = s.db.Exec("DELETE FROM message_variables")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete orphaned snapshots: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	LogInfo("orphan cleanup: deleted %d snapshot(s) across %d chat file(s)", deleted, len(orphaned))

	return &CleanupResult{
		DeletedCount:     deleted,
		TotalScanned:     scanned,
		DeletedChatFiles: orphaned,
	}, nil
}

// ListOrphanedChatFiles reports which chat scopes in the binding table are
// not in the active set, without deleting anything.
func (s *Store) ListOrphanedChatFiles(activeChatFiles []string) ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT chat_file FROM message_variables")
	if err != nil {
		return nil, fmt.Errorf("failed to scan chat files: %w", err)
	}
	defer rows.Close()

	active := make(map[string]bool, len(activeChatFiles))
	for _, f := range activeChatFiles {
		active[f] = true
	}

	var orphaned []string
	for rows.Next() {
		var chatFile string
		if err := rows.Scan(&chatFile); err != nil {
			return nil, fmt.Errorf("failed to scan chat file: %w", err)
		}
		if chatFile != "" && !active[chatFile] {
			orphaned = append(orphaned, chatFile)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return orphaned, nil
}

func repeatPlaceholder(n int) string {
	var s string
	for i := 0; i < n; i++ {
		s += ",?"
	}
	return s
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
