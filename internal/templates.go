package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertTemplate stores a variable template keyed by character name. On
// conflict the content and updatedAt are replaced while the original
// createdAt is preserved. Templates bypass the dedup machinery entirely.
func (s *Store) UpsertTemplate(params TemplateParams) (*TemplateRecord, error) {
	if params.CharacterName == "" {
		return nil, &ValidationError{Field: "characterName", Err: errors.New("must not be empty")}
	}
	if params.Template == nil {
		return nil, &ValidationError{Field: "template", Err: errors.New("must not be empty")}
	}

	serialized, err := StableStringify(params.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize template: %w", err)
	}

	now := time.Now().UnixMilli()
	_, err = s.db.Exec(`
		INSERT INTO variable_templates (character_name, template_content, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(character_name) DO UPDATE SET
			template_content = excluded.template_content,
			updated_at = excluded.updated_at`,
		params.CharacterName, serialized, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to store template: %w", err)
	}

	record, err := s.GetTemplate(params.CharacterName)
	if err != nil {
		return nil, err
	}
	if record == nil {
		// Row vanished between upsert and read; fall back to the inputs.
		return &TemplateRecord{
			CharacterName: params.CharacterName,
			Template:      params.Template,
			CreatedAt:     now,
			UpdatedAt:     now,
		}, nil
	}
	return record, nil
}

// GetTemplate returns the stored template for a character, or (nil, nil)
// when none exists.
func (s *Store) GetTemplate(characterName string) (*TemplateRecord, error) {
	var (
		record  TemplateRecord
		content string
	)
	err := s.db.QueryRow(`
		SELECT character_name, template_content, created_at, updated_at
		FROM variable_templates
		WHERE character_name = ?`,
		characterName,
	).Scan(&record.CharacterName, &content, &record.CreatedAt, &record.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	record.Template = parseStoredJSON(content)
	return &record, nil
}
