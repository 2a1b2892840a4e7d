package internal

import (
	"database/sql"
	"encoding/json"
)

// Reference tokens are single-key objects carrying a value pool row id.
// ValueReferenceKey is what new structures embed; LegacyValueReferenceKey is
// still recognized on read for data persisted by earlier revisions.
const (
	ValueReferenceKey       = "$ref"
	LegacyValueReferenceKey = "$value_ref"
)

// MaxRecursionDepth bounds the snapshot tree walk. Payloads nested deeper
// are rejected as invalid input before any transaction is opened.
const MaxRecursionDepth = 100

func referenceToken(id int64) map[string]interface{} {
	return map[string]interface{}{ValueReferenceKey: id}
}

// checkDepth walks a payload and fails if nesting exceeds MaxRecursionDepth.
// Runs before the save transaction so depth overflow never writes rows.
func checkDepth(value interface{}, depth int) error {
	if depth > MaxRecursionDepth {
		return &DepthError{Limit: MaxRecursionDepth}
	}
	switch v := value.(type) {
	case map[string]interface{}:
		for _, child := range v {
			if err := checkDepth(child, depth+1); err != nil {
				return err
			}
		}
	case []interface{}:
		for _, item := range v {
			if err := checkDepth(item, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildStructure recursively decomposes a payload: maps and slices recurse
// field by field, every other value is routed through the value store's
// inline-or-dedup decision.
func buildStructure(value interface{}, ctx *valueContext, depth int) (interface{}, error) {
	if depth > MaxRecursionDepth {
		return nil, &DepthError{Limit: MaxRecursionDepth}
	}

	switch v := value.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, child := range v {
			built, err := buildStructure(child, ctx, depth+1)
			if err != nil {
				return nil, err
			}
			result[key] = built
		}
		return result, nil
	case []interface{}:
		result := make([]interface{}, 0, len(v))
		for _, item := range v {
			built, err := buildStructure(item, ctx, depth+1)
			if err != nil {
				return nil, err
			}
			result = append(result, built)
		}
		return result, nil
	default:
		return ctx.transformLeaf(value)
	}
}

// hydrateStructure inverts buildStructure: composite nodes recurse,
// reference tokens (current or legacy key) resolve through the value pool,
// everything else passes through unchanged. A dangling reference hydrates
// to nil without failing the rest of the document.
func hydrateStructure(value interface{}, stmt *sql.Stmt) interface{} {
	switch v := value.(type) {
	case []interface{}:
		result := make([]interface{}, 0, len(v))
		for _, item := range v {
			result = append(result, hydrateStructure(item, stmt))
		}
		return result
	case map[string]interface{}:
		if id, ok := extractReferenceID(v); ok {
			return resolveValue(stmt, id)
		}
		result := make(map[string]interface{}, len(v))
		for key, child := range v {
			result[key] = hydrateStructure(child, stmt)
		}
		return result
	default:
		return value
	}
}

// extractReferenceID recognizes a reference token: a single-key object whose
// key is the current or legacy reference key and whose value is numeric.
func extractReferenceID(record map[string]interface{}) (int64, bool) {
	if len(record) != 1 {
		return 0, false
	}
	for _, key := range []string{ValueReferenceKey, LegacyValueReferenceKey} {
		candidate, ok := record[key]
		if !ok {
			continue
		}
		switch id := candidate.(type) {
		case float64:
			return int64(id), true
		case int64:
			return id, true
		case json.Number:
			n, err := id.Int64()
			if err != nil {
				return 0, false
			}
			return n, true
		}
		return 0, false
	}
	return 0, false
}

// parseStoredJSON parses persisted JSON text. Corrupt or legacy-shaped text
// degrades to nil rather than failing the read path.
func parseStoredJSON(raw string) interface{} {
	var value interface{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		LogWarn("failed to parse stored JSON: %v", err)
		return nil
	}
	return value
}
