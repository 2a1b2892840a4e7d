package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ValueType classifies a stored leaf value
type ValueType string

const (
	ValueTypeNull    ValueType = "null"
	ValueTypeArray   ValueType = "array"
	ValueTypeObject  ValueType = "object"
	ValueTypeString  ValueType = "string"
	ValueTypeNumber  ValueType = "number"
	ValueTypeBoolean ValueType = "boolean"
)

// InlineStringLimit is the maximum string length (in bytes) that is stored
// inline in a structure instead of going through the value pool.
const InlineStringLimit = 32

// StableStringify serializes a value to deterministic JSON text. Object keys
// are sorted at every level; array order is preserved. The output is the
// hashing input for both leaf values and structures, so two logically equal
// values must always produce identical text.
func StableStringify(value interface{}) (string, error) {
	var sb strings.Builder
	if err := stableStringifyInto(&sb, value); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func stableStringifyInto(sb *strings.Builder, value interface{}) error {
	switch v := value.(type) {
	case nil:
		sb.WriteString("null")
		return nil
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			encodedKey, err := json.Marshal(k)
			if err != nil {
				return err
			}
			sb.Write(encodedKey)
			sb.WriteByte(':')
			if err := stableStringifyInto(sb, v[k]); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
		return nil
	case []interface{}:
		sb.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := stableStringifyInto(sb, item); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
		return nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to serialize value: %w", err)
		}
		sb.Write(encoded)
		return nil
	}
}

// HashContent returns the hex-encoded SHA-256 digest of serialized text.
// The digest is the content address for the value pool and structure table.
func HashContent(serialized string) string {
	sum := sha256.Sum256([]byte(serialized))
	return hex.EncodeToString(sum[:])
}

// DetectValueType classifies a decoded JSON value for storage metadata
func DetectValueType(value interface{}) ValueType {
	switch value.(type) {
	case nil:
		return ValueTypeNull
	case []interface{}:
		return ValueTypeArray
	case map[string]interface{}:
		return ValueTypeObject
	case string:
		return ValueTypeString
	case bool:
		return ValueTypeBoolean
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return ValueTypeNumber
	default:
		return ValueTypeObject
	}
}

// ShouldInline reports whether a value is small enough to embed directly in
// a structure: null, all numbers and booleans, and strings up to
// InlineStringLimit bytes. Everything else goes through the value pool.
func ShouldInline(value interface{}) bool {
	switch v := value.(type) {
	case nil, bool:
		return true
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return true
	case string:
		return len(v) <= InlineStringLimit
	default:
		return false
	}
}

// IsComposite reports whether a value decomposes structurally (plain map or
// slice) during a snapshot save. Anything else is treated as a leaf.
func IsComposite(value interface{}) bool {
	switch value.(type) {
	case map[string]interface{}, []interface{}:
		return true
	default:
		return false
	}
}
