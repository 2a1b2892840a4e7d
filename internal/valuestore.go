package internal

import (
	"database/sql"
	"fmt"
)

// valueContext routes leaf values into the value pool during one save
// operation. The hash→id cache is scoped to the operation and discarded
// with it; repeated leaves inside one payload skip the table lookup but
// still count as references.
type valueContext struct {
	tx    *sql.Tx
	cache map[string]int64
	now   int64
}

func newValueContext(tx *sql.Tx, now int64) *valueContext {
	return &valueContext{
		tx:    tx,
		cache: make(map[string]int64),
		now:   now,
	}
}

// transformLeaf returns the value itself when it is small enough to inline,
// otherwise a reference token pointing at its value pool row. Identical
// content collapses to one row; every reuse increments ref_count.
func (c *valueContext) transformLeaf(value interface{}) (interface{}, error) {
	if ShouldInline(value) {
		return value, nil
	}

	serialized, err := StableStringify(value)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize leaf value: %w", err)
	}
	hash := HashContent(serialized)

	if id, ok := c.cache[hash]; ok {
		if _, err := c.tx.Exec("UPDATE value_pool SET ref_count = ref_count + 1 WHERE id = ?", id); err != nil {
			return nil, fmt.Errorf("failed to increment ref count: %w", err)
		}
		return referenceToken(id), nil
	}

	// Insert-or-reuse as one atomic statement: a fresh row starts at
	// ref_count 1, a hash collision with an existing row increments it.
	var id int64
	err = c.tx.QueryRow(`
		INSERT INTO value_pool (value_hash, value_type, value_data, ref_count, created_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(value_hash) DO UPDATE SET ref_count = ref_count + 1
		RETURNING id`,
		hash, string(DetectValueType(value)), serialized, c.now,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to store leaf value: %w", err)
	}

	c.cache[hash] = id
	return referenceToken(id), nil
}

// resolveValue looks up a value pool row by id and parses its canonical
// text. A missing row or unparseable text yields nil: a referenced row may
// legitimately have been removed by external maintenance, and a single
// dangling reference must not abort the whole read.
func resolveValue(stmt *sql.Stmt, id int64) interface{} {
	var data string
	err := stmt.QueryRow(id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		LogWarn("failed to resolve value reference %d: %v", id, err)
		return nil
	}
	return parseStoredJSON(data)
}
