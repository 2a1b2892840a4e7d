package internal

import "fmt"

// ValidationError represents input rejected before any write happened
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StorageError represents a failure inside the transactional save path
type StorageError struct {
	Op  string // "begin", "build", "persist", "upsert", "commit"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DepthError represents a payload nested beyond MaxRecursionDepth
type DepthError struct {
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("payload exceeds maximum nesting depth of %d levels", e.Limit)
}
