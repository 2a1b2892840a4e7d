package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	inner := errors.New("must not be empty")
	err := &ValidationError{Field: "chatFile", Err: inner}

	if !strings.Contains(err.Error(), "chatFile") {
		t.Errorf("Error() = %q, want field name included", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("Unwrap() should expose the inner error")
	}

	wrapped := fmt.Errorf("save failed: %w", err)
	var validation *ValidationError
	if !errors.As(wrapped, &validation) {
		t.Error("errors.As should find ValidationError through wrapping")
	}
}

func TestStorageError(t *testing.T) {
	inner := errors.New("disk full")
	err := &StorageError{Op: "commit", Err: inner}

	if !strings.Contains(err.Error(), "commit") {
		t.Errorf("Error() = %q, want op included", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("Unwrap() should expose the inner error")
	}
}

func TestDepthError(t *testing.T) {
	err := &DepthError{Limit: MaxRecursionDepth}
	if !strings.Contains(err.Error(), "100") {
		t.Errorf("Error() = %q, want limit included", err.Error())
	}

	// The depth guard surfaces as a validation failure to callers.
	wrapped := &ValidationError{Field: "payload", Err: err}
	var depth *DepthError
	if !errors.As(wrapped, &depth) {
		t.Error("errors.As should find DepthError inside ValidationError")
	}
}
