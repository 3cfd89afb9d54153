package core

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrStoreClosed is returned when trying to use a closed store
	ErrStoreClosed = errors.New("store is closed")

	// ErrInvalidDimension is returned when vector dimension doesn't match expected
	ErrInvalidDimension = errors.New("invalid vector dimension")

	// ErrEmptyQuery is returned when a search key is empty
	ErrEmptyQuery = errors.New("empty query vector")

	// ErrUnknownColumn is returned when a query names a column the store
	// does not have
	ErrUnknownColumn = errors.New("unknown vector column")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotTrained is returned when an index operation needs a trained index
	ErrNotTrained = errors.New("index not trained")
)

// EngineError wraps errors with operation context
type EngineError struct {
	Op  string // Operation name
	Err error  // Underlying error
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("vex: %v", e.Err)
	}
	return fmt.Sprintf("vex: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error { return e.Err }

// Is checks if the error matches the target
func (e *EngineError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapError wraps an error with operation context
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &EngineError{Op: op, Err: err}
}
