package repository

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no student matches the given id.
	ErrNotFound = errors.New("student not found")
	// ErrInvalidID is returned when an id is not well formed for the backend.
	ErrInvalidID = errors.New("invalid student id")
	// ErrStoreUnavailable wraps connectivity failures of the backing database.
	ErrStoreUnavailable = errors.New("student store unavailable")
)

// unavailable wraps err with ErrStoreUnavailable, keeping the cause in the chain.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// isContextErr reports whether err came from a cancelled or expired context.
func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
