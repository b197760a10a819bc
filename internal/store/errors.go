package store

import "errors"

var (
	// ErrNotFound is returned when the target id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a uniqueness constraint is violated.
	ErrConflict = errors.New("conflict")
)
