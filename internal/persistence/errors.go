package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when an insert collides with an existing record.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrVersionMismatch is returned when an optimistic update carries a stale
	// version; the caller lost a concurrent write race.
	ErrVersionMismatch = errors.New("persistence: version mismatch")
)
