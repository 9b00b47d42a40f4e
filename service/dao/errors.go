package dao

import "errors"

// Sentinel errors shared by every DAO implementation, matched with errors.Is
// by callers.

var (
	// ErrNotFound is returned when no entity exists under the requested key.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID indicates an empty or otherwise unusable key.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity is returned when the caller attempts to persist nil.
	ErrNilEntity = errors.New("dao: nil entity")
)
