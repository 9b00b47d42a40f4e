package idgen

import "github.com/google/uuid"

// NewFunc produces the identifiers assigned to runs and steps. Stub it in
// tests that need predictable IDs.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier as string.
func New() string { return NewFunc() }
