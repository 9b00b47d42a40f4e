package dao

import (
	"context"
)

// Service is the storage contract run persistence plugs into: K is the key
// type, T the stored entity. Implementations must be safe for concurrent use;
// the engine saves from the executing goroutine while callers load and list.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
