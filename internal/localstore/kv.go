package localstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KV is a durable key-value store. Get returns ErrNotFound for an absent key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
