// Package db defines the key-value store facade backing the embedding
// cache. The speaker index itself is in-process; the only persistent
// concern is cached embedding vectors.
package db

import (
	"context"
	"time"
)

// Store combines the KV sub-interfaces with lifecycle operations.
// Consumers should depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
