package kvstore

import (
	"context"
	"time"
)

// Store defines the key/value operations the portal needs for session
// persistence. This is a port that can be implemented by different providers
// (Redis, in-memory, etc.).
type Store interface {
	// Get retrieves a value from the store by key.
	// Returns ErrKeyNotFound when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under the specified key with the given TTL.
	// TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the store by key.
	Delete(ctx context.Context, key string) error

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
