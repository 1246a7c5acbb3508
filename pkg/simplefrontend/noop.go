package simplefrontend

import (
	"context"
	"time"
)

// NoopCacheStore is a CacheStore that never stores anything.
// Useful when caching is disabled or for testing.
type NoopCacheStore struct{}

// NewNoopCacheStore creates a new no-operation cache store
func NewNoopCacheStore() CacheStore {
	return &NoopCacheStore{}
}

// Get always reports a miss
func (n *NoopCacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrCacheMiss
}

// Set does nothing and returns nil
func (n *NoopCacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

// Has always returns false
func (n *NoopCacheStore) Has(ctx context.Context, key string) (bool, error) {
	return false, nil
}

// Delete does nothing and returns nil
func (n *NoopCacheStore) Delete(ctx context.Context, key string) error {
	return nil
}
