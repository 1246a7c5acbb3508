package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tendant/simple-frontend/pkg/simplefrontend"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Backend is an in-memory implementation of the simplefrontend.CacheStore interface
type Backend struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates a new in-memory cache backend
func New() simplefrontend.CacheStore {
	return &Backend{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns a copy of the cached value
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	e, exists := b.entries[key]
	b.mu.RUnlock()

	if !exists {
		return nil, simplefrontend.ErrCacheMiss
	}
	if e.expired(b.now()) {
		b.mu.Lock()
		if cur, ok := b.entries[key]; ok && cur.expired(b.now()) {
			delete(b.entries, key)
		}
		b.mu.Unlock()
		return nil, simplefrontend.ErrCacheMiss
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores a copy of value
func (b *Backend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: make([]byte, len(value))}
	copy(e.value, value)
	if ttl > 0 {
		e.expiresAt = b.now().Add(ttl)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = e
	return nil
}

// Has reports whether an unexpired value exists
func (b *Backend) Has(ctx context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, exists := b.entries[key]
	return exists && !e.expired(b.now()), nil
}

// Delete removes a value
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.entries, key)
	return nil
}

// Len returns the number of stored entries, expired ones included
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}
