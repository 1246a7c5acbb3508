package simplefrontend

import (
	"context"
	"time"

	"github.com/tendant/simple-frontend/pkg/simplefrontend/content"
)

// FieldPopulator maps a raw API payload onto a page bound to a content type.
// Each content source supplies its own implementation; SchemaPopulator covers
// payloads keyed by field name.
type FieldPopulator interface {
	SetContentFields(page *content.Page, data map[string]any) error
}

// FieldPopulatorFunc adapts a function to FieldPopulator
type FieldPopulatorFunc func(page *content.Page, data map[string]any) error

func (f FieldPopulatorFunc) SetContentFields(page *content.Page, data map[string]any) error {
	return f(page, data)
}

// CacheStore defines the interface for cache backends keyed by cache keys
type CacheStore interface {
	// Get returns the cached value or ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value; a zero ttl means no expiry
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Has reports whether an unexpired value exists for key
	Has(ctx context.Context, key string) (bool, error)

	// Delete removes a value; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

// FetchFunc reads the raw payload for one content item from the CMS API.
// endpoint is the API endpoint of the resolved content type.
type FetchFunc func(ctx context.Context, endpoint string) (map[string]any, error)
