package simplefrontend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tendant/simple-frontend/pkg/simplefrontend/content"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/contentmodel"
)

// DefaultCacheLifetime is how long fetched payloads are cached unless configured otherwise.
const DefaultCacheLifetime = time.Hour

// ContentRepository reads content for one content type and maps it to content objects.
//
// The current content type and cache key are per request, so a repository must not be
// shared between concurrent requests. Create one per request with New.
type ContentRepository struct {
	contentModel  *contentmodel.ContentModel
	contentType   *contentmodel.ContentType
	cacheKey      string
	populator     FieldPopulator
	cache         CacheStore
	cacheLifetime time.Duration
	logger        *slog.Logger
}

// Option configures a ContentRepository
type Option func(*ContentRepository)

// WithContentModel binds the content model
func WithContentModel(model *contentmodel.ContentModel) Option {
	return func(r *ContentRepository) {
		r.contentModel = model
	}
}

// WithFieldPopulator sets the payload-to-page mapping
func WithFieldPopulator(p FieldPopulator) Option {
	return func(r *ContentRepository) {
		r.populator = p
	}
}

// WithCache sets the cache store used by FetchPage
func WithCache(store CacheStore) Option {
	return func(r *ContentRepository) {
		r.cache = store
	}
}

// WithCacheLifetime sets how long FetchPage caches payloads
func WithCacheLifetime(d time.Duration) Option {
	return func(r *ContentRepository) {
		r.cacheLifetime = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *ContentRepository) {
		r.logger = logger
	}
}

// New creates a content repository
func New(options ...Option) *ContentRepository {
	r := &ContentRepository{
		cacheLifetime: DefaultCacheLifetime,
		logger:        slog.Default(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// SetContentModel binds the content model
func (r *ContentRepository) SetContentModel(model *contentmodel.ContentModel) {
	r.contentModel = model
}

// ContentModel returns the bound content model, or nil
func (r *ContentRepository) ContentModel() *contentmodel.ContentModel {
	return r.contentModel
}

// SetContentType resolves the named content type from the bound model. An unknown
// name leaves the current content type as it was; check HasContentType afterwards.
func (r *ContentRepository) SetContentType(name string) {
	if !r.ContentTypeExists(name) {
		r.logger.Debug("content type not resolved", "content_type", name)
		return
	}
	r.contentType, _ = r.contentModel.ContentType(name)
}

// ContentType returns the resolved content type or ErrContentTypeNotSet.
func (r *ContentRepository) ContentType() (*contentmodel.ContentType, error) {
	if !r.HasContentType() {
		return nil, ErrContentTypeNotSet
	}
	return r.contentType, nil
}

// HasContentType reports whether both a content model and a content type are set
func (r *ContentRepository) HasContentType() bool {
	return r.contentModel != nil && r.contentType != nil
}

// ContentTypeExists reports whether the bound model defines name
func (r *ContentRepository) ContentTypeExists(name string) bool {
	if r.contentModel == nil {
		return false
	}
	return r.contentModel.HasContentType(name)
}

// SetFieldPopulator sets the payload-to-page mapping
func (r *ContentRepository) SetFieldPopulator(p FieldPopulator) {
	r.populator = p
}

// SetCache sets the cache store used by FetchPage
func (r *ContentRepository) SetCache(store CacheStore) {
	r.cache = store
}

// Cache returns the cache store, or nil
func (r *ContentRepository) Cache() CacheStore {
	return r.cache
}

// HasCache reports whether a cache store is set
func (r *ContentRepository) HasCache() bool {
	return r.cache != nil
}

// SetCacheLifetime sets how long FetchPage caches payloads
func (r *ContentRepository) SetCacheLifetime(d time.Duration) {
	r.cacheLifetime = d
}

func (r *ContentRepository) CacheLifetime() time.Duration {
	return r.cacheLifetime
}

// SetCacheKey sets an explicit, sanitized cache key for the current request
func (r *ContentRepository) SetCacheKey(key string) {
	r.cacheKey = FilterCacheKey(key)
}

// ClearCacheKey drops an explicit cache key so CacheKey derives keys again
func (r *ContentRepository) ClearCacheKey() {
	r.cacheKey = ""
}

// CacheKey returns the explicit cache key when one is set, otherwise a key built
// from parts. Derived keys are recomputed on every call.
func (r *ContentRepository) CacheKey(parts ...CacheKeyPart) (string, error) {
	if r.cacheKey != "" {
		return r.cacheKey, nil
	}
	return BuildCacheKey(parts...)
}

// CreatePage creates a page bound to the resolved content type and populates it from data.
func (r *ContentRepository) CreatePage(data map[string]any) (*content.Page, error) {
	ct, err := r.ContentType()
	if err != nil {
		return nil, err
	}
	if r.populator == nil {
		return nil, ErrNoFieldPopulator
	}

	page := content.NewPage()
	page.SetContentType(ct)
	if err := r.populator.SetContentFields(page, data); err != nil {
		return nil, err
	}
	return page, nil
}

// FetchPage returns a page for the resolved content type, reading the raw payload
// from the cache when present and from fetch otherwise. Cache failures are logged and
// treated as misses.
func (r *ContentRepository) FetchPage(ctx context.Context, fetch FetchFunc, parts ...CacheKeyPart) (*content.Page, error) {
	ct, err := r.ContentType()
	if err != nil {
		return nil, err
	}
	key, err := r.CacheKey(parts...)
	if err != nil {
		return nil, err
	}

	if r.HasCache() {
		data, err := r.readCache(ctx, key)
		if err == nil {
			r.logger.Debug("content cache hit", "content_type", ct.Name(), "key", key)
			return r.CreatePage(data)
		}
		if errors.Is(err, ErrCacheMiss) {
			r.logger.Debug("content cache miss", "content_type", ct.Name(), "key", key)
		} else {
			r.logger.Warn("content cache read failed", "content_type", ct.Name(), "key", key, "err", err)
		}
	}

	endpoint, _ := ct.APIEndpoint()
	data, err := fetch(ctx, endpoint)
	if err != nil {
		return nil, &ContentError{ContentType: ct.Name(), Op: "fetch", Err: err}
	}

	page, err := r.CreatePage(data)
	if err != nil {
		return nil, err
	}

	if r.HasCache() {
		encoded, err := json.Marshal(data)
		if err != nil {
			r.logger.Warn("failed to encode payload for cache", "content_type", ct.Name(), "key", key, "err", err)
		} else if err := r.cache.Set(ctx, key, encoded, r.cacheLifetime); err != nil {
			r.logger.Warn("content cache write failed", "content_type", ct.Name(), "key", key, "err", err)
		}
	}
	return page, nil
}

func (r *ContentRepository) readCache(ctx context.Context, key string) (map[string]any, error) {
	raw, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode cached payload: %w", err)
	}
	return data, nil
}
