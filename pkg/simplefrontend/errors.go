package simplefrontend

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrContentTypeNotSet indicates no content model or content type has been resolved
	ErrContentTypeNotSet = errors.New("content type is not set")

	// ErrInvalidCacheKeyInput indicates a cache key parameter is nested or of an unsupported kind
	ErrInvalidCacheKeyInput = errors.New("invalid cache key input")

	// ErrNoFieldPopulator indicates a page was requested from a repository without a field populator
	ErrNoFieldPopulator = errors.New("no field populator configured")

	// ErrInvalidFieldValue indicates a raw payload value does not match its field definition
	ErrInvalidFieldValue = errors.New("invalid field value")

	// ErrCacheMiss is returned by cache stores when a key is absent or expired
	ErrCacheMiss = errors.New("cache miss")
)

// CacheKeyError reports the parameter kind that could not be turned into a cache key element
type CacheKeyError struct {
	Kind string
	Err  error
}

func (e *CacheKeyError) Error() string {
	return fmt.Sprintf("cannot build cache key from passed param, type: %s: %v", e.Kind, e.Err)
}

func (e *CacheKeyError) Unwrap() error {
	return e.Err
}

// ContentError represents an error while mapping content for a content type
type ContentError struct {
	ContentType string
	Field       string
	Op          string
	Err         error
}

func (e *ContentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("content operation %s failed for %s.%s: %v", e.Op, e.ContentType, e.Field, e.Err)
	}
	return fmt.Sprintf("content operation %s failed for %s: %v", e.Op, e.ContentType, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}
