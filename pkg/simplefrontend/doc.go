// Package simplefrontend maps content from a headless CMS API into typed content
// objects for a web front-end.
//
// A ContentRepository is bound to a content model (see the contentmodel
// subpackage) and resolves the content type requested by the caller. Raw API
// payloads are turned into content.Page values by a FieldPopulator; the
// SchemaPopulator provided here maps payloads keyed by field name.
//
// Cache Keys
//
// Cache keys are built from CacheKeyPart values (Str, Int, Uint, Float, Bool, Null
// and flat Map parameters) and sanitized with FilterCacheKey so they are safe for
// every CacheStore backend. Nested structures are rejected with
// ErrInvalidCacheKeyInput instead of being flattened, so distinct requests never
// share a key. Implementations of CacheStore (memory, filesystem, S3, Postgres)
// live under the cache subpackages.
package simplefrontend
