package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-frontend/pkg/simplefrontend"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/content"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/contentmodel"
)

// ContentTypeResponse is the response body for a content type
type ContentTypeResponse struct {
	Name        string          `json:"name"`
	APIEndpoint string          `json:"api_endpoint"`
	Fields      []FieldResponse `json:"fields"`
}

// FieldResponse describes a field definition
type FieldResponse struct {
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Options map[string]any  `json:"options,omitempty"`
	Fields  []FieldResponse `json:"fields,omitempty"`
}

// PageResponse is the response body for a mapped page
type PageResponse struct {
	CacheKey string        `json:"cache_key"`
	Page     *content.Page `json:"page"`
}

// CacheKeyRequest is the request body for computing a cache key
type CacheKeyRequest struct {
	Params []any `json:"params"`
}

// CacheKeyResponse is the response body for a computed cache key
type CacheKeyResponse struct {
	CacheKey string `json:"cache_key"`
}

// PreviewHandler serves the content model and maps payloads into pages. A
// ContentRepository is created for every request.
type PreviewHandler struct {
	model     *contentmodel.ContentModel
	populator simplefrontend.FieldPopulator
	cache     simplefrontend.CacheStore
	lifetime  time.Duration
	fetch     simplefrontend.FetchFunc
	logger    *slog.Logger
}

// HandlerOption configures a PreviewHandler
type HandlerOption func(*PreviewHandler)

// WithPopulator replaces the default SchemaPopulator
func WithPopulator(p simplefrontend.FieldPopulator) HandlerOption {
	return func(h *PreviewHandler) {
		h.populator = p
	}
}

// WithCache sets the cache used by page fetches
func WithCache(store simplefrontend.CacheStore, lifetime time.Duration) HandlerOption {
	return func(h *PreviewHandler) {
		h.cache = store
		h.lifetime = lifetime
	}
}

// WithFetcher enables GET /content-types/{name}/page against the content API
func WithFetcher(fetch simplefrontend.FetchFunc) HandlerOption {
	return func(h *PreviewHandler) {
		h.fetch = fetch
	}
}

// WithLogger sets the logger passed to repositories
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *PreviewHandler) {
		h.logger = logger
	}
}

// NewPreviewHandler creates a new preview handler
func NewPreviewHandler(model *contentmodel.ContentModel, opts ...HandlerOption) *PreviewHandler {
	h := &PreviewHandler{
		model:     model,
		populator: simplefrontend.NewSchemaPopulator(),
		lifetime:  simplefrontend.DefaultCacheLifetime,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the routes for the preview API
func (h *PreviewHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/content-types", h.ListContentTypes)
	r.Get("/content-types/{name}", h.GetContentType)
	r.Post("/content-types/{name}/pages", h.CreatePage)
	r.Get("/content-types/{name}/page", h.FetchPage)

	r.Post("/cache-key", h.BuildCacheKey)
	r.Delete("/cache/{key}", h.DeleteCacheEntry)

	return r
}

func (h *PreviewHandler) newRepository(name string) (*simplefrontend.ContentRepository, bool) {
	opts := []simplefrontend.Option{
		simplefrontend.WithContentModel(h.model),
		simplefrontend.WithFieldPopulator(h.populator),
		simplefrontend.WithCacheLifetime(h.lifetime),
		simplefrontend.WithLogger(h.logger),
	}
	if h.cache != nil {
		opts = append(opts, simplefrontend.WithCache(h.cache))
	}
	repo := simplefrontend.New(opts...)
	if !repo.ContentTypeExists(name) {
		return nil, false
	}
	repo.SetContentType(name)
	return repo, true
}

// ListContentTypes lists the content types in model order
func (h *PreviewHandler) ListContentTypes(w http.ResponseWriter, r *http.Request) {
	types := h.model.ContentTypes()
	resp := make([]ContentTypeResponse, 0, len(types))
	for _, ct := range types {
		resp = append(resp, contentTypeToResponse(ct))
	}
	render.JSON(w, r, resp)
}

// GetContentType returns one content type with its field tree
func (h *PreviewHandler) GetContentType(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ct, ok := h.model.ContentType(name)
	if !ok {
		writeError(w, r, http.StatusNotFound, "not_found", "Content type not found: "+name)
		return
	}
	render.JSON(w, r, contentTypeToResponse(ct))
}

// CreatePage maps the posted JSON payload into a page of the named content type
func (h *PreviewHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	repo, ok := h.newRepository(name)
	if !ok {
		writeError(w, r, http.StatusNotFound, "not_found", "Content type not found: "+name)
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	key, err := repo.CacheKey(queryCacheKeyParts(name, r)...)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	page, err := repo.CreatePage(data)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, PageResponse{CacheKey: key, Page: page})
}

// FetchPage fetches the named content type from the content API through the cache
func (h *PreviewHandler) FetchPage(w http.ResponseWriter, r *http.Request) {
	if h.fetch == nil {
		writeError(w, r, http.StatusNotImplemented, "not_configured", "No content API configured")
		return
	}

	name := chi.URLParam(r, "name")
	repo, ok := h.newRepository(name)
	if !ok {
		writeError(w, r, http.StatusNotFound, "not_found", "Content type not found: "+name)
		return
	}

	parts := queryCacheKeyParts(name, r)
	key, err := repo.CacheKey(parts...)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	page, err := repo.FetchPage(r.Context(), h.fetch, parts...)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	render.JSON(w, r, PageResponse{CacheKey: key, Page: page})
}

// BuildCacheKey computes the cache key for the posted parameters
func (h *PreviewHandler) BuildCacheKey(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var req CacheKeyRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	key, err := simplefrontend.BuildCacheKeyFrom(req.Params...)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, CacheKeyResponse{CacheKey: key})
}

// DeleteCacheEntry removes a cached payload
func (h *PreviewHandler) DeleteCacheEntry(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeError(w, r, http.StatusNotImplemented, "not_configured", "No cache configured")
		return
	}
	key := simplefrontend.FilterCacheKey(chi.URLParam(r, "key"))
	if err := h.cache.Delete(r.Context(), key); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PreviewHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, simplefrontend.ErrContentTypeNotSet):
		writeError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, simplefrontend.ErrInvalidCacheKeyInput):
		writeError(w, r, http.StatusBadRequest, "invalid_cache_key", err.Error())
	case errors.Is(err, simplefrontend.ErrInvalidFieldValue):
		writeError(w, r, http.StatusUnprocessableEntity, "invalid_field_value", err.Error())
	case errors.Is(err, simplefrontend.ErrUpstreamStatus):
		writeError(w, r, http.StatusBadGateway, "upstream_error", err.Error())
	default:
		h.logger.Error("Preview request failed", "path", r.URL.Path, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// queryCacheKeyParts keys a request by content type name and its query parameters.
// Only the first value of a repeated parameter is used.
func queryCacheKeyParts(name string, r *http.Request) []simplefrontend.CacheKeyPart {
	parts := []simplefrontend.CacheKeyPart{simplefrontend.Str(name)}
	query := r.URL.Query()
	if len(query) == 0 {
		return parts
	}
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := make(simplefrontend.Map, 0, len(keys))
	for _, k := range keys {
		m = append(m, simplefrontend.KV(k, query.Get(k)))
	}
	return append(parts, m)
}

func contentTypeToResponse(ct *contentmodel.ContentType) ContentTypeResponse {
	endpoint, _ := ct.APIEndpoint()
	return ContentTypeResponse{
		Name:        ct.Name(),
		APIEndpoint: endpoint,
		Fields:      fieldsToResponse(ct.Fields()),
	}
}

func fieldsToResponse(fields *contentmodel.ContentFieldCollection) []FieldResponse {
	out := make([]FieldResponse, 0, fields.Len())
	for _, f := range fields.All() {
		resp := FieldResponse{Name: f.Name(), Type: f.Type()}
		switch field := f.(type) {
		case *contentmodel.ContentField:
			if opts := field.Options(); len(opts) > 0 {
				resp.Options = opts
			}
		case *contentmodel.ArrayField:
			resp.Fields = fieldsToResponse(field.Fields())
		}
		out = append(out, resp)
	}
	return out
}
