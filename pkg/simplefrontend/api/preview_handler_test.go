package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-frontend/pkg/simplefrontend"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/api"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/cache/memory"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/contentmodel"
)

const previewModel = `
content_types:
  news:
    api_endpoint: /posts
    content_fields:
      headline:
        type: plaintext
      price:
        type: decimal
        options:
          precision: 1
      views:
        type: number
      gallery:
        type: array
        content_fields:
          image:
            type: image
  event:
    api_endpoint: /events
`

func setupPreview(t *testing.T, opts ...api.HandlerOption) http.Handler {
	t.Helper()
	model, err := contentmodel.Parse([]byte(previewModel))
	require.NoError(t, err)
	return api.NewPreviewHandler(model, opts...).Routes()
}

func serve(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestListContentTypes(t *testing.T) {
	h := setupPreview(t)

	rr := serve(t, h, http.MethodGet, "/content-types", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var types []api.ContentTypeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &types))
	require.Len(t, types, 2)
	assert.Equal(t, "news", types[0].Name)
	assert.Equal(t, "/posts", types[0].APIEndpoint)
	assert.Equal(t, "event", types[1].Name)
	assert.Empty(t, types[1].Fields)
}

func TestGetContentType(t *testing.T) {
	h := setupPreview(t)

	rr := serve(t, h, http.MethodGet, "/content-types/news", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var ct api.ContentTypeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ct))
	require.Len(t, ct.Fields, 4)
	assert.Equal(t, "headline", ct.Fields[0].Name)
	assert.Equal(t, float64(1), ct.Fields[1].Options["precision"])
	assert.Equal(t, "array", ct.Fields[3].Type)
	require.Len(t, ct.Fields[3].Fields, 1)
	assert.Equal(t, "image", ct.Fields[3].Fields[0].Name)

	rr = serve(t, h, http.MethodGet, "/content-types/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreatePage(t *testing.T) {
	h := setupPreview(t)

	rr := serve(t, h, http.MethodPost, "/content-types/news/pages?page=2&lang=en", map[string]any{
		"id":       "9",
		"title":    "Launch",
		"headline": "We shipped",
		"price":    4.26,
		"views":    100,
		"gallery":  []any{map[string]any{"image": "/a.png"}},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		CacheKey string `json:"cache_key"`
		Page     struct {
			ID          string           `json:"id"`
			Title       string           `json:"title"`
			ContentType string           `json:"content_type"`
			Content     []map[string]any `json:"content"`
		} `json:"page"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "news.lang=en.page=2", resp.CacheKey)
	assert.Equal(t, "9", resp.Page.ID)
	assert.Equal(t, "news", resp.Page.ContentType)
	require.Len(t, resp.Page.Content, 4)
	assert.Equal(t, "We shipped", resp.Page.Content[0]["value"])
	assert.Equal(t, 4.3, resp.Page.Content[1]["value"])
	assert.Equal(t, float64(100), resp.Page.Content[2]["value"])
}

func TestCreatePageErrors(t *testing.T) {
	h := setupPreview(t)

	tests := []struct {
		name     string
		path     string
		body     any
		wantCode int
		wantErr  string
	}{
		{"unknown type", "/content-types/blog/pages", map[string]any{}, http.StatusNotFound, "not_found"},
		{"invalid json", "/content-types/news/pages", "{not json", http.StatusBadRequest, "invalid_request"},
		{"invalid value", "/content-types/news/pages", map[string]any{"views": "lots"}, http.StatusUnprocessableEntity, "invalid_field_value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rr.Code)

			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantErr, resp.Error.Code)
		})
	}
}

func TestFetchPage(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, endpoint string) (map[string]any, error) {
		calls++
		assert.Equal(t, "/posts", endpoint)
		return map[string]any{"id": "1", "headline": "Cached"}, nil
	}
	store := memory.New()
	h := setupPreview(t, api.WithFetcher(fetch), api.WithCache(store, 0))

	for i := 0; i < 2; i++ {
		rr := serve(t, h, http.MethodGet, "/content-types/news/page?id=1", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp api.CacheKeyResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "news.id=1", resp.CacheKey)
	}
	assert.Equal(t, 1, calls, "second request is served from cache")

	rr := serve(t, h, http.MethodDelete, "/cache/news.id=1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	ok, err := store.Has(context.Background(), "news.id=1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFetchPageUpstreamError(t *testing.T) {
	fetch := func(ctx context.Context, endpoint string) (map[string]any, error) {
		return nil, simplefrontend.ErrUpstreamStatus
	}
	h := setupPreview(t, api.WithFetcher(fetch))

	rr := serve(t, h, http.MethodGet, "/content-types/news/page", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestNotConfigured(t *testing.T) {
	h := setupPreview(t)

	rr := serve(t, h, http.MethodGet, "/content-types/news/page", nil)
	assert.Equal(t, http.StatusNotImplemented, rr.Code)

	rr = serve(t, h, http.MethodDelete, "/cache/news", nil)
	assert.Equal(t, http.StatusNotImplemented, rr.Code)
}

func TestBuildCacheKey(t *testing.T) {
	h := setupPreview(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantKey  string
	}{
		{"empty", `{"params": []}`, http.StatusOK, "cache"},
		{"scalars", `{"params": ["news", 2, true, null]}`, http.StatusOK, "news.2.true.NULL"},
		{"flat object", `{"params": [{"page": 2, "lang": "en"}]}`, http.StatusOK, "lang=en.page=2"},
		{"filtered", `{"params": ["blog/archive {2024}"]}`, http.StatusOK, "blog-archive-2024"},
		{"nested", `{"params": [{"a": {"b": 1}}]}`, http.StatusBadRequest, ""},
		{"invalid json", `{"params":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, h, http.MethodPost, "/cache-key", tt.body)
			require.Equal(t, tt.wantCode, rr.Code, rr.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp api.CacheKeyResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantKey, resp.CacheKey)
		})
	}
}
