package simplefrontend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-frontend/pkg/simplefrontend"
)

func TestHTTPFetcher(t *testing.T) {
	var gotPath, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 12, "title": "Hello", "ratio": 0.25}`))
	}))
	defer server.Close()

	fetch := simplefrontend.NewHTTPFetcher(server.URL+"/api/", nil)
	data, err := fetch(context.Background(), "/posts")
	require.NoError(t, err)

	assert.Equal(t, "/api/posts", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, json.Number("12"), data["id"], "numbers keep their JSON text")
	assert.Equal(t, "Hello", data["title"])
	assert.Equal(t, json.Number("0.25"), data["ratio"])
}

func TestHTTPFetcherAbsoluteEndpoint(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	fetch := simplefrontend.NewHTTPFetcher("http://unused.invalid", server.Client())
	_, err := fetch(context.Background(), server.URL+"/events")
	require.NoError(t, err)
	assert.Equal(t, "/events", gotPath)
}

func TestHTTPFetcherErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		_, err := simplefrontend.NewHTTPFetcher(server.URL, nil)(context.Background(), "/posts")
		assert.ErrorIs(t, err, simplefrontend.ErrUpstreamStatus)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("not an object", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[1, 2]`))
		}))
		defer server.Close()

		_, err := simplefrontend.NewHTTPFetcher(server.URL, nil)(context.Background(), "/posts")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode")
	})

	t.Run("canceled", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := simplefrontend.NewHTTPFetcher(server.URL, nil)(ctx, "/posts")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
