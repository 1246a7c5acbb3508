package simplefrontend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUpstreamStatus is returned when the content API answers with a non-2xx status
var ErrUpstreamStatus = errors.New("unexpected status from content API")

const maxPayloadSize = 10 << 20

// NewHTTPFetcher returns a FetchFunc that GETs content type endpoints relative to
// baseURL and decodes the JSON object they return. A nil client uses a client with
// a 10 second timeout.
func NewHTTPFetcher(baseURL string, client *http.Client) FetchFunc {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	base := strings.TrimSuffix(baseURL, "/")

	return func(ctx context.Context, endpoint string) (map[string]any, error) {
		target := endpoint
		if u, err := url.Parse(endpoint); err != nil || !u.IsAbs() {
			target = base + "/" + strings.TrimPrefix(endpoint, "/")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("%w: %s returned %d", ErrUpstreamStatus, target, resp.StatusCode)
		}

		dec := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadSize))
		dec.UseNumber()
		var data map[string]any
		if err := dec.Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to decode response from %s: %w", target, err)
		}
		return data, nil
	}
}
