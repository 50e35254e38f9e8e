package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
)

const httpTimeout = 10 * time.Second

// HTTPRepository reads vendors and components from the procurement REST API.
type HTTPRepository struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPRepository constructs a client for baseURL, e.g. http://host/api.
func NewHTTPRepository(baseURL string) (*HTTPRepository, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("catalog: base url required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("catalog: base url: %w", err)
	}
	return &HTTPRepository{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: httpTimeout},
	}, nil
}

func (r *HTTPRepository) ListVendors(ctx context.Context) ([]Vendor, error) {
	var out []Vendor
	if err := r.get(ctx, "/vendors", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *HTTPRepository) GetVendor(ctx context.Context, id string) (Vendor, error) {
	var out Vendor
	if err := r.get(ctx, "/vendors/"+url.PathEscape(strings.TrimSpace(id)), &out); err != nil {
		return Vendor{}, err
	}
	return out, nil
}

func (r *HTTPRepository) ListComponents(ctx context.Context) ([]Component, error) {
	var out []Component
	if err := r.get(ctx, "/components", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *HTTPRepository) get(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: GET %s: %w: %v", path, httpx.ErrUpstream, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("catalog: GET %s: %w: status %d", path, httpx.ErrUpstream, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("catalog: decode %s: %w: %v", path, httpx.ErrUpstream, err)
	}
	return nil
}
