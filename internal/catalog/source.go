package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 10 * time.Second

// Source supplies a fresh candidate snapshot. The resolver never caches
// candidates, so callers fetch a snapshot before every resolution.
type Source interface {
	Candidates(ctx context.Context) (Candidates, error)
}

// StaticSource serves a fixed candidate set. Useful for tests and for
// deployments with a small, config-driven catalog.
type StaticSource struct {
	candidates Candidates
}

// NewStaticSource builds a source over a fixed set, normalizing the keys.
func NewStaticSource(candidates Candidates) *StaticSource {
	normalized := make(Candidates, len(candidates))
	for name, product := range candidates {
		normalized[Normalize(name)] = product
	}
	return &StaticSource{candidates: normalized}
}

// Candidates returns the fixed snapshot.
func (s *StaticSource) Candidates(ctx context.Context) (Candidates, error) {
	return s.candidates, nil
}

// HTTPSource fetches the product catalog from the external catalog
// service.
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPSource creates a catalog source over the service at baseURL.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

type productPayload struct {
	Name     string `json:"name"`
	ID       int    `json:"id"`
	Category string `json:"category"`
}

// Candidates fetches the current catalog and returns it keyed by
// normalized product name.
func (s *HTTPSource) Candidates(ctx context.Context) (Candidates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var products []productPayload
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("catalog: decode products: %w", err)
	}

	candidates := make(Candidates, len(products))
	for _, p := range products {
		if p.Name == "" {
			continue
		}
		candidates[Normalize(p.Name)] = Product{ID: p.ID, Category: p.Category}
	}
	return candidates, nil
}
