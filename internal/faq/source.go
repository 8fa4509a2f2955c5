// Package faq holds the FAQ corpus index and the semantic retriever behind
// the /faq-chat endpoint.
package faq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SourceEntry is one question/answer pair as served by the external FAQ store.
type SourceEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Source fetches the full FAQ list.
type Source interface {
	FetchAll(ctx context.Context) ([]SourceEntry, error)
}

// HTTPSource reads the FAQ list from an external HTTP endpoint returning a
// JSON array of {question, answer}.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a source for the given URL.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchAll retrieves every FAQ entry from the store.
func (s *HTTPSource) FetchAll(ctx context.Context) ([]SourceEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build faq source request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch faq source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("faq source returned status %d", resp.StatusCode)
	}

	var entries []SourceEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode faq source response: %w", err)
	}
	return entries, nil
}
