// Package search queries news search providers and normalizes their results
// into candidate articles.
package search

import (
	"context"
	"errors"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/hoanghai1803/newsclip/internal/models"
)

// ErrUnexpectedStatus is returned when a provider answers with a non-200
// status code.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Sort selects the ordering of a result page.
type Sort string

const (
	// SortDate orders results newest first.
	SortDate Sort = "date"
	// SortRelevance orders results by provider relevance.
	SortRelevance Sort = "sim"
)

// Query is a single page request.
type Query struct {
	Term    string
	Start   int // 1-based offset of the first result
	Display int // page size
	Sort    Sort
}

// Searcher returns one page of results. An empty page signals exhaustion.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]models.Article, error)
}

const (
	httpTimeout = 30 * time.Second
	userAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// userAgentTransport wraps an http.RoundTripper to inject a browser-like
// User-Agent header on every request.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	return t.base.RoundTrip(req)
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout:   httpTimeout,
		Transport: &userAgentTransport{base: http.DefaultTransport},
	}
}

var boldReplacer = strings.NewReplacer("<b>", "", "</b>", "")

// CleanText unescapes HTML entities and removes the bold markup search
// providers wrap around matched terms.
func CleanText(s string) string {
	return strings.TrimSpace(boldReplacer.Replace(html.UnescapeString(s)))
}
