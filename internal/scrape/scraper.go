// Package scrape extracts body text, publisher, and byline from news article
// pages. Extraction is best-effort and never fails.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"github.com/hoanghai1803/newsclip/internal/models"
)

const (
	fetchTimeout = 10 * time.Second
	maxPageBytes = 5 << 20
	userAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Scraper fetches article pages over HTTP.
type Scraper struct {
	client *http.Client
}

// New creates a Scraper with a 10-second timeout HTTP client.
func New() *Scraper {
	return &Scraper{client: &http.Client{Timeout: fetchTimeout}}
}

// Fetch downloads link and extracts its details. Any failure yields empty
// details with unknown metadata.
func (s *Scraper) Fetch(ctx context.Context, link string) models.ArticleDetails {
	raw, err := s.download(ctx, link)
	if err != nil {
		slog.Warn("failed to fetch article page", "link", link, "error", err)
		return models.EmptyDetails()
	}
	return Parse(link, raw)
}

func (s *Scraper) download(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// Decode to UTF-8 from the Content-Type charset or the meta tag.
	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding page: %w", err)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	return raw, nil
}

// Parse extracts details from a downloaded UTF-8 page. Naver News pages get
// site-specific publisher and journalist selectors before the generic
// metadata. When no known body container matches, go-readability supplies
// the body text.
func Parse(link string, raw []byte) models.ArticleDetails {
	details := models.EmptyDetails()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		slog.Warn("failed to parse article page", "link", link, "error", err)
		return details
	}

	details.Title = firstMeta(doc, `meta[property="og:title"]`)
	if details.Title == "" {
		details.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if strings.Contains(link, "news.naver.com") {
		parseNaver(doc, &details)
	}
	if details.Publisher == models.Unknown {
		if v := firstMeta(doc, `meta[property="og:site_name"]`, `meta[name="twitter:site"]`, `meta[name="publisher"]`); v != "" {
			details.Publisher = v
		}
	}
	if details.Byline == models.Unknown {
		v := firstMeta(doc, `meta[name="author"]`, `meta[property="og:article:author"]`, `meta[name="dable:author"]`)
		if v != "" && !strings.Contains(v, " | ") && len([]rune(v)) < 10 {
			details.Byline = v
		}
	}

	details.Body = extractBody(doc)
	if details.Body == "" {
		readabilityFallback(link, raw, &details)
	}

	if details.Byline == models.Unknown {
		if name := bylineFromBody(details.Body); name != "" {
			details.Byline = name + " 기자"
		}
	}

	return details
}

func parseNaver(doc *goquery.Document, details *models.ArticleDetails) {
	if logo := doc.Find(".media_end_head_top_logo img").First(); logo.Length() > 0 {
		if v := strings.TrimSpace(logo.AttrOr("title", "")); v != "" {
			details.Publisher = v
		}
	} else if meta := doc.Find(`meta[property="og:article:author"]`).First(); meta.Length() > 0 {
		if v := strings.TrimSpace(meta.AttrOr("content", "")); v != "" {
			details.Publisher = v
		}
	}

	if j := doc.Find(".media_end_head_journalist_name").First(); j.Length() > 0 {
		if v := strings.TrimSpace(j.Text()); v != "" {
			details.Byline = v
		}
		return
	}

	// Naver puts "<publisher> | 네이버" into the author meta when no
	// journalist is credited.
	if author := doc.Find(`meta[name="author"]`).First(); author.Length() > 0 {
		v := strings.TrimSpace(author.AttrOr("content", ""))
		if v != "" && !strings.Contains(v, " | 네이버") {
			details.Byline = v
		}
	}
}

// firstMeta returns the trimmed content of the first selector that matches
// an element.
func firstMeta(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if m := doc.Find(sel).First(); m.Length() > 0 {
			return strings.TrimSpace(m.AttrOr("content", ""))
		}
	}
	return ""
}

func readabilityFallback(link string, raw []byte, details *models.ArticleDetails) {
	pageURL, err := url.Parse(link)
	if err != nil {
		return
	}
	article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err != nil {
		slog.Debug("readability extraction failed", "link", link, "error", err)
		return
	}
	details.Body = strings.TrimSpace(article.TextContent)
	if details.Publisher == models.Unknown && article.SiteName != "" {
		details.Publisher = strings.TrimSpace(article.SiteName)
	}
}
