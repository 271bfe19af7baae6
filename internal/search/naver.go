package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hoanghai1803/newsclip/internal/models"
)

const naverNewsURL = "https://openapi.naver.com/v1/search/news.json"

// naverPubDateLayout is the RFC 1123 layout with numeric zone used by the
// Naver search API.
const naverPubDateLayout = time.RFC1123Z

// Compile-time interface check.
var _ Searcher = (*Naver)(nil)

// Naver searches news through the Naver Open API.
type Naver struct {
	clientID     string
	clientSecret string
	endpoint     string
	client       *http.Client
}

// NewNaver creates a Naver searcher. An empty endpoint selects the public
// news search URL.
func NewNaver(clientID, clientSecret, endpoint string) *Naver {
	if endpoint == "" {
		endpoint = naverNewsURL
	}
	return &Naver{
		clientID:     clientID,
		clientSecret: clientSecret,
		endpoint:     endpoint,
		client:       newHTTPClient(),
	}
}

type naverResponse struct {
	Total int         `json:"total"`
	Start int         `json:"start"`
	Items []naverItem `json:"items"`
}

type naverItem struct {
	Title        string `json:"title"`
	OriginalLink string `json:"originallink"`
	Link         string `json:"link"`
	Description  string `json:"description"`
	PubDate      string `json:"pubDate"`
}

// Search fetches one result page.
func (n *Naver) Search(ctx context.Context, q Query) ([]models.Article, error) {
	params := url.Values{}
	params.Set("query", q.Term)
	params.Set("display", strconv.Itoa(q.Display))
	params.Set("start", strconv.Itoa(q.Start))
	params.Set("sort", string(q.Sort))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", n.clientID)
	req.Header.Set("X-Naver-Client-Secret", n.clientSecret)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", q.Term, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searching %q: %w: %d", q.Term, ErrUnexpectedStatus, resp.StatusCode)
	}

	var body naverResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	articles := make([]models.Article, 0, len(body.Items))
	for _, item := range body.Items {
		if item.Link == "" {
			continue
		}
		articles = append(articles, models.Article{
			Title:       CleanText(item.Title),
			Link:        item.Link,
			Description: CleanText(item.Description),
			PublishedAt: parsePubDate(item.PubDate),
		})
	}

	slog.Debug("naver search page",
		"query", q.Term,
		"start", q.Start,
		"sort", q.Sort,
		"items", len(articles),
	)
	return articles, nil
}

// parsePubDate returns the zero time when s cannot be parsed.
func parsePubDate(s string) time.Time {
	t, err := time.Parse(naverPubDateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
