package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/hoanghai1803/newsclip/internal/models"
	"github.com/mmcdole/gofeed"
)

// DefaultRSSTemplate is a Google News search feed. {query} is replaced with
// the escaped search term.
const DefaultRSSTemplate = "https://news.google.com/rss/search?q={query}&hl=ko&gl=KR&ceid=KR:ko"

var htmlTagPattern = regexp.MustCompile("<[^>]*>")

// Compile-time interface check.
var _ Searcher = (*RSS)(nil)

// RSS searches news through an RSS search endpoint. Feeds are not paged, so
// only the first page returns items and the sort order is ignored.
type RSS struct {
	template string
	parser   *gofeed.Parser
}

// NewRSS creates an RSS searcher for the given URL template.
func NewRSS(template string) *RSS {
	if template == "" {
		template = DefaultRSSTemplate
	}
	fp := gofeed.NewParser()
	fp.Client = newHTTPClient()
	return &RSS{template: template, parser: fp}
}

// Search fetches the feed for q.Term. Pages after the first are empty.
func (r *RSS) Search(ctx context.Context, q Query) ([]models.Article, error) {
	if q.Start > 1 {
		return nil, nil
	}

	feedURL := strings.ReplaceAll(r.template, "{query}", url.QueryEscape(q.Term))
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %q: %w", feedURL, err)
	}

	articles := parseFeedItems(feed)
	if q.Sort == SortDate {
		sortNewestFirst(articles)
	}
	if q.Display > 0 && len(articles) > q.Display {
		articles = articles[:q.Display]
	}

	slog.Debug("rss search page", "query", q.Term, "items", len(articles))
	return articles, nil
}

// parseFeedItems converts gofeed items into articles. Items with an empty
// title or link are skipped.
func parseFeedItems(feed *gofeed.Feed) []models.Article {
	var articles []models.Article
	for _, item := range feed.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		articles = append(articles, models.Article{
			Title:       CleanText(item.Title),
			Link:        item.Link,
			Description: CleanText(stripHTML(item.Description)),
			PublishedAt: published,
		})
	}
	return articles
}

func sortNewestFirst(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}

// stripHTML removes HTML tags from s.
func stripHTML(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}
