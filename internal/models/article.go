package models

import "time"

// Unknown is the placeholder stored when a publisher or byline could not be
// extracted from an article page.
const Unknown = "정보 없음"

// Article is a search result candidate. The link is the canonical identity
// of an article within a fetch batch.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description,omitempty"`
	PublishedAt time.Time `json:"published_at"` // zero when the source timestamp was unparsable
}

// ArticleDetails holds the best-effort scrape of an article page.
type ArticleDetails struct {
	Title     string `json:"title,omitempty"` // page headline, when present
	Body      string `json:"body"`
	Publisher string `json:"publisher"`
	Byline    string `json:"byline"`
}

// EmptyDetails returns the details value used when a page could not be
// fetched or parsed.
func EmptyDetails() ArticleDetails {
	return ArticleDetails{Publisher: Unknown, Byline: Unknown}
}

// Classification sources.
const (
	SourceOracle    = "oracle"
	SourceHeuristic = "heuristic"
)

// Classification is the label assigned to an accepted article.
type Classification struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Summary  string `json:"summary,omitempty"`
	Source   string `json:"source"`
}

// Record is the row written to the article store.
type Record struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	Publishers  []string  `json:"publishers"`
	Byline      string    `json:"byline,omitempty"`
	Description string    `json:"description,omitempty"`
	Summary     string    `json:"summary,omitempty"`
}

// Day returns the record date formatted at day granularity.
func (r Record) Day() string {
	return r.Date.Format("2006-01-02")
}
