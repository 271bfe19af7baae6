package pipeline

import (
	"sort"
	"time"

	"github.com/hoanghai1803/newsclip/internal/models"
)

// Window is the publication time range a run accepts. A zero End means the
// window is open-ended.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the window, bounds inclusive.
// The zero time is never contained.
func (w Window) Contains(t time.Time) bool {
	if t.IsZero() || t.Before(w.Start) {
		return false
	}
	return w.End.IsZero() || !t.After(w.End)
}

// Open reports whether the window has no upper bound.
func (w Window) Open() bool {
	return w.End.IsZero()
}

// MergeByLink removes articles whose link was already seen, keeping the
// first occurrence and the original order.
func MergeByLink(articles []models.Article) []models.Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if _, ok := seen[a.Link]; ok {
			continue
		}
		seen[a.Link] = struct{}{}
		out = append(out, a)
	}
	return out
}

// FilterWindow keeps the articles published within w. Articles without a
// parsed timestamp are dropped.
func FilterWindow(articles []models.Article, w Window) []models.Article {
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if w.Contains(a.PublishedAt) {
			out = append(out, a)
		}
	}
	return out
}

// SortChronological orders articles oldest first. Ties keep their order.
func SortChronological(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.Before(articles[j].PublishedAt)
	})
}
