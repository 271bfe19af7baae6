package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hoanghai1803/newsclip/internal/models"
)

// Reclassify refetches the article at link, classifies it again, and
// updates the stored record's labels. The store must implement
// Reclassifier.
func (p *Pipeline) Reclassify(ctx context.Context, link string) (*models.Classification, error) {
	rc, ok := p.store.(Reclassifier)
	if !ok || p.scraper == nil || p.heuristic == nil {
		return nil, fmt.Errorf("%w: reclassification", ErrNotConfigured)
	}

	pageID, err := rc.PageIDByURL(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("finding record for %s: %w", link, err)
	}

	details := p.scraper.Fetch(ctx, link)
	title := details.Title
	cls := p.classify(ctx, title, details.Body)

	rec := models.Record{
		Title:      title,
		Link:       link,
		Category:   cls.Category,
		Type:       cls.Type,
		Publishers: []string{details.Publisher},
		Byline:     details.Byline,
		Summary:    cls.Summary,
	}
	if err := rc.UpdateClassification(ctx, pageID, rec); err != nil {
		return nil, fmt.Errorf("updating record %s: %w", pageID, err)
	}

	slog.Info("reclassified article", "link", link, "page", pageID, "category", cls.Category, "type", cls.Type, "source", cls.Source)
	return &cls, nil
}
