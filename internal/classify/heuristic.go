// Package classify provides the keyword-based fallback classifier used when
// the classification oracle is unavailable or fails.
package classify

import (
	"strings"

	"github.com/hoanghai1803/newsclip/internal/keywords"
	"github.com/hoanghai1803/newsclip/internal/models"
)

// Heuristic labels text by case-insensitive substring containment over
// ordered keyword groups. The first matching group wins.
type Heuristic struct {
	categories  []group
	types       []group
	fallback    string
	defaultType string
	useTypes    bool
}

type group struct {
	label    string
	keywords []string
}

// Option configures a Heuristic.
type Option func(*Heuristic)

// WithTypeKeywords makes Classify derive the type from the type keyword
// groups instead of returning the constant default type.
func WithTypeKeywords() Option {
	return func(h *Heuristic) { h.useTypes = true }
}

// NewHeuristic builds a classifier from the profile's keyword groups.
func NewHeuristic(p *keywords.Profile, opts ...Option) *Heuristic {
	h := &Heuristic{
		categories:  lowerGroups(p.Categories),
		types:       lowerGroups(p.Types),
		fallback:    p.FallbackLabel,
		defaultType: p.Oracle.DefaultType,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Category returns the first category group matching text, or the fallback
// label.
func (h *Heuristic) Category(text string) string {
	return match(h.categories, strings.ToLower(text), h.fallback)
}

// Type returns the first type group matching text, or the fallback label.
func (h *Heuristic) Type(text string) string {
	return match(h.types, strings.ToLower(text), h.fallback)
}

// Classify labels an article from its title and body. The summary is always
// empty.
func (h *Heuristic) Classify(title, body string) models.Classification {
	text := title + " " + body
	typ := h.defaultType
	if h.useTypes {
		typ = h.Type(text)
	}
	return models.Classification{
		Category: h.Category(text),
		Type:     typ,
		Source:   models.SourceHeuristic,
	}
}

func match(groups []group, text, fallback string) string {
	for _, g := range groups {
		for _, k := range g.keywords {
			if strings.Contains(text, k) {
				return g.label
			}
		}
	}
	return fallback
}

func lowerGroups(gs []keywords.Group) []group {
	out := make([]group, 0, len(gs))
	for _, g := range gs {
		kws := make([]string, 0, len(g.Keywords))
		for _, k := range g.Keywords {
			kws = append(kws, strings.ToLower(k))
		}
		out = append(out, group{label: g.Label, keywords: kws})
	}
	return out
}
