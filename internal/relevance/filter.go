// Package relevance decides whether a candidate article is about the
// configured topic, using title and body keyword rules.
package relevance

import (
	"strings"
	"unicode/utf8"

	"github.com/hoanghai1803/newsclip/internal/keywords"
	"github.com/hoanghai1803/newsclip/internal/models"
)

// Reasons reported by Evaluate.
const (
	ReasonPhoto         = "photo-only article"
	ReasonShortBody     = "body too short"
	ReasonExcluded      = "excluded domain"
	ReasonFalsePositive = "false-positive title"
	ReasonTitleKeyword  = "keyword in title"
	ReasonStrongBody    = "strong keyword in body"
	ReasonPrimaryBody   = "repeated primary keyword in body"
	ReasonNoMatch       = "no keyword match"
)

// Verdict is the outcome of a relevance check.
type Verdict struct {
	Relevant bool
	Reason   string
}

// Filter applies the keyword relevance rules of a profile. It is safe for
// concurrent use.
type Filter struct {
	profile *keywords.Profile
}

// NewFilter creates a Filter for the given profile.
func NewFilter(p *keywords.Profile) *Filter {
	return &Filter{profile: p}
}

// IsRelevant reports whether the article is in scope. An empty body means
// the body was not supplied; body rules are then skipped.
func (f *Filter) IsRelevant(a models.Article, body string) bool {
	return f.Evaluate(a, body).Relevant
}

// Evaluate applies the rules in order and returns the first one that
// decides.
func (f *Filter) Evaluate(a models.Article, body string) Verdict {
	p := f.profile
	title := a.Title

	for _, prefix := range p.PhotoPrefixes {
		if strings.HasPrefix(title, prefix) {
			return reject(ReasonPhoto)
		}
	}

	if body != "" && utf8.RuneCountInString(body) < p.MinBodyRunes {
		return reject(ReasonShortBody)
	}

	if f.Excluded(a.Link) {
		return reject(ReasonExcluded)
	}

	for _, fp := range p.FalsePositives {
		if strings.Contains(title, fp.Trigger) && containsAny(title, fp.Context) {
			return reject(ReasonFalsePositive)
		}
	}

	if containsAny(title, p.Primary) || containsAny(title, p.Strong) {
		return accept(ReasonTitleKeyword)
	}

	if body != "" {
		if containsAny(body, p.Strong) {
			return accept(ReasonStrongBody)
		}
		for _, k := range p.Primary {
			if strings.Count(body, k) >= p.PrimaryBodyMinCount {
				return accept(ReasonPrimaryBody)
			}
		}
	}

	return reject(ReasonNoMatch)
}

// Excluded reports whether the link belongs to an excluded domain.
func (f *Filter) Excluded(link string) bool {
	return containsAny(link, f.profile.ExcludedDomains)
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func accept(reason string) Verdict { return Verdict{Relevant: true, Reason: reason} }
func reject(reason string) Verdict { return Verdict{Relevant: false, Reason: reason} }
