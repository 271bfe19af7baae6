package ai

import "github.com/hoanghai1803/newsclip/internal/keywords"

// ProviderConfig holds the configuration needed to create an oracle.
type ProviderConfig struct {
	Provider string // "gemini" | "openai" | "anthropic"
	APIKey   string
	Model    string
	BaseURL  string // optional endpoint override
}

// Labels is the vocabulary the oracle classifies into.
type Labels struct {
	Topic       string
	Categories  []keywords.Label
	Types       []keywords.Label
	Irrelevant  string
	Fallback    string
	DefaultType string
}

// LabelsFromProfile extracts the oracle vocabulary from a keyword profile.
func LabelsFromProfile(p *keywords.Profile) Labels {
	return Labels{
		Topic:       p.Topic,
		Categories:  p.Oracle.Categories,
		Types:       p.Oracle.Types,
		Irrelevant:  p.Oracle.IrrelevantLabel,
		Fallback:    p.FallbackLabel,
		DefaultType: p.Oracle.DefaultType,
	}
}

func (l Labels) hasCategory(c string) bool {
	for _, x := range l.Categories {
		if x.Label == c {
			return true
		}
	}
	return false
}

func (l Labels) hasType(t string) bool {
	for _, x := range l.Types {
		if x.Label == t {
			return true
		}
	}
	return false
}

// classificationResponse is the JSON object the classification prompt asks for.
type classificationResponse struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Summary  string `json:"summary"`
}
