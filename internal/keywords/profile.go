// Package keywords loads the versioned keyword profile that drives relevance
// filtering, heuristic classification, and the oracle label sets.
package keywords

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultProfile []byte

// Profile is a versioned set of keyword rules and label vocabularies.
type Profile struct {
	Version int    `yaml:"version"`
	Topic   string `yaml:"topic"`

	// Primary keywords are direct disease-name variants.
	Primary []string `yaml:"primary"`
	// Strong keywords are rarer alternate or legal terms; one body mention
	// is enough.
	Strong []string `yaml:"strong"`

	PhotoPrefixes       []string        `yaml:"photo_prefixes"`
	MinBodyRunes        int             `yaml:"min_body_runes"`
	PrimaryBodyMinCount int             `yaml:"primary_body_min_count"`
	ExcludedDomains     []string        `yaml:"excluded_domains"`
	FalsePositives      []FalsePositive `yaml:"false_positives"`
	FallbackLabel       string          `yaml:"fallback_label"`
	Categories          []Group         `yaml:"categories"`
	Types               []Group         `yaml:"types"`
	Oracle              OracleLabels    `yaml:"oracle"`
}

// FalsePositive rejects titles containing Trigger together with any of the
// Context terms.
type FalsePositive struct {
	Trigger string   `yaml:"trigger"`
	Context []string `yaml:"context"`
}

// Group is one ordered heuristic keyword group.
type Group struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Label is an oracle label with a short description used in prompts.
type Label struct {
	Label string `yaml:"label"`
	Hint  string `yaml:"hint"`
}

// OracleLabels are the vocabularies the classification oracle may answer with.
type OracleLabels struct {
	Categories      []Label `yaml:"categories"`
	Types           []Label `yaml:"types"`
	IrrelevantLabel string  `yaml:"irrelevant_label"`
	DefaultType     string  `yaml:"default_type"`
}

// Default returns the embedded profile.
func Default() (*Profile, error) {
	return Parse(defaultProfile)
}

// Load reads a profile from path. An empty path returns the embedded default.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keyword profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("keyword profile %q: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing keyword profile: %w", err)
	}
	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) applyDefaults() {
	if p.MinBodyRunes == 0 {
		p.MinBodyRunes = 80
	}
	if p.PrimaryBodyMinCount == 0 {
		p.PrimaryBodyMinCount = 2
	}
	if p.FallbackLabel == "" {
		p.FallbackLabel = "기타"
	}
	if p.Oracle.DefaultType == "" {
		p.Oracle.DefaultType = p.FallbackLabel
	}
}

// Validate reports whether the profile can drive the pipeline.
func (p *Profile) Validate() error {
	if len(p.Primary) == 0 {
		return errors.New("keyword profile: primary keywords must not be empty")
	}
	if p.MinBodyRunes < 0 {
		return fmt.Errorf("keyword profile: invalid min_body_runes %d", p.MinBodyRunes)
	}
	if p.PrimaryBodyMinCount < 1 {
		return fmt.Errorf("keyword profile: invalid primary_body_min_count %d", p.PrimaryBodyMinCount)
	}
	if len(p.Oracle.Categories) == 0 {
		return errors.New("keyword profile: oracle categories must not be empty")
	}
	if p.Oracle.IrrelevantLabel == "" {
		return errors.New("keyword profile: oracle irrelevant_label must be set")
	}
	for _, g := range append(append([]Group{}, p.Categories...), p.Types...) {
		if g.Label == "" {
			return errors.New("keyword profile: group label must not be empty")
		}
	}
	return nil
}

// CategoryLabels returns the oracle category labels in order.
func (o OracleLabels) CategoryLabels() []string {
	return labels(o.Categories)
}

// TypeLabels returns the oracle type labels in order.
func (o OracleLabels) TypeLabels() []string {
	return labels(o.Types)
}

func labels(ls []Label) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Label)
	}
	return out
}
