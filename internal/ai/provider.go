package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hoanghai1803/newsclip/internal/models"
)

// ErrMalformedResponse is returned when the oracle answers with something
// that cannot be interpreted.
var ErrMalformedResponse = errors.New("malformed oracle response")

// MaxRecentTitles bounds the session titles sent with a similarity check.
const MaxRecentTitles = 20

// Oracle classifies articles and judges semantic duplicates using an LLM.
type Oracle interface {
	// Available reports whether the oracle can be called at all. Callers
	// select the heuristic fallback when it returns false.
	Available() bool

	// Classify labels an article. The returned category may be the
	// irrelevant sentinel.
	Classify(ctx context.Context, title, body string) (*models.Classification, error)

	// CheckSimilar reports whether title covers the same specific event as
	// one of the recent titles, and which one.
	CheckSimilar(ctx context.Context, title string, recent []string) (bool, string, error)

	// Close releases resources held by the oracle.
	Close() error
}

// completer sends one system/user prompt pair to a model and returns the
// text reply.
type completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NewOracle creates the oracle for the configured provider. Without an API
// key it returns a Disabled oracle.
func NewOracle(ctx context.Context, cfg ProviderConfig, labels Labels) (Oracle, error) {
	if cfg.APIKey == "" {
		return Disabled{}, nil
	}

	var (
		c   completer
		err error
	)
	switch cfg.Provider {
	case "gemini":
		c, err = newGeminiCompleter(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		c = newOpenAICompleter(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "anthropic":
		c = newAnthropicCompleter(cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", cfg.Provider, err)
	}

	return &LLMOracle{name: cfg.Provider, completer: c, labels: labels}, nil
}

// Compile-time interface checks.
var (
	_ Oracle = Disabled{}
	_ Oracle = (*LLMOracle)(nil)
)

// Disabled is the oracle used when no provider is configured.
type Disabled struct{}

// Available reports false.
func (Disabled) Available() bool { return false }

// Classify always fails; callers fall back to the heuristic.
func (Disabled) Classify(context.Context, string, string) (*models.Classification, error) {
	return nil, errors.New("oracle disabled")
}

// CheckSimilar reports every title as new.
func (Disabled) CheckSimilar(context.Context, string, []string) (bool, string, error) {
	return false, "", nil
}

// Close is a no-op.
func (Disabled) Close() error { return nil }

// LLMOracle implements Oracle on top of a chat-completion style provider.
type LLMOracle struct {
	name      string
	completer completer
	labels    Labels
}

// Available always returns true for a configured provider.
func (o *LLMOracle) Available() bool { return true }

// Classify asks the model for a category, type, and short summary. Unknown
// categories collapse to the fallback label and unknown types to the
// default type.
func (o *LLMOracle) Classify(ctx context.Context, title, body string) (*models.Classification, error) {
	systemPrompt, userPrompt := ClassifyPrompt(o.labels, title, body)

	text, err := o.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("%s classify: %w", o.name, err)
	}

	var resp classificationResponse
	if err := json.Unmarshal([]byte(extractJSON(text)), &resp); err != nil {
		return nil, fmt.Errorf("%s classify: %w: %v", o.name, ErrMalformedResponse, err)
	}

	category := strings.TrimSpace(resp.Category)
	if category == "" {
		return nil, fmt.Errorf("%s classify: %w: empty category", o.name, ErrMalformedResponse)
	}
	if category != o.labels.Irrelevant && !o.labels.hasCategory(category) {
		slog.Debug("oracle returned unknown category", "category", category)
		category = o.labels.Fallback
	}

	typ := strings.TrimSpace(resp.Type)
	if !o.labels.hasType(typ) {
		typ = o.labels.DefaultType
	}

	return &models.Classification{
		Category: category,
		Type:     typ,
		Summary:  strings.TrimSpace(resp.Summary),
		Source:   models.SourceOracle,
	}, nil
}

// CheckSimilar compares title against at most MaxRecentTitles of the most
// recent titles. An empty window never calls the model.
func (o *LLMOracle) CheckSimilar(ctx context.Context, title string, recent []string) (bool, string, error) {
	if len(recent) == 0 {
		return false, "", nil
	}
	if len(recent) > MaxRecentTitles {
		recent = recent[len(recent)-MaxRecentTitles:]
	}

	systemPrompt, userPrompt := SimilarityPrompt(title, recent)

	text, err := o.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return false, "", fmt.Errorf("%s similarity: %w", o.name, err)
	}

	dup, matched := parseSimilarity(text, recent)
	return dup, matched, nil
}

// Close releases the provider client when it holds resources.
func (o *LLMOracle) Close() error {
	if c, ok := o.completer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
