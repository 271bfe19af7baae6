package ai

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// geminiCompleter calls the Gemini API through the genai SDK.
type geminiCompleter struct {
	model  string
	client *genai.Client
}

func newGeminiCompleter(ctx context.Context, apiKey, model string) (*geminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &geminiCompleter{model: model, client: client}, nil
}

// Complete sends the system prompt followed by the user prompt as one text
// turn.
func (c *geminiCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	slog.Debug("calling Gemini API", "model", c.model)

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(systemPrompt+"\n\n"+userPrompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text, err := result.Text()
	if err != nil {
		return "", fmt.Errorf("get text from result: %w", err)
	}
	return text, nil
}
