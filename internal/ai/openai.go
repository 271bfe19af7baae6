package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openaiCompleter calls an OpenAI-compatible Chat Completions endpoint
// through the official SDK.
type openaiCompleter struct {
	model      string
	client     openai.Client
	httpClient *http.Client
}

// newOpenAICompleter creates an openaiCompleter. SDK retries are disabled
// so that a failed call degrades to the fallback path immediately.
func newOpenAICompleter(apiKey, model, baseURL string) *openaiCompleter {
	httpClient := &http.Client{Timeout: 60 * time.Second}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &openaiCompleter{
		model:      model,
		client:     openai.NewClient(opts...),
		httpClient: httpClient,
	}
}

// Complete sends the prompts and returns the content of the first choice.
func (c *openaiCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	slog.Debug("calling OpenAI API", "model", c.model)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response: no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// Close drops idle keep-alive connections.
func (c *openaiCompleter) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
