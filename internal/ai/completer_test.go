package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropicCompleter(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/v1/messages")
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("x-api-key = %q, want %q", r.Header.Get("x-api-key"), "test-key")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"NEW"}]}`))
	}))
	defer srv.Close()

	c := newAnthropicCompleter("test-key", "claude-haiku-4-5", srv.URL)
	text, err := c.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if text != "NEW" {
		t.Errorf("Complete() = %q, want %q", text, "NEW")
	}
	if got.System != "system" {
		t.Errorf("System = %q, want %q", got.System, "system")
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "user" {
		t.Errorf("Messages = %+v, want one user message", got.Messages)
	}
}

func TestAnthropicCompleter_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	c := newAnthropicCompleter("test-key", "claude-haiku-4-5", srv.URL)
	if _, err := c.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestOpenAICompleter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/chat/completions")
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"category\":\"기타\"}"}
			}]
		}`))
	}))
	defer srv.Close()

	c := newOpenAICompleter("test-key", "gpt-4o-mini", srv.URL+"/")
	defer c.Close()

	text, err := c.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if text != `{"category":"기타"}` {
		t.Errorf("Complete() = %q", text)
	}
}
