package ai

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClassifyPrompt(t *testing.T) {
	labels := testLabels(t)
	body := strings.Repeat("가", 1500)

	system, user := ClassifyPrompt(labels, "1형당뇨 신약 발표", body)

	if !strings.Contains(system, `"무관"`) {
		t.Errorf("system prompt missing irrelevant label: %q", system)
	}
	for _, want := range []string{"Title: 1형당뇨 신약 발표", "- 의학/연구:", "- 연구결과:", "- 무관:"} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
	if n := strings.Count(user, "가"); n != maxSnippetRunes {
		t.Errorf("snippet has %d runes, want %d", n, maxSnippetRunes)
	}
}

func TestSimilarityPrompt(t *testing.T) {
	system, user := SimilarityPrompt("새 기사", []string{"기존 1", "기존 2"})

	if !strings.Contains(system, "NEW") {
		t.Error("system prompt must describe the NEW answer")
	}
	if !strings.Contains(system, "SAME specific event") {
		t.Error("system prompt must ask for the same specific event")
	}
	want := "[New Article]\n새 기사\n\n[Existing Articles]\n기존 1\n기존 2\n"
	if user != want {
		t.Errorf("user prompt = %q, want %q", user, want)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  \n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.input); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	got := truncateRunes("일이삼사오", 3)
	if got != "일이삼" {
		t.Errorf("truncateRunes() = %q, want %q", got, "일이삼")
	}
	if !utf8.ValidString(got) {
		t.Error("truncateRunes() produced invalid UTF-8")
	}
	if got := truncateRunes("abc", 10); got != "abc" {
		t.Errorf("truncateRunes() = %q, want %q", got, "abc")
	}
}
