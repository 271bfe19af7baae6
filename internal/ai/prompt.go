package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxSnippetRunes bounds the article body included in a classification prompt.
const maxSnippetRunes = 1000

// newMarker is the answer the similarity prompt expects for a new article.
const newMarker = "NEW"

const classifySystemPromptTmpl = `You are an expert news classifier for %s news. Classify the article into exactly one Category and one Type from the lists given, and write a two or three sentence Korean summary of what the article reports. If the article is not actually about %s, use the category %q. Return ONLY a JSON object with the keys "category", "type", and "summary". Do not wrap it in markdown.`

const similaritySystemPrompt = `You detect duplicate news coverage. Decide whether the new article reports the SAME specific event or announcement as one of the existing articles. Sharing a general topic is not enough: separate interviews, follow-ups, or different angles on an ongoing subject are NOT duplicates. Ignore minor differences in phrasing. If it is a duplicate, answer with the exact title of the matching existing article. Otherwise answer NEW. Return ONLY the answer, nothing else.`

// ClassifyPrompt builds the system and user prompts for article classification.
func ClassifyPrompt(labels Labels, title, body string) (systemPrompt string, userPrompt string) {
	systemPrompt = fmt.Sprintf(classifySystemPromptTmpl, labels.Topic, labels.Topic, labels.Irrelevant)

	var b strings.Builder
	b.WriteString("[Article]\n")
	fmt.Fprintf(&b, "Title: %s\n", title)
	fmt.Fprintf(&b, "Content Snippet: %s\n\n", truncateRunes(body, maxSnippetRunes))

	b.WriteString("[Categories]\n")
	for _, c := range labels.Categories {
		fmt.Fprintf(&b, "- %s: %s\n", c.Label, c.Hint)
	}
	fmt.Fprintf(&b, "- %s: Not about the topic at all.\n\n", labels.Irrelevant)

	b.WriteString("[Types]\n")
	for _, t := range labels.Types {
		fmt.Fprintf(&b, "- %s: %s\n", t.Label, t.Hint)
	}

	b.WriteString("\n[Output Format]\n")
	b.WriteString(`{"category": "...", "type": "...", "summary": "..."}`)

	userPrompt = b.String()
	return systemPrompt, userPrompt
}

// SimilarityPrompt builds the system and user prompts for the semantic
// duplicate check.
func SimilarityPrompt(title string, recent []string) (systemPrompt string, userPrompt string) {
	systemPrompt = similaritySystemPrompt

	var b strings.Builder
	b.WriteString("[New Article]\n")
	b.WriteString(title)
	b.WriteString("\n\n[Existing Articles]\n")
	for _, r := range recent {
		b.WriteString(r)
		b.WriteByte('\n')
	}

	userPrompt = b.String()
	return systemPrompt, userPrompt
}

// parseSimilarity interprets a similarity answer. When the answer names one
// of the recent titles, that title is returned verbatim.
func parseSimilarity(text string, recent []string) (bool, string) {
	answer := strings.TrimSpace(extractJSON(text))
	answer = strings.Trim(answer, "\"'`")
	answer = strings.TrimSpace(answer)

	if answer == "" || strings.EqualFold(strings.TrimRight(answer, ".!"), newMarker) {
		return false, ""
	}

	for _, r := range recent {
		if strings.TrimSpace(r) == answer {
			return true, r
		}
	}
	return true, answer
}

// extractJSON strips markdown code fences from a string that may contain
// JSON wrapped in ```json ... ``` or ``` ... ``` blocks.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	if after, found := strings.CutPrefix(s, "```json"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		return strings.TrimSpace(after)
	}

	if after, found := strings.CutPrefix(s, "```"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		return strings.TrimSpace(after)
	}

	return s
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
