package notion

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/hoanghai1803/newsclip/internal/models"
)

// Notion rejects rich text content longer than this.
const maxRichTextRunes = 2000

const (
	headingDescription = "기사 요약"
	headingSummary     = "AI 요약"
	headingLink        = "🔗 기사 원문 URL"
)

type block struct {
	Object           string     `json:"object"`
	Type             string     `json:"type"`
	Heading3         *textBlock `json:"heading_3,omitempty"`
	Paragraph        *textBlock `json:"paragraph,omitempty"`
	BulletedListItem *textBlock `json:"bulleted_list_item,omitempty"`
	NumberedListItem *textBlock `json:"numbered_list_item,omitempty"`
}

type textBlock struct {
	RichText []richText `json:"rich_text"`
}

type richText struct {
	Type        string       `json:"type"`
	Text        textContent  `json:"text"`
	Annotations *annotations `json:"annotations,omitempty"`
}

type textContent struct {
	Content string    `json:"content"`
	Link    *linkInfo `json:"link,omitempty"`
}

type linkInfo struct {
	URL string `json:"url"`
}

type annotations struct {
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`
	Code   bool `json:"code,omitempty"`
}

func plainText(s string) richText {
	return richText{Type: "text", Text: textContent{Content: truncate(s)}}
}

func newBlock(kind string, rt []richText) block {
	b := block{Object: "block", Type: kind}
	tb := &textBlock{RichText: rt}
	switch kind {
	case "heading_3":
		b.Heading3 = tb
	case "bulleted_list_item":
		b.BulletedListItem = tb
	case "numbered_list_item":
		b.NumberedListItem = tb
	default:
		b.Type = "paragraph"
		b.Paragraph = tb
	}
	return b
}

// buildChildren lays out a page body: the search description, the oracle
// summary, then a link to the original article.
func buildChildren(rec models.Record) []block {
	var children []block

	if rec.Description != "" {
		children = append(children,
			newBlock("heading_3", []richText{plainText(headingDescription)}),
			newBlock("paragraph", []richText{plainText(rec.Description)}),
		)
	}

	if rec.Summary != "" {
		children = append(children, newBlock("heading_3", []richText{plainText(headingSummary)}))
		children = append(children, markdownBlocks(rec.Summary)...)
	}

	if rec.Link != "" {
		link := plainText(rec.Link)
		link.Text.Link = &linkInfo{URL: rec.Link}
		children = append(children,
			newBlock("heading_3", []richText{plainText(headingLink)}),
			newBlock("paragraph", []richText{link}),
		)
	}

	return children
}

// markdownBlocks converts a markdown summary into Notion blocks. Headings,
// paragraphs, and list items keep their shape; bold, italic, inline code,
// and links become rich text annotations.
func markdownBlocks(md string) []block {
	src := []byte(md)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = appendBlock(blocks, n, src)
	}
	return blocks
}

func appendBlock(blocks []block, n ast.Node, src []byte) []block {
	switch node := n.(type) {
	case *ast.Heading:
		return append(blocks, newBlock("heading_3", inlineText(node, src, annotations{})))
	case *ast.Paragraph, *ast.TextBlock:
		return append(blocks, newBlock("paragraph", inlineText(node, src, annotations{})))
	case *ast.List:
		kind := "bulleted_list_item"
		if node.IsOrdered() {
			kind = "numbered_list_item"
		}
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			var rt []richText
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				rt = append(rt, inlineText(c, src, annotations{})...)
			}
			blocks = append(blocks, newBlock(kind, rt))
		}
		return blocks
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var b strings.Builder
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(src))
		}
		rt := plainText(strings.TrimRight(b.String(), "\n"))
		rt.Annotations = &annotations{Code: true}
		return append(blocks, newBlock("paragraph", []richText{rt}))
	case *ast.ThematicBreak:
		return blocks
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			blocks = appendBlock(blocks, c, src)
		}
		return blocks
	}
}

// inlineText flattens the inline children of n into rich text runs.
func inlineText(n ast.Node, src []byte, style annotations) []richText {
	var out []richText
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			s := string(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				s += " "
			}
			out = append(out, styled(s, style, nil))
		case *ast.String:
			out = append(out, styled(string(node.Value), style, nil))
		case *ast.CodeSpan:
			st := style
			st.Code = true
			out = append(out, styled(plainInline(node, src), st, nil))
		case *ast.Emphasis:
			st := style
			if node.Level >= 2 {
				st.Bold = true
			} else {
				st.Italic = true
			}
			out = append(out, inlineText(node, src, st)...)
		case *ast.Link:
			out = append(out, styled(plainInline(node, src), style, &linkInfo{URL: string(node.Destination)}))
		case *ast.AutoLink:
			u := string(node.URL(src))
			out = append(out, styled(u, style, &linkInfo{URL: u}))
		default:
			out = append(out, inlineText(c, src, style)...)
		}
	}
	return out
}

func plainInline(n ast.Node, src []byte) string {
	var b strings.Builder
	for _, rt := range inlineText(n, src, annotations{}) {
		b.WriteString(rt.Text.Content)
	}
	return b.String()
}

func styled(s string, style annotations, link *linkInfo) richText {
	rt := plainText(s)
	rt.Text.Link = link
	if style != (annotations{}) {
		a := style
		rt.Annotations = &a
	}
	return rt
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxRichTextRunes {
		return s
	}
	return string([]rune(s)[:maxRichTextRunes])
}
