package scrape

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"
)

// bodySelectors are tried in order; the first matching container holds the
// article body.
var bodySelectors = []string{
	"#newsct_article",
	"#articleBodyContents",
	"article",
	".article_body",
	"#article_content",
	".news_body_area",
	"#news_body_area",
	".article-body",
	".article_view",
}

const bylineSearchRunes = 500

// bylinePatterns match reporter credits near the top of Korean news bodies,
// e.g. "[서울=뉴스1] 홍길동 기자 =", "홍길동 기자 (email)", "기자 = 홍길동".
var bylinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([가-힣]{2,4})\s*기자\s*=`),
	regexp.MustCompile(`([가-힣]{2,4})\s*기자\s*\(`),
	regexp.MustCompile(`기자\s*=\s*([가-힣]{2,4})`),
	regexp.MustCompile(`([가-힣]{2,4})\s*기자(?:[^\p{L}\p{N}_]|$)`),
	regexp.MustCompile(`\[.*?\]\s*([가-힣]{2,4})\s*기자`),
}

// extractBody returns the text of the first body container with scripts and
// page chrome removed. Text nodes are trimmed and joined by newlines.
func extractBody(doc *goquery.Document) string {
	for _, sel := range bodySelectors {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}
		container.Find("script, style, nav, footer, header").Remove()

		var parts []string
		for _, n := range container.Nodes {
			collectText(n, &parts)
		}
		return html.UnescapeString(strings.Join(parts, "\n"))
	}
	return ""
}

func collectText(n *nethtml.Node, parts *[]string) {
	if n.Type == nethtml.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// bylineFromBody returns the reporter name found in the first part of body,
// or "" when no pattern matches.
func bylineFromBody(body string) string {
	head := body
	if r := []rune(body); len(r) > bylineSearchRunes {
		head = string(r[:bylineSearchRunes])
	}
	for _, p := range bylinePatterns {
		if m := p.FindStringSubmatch(head); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
