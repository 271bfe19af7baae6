package notion

import (
	"testing"

	"github.com/hoanghai1803/newsclip/internal/models"
)

func TestBuildChildren(t *testing.T) {
	tests := []struct {
		name      string
		rec       models.Record
		wantTypes []string
	}{
		{
			name:      "description and link",
			rec:       models.Record{Description: "설명", Link: "https://x"},
			wantTypes: []string{"heading_3", "paragraph", "heading_3", "paragraph"},
		},
		{
			name:      "link only",
			rec:       models.Record{Link: "https://x"},
			wantTypes: []string{"heading_3", "paragraph"},
		},
		{
			name:      "with summary",
			rec:       models.Record{Description: "설명", Summary: "요약", Link: "https://x"},
			wantTypes: []string{"heading_3", "paragraph", "heading_3", "paragraph", "heading_3", "paragraph"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildChildren(tt.rec)
			if len(got) != len(tt.wantTypes) {
				t.Fatalf("got %d blocks, want %d", len(got), len(tt.wantTypes))
			}
			for i, want := range tt.wantTypes {
				if got[i].Type != want {
					t.Errorf("block[%d].Type = %q, want %q", i, got[i].Type, want)
				}
			}
		})
	}
}

func TestBuildChildren_LinkBlock(t *testing.T) {
	got := buildChildren(models.Record{Link: "https://news.example.com/a"})
	if got[0].Heading3.RichText[0].Text.Content != headingLink {
		t.Errorf("heading = %q, want %q", got[0].Heading3.RichText[0].Text.Content, headingLink)
	}
	rt := got[1].Paragraph.RichText[0]
	if rt.Text.Link == nil || rt.Text.Link.URL != "https://news.example.com/a" {
		t.Errorf("link = %+v, want https://news.example.com/a", rt.Text.Link)
	}
}

func TestMarkdownBlocks(t *testing.T) {
	md := "## 핵심\n\n정부가 **연속혈당측정기** 지원을 확대한다.\n\n- 대상 확대\n- 본인부담 완화\n\n1. 첫째\n2. 둘째\n"

	got := markdownBlocks(md)

	wantTypes := []string{"heading_3", "paragraph", "bulleted_list_item", "bulleted_list_item", "numbered_list_item", "numbered_list_item"}
	if len(got) != len(wantTypes) {
		t.Fatalf("got %d blocks, want %d: %+v", len(got), len(wantTypes), got)
	}
	for i, want := range wantTypes {
		if got[i].Type != want {
			t.Errorf("block[%d].Type = %q, want %q", i, got[i].Type, want)
		}
	}

	if got[0].Heading3.RichText[0].Text.Content != "핵심" {
		t.Errorf("heading text = %q, want %q", got[0].Heading3.RichText[0].Text.Content, "핵심")
	}

	para := got[1].Paragraph.RichText
	var bold string
	for _, rt := range para {
		if rt.Annotations != nil && rt.Annotations.Bold {
			bold += rt.Text.Content
		}
	}
	if bold != "연속혈당측정기" {
		t.Errorf("bold text = %q, want %q", bold, "연속혈당측정기")
	}

	if got[2].BulletedListItem.RichText[0].Text.Content != "대상 확대" {
		t.Errorf("list item = %q, want %q", got[2].BulletedListItem.RichText[0].Text.Content, "대상 확대")
	}
}

func TestMarkdownBlocks_Link(t *testing.T) {
	got := markdownBlocks("자세한 내용은 [보도자료](https://gov.example/press)를 참고.")
	if len(got) != 1 {
		t.Fatalf("got %d blocks, want 1", len(got))
	}
	var found bool
	for _, rt := range got[0].Paragraph.RichText {
		if rt.Text.Link != nil && rt.Text.Link.URL == "https://gov.example/press" && rt.Text.Content == "보도자료" {
			found = true
		}
	}
	if !found {
		t.Errorf("link run not found in %+v", got[0].Paragraph.RichText)
	}
}

func TestTruncate(t *testing.T) {
	long := make([]rune, maxRichTextRunes+10)
	for i := range long {
		long[i] = '가'
	}
	if got := []rune(truncate(string(long))); len(got) != maxRichTextRunes {
		t.Errorf("len(truncate()) = %d runes, want %d", len(got), maxRichTextRunes)
	}
}
