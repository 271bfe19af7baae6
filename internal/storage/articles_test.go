package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hoanghai1803/newsclip/internal/models"
)

func testRecord(title, link string) models.Record {
	return models.Record{
		Title:       title,
		Link:        link,
		Date:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		Category:    "의학/연구",
		Type:        "연구결과",
		Publishers:  []string{"연합뉴스"},
		Byline:      "홍길동 기자",
		Description: "설명",
		Summary:     "요약",
	}
}

func TestSaveAndTitleExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	exists, err := store.TitleExists(ctx, "1형당뇨 신약 발표")
	if err != nil {
		t.Fatalf("TitleExists() error: %v", err)
	}
	if exists {
		t.Fatal("TitleExists() = true before save")
	}

	if err := store.Save(ctx, testRecord("1형당뇨 신약 발표", "https://news.example.com/a")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	exists, err = store.TitleExists(ctx, "1형당뇨 신약 발표")
	if err != nil {
		t.Fatalf("TitleExists() error: %v", err)
	}
	if !exists {
		t.Error("TitleExists() = false after save")
	}

	exists, err = store.TitleExists(ctx, "1형당뇨 신약")
	if err != nil {
		t.Fatalf("TitleExists() error: %v", err)
	}
	if exists {
		t.Error("TitleExists() matched a prefix, want exact match only")
	}
}

func TestSave_DuplicateLinkIgnored(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testRecord("첫 제목", "https://news.example.com/a")); err != nil {
		t.Fatalf("first Save() error: %v", err)
	}
	err := store.Save(ctx, testRecord("바뀐 제목", "https://news.example.com/a"))
	if !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("second Save() error = %v, want models.ErrDuplicate", err)
	}

	articles, err := store.RecentArticles(ctx, 10)
	if err != nil {
		t.Fatalf("RecentArticles() error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("got %d articles, want 1", len(articles))
	}
	if articles[0].Title != "첫 제목" {
		t.Errorf("Title = %q, want %q", articles[0].Title, "첫 제목")
	}
}

func TestRecentArticles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := testRecord("오래된 기사", "https://news.example.com/old")
	older.Date = time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	newer := testRecord("새 기사", "https://news.example.com/new")

	for _, rec := range []models.Record{older, newer} {
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	articles, err := store.RecentArticles(ctx, 10)
	if err != nil {
		t.Fatalf("RecentArticles() error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	got := articles[0]
	if got.Title != "새 기사" {
		t.Errorf("first Title = %q, want %q", got.Title, "새 기사")
	}
	if got.Day() != "2024-01-01" {
		t.Errorf("Day() = %q, want %q", got.Day(), "2024-01-01")
	}
	if len(got.Publishers) != 1 || got.Publishers[0] != "연합뉴스" {
		t.Errorf("Publishers = %v, want [연합뉴스]", got.Publishers)
	}
	if got.Byline != "홍길동 기자" {
		t.Errorf("Byline = %q, want %q", got.Byline, "홍길동 기자")
	}
}

func TestPageIDByURLAndUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testRecord("제목", "https://news.example.com/a")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	id, err := store.PageIDByURL(ctx, "https://news.example.com/a")
	if err != nil {
		t.Fatalf("PageIDByURL() error: %v", err)
	}

	update := testRecord("제목", "https://news.example.com/a")
	update.Category = "정책/지원"
	update.Type = "정책발표"
	if err := store.UpdateClassification(ctx, id, update); err != nil {
		t.Fatalf("UpdateClassification() error: %v", err)
	}

	articles, err := store.RecentArticles(ctx, 1)
	if err != nil {
		t.Fatalf("RecentArticles() error: %v", err)
	}
	if articles[0].Category != "정책/지원" || articles[0].Type != "정책발표" {
		t.Errorf("classification = %s/%s, want 정책/지원/정책발표", articles[0].Category, articles[0].Type)
	}

	if _, err := store.PageIDByURL(ctx, "https://news.example.com/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("PageIDByURL(missing) error = %v, want ErrNotFound", err)
	}
	if err := store.UpdateClassification(ctx, "9999", update); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateClassification(missing) error = %v, want ErrNotFound", err)
	}
	if err := store.UpdateClassification(ctx, "abc", update); err == nil {
		t.Error("UpdateClassification(non-numeric id) expected error")
	}
}

func TestPing(t *testing.T) {
	store := newTestStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
}

func TestUpdateClassification_KeepsTitleWhenEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testRecord("원래 제목", "https://news.example.com/a")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	id, err := store.PageIDByURL(ctx, "https://news.example.com/a")
	if err != nil {
		t.Fatalf("PageIDByURL() error: %v", err)
	}

	if err := store.UpdateClassification(ctx, id, models.Record{Category: "기타", Type: "기타"}); err != nil {
		t.Fatalf("UpdateClassification() error: %v", err)
	}

	articles, err := store.RecentArticles(ctx, 1)
	if err != nil {
		t.Fatalf("RecentArticles() error: %v", err)
	}
	if articles[0].Title != "원래 제목" {
		t.Errorf("Title = %q, want %q", articles[0].Title, "원래 제목")
	}
	if articles[0].Category != "기타" {
		t.Errorf("Category = %q, want %q", articles[0].Category, "기타")
	}
}
