package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hoanghai1803/newsclip/internal/models"
	"github.com/hoanghai1803/newsclip/internal/storage"
)

func TestListArticles(t *testing.T) {
	store := newTestStore(t)
	rec := models.Record{
		Title:      "1형당뇨 신약 발표",
		Link:       "https://news.example.com/1",
		Date:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Category:   "의학/연구",
		Type:       "연구결과",
		Publishers: []string{"연합뉴스"},
	}
	if err := store.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	w := httptest.NewRecorder()
	ListArticles(store)(w, httptest.NewRequest(http.MethodGet, "/api/articles", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	var body struct {
		Articles []storage.ArticleRow `json:"articles"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Articles) != 1 {
		t.Fatalf("got %d articles, want 1", len(body.Articles))
	}
	if body.Articles[0].Title != rec.Title {
		t.Errorf("Title = %q, want %q", body.Articles[0].Title, rec.Title)
	}
	if body.Articles[0].Category != "의학/연구" {
		t.Errorf("Category = %q, want %q", body.Articles[0].Category, "의학/연구")
	}
}

func TestHealth(t *testing.T) {
	store := newTestStore(t)

	w := httptest.NewRecorder()
	Health(store)(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("got status %d, want %d", w.Code, http.StatusOK)
	}

	store.Close()

	w = httptest.NewRecorder()
	Health(store)(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("closed db: got status %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}
