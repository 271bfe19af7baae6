package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hoanghai1803/newsclip/internal/storage"
)

// ListArticles handles GET /api/articles. It returns the most recently
// published articles held in the local database.
func ListArticles(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		articles, err := store.RecentArticles(r.Context(), limit)
		if err != nil {
			slog.Error("failed to list articles", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list articles")
			return
		}
		if articles == nil {
			articles = []storage.ArticleRow{}
		}

		writeJSON(w, http.StatusOK, map[string]any{"articles": articles})
	}
}

// Health handles GET /api/health. It reports 503 when the database cannot
// be reached.
func Health(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			slog.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
