package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hoanghai1803/newsclip/internal/models"
	"github.com/hoanghai1803/newsclip/internal/storage"
)

// ListRuns handles GET /api/runs. It returns the most recent pipeline runs,
// newest first.
func ListRuns(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		runs, err := store.RecentRuns(r.Context(), limit)
		if err != nil {
			slog.Error("failed to list runs", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list runs")
			return
		}
		if runs == nil {
			runs = []models.Run{}
		}

		writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
	}
}

// GetLatestRun handles GET /api/runs/latest.
func GetLatestRun(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := store.LatestRun(r.Context())
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "No runs recorded yet")
				return
			}
			slog.Error("failed to get latest run", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get latest run")
			return
		}

		writeJSON(w, http.StatusOK, run)
	}
}

// GetRun handles GET /api/runs/{id}.
func GetRun(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing run id")
			return
		}

		run, err := store.GetRun(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Run not found")
				return
			}
			slog.Error("failed to get run", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get run")
			return
		}

		writeJSON(w, http.StatusOK, run)
	}
}
