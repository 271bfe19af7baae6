package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hoanghai1803/newsclip/internal/api/handlers"
	"github.com/hoanghai1803/newsclip/internal/storage"
)

// NewRouter creates the read-only status API over the run ledger.
func NewRouter(store *storage.Store) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", handlers.Health(store))

		api.Get("/runs", handlers.ListRuns(store))
		api.Get("/runs/latest", handlers.GetLatestRun(store))
		api.Get("/runs/{id}", handlers.GetRun(store))

		api.Get("/articles", handlers.ListArticles(store))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}` + "\n"))
	})

	return r
}
