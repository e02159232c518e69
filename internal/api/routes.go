package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

const requestTimeout = 30 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	}).Handler)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(timeoutMiddleware(requestTimeout))
		r.Get("/mistakes", s.handleListMistakes)
		r.Post("/mistakes", s.handleCreateMistake)
		r.Delete("/mistakes", s.handleClearMistakes)
		r.Get("/mistakes/{id}", s.handleGetMistake)
		r.Delete("/mistakes/{id}", s.handleDeleteMistake)
		r.Post("/mistakes/{id}/review", s.handleReviewMistake)
		r.Get("/review/due", s.handleDueForReview)
		r.Get("/stats", s.handleStats)
		r.Get("/calendar", s.handleCalendar)
	})
	return r
}
