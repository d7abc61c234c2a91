package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Accept", "Origin", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         86400,
	}).Handler)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/deck", func(r chi.Router) {
			r.Get("/", s.handleSession)
			r.Get("/natural", s.handleNaturalDeck)
			r.Post("/next", s.handleNext)
			r.Post("/previous", s.handlePrevious)
			r.Get("/position", s.handleGetPosition)
			r.Put("/position", s.handleSetPosition)
			r.Post("/shuffle", s.handleShuffle)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/count", s.handleCount)
			r.Post("/", s.handleAddCard)
			r.Post("/batch", s.handleAddCards)
			r.Post("/import", s.handleImport)
			r.Delete("/", s.handleClear)
			r.Delete("/{id}", s.handleDeleteCard)
			r.Post("/{id}/favorite/toggle", s.handleToggleFavorite)
			r.Put("/{id}/favorite", s.handleSetFavorite)
		})

		r.Get("/favorites", s.handleFavorites)
		r.Get("/jobs/{id}", s.handleJobStatus)
	})
	return r
}
