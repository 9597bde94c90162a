package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/test-types", h.ListTestTypes)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.StartSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", h.EndSession)
				r.Get("/exchanges", h.ListExchanges)
				r.Post("/questions", h.Ask)
				r.Get("/transcript", h.DownloadTranscript)
			})
		})
	})
}
