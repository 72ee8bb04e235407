package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all sweep routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sweeps", func(r chi.Router) {
		r.Post("/", h.HandleStartSweep)
		r.Get("/", h.HandleListRuns)
		r.Get("/{id}", h.HandleGetRun)
		r.Get("/{id}/best", h.HandleGetBestStrategies)
	})
}
