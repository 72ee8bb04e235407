package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all device routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/device", func(r chi.Router) {
		r.Post("/simulate", h.HandleSimulate)
		r.Post("/expectation", h.HandleExpectation)
		r.Post("/sample", h.HandleSample)
	})
}
