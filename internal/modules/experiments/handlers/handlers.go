// Package handlers provides HTTP handlers for sweep operations.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/qemlab/internal/modules/experiments"
)

// Handler handles sweep HTTP requests
type Handler struct {
	runner *experiments.GridRunner
	repo   *experiments.ResultRepository
	log    zerolog.Logger
}

// NewHandler creates a new sweep handler
func NewHandler(
	runner *experiments.GridRunner,
	repo *experiments.ResultRepository,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		runner: runner,
		repo:   repo,
		log:    log.With().Str("handler", "experiments").Logger(),
	}
}

// HandleStartSweep handles POST /api/sweeps
// The sweep runs in the background; the response carries only an acknowledgement.
func (h *Handler) HandleStartSweep(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		if _, err := h.runner.Run(ctx); err != nil {
			h.log.Error().Err(err).Msg("Background sweep failed")
		}
	}()

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"status": "started",
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusAccepted, response)
}

// HandleListRuns handles GET /api/sweeps
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.repo.GetLatestRuns(20)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list sweep runs")
		http.Error(w, "Failed to list sweep runs", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"runs":  runs,
			"count": len(runs),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetRun handles GET /api/sweeps/{id}
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	run, err := h.repo.GetRun(runID)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", runID).Msg("Failed to get sweep run")
		http.Error(w, "Failed to get sweep run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Sweep run not found", http.StatusNotFound)
		return
	}

	points, err := h.repo.GetRunPoints(runID)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", runID).Msg("Failed to get sweep points")
		http.Error(w, "Failed to get sweep points", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"run":    run,
			"points": points,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetBestStrategies handles GET /api/sweeps/{id}/best
func (h *Handler) HandleGetBestStrategies(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	run, err := h.repo.GetRun(runID)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", runID).Msg("Failed to get sweep run")
		http.Error(w, "Failed to get sweep run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Sweep run not found", http.StatusNotFound)
		return
	}

	best, err := h.repo.BestStrategyPerPoint(runID)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", runID).Msg("Failed to get best strategies")
		http.Error(w, "Failed to get best strategies", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"run_id": runID,
			"points": best,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
