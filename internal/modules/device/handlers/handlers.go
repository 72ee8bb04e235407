// Package handlers provides HTTP handlers for noisy circuit simulation.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/qemlab/internal/modules/device"
	"github.com/aristath/qemlab/internal/modules/simulator"
)

// Handler handles device HTTP requests
type Handler struct {
	defaultNoiseType  string
	defaultNoiseGamma float64
	log               zerolog.Logger
}

// NewHandler creates a new device handler. Requests that omit noise
// settings fall back to the configured defaults.
func NewHandler(defaultNoiseType string, defaultNoiseGamma float64, log zerolog.Logger) *Handler {
	return &Handler{
		defaultNoiseType:  defaultNoiseType,
		defaultNoiseGamma: defaultNoiseGamma,
		log:               log.With().Str("handler", "device").Logger(),
	}
}

// OperationRequest is one circuit step in a request payload.
type OperationRequest struct {
	Gate      string    `json:"gate,omitempty"`
	Wires     []int     `json:"wires"`
	Params    []float64 `json:"params,omitempty"`
	Protected bool      `json:"protected,omitempty"`
}

// CircuitRequest is the common circuit payload.
type CircuitRequest struct {
	Wires      int                `json:"wires"`
	Shots      int                `json:"shots,omitempty"`
	NoiseType  string             `json:"noise_type,omitempty"`
	NoiseGamma *float64           `json:"noise_gamma,omitempty"`
	Operations []OperationRequest `json:"operations"`
}

// ExpectationRequest adds an observable to a circuit payload.
type ExpectationRequest struct {
	CircuitRequest
	Observable string `json:"observable"`
	Wire       int    `json:"wire"`
}

// SampleRequest adds a shot count to a circuit payload.
type SampleRequest struct {
	CircuitRequest
	SampleShots int `json:"sample_shots,omitempty"`
}

// buildDevice constructs a device from a request payload and runs the circuit.
// The simulator backend is returned alongside the device for state metrics.
func (h *Handler) buildDevice(req *CircuitRequest) (*device.Device, *simulator.Simulator, error) {
	if req.Wires < 1 {
		return nil, nil, fmt.Errorf("wires must be at least 1, got %d", req.Wires)
	}

	noiseType := req.NoiseType
	if noiseType == "" {
		noiseType = h.defaultNoiseType
	}
	noiseGamma := h.defaultNoiseGamma
	if req.NoiseGamma != nil {
		noiseGamma = *req.NoiseGamma
	}

	backend := simulator.New(req.Wires)
	dev, err := device.New(backend, device.Config{
		Wires:      req.Wires,
		Shots:      req.Shots,
		NoiseType:  noiseType,
		NoiseGamma: noiseGamma,
	}, h.log)
	if err != nil {
		return nil, nil, err
	}

	ops := make([]device.Operation, 0, len(req.Operations))
	for _, op := range req.Operations {
		if op.Protected {
			ops = append(ops, device.ProtectedWindow(op.Wires...))
			continue
		}
		ops = append(ops, device.Gate(op.Gate, op.Wires, op.Params...))
	}

	if err := dev.Apply(ops); err != nil {
		return nil, nil, err
	}

	return dev, backend, nil
}

// HandleSimulate handles POST /api/device/simulate
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req CircuitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	dev, backend, err := h.buildDevice(&req)
	if err != nil {
		h.log.Error().Err(err).Msg("Simulation failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expectations := make([]float64, req.Wires)
	for wire := 0; wire < req.Wires; wire++ {
		z, err := dev.Expectation(device.Observable{Name: "PauliZ", Wires: []int{wire}})
		if err != nil {
			h.log.Error().Err(err).Int("wire", wire).Msg("Expectation failed")
			http.Error(w, "Expectation evaluation failed", http.StatusInternalServerError)
			return
		}
		expectations[wire] = z
	}

	probabilities := make(map[string][]float64, req.Wires)
	for wire := 0; wire < req.Wires; wire++ {
		p, err := dev.Probability([]int{wire})
		if err != nil {
			http.Error(w, "Probability evaluation failed", http.StatusInternalServerError)
			return
		}
		probabilities[fmt.Sprintf("wire_%d", wire)] = p
	}

	trace, purity := backend.Metrics()
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"wires":          req.Wires,
			"z_expectations": expectations,
			"probabilities":  probabilities,
			"trace":          trace,
			"purity":         purity,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleExpectation handles POST /api/device/expectation
func (h *Handler) HandleExpectation(w http.ResponseWriter, r *http.Request) {
	var req ExpectationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	dev, _, err := h.buildDevice(&req.CircuitRequest)
	if err != nil {
		h.log.Error().Err(err).Msg("Simulation failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	value, err := dev.Expectation(device.Observable{
		Name:  req.Observable,
		Wires: []int{req.Wire},
	})
	if err != nil {
		h.log.Error().Err(err).Str("observable", req.Observable).Msg("Expectation failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"observable": req.Observable,
			"wire":       req.Wire,
			"value":      value,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleSample handles POST /api/device/sample
func (h *Handler) HandleSample(w http.ResponseWriter, r *http.Request) {
	var req SampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	dev, _, err := h.buildDevice(&req.CircuitRequest)
	if err != nil {
		h.log.Error().Err(err).Msg("Simulation failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	samples, err := dev.Sample(req.SampleShots)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, device.ErrShotsRequired) {
			status = http.StatusBadRequest
		}
		h.log.Error().Err(err).Msg("Sampling failed")
		http.Error(w, err.Error(), status)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"samples": samples,
			"count":   len(samples),
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
