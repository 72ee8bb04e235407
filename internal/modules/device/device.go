// Package device adapts gate-level circuit descriptions onto a density-matrix
// simulation backend, injecting calibrated decoherence noise per operation and
// recovering physical observables from the evolved state.
//
// The device owns no quantum state itself: it drives a Backend and reads the
// result back out. Construction validates all configuration eagerly; nothing
// is validated lazily at evaluation time.
package device

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

// DefaultProtectionFactor is the residual fraction of noise that leaks
// through a dynamical-decoupling window: 0.2 models 80% suppression from
// imperfect pulses and finite correlation times.
const DefaultProtectionFactor = 0.2

// ErrShotsRequired is returned when sampling is requested on a device that
// was configured in exact (no-sampling) mode.
var ErrShotsRequired = errors.New("shots must be configured for sampling")

// Backend is the simulation collaborator the device drives. It owns the
// authoritative density matrix and implements all gate and channel linear
// algebra; the device never duplicates that state across calls.
type Backend interface {
	Reset()
	ApplyGate(name string, wires []int, params []float64) error
	ApplyAmplitudeDamping(wire int, gamma float64)
	ApplyPhaseDamping(wire int, lambda float64)
	ApplyDepolarizing(wire int, p float64)
	DensityMatrix() *mat.CDense
	Probabilities() []float64
	MeasureShots(n int) [][]int
	ExpectationValue(observable *mat.CDense) float64
}

// Config holds device construction parameters
type Config struct {
	Wires      int     // Qubit count, must be positive
	Shots      int     // 0 means exact (no-sampling) mode
	NoiseType  string  // amplitude_damping, phase_damping, depolarizing, composite
	NoiseGamma float64 // Noise strength, must be in [0, 1]
}

// Device translates operation lists into backend calls and reads observables
// back out. A device (and its backend) must be exclusively owned by one
// circuit evaluation at a time: Apply resets backend state unconditionally,
// so concurrent callers sharing a handle would corrupt each other's results.
type Device struct {
	backend          Backend
	numQubits        int
	shots            int
	noise            NoiseConfig
	protectionFactor float64
	log              zerolog.Logger
}

// New creates a device against the given backend. All configuration errors
// are fatal to construction; a device that constructs is fully usable.
func New(backend Backend, cfg Config, log zerolog.Logger) (*Device, error) {
	if cfg.Wires < 1 {
		return nil, fmt.Errorf("wires must be positive, got %d", cfg.Wires)
	}
	if cfg.Shots < 0 {
		return nil, fmt.Errorf("shots must be positive or zero for exact mode, got %d", cfg.Shots)
	}

	noise, err := NewNoiseConfig(cfg.NoiseType, cfg.NoiseGamma)
	if err != nil {
		return nil, err
	}

	return &Device{
		backend:          backend,
		numQubits:        cfg.Wires,
		shots:            cfg.Shots,
		noise:            noise,
		protectionFactor: DefaultProtectionFactor,
		log:              log.With().Str("component", "device").Logger(),
	}, nil
}

// NumQubits returns the configured qubit count
func (d *Device) NumQubits() int {
	return d.numQubits
}

// Shots returns the configured shot count (0 in exact mode)
func (d *Device) Shots() int {
	return d.shots
}

// Apply resets the backend and executes the operation list in order.
//
// Noise is injected only on the wires touched by each operation; idle wires
// accumulate no noise during that step. This is a known simplification
// relative to a fully physical model where every qubit decoheres every
// timestep - downstream calibrations assume exactly this behavior, so it
// must not be "fixed" here.
func (d *Device) Apply(operations []Operation) error {
	d.backend.Reset()

	for _, op := range operations {
		switch op.Kind {
		case OpProtectedWindow:
			// Dynamical decoupling: no unitary, just suppressed noise.
			d.applyChannels(op.Wires, d.noiseFor(true))
		case OpGate:
			if err := d.backend.ApplyGate(op.Name, op.Wires, op.Params); err != nil {
				// Backend errors surface unmodified; retries belong to the caller.
				return err
			}
			d.applyChannels(op.Wires, d.noiseFor(false))
		default:
			return fmt.Errorf("unknown operation kind %d", op.Kind)
		}
	}

	return nil
}

// Probability returns the computational-basis distribution marginalized onto
// the given wires, in wire order. Nil wires returns the full distribution.
func (d *Device) Probability(wires []int) ([]float64, error) {
	probs := d.backend.Probabilities()
	if wires == nil {
		return probs, nil
	}

	for _, w := range wires {
		if w < 0 || w >= d.numQubits {
			return nil, fmt.Errorf("wire %d out of range for %d qubits", w, d.numQubits)
		}
	}

	out := make([]float64, 1<<len(wires))
	for i, p := range probs {
		j := 0
		for _, w := range wires {
			j = j<<1 | (i >> (d.numQubits - 1 - w) & 1)
		}
		out[j] += p
	}
	return out, nil
}

// Expectation returns the expectation value of an observable.
//
// Single-qubit Pauli observables are evaluated exactly from the 2x2 marginal
// density matrix via closed forms, bypassing generic estimation entirely.
// Anything else falls back to the backend's generic Tr(Oρ) path, for which
// the caller must supply the full observable matrix.
func (d *Device) Expectation(obs Observable) (float64, error) {
	if len(obs.Wires) == 1 && obs.IsPauli() {
		wire := obs.Wires[0]
		if wire < 0 || wire >= d.numQubits {
			return 0, fmt.Errorf("wire %d out of range for %d qubits", wire, d.numQubits)
		}

		rho := d.backend.DensityMatrix()
		marginal := rho
		if d.numQubits > 1 {
			marginal = marginalDensity(rho, wire, d.numQubits)
		}

		switch obs.Name {
		case "PauliX":
			return 2 * real(marginal.At(0, 1)), nil
		case "PauliY":
			return 2 * imag(marginal.At(0, 1)), nil
		case "PauliZ":
			return real(marginal.At(0, 0) - marginal.At(1, 1)), nil
		}
	}

	if obs.Matrix != nil {
		return d.backend.ExpectationValue(obs.Matrix), nil
	}

	return 0, fmt.Errorf("observable %q on %d wires requires an explicit matrix", obs.Name, len(obs.Wires))
}

// Sample requests measurement shots from the backend and returns the raw
// bitstrings unmodified. shotCount ≤ 0 falls back to the configured shots.
func (d *Device) Sample(shotCount int) ([][]int, error) {
	if d.shots == 0 {
		return nil, fmt.Errorf("device is in exact mode: %w", ErrShotsRequired)
	}
	if shotCount <= 0 {
		shotCount = d.shots
	}
	return d.backend.MeasureShots(shotCount), nil
}
