package simulator

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Simulator evolves an n-qubit density matrix through gates and noise channels
type Simulator struct {
	state     *DensityMatrix
	numQubits int
	rng       *rand.Rand
}

// New creates a simulator with numQubits qubits in the |0...0⟩ state
func New(numQubits int) *Simulator {
	return NewWithSeed(numQubits, uint64(time.Now().UnixNano()))
}

// NewWithSeed creates a simulator with a deterministic measurement stream
func NewWithSeed(numQubits int, seed uint64) *Simulator {
	return &Simulator{
		state:     NewDensityMatrix(numQubits),
		numQubits: numQubits,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// NumQubits returns the number of qubits
func (s *Simulator) NumQubits() int {
	return s.numQubits
}

// Reset discards the current state and returns to |0...0⟩
func (s *Simulator) Reset() {
	s.state = NewDensityMatrix(s.numQubits)
}

// State returns the current density matrix
func (s *Simulator) State() *DensityMatrix {
	return s.state
}

// DensityMatrix returns the current full density matrix
func (s *Simulator) DensityMatrix() *mat.CDense {
	return s.state.Matrix
}

// ApplyGate applies a named quantum gate to the given wires
func (s *Simulator) ApplyGate(name string, wires []int, params []float64) error {
	for _, w := range wires {
		if w < 0 || w >= s.numQubits {
			return fmt.Errorf("wire %d out of range for %d qubits", w, s.numQubits)
		}
	}

	var unitary *mat.CDense
	switch name {
	case "PauliX", "X":
		if len(wires) != 1 {
			return fmt.Errorf("PauliX requires exactly 1 wire, got %d", len(wires))
		}
		unitary = buildSingleQubitUnitary(PauliX(), wires[0], s.numQubits)
	case "PauliY", "Y":
		if len(wires) != 1 {
			return fmt.Errorf("PauliY requires exactly 1 wire, got %d", len(wires))
		}
		unitary = buildSingleQubitUnitary(PauliY(), wires[0], s.numQubits)
	case "PauliZ", "Z":
		if len(wires) != 1 {
			return fmt.Errorf("PauliZ requires exactly 1 wire, got %d", len(wires))
		}
		unitary = buildSingleQubitUnitary(PauliZ(), wires[0], s.numQubits)
	case "Hadamard", "H":
		if len(wires) != 1 {
			return fmt.Errorf("Hadamard requires exactly 1 wire, got %d", len(wires))
		}
		unitary = buildSingleQubitUnitary(Hadamard(), wires[0], s.numQubits)
	case "RX":
		if len(wires) != 1 || len(params) == 0 {
			return fmt.Errorf("RX requires 1 wire and 1 parameter")
		}
		unitary = buildSingleQubitUnitary(RX(params[0]), wires[0], s.numQubits)
	case "RY":
		if len(wires) != 1 || len(params) == 0 {
			return fmt.Errorf("RY requires 1 wire and 1 parameter")
		}
		unitary = buildSingleQubitUnitary(RY(params[0]), wires[0], s.numQubits)
	case "RZ":
		if len(wires) != 1 || len(params) == 0 {
			return fmt.Errorf("RZ requires 1 wire and 1 parameter")
		}
		unitary = buildSingleQubitUnitary(RZ(params[0]), wires[0], s.numQubits)
	case "CNOT", "CX":
		if len(wires) != 2 {
			return fmt.Errorf("CNOT requires exactly 2 wires, got %d", len(wires))
		}
		unitary = buildCNOTUnitary(wires[0], wires[1], s.numQubits)
	case "CZ":
		if len(wires) != 2 {
			return fmt.Errorf("CZ requires exactly 2 wires, got %d", len(wires))
		}
		unitary = buildCZUnitary(wires[0], wires[1], s.numQubits)
	default:
		return fmt.Errorf("unknown gate: %s", name)
	}

	s.state.ApplyUnitary(unitary)
	return nil
}

// ApplyAmplitudeDamping applies T1 noise to a wire. No-op for gamma ≤ 0.
func (s *Simulator) ApplyAmplitudeDamping(wire int, gamma float64) {
	if gamma <= 0 || wire < 0 || wire >= s.numQubits {
		return
	}
	s.state.ApplyKraus(expandKrausToFullSystem(AmplitudeDampingKraus(gamma), wire, s.numQubits))
}

// ApplyPhaseDamping applies T2 noise to a wire. No-op for lambda ≤ 0.
func (s *Simulator) ApplyPhaseDamping(wire int, lambda float64) {
	if lambda <= 0 || wire < 0 || wire >= s.numQubits {
		return
	}
	s.state.ApplyKraus(expandKrausToFullSystem(PhaseDampingKraus(lambda), wire, s.numQubits))
}

// ApplyDepolarizing applies depolarizing noise to a wire. No-op for p ≤ 0.
func (s *Simulator) ApplyDepolarizing(wire int, p float64) {
	if p <= 0 || wire < 0 || wire >= s.numQubits {
		return
	}
	s.state.ApplyKraus(expandKrausToFullSystem(DepolarizingKraus(p), wire, s.numQubits))
}

// Probabilities returns the computational-basis distribution
func (s *Simulator) Probabilities() []float64 {
	return s.state.Probabilities()
}

// Measure samples a single bitstring from the basis distribution.
// Bit i of the result is the measured value of wire i (big-endian).
func (s *Simulator) Measure() []int {
	dist := distuv.NewCategorical(s.state.Probabilities(), s.rng)
	outcome := int(dist.Rand())

	bits := make([]int, s.numQubits)
	for i := 0; i < s.numQubits; i++ {
		bits[i] = (outcome >> (s.numQubits - 1 - i)) & 1
	}
	return bits
}

// MeasureShots samples n independent bitstrings
func (s *Simulator) MeasureShots(n int) [][]int {
	shots := make([][]int, n)
	for i := range shots {
		shots[i] = s.Measure()
	}
	return shots
}

// ExpectationValue computes Tr(Oρ) for a full-dimension observable matrix
func (s *Simulator) ExpectationValue(observable *mat.CDense) float64 {
	var product mat.CDense
	mulInto(&product, observable, s.state.Matrix)

	var tr complex128
	dim := s.state.Dim()
	for i := 0; i < dim; i++ {
		tr += product.At(i, i)
	}
	return real(tr)
}

// Metrics returns the trace and purity of the current state
func (s *Simulator) Metrics() (trace, purity float64) {
	return real(s.state.Trace()), s.state.Purity()
}
