package device

import "gonum.org/v1/gonum/mat"

// OpKind distinguishes the two operation kinds a circuit may contain
type OpKind int

const (
	// OpGate is a named unitary gate application
	OpGate OpKind = iota
	// OpProtectedWindow is a dynamical-decoupling segment: no unitary is
	// applied, and noise on its wires is suppressed by the protection factor
	OpProtectedWindow
)

// Operation is a single circuit step. Immutable once constructed.
type Operation struct {
	Kind   OpKind
	Name   string // Gate name; empty for protected windows
	Wires  []int
	Params []float64
}

// Gate constructs a gate operation
func Gate(name string, wires []int, params ...float64) Operation {
	return Operation{
		Kind:   OpGate,
		Name:   name,
		Wires:  wires,
		Params: params,
	}
}

// ProtectedWindow constructs a dynamical-decoupling window over the given wires
func ProtectedWindow(wires ...int) Operation {
	return Operation{
		Kind:  OpProtectedWindow,
		Wires: wires,
	}
}

// Observable describes a measurement to evaluate. Single-qubit Paulis need
// only Name and Wires; anything else must carry the full-dimension Matrix
// for the generic estimation path.
type Observable struct {
	Name   string
	Wires  []int
	Matrix *mat.CDense
}

// IsPauli reports whether the observable is a single-qubit Pauli by name
func (o Observable) IsPauli() bool {
	switch o.Name {
	case "PauliX", "PauliY", "PauliZ":
		return true
	}
	return false
}
