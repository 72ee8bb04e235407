// Package simulator implements a density-matrix quantum simulation backend.
//
// States are represented as full 2^n x 2^n complex density matrices, which
// makes mixed states and noise channels exact at the cost of exponential
// memory. Wire 0 corresponds to the most significant bit of the
// computational-basis index (big-endian convention).
package simulator

import (
	"gonum.org/v1/gonum/mat"
)

// DensityMatrix represents the quantum state of an n-qubit system
type DensityMatrix struct {
	Matrix    *mat.CDense
	NumQubits int
}

// NewDensityMatrix creates a density matrix in the |0...0⟩ state
func NewDensityMatrix(numQubits int) *DensityMatrix {
	dim := 1 << numQubits
	m := mat.NewCDense(dim, dim, nil)
	m.Set(0, 0, 1) // |0⟩⟨0|

	return &DensityMatrix{
		Matrix:    m,
		NumQubits: numQubits,
	}
}

// Dim returns the dimension of the Hilbert space
func (d *DensityMatrix) Dim() int {
	return 1 << d.NumQubits
}

// Trace returns the trace of the density matrix
func (d *DensityMatrix) Trace() complex128 {
	var tr complex128
	for i := 0; i < d.Dim(); i++ {
		tr += d.Matrix.At(i, i)
	}
	return tr
}

// Purity returns Tr(ρ²) - equals 1 for pure states
func (d *DensityMatrix) Purity() float64 {
	var squared mat.CDense
	mulInto(&squared, d.Matrix, d.Matrix)

	var tr complex128
	for i := 0; i < d.Dim(); i++ {
		tr += squared.At(i, i)
	}
	return real(tr)
}

// ApplyUnitary evolves the state: ρ → U ρ U†
func (d *DensityMatrix) ApplyUnitary(unitary *mat.CDense) {
	var tmp, next mat.CDense
	mulInto(&tmp, unitary, d.Matrix)
	mulInto(&next, &tmp, unitary.H())
	d.Matrix = &next
}

// ApplyKraus applies a quantum channel: ρ → Σᵢ Kᵢ ρ Kᵢ†
func (d *DensityMatrix) ApplyKraus(krausOps []*mat.CDense) {
	dim := d.Dim()
	next := mat.NewCDense(dim, dim, nil)

	for _, k := range krausOps {
		var tmp, term mat.CDense
		mulInto(&tmp, k, d.Matrix)
		mulInto(&term, &tmp, k.H())
		addInto(next, &term)
	}

	d.Matrix = next
}

// Probabilities returns the computational-basis distribution from the diagonal.
// Small negative diagonal entries from floating-point drift are clamped to 0.
func (d *DensityMatrix) Probabilities() []float64 {
	dim := d.Dim()
	probs := make([]float64, dim)
	for i := 0; i < dim; i++ {
		p := real(d.Matrix.At(i, i))
		if p < 0 {
			p = 0
		}
		probs[i] = p
	}
	return probs
}

// mulInto computes dst = a*b with explicit loops. gonum's CDense does not
// carry the Mul method its real Dense counterpart has.
func mulInto(dst *mat.CDense, a, b mat.CMatrix) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		panic(mat.ErrShape)
	}
	dst.ReuseAs(ar, bc)
	for i := 0; i < ar; i++ {
		for j := 0; j < bc; j++ {
			var sum complex128
			for k := 0; k < ac; k++ {
				sum += a.At(i, k) * b.At(k, j)
			}
			dst.Set(i, j, sum)
		}
	}
}

// addInto accumulates src into dst element-wise. gonum's CDense does not
// carry the accumulate helpers its real Dense counterpart has.
func addInto(dst, src *mat.CDense) {
	r, c := dst.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(i, j, dst.At(i, j)+src.At(i, j))
		}
	}
}
