package simulator

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// PauliX returns the Pauli X gate matrix
func PauliX() *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{
		0, 1,
		1, 0,
	})
}

// PauliY returns the Pauli Y gate matrix
func PauliY() *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{
		0, complex(0, -1),
		complex(0, 1), 0,
	})
}

// PauliZ returns the Pauli Z gate matrix
func PauliZ() *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{
		1, 0,
		0, -1,
	})
}

// Hadamard returns the Hadamard gate matrix
func Hadamard() *mat.CDense {
	f := complex(1.0/math.Sqrt2, 0)
	return mat.NewCDense(2, 2, []complex128{
		f, f,
		f, -f,
	})
}

// Identity returns the 2x2 identity matrix
func Identity() *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{
		1, 0,
		0, 1,
	})
}

// RX returns the rotation gate around the X axis
func RX(theta float64) *mat.CDense {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return mat.NewCDense(2, 2, []complex128{
		c, s,
		s, c,
	})
}

// RY returns the rotation gate around the Y axis
func RY(theta float64) *mat.CDense {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return mat.NewCDense(2, 2, []complex128{
		c, -s,
		s, c,
	})
}

// RZ returns the rotation gate around the Z axis
func RZ(theta float64) *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{
		cmplx.Exp(complex(0, -theta/2)), 0,
		0, cmplx.Exp(complex(0, theta/2)),
	})
}

// Kron returns the Kronecker product of two complex matrices
func Kron(a, b *mat.CDense) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()

	out := mat.NewCDense(ar*br, ac*bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			av := a.At(i, j)
			if av == 0 {
				continue
			}
			for k := 0; k < br; k++ {
				for l := 0; l < bc; l++ {
					out.Set(i*br+k, j*bc+l, av*b.At(k, l))
				}
			}
		}
	}
	return out
}

// buildSingleQubitUnitary embeds a 2x2 gate acting on targetWire into the
// full 2^n Hilbert space. Wire 0 is the most significant bit, so it is the
// leftmost Kronecker factor.
func buildSingleQubitUnitary(gate *mat.CDense, targetWire, numQubits int) *mat.CDense {
	var result *mat.CDense
	if targetWire == 0 {
		result = gate
	} else {
		result = Identity()
	}

	for i := 1; i < numQubits; i++ {
		next := Identity()
		if i == targetWire {
			next = gate
		}
		result = Kron(result, next)
	}

	return result
}

// bitOf extracts the big-endian bit of wire w from basis index i
func bitOf(index, wire, numQubits int) int {
	return (index >> (numQubits - 1 - wire)) & 1
}

// buildCNOTUnitary builds the CNOT permutation matrix for arbitrary
// control/target wires: flips the target bit wherever the control bit is set.
func buildCNOTUnitary(control, target, numQubits int) *mat.CDense {
	dim := 1 << numQubits
	out := mat.NewCDense(dim, dim, nil)

	for i := 0; i < dim; i++ {
		j := i
		if bitOf(i, control, numQubits) == 1 {
			j = i ^ (1 << (numQubits - 1 - target))
		}
		out.Set(j, i, 1)
	}
	return out
}

// buildCZUnitary builds the controlled-Z diagonal for arbitrary wires
func buildCZUnitary(control, target, numQubits int) *mat.CDense {
	dim := 1 << numQubits
	out := mat.NewCDense(dim, dim, nil)

	for i := 0; i < dim; i++ {
		v := complex128(1)
		if bitOf(i, control, numQubits) == 1 && bitOf(i, target, numQubits) == 1 {
			v = -1
		}
		out.Set(i, i, v)
	}
	return out
}
