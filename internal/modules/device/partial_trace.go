package device

import "gonum.org/v1/gonum/mat"

// marginalDensity computes the 2x2 reduced density matrix of targetWire by
// tracing out all other qubits:
//
//	m[i][j] = Σ_k ρ[idx(k,i)][idx(k,j)]
//
// where k runs over the 2^(n-1) basis states of the traced-out qubits and
// idx inserts the target wire's bit back into k. Wire indices are big-endian
// (wire 0 is the most significant bit); enumeration is O(2^n).
func marginalDensity(rho *mat.CDense, targetWire, numQubits int) *mat.CDense {
	out := mat.NewCDense(2, 2, nil)
	rest := 1 << (numQubits - 1)

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			var sum complex128
			for k := 0; k < rest; k++ {
				row := insertBit(k, i, targetWire, numQubits)
				col := insertBit(k, j, targetWire, numQubits)
				sum += rho.At(row, col)
			}
			out.Set(i, j, sum)
		}
	}
	return out
}

// insertBit inserts bit b at position pos (counted from the most significant
// end: position 0 = wire 0) into the (n-1)-bit number k, producing an n-bit
// basis index. The bits of k above pos become the high-order bits above the
// inserted bit; the bits below pos stay below it.
func insertBit(k, b, pos, n int) int {
	shift := n - 1 - pos
	high := k >> shift
	low := k & ((1 << shift) - 1)
	return (high<<1|b)<<shift | low
}
