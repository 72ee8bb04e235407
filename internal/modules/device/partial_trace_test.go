package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestInsertBit(t *testing.T) {
	tests := []struct {
		k, b, pos, n int
		want         int
	}{
		// n=3: inserting into a 2-bit remainder
		{0b11, 1, 0, 3, 0b111},
		{0b11, 0, 0, 3, 0b011},
		{0b11, 1, 1, 3, 0b111},
		{0b10, 0, 1, 3, 0b100},
		{0b11, 1, 2, 3, 0b111},
		{0b01, 0, 2, 3, 0b010},
		// n=2
		{0b1, 0, 0, 2, 0b01},
		{0b1, 1, 0, 2, 0b11},
		{0b1, 0, 1, 2, 0b10},
		// n=4, middle positions
		{0b101, 1, 2, 4, 0b1011},
		{0b101, 0, 1, 4, 0b1001},
	}

	for _, tt := range tests {
		got := insertBit(tt.k, tt.b, tt.pos, tt.n)
		assert.Equal(t, tt.want, got, "insertBit(%b, %d, %d, %d)", tt.k, tt.b, tt.pos, tt.n)
	}
}

func TestMarginalDensityBellState(t *testing.T) {
	// (|00⟩+|11⟩)/√2: both marginals are maximally mixed.
	rho := mat.NewCDense(4, 4, nil)
	rho.Set(0, 0, 0.5)
	rho.Set(0, 3, 0.5)
	rho.Set(3, 0, 0.5)
	rho.Set(3, 3, 0.5)

	for wire := 0; wire < 2; wire++ {
		m := marginalDensity(rho, wire, 2)
		assert.InDelta(t, 0.5, real(m.At(0, 0)), 1e-12)
		assert.InDelta(t, 0.5, real(m.At(1, 1)), 1e-12)
		assert.InDelta(t, 0.0, real(m.At(0, 1)), 1e-12)
		assert.InDelta(t, 0.0, imag(m.At(0, 1)), 1e-12)
	}
}

func TestMarginalDensityBasisState(t *testing.T) {
	// |01⟩⟨01| on 2 qubits: wire 0 is |0⟩, wire 1 is |1⟩ (big-endian).
	rho := mat.NewCDense(4, 4, nil)
	rho.Set(1, 1, 1)

	m0 := marginalDensity(rho, 0, 2)
	assert.InDelta(t, 1.0, real(m0.At(0, 0)), 1e-12)
	assert.InDelta(t, 0.0, real(m0.At(1, 1)), 1e-12)

	m1 := marginalDensity(rho, 1, 2)
	assert.InDelta(t, 0.0, real(m1.At(0, 0)), 1e-12)
	assert.InDelta(t, 1.0, real(m1.At(1, 1)), 1e-12)
}

func TestMarginalPreservesTrace(t *testing.T) {
	// Any valid density matrix reduces to a unit-trace marginal.
	rho := mat.NewCDense(8, 8, nil)
	for i := 0; i < 8; i++ {
		rho.Set(i, i, 0.125)
	}

	for wire := 0; wire < 3; wire++ {
		m := marginalDensity(rho, wire, 3)
		tr := real(m.At(0, 0) + m.At(1, 1))
		assert.InDelta(t, 1.0, tr, 1e-12, "wire=%d", wire)
	}
}
