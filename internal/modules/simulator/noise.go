package simulator

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// AmplitudeDampingKraus returns the Kraus operators for energy relaxation
// (T1 decay): |1⟩ decays to |0⟩ with probability gamma.
func AmplitudeDampingKraus(gamma float64) []*mat.CDense {
	k0 := mat.NewCDense(2, 2, []complex128{
		1, 0,
		0, complex(math.Sqrt(1-gamma), 0),
	})
	k1 := mat.NewCDense(2, 2, []complex128{
		0, complex(math.Sqrt(gamma), 0),
		0, 0,
	})
	return []*mat.CDense{k0, k1}
}

// PhaseDampingKraus returns the Kraus operators for dephasing (T2 decay):
// off-diagonal coherence decays without population transfer.
func PhaseDampingKraus(lambda float64) []*mat.CDense {
	keep := complex(math.Sqrt(1-lambda), 0)
	flip := complex(math.Sqrt(lambda), 0)

	k0 := mat.NewCDense(2, 2, []complex128{
		keep, 0,
		0, keep,
	})
	k1 := mat.NewCDense(2, 2, []complex128{
		flip, 0,
		0, -flip,
	})
	return []*mat.CDense{k0, k1}
}

// DepolarizingKraus returns the Kraus operators for the depolarizing channel
// ρ → (1-p)ρ + p·I/2, expressed as {√(1-3p/4)·I, √(p/4)·X, √(p/4)·Y, √(p/4)·Z}.
func DepolarizingKraus(p float64) []*mat.CDense {
	cI := complex(math.Sqrt(1-3*p/4), 0)
	cP := complex(math.Sqrt(p/4), 0)

	k0 := mat.NewCDense(2, 2, []complex128{
		cI, 0,
		0, cI,
	})
	k1 := mat.NewCDense(2, 2, []complex128{
		0, cP,
		cP, 0,
	})
	k2 := mat.NewCDense(2, 2, []complex128{
		0, -complex(0, 1) * cP,
		complex(0, 1) * cP, 0,
	})
	k3 := mat.NewCDense(2, 2, []complex128{
		cP, 0,
		0, -cP,
	})
	return []*mat.CDense{k0, k1, k2, k3}
}

// expandKrausToFullSystem lifts single-qubit Kraus operators onto targetWire
// of an n-qubit system via Kronecker products with identities.
func expandKrausToFullSystem(singleQubitKraus []*mat.CDense, targetWire, numQubits int) []*mat.CDense {
	full := make([]*mat.CDense, 0, len(singleQubitKraus))
	for _, k := range singleQubitKraus {
		full = append(full, buildSingleQubitUnitary(k, targetWire, numQubits))
	}
	return full
}
