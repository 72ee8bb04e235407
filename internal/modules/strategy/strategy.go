// Package strategy models error-mitigation strategies and their
// phenomenological cost model: systematic energy bias, shot discard
// rate and the resulting sampling noise.
package strategy

import (
	"fmt"
	"math"
)

// Strategy identifies an error-mitigation protocol.
type Strategy string

const (
	Baseline Strategy = "baseline"
	DD       Strategy = "dd"
	Sym      Strategy = "sym"
	Hybrid   Strategy = "hybrid"
	RL       Strategy = "rl"
)

// All lists the directly evaluable strategies in grid order. RL is a
// policy over these and is excluded.
var All = []Strategy{Baseline, DD, Sym, Hybrid}

// Parse converts a string into a Strategy.
func Parse(s string) (Strategy, error) {
	switch Strategy(s) {
	case Baseline, DD, Sym, Hybrid, RL:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

func (s Strategy) String() string {
	return string(s)
}

// biasCoefficients returns the (a, b) pair of the linear bias model
// bias_mHa = (a + b*depth) * gamma. RL carries no bias of its own.
func biasCoefficients(s Strategy) (a, b float64, ok bool) {
	switch s {
	case Baseline:
		return 110.0, 10.0, true
	case DD:
		return 80.0, 15.0, true
	case Sym:
		return 22.0, 5.0, true
	case Hybrid:
		return 20.0, 3.0, true
	}
	return 0, 0, false
}

// Bias returns the systematic energy bias in Hartree for a strategy at
// noise level gamma and circuit depth.
func Bias(s Strategy, gamma float64, depth int) float64 {
	a, b, ok := biasCoefficients(s)
	if !ok {
		return 0.0
	}
	biasMilliHartree := (a + b*float64(depth)) * gamma
	return biasMilliHartree / 1000.0
}

// DiscardRate returns the fraction of shots rejected by post-selection.
// Only the symmetry-verification strategies discard shots.
func DiscardRate(s Strategy, gamma float64) float64 {
	switch s {
	case Sym:
		return clamp(0.30+4.5*gamma, 0.4, 0.95)
	case Hybrid:
		return clamp(0.10+1.5*gamma, 0.1, 0.35)
	}
	return 0.0
}

// SamplingSigma returns the standard error of the energy estimate for
// a given discard rate and physical shot budget. The Hamiltonian scale
// is taken as 1 Hartree.
func SamplingSigma(discardRate float64, physicalShots int) float64 {
	valid := float64(physicalShots) * (1.0 - discardRate)
	if valid < 1.0 {
		valid = 1.0
	}
	sigma := 1.0 / math.Sqrt(valid)
	// Floor avoids a degenerate zero-variance estimator.
	return math.Max(sigma, 1e-6)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
