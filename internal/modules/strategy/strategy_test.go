package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, name := range []string{"baseline", "dd", "sym", "hybrid", "rl"} {
		s, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.String())
	}

	_, err := Parse("zne")
	assert.Error(t, err)
}

func TestBiasLinearModel(t *testing.T) {
	// bias = (a + b*depth) * gamma / 1000, depth 9.
	cases := []struct {
		strategy Strategy
		want     float64
	}{
		{Baseline, (110 + 10*9) * 0.05 / 1000},
		{DD, (80 + 15*9) * 0.05 / 1000},
		{Sym, (22 + 5*9) * 0.05 / 1000},
		{Hybrid, (20 + 3*9) * 0.05 / 1000},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, Bias(tc.strategy, 0.05, 9), 1e-12, "strategy %s", tc.strategy)
	}
}

func TestBiasOrdering(t *testing.T) {
	// Mitigation reduces bias: hybrid < sym < baseline at shallow depth.
	gamma := 0.08
	assert.Less(t, Bias(Hybrid, gamma, 9), Bias(Sym, gamma, 9))
	assert.Less(t, Bias(Sym, gamma, 9), Bias(Baseline, gamma, 9))
}

func TestBiasZeroGamma(t *testing.T) {
	for _, s := range All {
		assert.Zero(t, Bias(s, 0, 30))
	}
}

func TestBiasRLIsZero(t *testing.T) {
	assert.Zero(t, Bias(RL, 0.135, 9))
}

func TestDiscardRate(t *testing.T) {
	assert.Zero(t, DiscardRate(Baseline, 0.1))
	assert.Zero(t, DiscardRate(DD, 0.1))

	// Sym: clamp(0.30 + 4.5γ, 0.4, 0.95).
	assert.InDelta(t, 0.4, DiscardRate(Sym, 0.0), 1e-12)
	assert.InDelta(t, 0.30+4.5*0.08, DiscardRate(Sym, 0.08), 1e-12)
	assert.InDelta(t, 0.95, DiscardRate(Sym, 0.5), 1e-12)

	// Hybrid: clamp(0.10 + 1.5γ, 0.1, 0.35).
	assert.InDelta(t, 0.1, DiscardRate(Hybrid, 0.0), 1e-12)
	assert.InDelta(t, 0.10+1.5*0.08, DiscardRate(Hybrid, 0.08), 1e-12)
	assert.InDelta(t, 0.35, DiscardRate(Hybrid, 0.5), 1e-12)
}

func TestSamplingSigma(t *testing.T) {
	// No discards: sigma = 1/sqrt(N).
	assert.InDelta(t, 0.01, SamplingSigma(0, 10000), 1e-12)

	// Half discarded: sigma = 1/sqrt(N/2).
	assert.InDelta(t, 1/math.Sqrt(5000), SamplingSigma(0.5, 10000), 1e-12)

	// Everything discarded: valid shots floor at 1, sigma at most 1.
	assert.InDelta(t, 1.0, SamplingSigma(1.0, 10000), 1e-12)
}
