package experiments

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qemlab/internal/modules/strategy"
	"github.com/aristath/qemlab/internal/modules/systems"
)

func newTestEvaluator(t *testing.T, seed uint64) *Evaluator {
	t.Helper()

	cache, err := systems.NewCache(filepath.Join(t.TempDir(), "energies.msgpack"), zerolog.Nop())
	require.NoError(t, err)

	eval, err := NewEvaluator(cache, 50, 10000, seed, zerolog.Nop())
	require.NoError(t, err)
	return eval
}

func TestEvaluatorValidation(t *testing.T) {
	cache, err := systems.NewCache(filepath.Join(t.TempDir(), "e.msgpack"), zerolog.Nop())
	require.NoError(t, err)

	_, err = NewEvaluator(cache, 0, 10000, 1, zerolog.Nop())
	assert.Error(t, err)
	_, err = NewEvaluator(cache, 50, 0, 1, zerolog.Nop())
	assert.Error(t, err)
}

func TestEvaluatePointBaseline(t *testing.T) {
	eval := newTestEvaluator(t, 42)

	stats, err := eval.EvaluatePoint("H2", 0.74, 0.08, strategy.Baseline)
	require.NoError(t, err)

	fci, err := systems.ReferenceEnergy("H2", 0.74)
	require.NoError(t, err)
	assert.InDelta(t, fci, stats.FCIEnergy, 1e-12)

	// Baseline at H2 depth 9: bias = (110 + 10*9)*0.08/1000 = 16 mHa.
	assert.InDelta(t, 0.016, stats.Bias, 1e-12)
	assert.Zero(t, stats.DiscardRate)
	assert.InDelta(t, 0.01, stats.Sigma, 1e-12)

	// Mean sits within a few sigma of the biased energy.
	assert.InDelta(t, fci+stats.Bias, stats.MeanEnergy, 5*stats.Sigma)

	// CI uses the theoretical sigma.
	assert.InDelta(t, stats.MeanEnergy-1.96*stats.Sigma, stats.CILower, 1e-12)
	assert.InDelta(t, stats.MeanEnergy+1.96*stats.Sigma, stats.CIUpper, 1e-12)
}

func TestEvaluatePointHybridRegion(t *testing.T) {
	eval := newTestEvaluator(t, 42)

	gamma := 0.08
	depth := 9
	baseBias := strategy.Bias(strategy.Hybrid, gamma, depth)

	inside, err := eval.EvaluatePoint("H2", 0.74, gamma, strategy.Hybrid)
	require.NoError(t, err)
	assert.InDelta(t, baseBias*0.8, inside.Bias, 1e-12)

	outside, err := eval.EvaluatePoint("H2", 1.5, gamma, strategy.Hybrid)
	require.NoError(t, err)
	assert.InDelta(t, baseBias*1.1, outside.Bias, 1e-12)
}

func TestEvaluatePointDiscardRaisesSigma(t *testing.T) {
	eval := newTestEvaluator(t, 42)

	sym, err := eval.EvaluatePoint("H2", 0.74, 0.08, strategy.Sym)
	require.NoError(t, err)
	baseline, err := eval.EvaluatePoint("H2", 0.74, 0.08, strategy.Baseline)
	require.NoError(t, err)

	assert.Greater(t, sym.DiscardRate, 0.0)
	assert.Greater(t, sym.Sigma, baseline.Sigma)
}

func TestEvaluatePointSeeded(t *testing.T) {
	a, err := newTestEvaluator(t, 7).EvaluatePoint("LiH", 1.6, 0.025, strategy.DD)
	require.NoError(t, err)
	b, err := newTestEvaluator(t, 7).EvaluatePoint("LiH", 1.6, 0.025, strategy.DD)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEvaluatePointUnknownMolecule(t *testing.T) {
	eval := newTestEvaluator(t, 42)

	_, err := eval.EvaluatePoint("Xe", 1.0, 0.08, strategy.Baseline)
	assert.Error(t, err)
}
