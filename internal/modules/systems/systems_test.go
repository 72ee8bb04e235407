package systems

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	h2, err := Get("H2")
	require.NoError(t, err)
	assert.Equal(t, 4, h2.NumQubits)
	assert.Equal(t, 9, h2.Depth)
	assert.Len(t, h2.BondLengths, 6)

	lih, err := Get("LiH")
	require.NoError(t, err)
	assert.Equal(t, 4, lih.NumQubits)
	assert.Equal(t, 20, lih.Depth)

	beh2, err := Get("BeH2")
	require.NoError(t, err)
	assert.Equal(t, 6, beh2.NumQubits)
	assert.Equal(t, 30, beh2.Depth)

	_, err = Get("H4")
	assert.Error(t, err)
}

func TestReferenceEnergyEquilibrium(t *testing.T) {
	// Each curve has its minimum near the equilibrium bond length.
	e, err := ReferenceEnergy("H2", 0.74)
	require.NoError(t, err)
	assert.InDelta(t, -1.1+0.1/0.74, e, 1e-12)

	stretched, err := ReferenceEnergy("H2", 2.5)
	require.NoError(t, err)
	assert.Greater(t, stretched, e)
}

func TestReferenceEnergyValidation(t *testing.T) {
	_, err := ReferenceEnergy("H2", -1.0)
	assert.Error(t, err)
	_, err = ReferenceEnergy("H2", 0)
	assert.Error(t, err)
	_, err = ReferenceEnergy("Xe", 1.0)
	assert.Error(t, err)
}

func TestCircuitTelemetry(t *testing.T) {
	h2, err := Get("H2")
	require.NoError(t, err)

	tel := CircuitTelemetry(h2, 2)
	assert.Equal(t, 4, tel.NumQubits)
	assert.Equal(t, 2*(2*4+3), tel.GateCount)
	assert.Equal(t, 2*3, tel.CNOTCount)
	assert.Equal(t, 2*(2+3), tel.CircuitDepth)
}

func TestWithinChemicalAccuracy(t *testing.T) {
	assert.True(t, WithinChemicalAccuracy(0.001))
	assert.True(t, WithinChemicalAccuracy(-0.0016))
	assert.False(t, WithinChemicalAccuracy(0.002))
}

func TestCachePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "energies.msgpack")
	log := zerolog.Nop()

	cache, err := NewCache(path, log)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())

	e1, err := cache.Energy("H2", 0.74)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
	require.NoError(t, cache.Save())

	// A fresh cache over the same file sees the persisted entry.
	reloaded, err := NewCache(path, log)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())

	e2, err := reloaded.Energy("H2", 0.74)
	require.NoError(t, err)
	assert.Equal(t, e1, e2)
}

func TestCacheUnknownMolecule(t *testing.T) {
	cache, err := NewCache(filepath.Join(t.TempDir(), "e.msgpack"), zerolog.Nop())
	require.NoError(t, err)

	_, err = cache.Energy("Xe", 1.0)
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}
