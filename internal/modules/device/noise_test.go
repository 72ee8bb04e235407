package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoiseType(t *testing.T) {
	tests := []struct {
		in   string
		want NoiseType
	}{
		{"amplitude_damping", NoiseAmplitudeDamping},
		{"phase_damping", NoisePhaseDamping},
		{"depolarizing", NoiseDepolarizing},
		{"composite", NoiseComposite},
	}

	for _, tt := range tests {
		got, err := ParseNoiseType(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.in, got.String())
	}

	for _, bad := range []string{"", "invalid", "AMPLITUDE_DAMPING", "amplitude damping"} {
		_, err := ParseNoiseType(bad)
		assert.Error(t, err, "input=%q", bad)
	}
}

func TestNewNoiseConfig(t *testing.T) {
	cfg, err := NewNoiseConfig("phase_damping", 0.3)
	require.NoError(t, err)
	assert.Equal(t, NoisePhaseDamping, cfg.Type)
	assert.Equal(t, 0.3, cfg.Gamma)

	_, err = NewNoiseConfig("phase_damping", 1.01)
	assert.Error(t, err)

	_, err = NewNoiseConfig("phase_damping", -0.01)
	assert.Error(t, err)

	// Boundary values are valid.
	_, err = NewNoiseConfig("depolarizing", 0.0)
	assert.NoError(t, err)
	_, err = NewNoiseConfig("depolarizing", 1.0)
	assert.NoError(t, err)
}

func TestNoiseForEmission(t *testing.T) {
	dev := &Device{
		noise:            NoiseConfig{Type: NoiseComposite, Gamma: 0.4},
		protectionFactor: DefaultProtectionFactor,
	}

	full := dev.noiseFor(false)
	require.Len(t, full, 3)
	assert.Equal(t, channelAmplitudeDamping, full[0].channel)
	assert.InDelta(t, 0.4, full[0].strength, 1e-12)
	assert.Equal(t, channelPhaseDamping, full[1].channel)
	assert.InDelta(t, 0.2, full[1].strength, 1e-12)
	assert.Equal(t, channelDepolarizing, full[2].channel)
	assert.InDelta(t, 0.04, full[2].strength, 1e-12)

	protected := dev.noiseFor(true)
	require.Len(t, protected, 3)
	for i := range protected {
		assert.InDelta(t, full[i].strength*DefaultProtectionFactor, protected[i].strength, 1e-12)
	}
}

func TestNoiseForZeroStrength(t *testing.T) {
	for _, noiseType := range []NoiseType{NoiseAmplitudeDamping, NoisePhaseDamping, NoiseDepolarizing, NoiseComposite} {
		dev := &Device{
			noise:            NoiseConfig{Type: noiseType, Gamma: 0},
			protectionFactor: DefaultProtectionFactor,
		}
		assert.Nil(t, dev.noiseFor(false))
		assert.Nil(t, dev.noiseFor(true))
	}
}

func TestNoiseForSingleChannelTypes(t *testing.T) {
	tests := []struct {
		noiseType NoiseType
		channel   channel
	}{
		{NoiseAmplitudeDamping, channelAmplitudeDamping},
		{NoisePhaseDamping, channelPhaseDamping},
		{NoiseDepolarizing, channelDepolarizing},
	}

	for _, tt := range tests {
		dev := &Device{
			noise:            NoiseConfig{Type: tt.noiseType, Gamma: 0.25},
			protectionFactor: DefaultProtectionFactor,
		}

		apps := dev.noiseFor(false)
		require.Len(t, apps, 1)
		assert.Equal(t, tt.channel, apps[0].channel)
		assert.InDelta(t, 0.25, apps[0].strength, 1e-12)
	}
}
