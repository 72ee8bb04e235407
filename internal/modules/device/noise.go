package device

import "fmt"

// NoiseType is the configured decoherence model. It is a closed set: every
// consumption site switches exhaustively, so an invalid variant cannot reach
// evaluation time.
type NoiseType int

const (
	// NoiseAmplitudeDamping models energy relaxation (T1)
	NoiseAmplitudeDamping NoiseType = iota
	// NoisePhaseDamping models dephasing (T2)
	NoisePhaseDamping
	// NoiseDepolarizing mixes toward the maximally mixed state
	NoiseDepolarizing
	// NoiseComposite approximates simultaneous T1+T2+depolarizing
	NoiseComposite
)

// Composite channel scaling factors relative to the base strength. The
// sequential order amplitude → phase → depolarizing and these exact factors
// are load-bearing: downstream calibration constants were fitted against
// this composition, approximate as it is.
const (
	compositePhaseFactor        = 0.5
	compositeDepolarizingFactor = 0.1
)

// ParseNoiseType parses a configuration string into a NoiseType
func ParseNoiseType(s string) (NoiseType, error) {
	switch s {
	case "amplitude_damping":
		return NoiseAmplitudeDamping, nil
	case "phase_damping":
		return NoisePhaseDamping, nil
	case "depolarizing":
		return NoiseDepolarizing, nil
	case "composite":
		return NoiseComposite, nil
	}
	return 0, fmt.Errorf("invalid noise type: %q", s)
}

// String returns the configuration name of the noise type
func (t NoiseType) String() string {
	switch t {
	case NoiseAmplitudeDamping:
		return "amplitude_damping"
	case NoisePhaseDamping:
		return "phase_damping"
	case NoiseDepolarizing:
		return "depolarizing"
	case NoiseComposite:
		return "composite"
	}
	return "unknown"
}

// NoiseConfig is the validated noise model for a device session
type NoiseConfig struct {
	Type  NoiseType
	Gamma float64
}

// NewNoiseConfig validates and constructs a noise configuration
func NewNoiseConfig(noiseType string, gamma float64) (NoiseConfig, error) {
	t, err := ParseNoiseType(noiseType)
	if err != nil {
		return NoiseConfig{}, err
	}
	if gamma < 0 || gamma > 1 {
		return NoiseConfig{}, fmt.Errorf("noise gamma must be in [0, 1], got %v", gamma)
	}
	return NoiseConfig{Type: t, Gamma: gamma}, nil
}

// channel identifies one of the backend's primitive noise channels
type channel int

const (
	channelAmplitudeDamping channel = iota
	channelPhaseDamping
	channelDepolarizing
)

// channelApplication is one emitted channel call with its strength
type channelApplication struct {
	channel  channel
	strength float64
}

// noiseFor maps the configured noise model onto the channel sequence for one
// operation. Protected windows leak only a fraction of the configured gamma;
// gates take it in full. The composite model applies T1, then T2 at half
// strength, then depolarizing at a tenth - a sequential approximation of
// physically simultaneous decoherence.
func (d *Device) noiseFor(protected bool) []channelApplication {
	strength := d.noise.Gamma
	if protected {
		strength *= d.protectionFactor
	}
	if strength <= 0 {
		return nil
	}

	switch d.noise.Type {
	case NoiseAmplitudeDamping:
		return []channelApplication{
			{channelAmplitudeDamping, strength},
		}
	case NoisePhaseDamping:
		return []channelApplication{
			{channelPhaseDamping, strength},
		}
	case NoiseDepolarizing:
		return []channelApplication{
			{channelDepolarizing, strength},
		}
	case NoiseComposite:
		return []channelApplication{
			{channelAmplitudeDamping, strength},
			{channelPhaseDamping, strength * compositePhaseFactor},
			{channelDepolarizing, strength * compositeDepolarizingFactor},
		}
	}
	return nil
}

// applyChannels applies the emitted channel sequence to every wire in order
func (d *Device) applyChannels(wires []int, apps []channelApplication) {
	for _, w := range wires {
		for _, app := range apps {
			if app.strength <= 0 {
				continue
			}
			switch app.channel {
			case channelAmplitudeDamping:
				d.backend.ApplyAmplitudeDamping(w, app.strength)
			case channelPhaseDamping:
				d.backend.ApplyPhaseDamping(w, app.strength)
			case channelDepolarizing:
				d.backend.ApplyDepolarizing(w, app.strength)
			}
		}
	}
}
