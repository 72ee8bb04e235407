package systems

// Telemetry summarizes the circuit cost of running an ansatz on a
// system: total gates, entangling gates and sequential depth.
type Telemetry struct {
	Molecule     string `json:"molecule"`
	NumQubits    int    `json:"num_qubits"`
	AnsatzLayers int    `json:"ansatz_layers"`
	GateCount    int    `json:"gate_count"`
	CNOTCount    int    `json:"cnot_count"`
	CircuitDepth int    `json:"circuit_depth"`
}

// CircuitTelemetry computes gate counts for a layered hardware-efficient
// ansatz. Each layer carries two rotation sub-layers around a CNOT
// ladder, so a layer costs 2n + (n-1) gates and 2 + (n-1) depth.
func CircuitTelemetry(s System, layers int) Telemetry {
	n := s.NumQubits
	gatesPerLayer := 2*n + (n - 1)
	cnotsPerLayer := n - 1
	depthPerLayer := 2 + (n - 1)

	return Telemetry{
		Molecule:     s.Name,
		NumQubits:    n,
		AnsatzLayers: layers,
		GateCount:    layers * gatesPerLayer,
		CNOTCount:    layers * cnotsPerLayer,
		CircuitDepth: layers * depthPerLayer,
	}
}

// WithinChemicalAccuracy reports whether an absolute energy error in
// Hartree is at or below the chemical accuracy threshold.
func WithinChemicalAccuracy(err float64) bool {
	if err < 0 {
		err = -err
	}
	return err <= ChemicalAccuracy
}
