// Package ansatz builds hardware-efficient variational circuits as
// operation lists consumable by a device.
package ansatz

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/aristath/qemlab/internal/modules/device"
)

// ParamsPerQubit is the rotation-parameter count per qubit per layer
// (one RY angle and one RZ angle).
const ParamsPerQubit = 2

// Params holds rotation angles indexed [layer][qubit][rotation].
type Params [][][ParamsPerQubit]float64

// NumLayers returns the layer count encoded in the parameter shape.
func (p Params) NumLayers() int {
	return len(p)
}

// InitParams draws uniform random angles in [0, 2π) for a layered
// ansatz. The same seed reproduces the same parameters.
func InitParams(numQubits, numLayers int, seed uint64) Params {
	rng := rand.New(rand.NewSource(seed))

	params := make(Params, numLayers)
	for l := range params {
		params[l] = make([][ParamsPerQubit]float64, numQubits)
		for q := range params[l] {
			for r := 0; r < ParamsPerQubit; r++ {
				params[l][q][r] = rng.Float64() * 2 * math.Pi
			}
		}
	}
	return params
}

// Build assembles the layered circuit: per layer, an RY+RZ rotation on
// every qubit followed by a CNOT ring i -> (i+1) mod n. When protected
// is set, each entangling sub-layer runs inside a protected window so
// idle qubits see suppressed noise during the two-qubit gates.
func Build(numQubits int, params Params, protected bool) ([]device.Operation, error) {
	if numQubits < 2 {
		return nil, fmt.Errorf("ansatz requires at least 2 qubits, got %d", numQubits)
	}
	for l, layer := range params {
		if len(layer) != numQubits {
			return nil, fmt.Errorf("layer %d has %d qubit parameter sets, want %d", l, len(layer), numQubits)
		}
	}

	allWires := make([]int, numQubits)
	for i := range allWires {
		allWires[i] = i
	}

	var ops []device.Operation
	for _, layer := range params {
		for q, angles := range layer {
			ops = append(ops,
				device.Gate("RY", []int{q}, angles[0]),
				device.Gate("RZ", []int{q}, angles[1]),
			)
		}

		if protected {
			ops = append(ops, device.ProtectedWindow(allWires...))
		}
		for q := 0; q < numQubits; q++ {
			ops = append(ops, device.Gate("CNOT", []int{q, (q + 1) % numQubits}))
		}
	}

	return ops, nil
}
