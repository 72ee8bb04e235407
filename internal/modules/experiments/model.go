// Package experiments runs noise-sweep grids over molecular systems and
// persists the resulting energy estimates.
package experiments

import "time"

// RunStatus tracks the lifecycle of a sweep run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// SweepRun is one execution of the full grid.
type SweepRun struct {
	ID          string     `json:"id"`
	NoiseType   string     `json:"noise_type"`
	Status      RunStatus  `json:"status"`
	Points      int        `json:"points"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// PointStats holds the statistics of a single evaluated grid point.
type PointStats struct {
	MeanEnergy  float64 `json:"mean_energy"`
	StdDev      float64 `json:"std_dev"`
	CILower     float64 `json:"ci_lower"`
	CIUpper     float64 `json:"ci_upper"`
	Bias        float64 `json:"bias"`
	DiscardRate float64 `json:"discard_rate"`
	Sigma       float64 `json:"sigma"`
	FCIEnergy   float64 `json:"fci_energy"`
}

// PointResult is a persisted grid point: the evaluated statistics plus
// the coordinates that produced them.
type PointResult struct {
	ID          int       `json:"id"`
	RunID       string    `json:"run_id"`
	Molecule    string    `json:"molecule"`
	BondLength  float64   `json:"bond_length"`
	Gamma       float64   `json:"gamma"`
	Strategy    string    `json:"strategy"`
	NoiseType   string    `json:"noise_type"`
	Depth       int       `json:"depth"`
	MeanEnergy  float64   `json:"mean_energy"`
	CILower     float64   `json:"ci_lower"`
	CIUpper     float64   `json:"ci_upper"`
	FCIEnergy   float64   `json:"fci_energy"`
	AbsErrorMHa float64   `json:"abs_error_mha"`
	DiscardRate float64   `json:"discard_rate"`
	Sigma       float64   `json:"sigma"`
	CreatedAt   time.Time `json:"created_at"`
}
