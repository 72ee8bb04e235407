package experiments

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/qemlab/internal/events"
	"github.com/aristath/qemlab/internal/modules/strategy"
	"github.com/aristath/qemlab/internal/modules/systems"
)

// GridGammas is the noise-strength grid swept for every molecule.
var GridGammas = []float64{0.025, 0.08, 0.135}

// csvHeader matches the persisted result columns for offline analysis.
var csvHeader = []string{
	"molecule", "R", "gamma", "strategy", "mean_energy", "ci_lower", "ci_upper",
	"fci_energy", "mean_abs_error_mHa", "discard_rate", "sigma", "noise_type", "depth",
}

// GridRunner executes the full molecules x bond-lengths x gammas x
// strategies sweep, persisting every point and publishing progress on
// the event bus.
type GridRunner struct {
	evaluator *Evaluator
	repo      *ResultRepository
	bus       *events.Bus
	dataDir   string
	noiseType string
	log       zerolog.Logger
}

// NewGridRunner creates a grid runner. Results CSVs are written under
// dataDir, one file per run.
func NewGridRunner(evaluator *Evaluator, repo *ResultRepository, bus *events.Bus, dataDir, noiseType string, log zerolog.Logger) *GridRunner {
	return &GridRunner{
		evaluator: evaluator,
		repo:      repo,
		bus:       bus,
		dataDir:   dataDir,
		noiseType: noiseType,
		log:       log.With().Str("component", "grid_runner").Logger(),
	}
}

// Run executes one full sweep. Cancellation is honored between grid
// points; already persisted points survive an aborted run.
func (g *GridRunner) Run(ctx context.Context) (string, error) {
	runID := uuid.New().String()

	run := &SweepRun{
		ID:        runID,
		NoiseType: g.noiseType,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := g.repo.CreateRun(run); err != nil {
		return "", err
	}

	g.bus.Publish(events.SweepStarted, map[string]interface{}{"run_id": runID})
	g.log.Info().Str("run_id", runID).Msg("Starting grid sweep")

	csvPath := filepath.Join(g.dataDir, fmt.Sprintf("sweep_%s.csv", runID))
	csvFile, err := os.Create(csvPath)
	if err != nil {
		g.fail(runID, 0, err)
		return runID, fmt.Errorf("failed to create results CSV: %w", err)
	}
	defer csvFile.Close()

	writer := csv.NewWriter(csvFile)
	if err := writer.Write(csvHeader); err != nil {
		g.fail(runID, 0, err)
		return runID, fmt.Errorf("failed to write CSV header: %w", err)
	}

	points := 0
	for _, molecule := range systems.Names() {
		sys, err := systems.Get(molecule)
		if err != nil {
			g.fail(runID, points, err)
			return runID, err
		}

		for _, bondLength := range sys.BondLengths {
			for _, gamma := range GridGammas {
				for _, strat := range strategy.All {
					if err := ctx.Err(); err != nil {
						g.fail(runID, points, err)
						return runID, err
					}

					point, err := g.evaluateAndPersist(runID, sys, bondLength, gamma, strat, writer)
					if err != nil {
						g.fail(runID, points, err)
						return runID, err
					}
					points++

					g.bus.Publish(events.SweepPointCompleted, point)
				}
			}
		}

		g.log.Debug().Str("run_id", runID).Str("molecule", molecule).Msg("Molecule sweep finished")
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		g.fail(runID, points, err)
		return runID, fmt.Errorf("failed to flush results CSV: %w", err)
	}

	if err := g.repo.FinishRun(runID, RunStatusCompleted, points); err != nil {
		return runID, err
	}

	g.bus.Publish(events.SweepCompleted, map[string]interface{}{
		"run_id": runID,
		"points": points,
	})
	g.log.Info().Str("run_id", runID).Int("points", points).Str("csv", csvPath).Msg("Grid sweep completed")

	return runID, nil
}

func (g *GridRunner) evaluateAndPersist(runID string, sys systems.System, bondLength, gamma float64, strat strategy.Strategy, writer *csv.Writer) (*PointResult, error) {
	stats, err := g.evaluator.EvaluatePoint(sys.Name, bondLength, gamma, strat)
	if err != nil {
		return nil, err
	}

	absErrMHa := (stats.MeanEnergy - stats.FCIEnergy) * 1000.0
	if absErrMHa < 0 {
		absErrMHa = -absErrMHa
	}

	point := &PointResult{
		RunID:       runID,
		Molecule:    sys.Name,
		BondLength:  bondLength,
		Gamma:       gamma,
		Strategy:    strat.String(),
		NoiseType:   g.noiseType,
		Depth:       sys.Depth,
		MeanEnergy:  stats.MeanEnergy,
		CILower:     stats.CILower,
		CIUpper:     stats.CIUpper,
		FCIEnergy:   stats.FCIEnergy,
		AbsErrorMHa: absErrMHa,
		DiscardRate: stats.DiscardRate,
		Sigma:       stats.Sigma,
	}

	if err := g.repo.InsertPoint(point); err != nil {
		return nil, err
	}

	record := []string{
		point.Molecule,
		formatFloat(point.BondLength),
		formatFloat(point.Gamma),
		point.Strategy,
		formatFloat(point.MeanEnergy),
		formatFloat(point.CILower),
		formatFloat(point.CIUpper),
		formatFloat(point.FCIEnergy),
		formatFloat(point.AbsErrorMHa),
		formatFloat(point.DiscardRate),
		formatFloat(point.Sigma),
		point.NoiseType,
		strconv.Itoa(point.Depth),
	}
	if err := writer.Write(record); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}

	return point, nil
}

func (g *GridRunner) fail(runID string, points int, cause error) {
	if err := g.repo.FinishRun(runID, RunStatusFailed, points); err != nil {
		g.log.Error().Err(err).Str("run_id", runID).Msg("Failed to mark sweep run as failed")
	}

	g.bus.Publish(events.SweepFailed, map[string]interface{}{
		"run_id": runID,
		"error":  cause.Error(),
	})
	g.log.Error().Err(cause).Str("run_id", runID).Int("points", points).Msg("Grid sweep failed")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
