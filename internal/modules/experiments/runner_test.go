package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qemlab/internal/database"
	"github.com/aristath/qemlab/internal/events"
	"github.com/aristath/qemlab/internal/modules/systems"
)

func newTestRunner(t *testing.T) (*GridRunner, *ResultRepository, *events.Bus, string) {
	t.Helper()
	dataDir := t.TempDir()

	db, err := database.New(database.Config{
		Path:    filepath.Join(dataDir, "results.db"),
		Profile: database.ProfileResults,
		Name:    "results",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewResultRepository(db, zerolog.Nop())
	require.NoError(t, err)

	cache, err := systems.NewCache(filepath.Join(dataDir, "energies.msgpack"), zerolog.Nop())
	require.NoError(t, err)

	eval, err := NewEvaluator(cache, 10, 10000, 42, zerolog.Nop())
	require.NoError(t, err)

	bus := events.NewBus()
	runner := NewGridRunner(eval, repo, bus, dataDir, "composite", zerolog.Nop())
	return runner, repo, bus, dataDir
}

func TestGridRunFullSweep(t *testing.T) {
	runner, repo, bus, dataDir := newTestRunner(t)

	var started, completed int
	var pointEvents int
	bus.Subscribe(events.SweepStarted, func(e *events.Event) { started++ })
	bus.Subscribe(events.SweepPointCompleted, func(e *events.Event) { pointEvents++ })
	bus.Subscribe(events.SweepCompleted, func(e *events.Event) { completed++ })

	runID, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	// 3 molecules x 6 bond lengths x 3 gammas x 4 strategies.
	wantPoints := 3 * 6 * 3 * 4

	run, err := repo.GetRun(runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.Equal(t, wantPoints, run.Points)

	points, err := repo.GetRunPoints(runID)
	require.NoError(t, err)
	assert.Len(t, points, wantPoints)

	assert.Equal(t, 1, started)
	assert.Equal(t, 1, completed)
	assert.Equal(t, wantPoints, pointEvents)

	// CSV mirror: header plus one record per point.
	f, err := os.Open(filepath.Join(dataDir, "sweep_"+runID+".csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, wantPoints+1)
	assert.Equal(t, "molecule", records[0][0])
	assert.Equal(t, "H2", records[1][0])
}

func TestGridRunCancellation(t *testing.T) {
	runner, repo, bus, _ := newTestRunner(t)

	failed := 0
	bus.Subscribe(events.SweepFailed, func(e *events.Event) { failed++ })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runID, err := runner.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, failed)

	run, repoErr := repo.GetRun(runID)
	require.NoError(t, repoErr)
	require.NotNil(t, run)
	assert.Equal(t, RunStatusFailed, run.Status)
}

func TestGridRunMitigationBeatsBaseline(t *testing.T) {
	runner, repo, _, _ := newTestRunner(t)

	runID, err := runner.Run(context.Background())
	require.NoError(t, err)

	points, err := repo.GetRunPoints(runID)
	require.NoError(t, err)

	// At the highest noise level the symmetry strategies outperform the
	// unmitigated baseline on mean absolute error.
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, p := range points {
		if p.Gamma != 0.135 {
			continue
		}
		sums[p.Strategy] += p.AbsErrorMHa
		counts[p.Strategy]++
	}

	baseline := sums["baseline"] / float64(counts["baseline"])
	hybrid := sums["hybrid"] / float64(counts["hybrid"])
	assert.Less(t, hybrid, baseline)
}
