package experiments

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qemlab/internal/database"
)

func newTestRepository(t *testing.T) *ResultRepository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "results.db"),
		Profile: database.ProfileResults,
		Name:    "results",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewResultRepository(db, zerolog.Nop())
	require.NoError(t, err)
	return repo
}

func TestRunLifecycle(t *testing.T) {
	repo := newTestRepository(t)

	run := &SweepRun{
		ID:        "run-1",
		NoiseType: "composite",
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateRun(run))

	got, err := repo.GetRun("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, RunStatusRunning, got.Status)
	assert.Nil(t, got.CompletedAt)

	require.NoError(t, repo.FinishRun("run-1", RunStatusCompleted, 216))

	got, err = repo.GetRun("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, RunStatusCompleted, got.Status)
	assert.Equal(t, 216, got.Points)
	require.NotNil(t, got.CompletedAt)
}

func TestGetRunMissing(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.GetRun("nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Error(t, repo.FinishRun("nope", RunStatusCompleted, 0))
}

func TestInsertAndListPoints(t *testing.T) {
	repo := newTestRepository(t)

	run := &SweepRun{ID: "run-2", NoiseType: "composite", Status: RunStatusRunning, StartedAt: time.Now().UTC()}
	require.NoError(t, repo.CreateRun(run))

	p := &PointResult{
		RunID:       "run-2",
		Molecule:    "H2",
		BondLength:  0.74,
		Gamma:       0.08,
		Strategy:    "hybrid",
		NoiseType:   "composite",
		Depth:       9,
		MeanEnergy:  -1.05,
		CILower:     -1.07,
		CIUpper:     -1.03,
		FCIEnergy:   -1.06,
		AbsErrorMHa: 10.0,
		DiscardRate: 0.22,
		Sigma:       0.011,
	}
	require.NoError(t, repo.InsertPoint(p))
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	points, err := repo.GetRunPoints("run-2")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "H2", points[0].Molecule)
	assert.InDelta(t, 0.74, points[0].BondLength, 1e-12)
	assert.Equal(t, "hybrid", points[0].Strategy)
}

func TestGetLatestRunsOrder(t *testing.T) {
	repo := newTestRepository(t)

	older := &SweepRun{ID: "old", NoiseType: "composite", Status: RunStatusCompleted, StartedAt: time.Now().Add(-time.Hour).UTC()}
	newer := &SweepRun{ID: "new", NoiseType: "composite", Status: RunStatusRunning, StartedAt: time.Now().UTC()}
	require.NoError(t, repo.CreateRun(older))
	require.NoError(t, repo.CreateRun(newer))

	runs, err := repo.GetLatestRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "old", runs[1].ID)
}

func TestBestStrategyPerPoint(t *testing.T) {
	repo := newTestRepository(t)

	run := &SweepRun{ID: "run-3", NoiseType: "composite", Status: RunStatusRunning, StartedAt: time.Now().UTC()}
	require.NoError(t, repo.CreateRun(run))

	insert := func(strat string, errMHa float64) {
		p := &PointResult{
			RunID: "run-3", Molecule: "H2", BondLength: 0.74, Gamma: 0.08,
			Strategy: strat, NoiseType: "composite", Depth: 9,
			AbsErrorMHa: errMHa,
		}
		require.NoError(t, repo.InsertPoint(p))
	}
	insert("baseline", 16.0)
	insert("sym", 5.4)
	insert("hybrid", 3.8)

	best, err := repo.BestStrategyPerPoint("run-3")
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.Equal(t, "hybrid", best[0].Strategy)
}
