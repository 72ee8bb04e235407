package experiments

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/qemlab/internal/database"
)

// ResultRepository persists sweep runs and their grid points in
// results.db.
type ResultRepository struct {
	db  *database.DB
	log zerolog.Logger
}

// sweepResultColumns is the column list for the sweep_results table.
// Order must match the scan helpers below.
const sweepResultColumns = `id, run_id, molecule, bond_length, gamma, strategy, noise_type, depth,
mean_energy, ci_lower, ci_upper, fci_energy, abs_error_mha, discard_rate, sigma, created_at`

// NewResultRepository creates the repository and ensures its schema.
func NewResultRepository(db *database.DB, log zerolog.Logger) (*ResultRepository, error) {
	r := &ResultRepository{
		db:  db,
		log: log.With().Str("repo", "results").Logger(),
	}
	if err := r.ensureSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ResultRepository) ensureSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sweep_runs (
			id TEXT PRIMARY KEY,
			noise_type TEXT NOT NULL,
			status TEXT NOT NULL,
			points INTEGER NOT NULL DEFAULT 0,
			started_at INTEGER NOT NULL,
			completed_at INTEGER
		);
		CREATE TABLE IF NOT EXISTS sweep_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES sweep_runs(id),
			molecule TEXT NOT NULL,
			bond_length REAL NOT NULL,
			gamma REAL NOT NULL,
			strategy TEXT NOT NULL,
			noise_type TEXT NOT NULL,
			depth INTEGER NOT NULL,
			mean_energy REAL NOT NULL,
			ci_lower REAL NOT NULL,
			ci_upper REAL NOT NULL,
			fci_energy REAL NOT NULL,
			abs_error_mha REAL NOT NULL,
			discard_rate REAL NOT NULL,
			sigma REAL NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sweep_results_run ON sweep_results(run_id);
	`

	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create results schema: %w", err)
	}
	return nil
}

// CreateRun records the start of a sweep run.
func (r *ResultRepository) CreateRun(run *SweepRun) error {
	query := `
		INSERT INTO sweep_runs (id, noise_type, status, points, started_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, run.ID, run.NoiseType, string(run.Status), run.Points, run.StartedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create sweep run: %w", err)
	}

	r.log.Info().Str("run_id", run.ID).Str("noise_type", run.NoiseType).Msg("Sweep run created")
	return nil
}

// FinishRun marks a run as completed or failed with its final point count.
func (r *ResultRepository) FinishRun(runID string, status RunStatus, points int) error {
	now := time.Now().Unix()

	query := `
		UPDATE sweep_runs
		SET status = ?, points = ?, completed_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, string(status), points, now, runID)
	if err != nil {
		return fmt.Errorf("failed to finish sweep run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sweep run %s not found", runID)
	}

	return nil
}

// InsertPoint persists one evaluated grid point.
func (r *ResultRepository) InsertPoint(p *PointResult) error {
	now := time.Now().Unix()

	query := `
		INSERT INTO sweep_results
		(run_id, molecule, bond_length, gamma, strategy, noise_type, depth,
		 mean_energy, ci_lower, ci_upper, fci_energy, abs_error_mha, discard_rate, sigma, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		p.RunID,
		p.Molecule,
		p.BondLength,
		p.Gamma,
		p.Strategy,
		p.NoiseType,
		p.Depth,
		p.MeanEnergy,
		p.CILower,
		p.CIUpper,
		p.FCIEnergy,
		p.AbsErrorMHa,
		p.DiscardRate,
		p.Sigma,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sweep result: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert ID: %w", err)
	}

	p.ID = int(id)
	p.CreatedAt = time.Unix(now, 0).UTC()
	return nil
}

// GetRun retrieves a run by ID, or nil when it does not exist.
func (r *ResultRepository) GetRun(runID string) (*SweepRun, error) {
	query := `
		SELECT id, noise_type, status, points, started_at, completed_at
		FROM sweep_runs
		WHERE id = ?
	`

	run, err := scanRun(r.db.QueryRow(query, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sweep run: %w", err)
	}

	return &run, nil
}

// GetLatestRuns retrieves the most recent runs, newest first.
func (r *ResultRepository) GetLatestRuns(limit int) ([]SweepRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, noise_type, status, points, started_at, completed_at
		FROM sweep_runs
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get sweep runs: %w", err)
	}
	defer rows.Close()

	var runs []SweepRun
	for rows.Next() {
		var run SweepRun
		var status string
		var startedAt int64
		var completedAt sql.NullInt64

		if err := rows.Scan(&run.ID, &run.NoiseType, &status, &run.Points, &startedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sweep run: %w", err)
		}
		run.Status = RunStatus(status)
		run.StartedAt = time.Unix(startedAt, 0).UTC()
		if completedAt.Valid {
			t := time.Unix(completedAt.Int64, 0).UTC()
			run.CompletedAt = &t
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// GetRunPoints retrieves all grid points of a run in insertion order.
func (r *ResultRepository) GetRunPoints(runID string) ([]PointResult, error) {
	query := "SELECT " + sweepResultColumns + " FROM sweep_results WHERE run_id = ? ORDER BY id ASC"

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sweep results: %w", err)
	}
	defer rows.Close()

	var points []PointResult
	for rows.Next() {
		var p PointResult
		var createdAt int64

		err := rows.Scan(
			&p.ID,
			&p.RunID,
			&p.Molecule,
			&p.BondLength,
			&p.Gamma,
			&p.Strategy,
			&p.NoiseType,
			&p.Depth,
			&p.MeanEnergy,
			&p.CILower,
			&p.CIUpper,
			&p.FCIEnergy,
			&p.AbsErrorMHa,
			&p.DiscardRate,
			&p.Sigma,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sweep result: %w", err)
		}
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		points = append(points, p)
	}

	return points, nil
}

// BestStrategyPerPoint returns, for each (molecule, R, gamma) coordinate
// of a run, the strategy with the smallest absolute error.
func (r *ResultRepository) BestStrategyPerPoint(runID string) ([]PointResult, error) {
	query := `
		SELECT ` + sweepResultColumns + ` FROM sweep_results
		WHERE run_id = ?
		GROUP BY molecule, bond_length, gamma
		HAVING abs_error_mha = MIN(abs_error_mha)
		ORDER BY molecule, bond_length, gamma
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get best strategies: %w", err)
	}
	defer rows.Close()

	var points []PointResult
	for rows.Next() {
		var p PointResult
		var createdAt int64

		err := rows.Scan(
			&p.ID,
			&p.RunID,
			&p.Molecule,
			&p.BondLength,
			&p.Gamma,
			&p.Strategy,
			&p.NoiseType,
			&p.Depth,
			&p.MeanEnergy,
			&p.CILower,
			&p.CIUpper,
			&p.FCIEnergy,
			&p.AbsErrorMHa,
			&p.DiscardRate,
			&p.Sigma,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan best strategy row: %w", err)
		}
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		points = append(points, p)
	}

	return points, nil
}

func scanRun(row *sql.Row) (SweepRun, error) {
	var run SweepRun
	var status string
	var startedAt int64
	var completedAt sql.NullInt64

	err := row.Scan(&run.ID, &run.NoiseType, &status, &run.Points, &startedAt, &completedAt)
	if err != nil {
		return run, err
	}

	run.Status = RunStatus(status)
	run.StartedAt = time.Unix(startedAt, 0).UTC()
	if completedAt.Valid {
		t := time.Unix(completedAt.Int64, 0).UTC()
		run.CompletedAt = &t
	}

	return run, nil
}
