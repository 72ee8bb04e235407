package experiments

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SweepJob runs the full grid sweep on a schedule.
type SweepJob struct {
	runner  *GridRunner
	timeout time.Duration
	log     zerolog.Logger
}

// NewSweepJob wraps a grid runner as a scheduled job. Each invocation
// is bounded by the timeout.
func NewSweepJob(runner *GridRunner, timeout time.Duration, log zerolog.Logger) *SweepJob {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &SweepJob{
		runner:  runner,
		timeout: timeout,
		log:     log.With().Str("job", "grid_sweep").Logger(),
	}
}

// Name identifies the job in scheduler logs.
func (j *SweepJob) Name() string {
	return "grid_sweep"
}

// Run executes one sweep.
func (j *SweepJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	runID, err := j.runner.Run(ctx)
	if err != nil {
		return err
	}

	j.log.Info().Str("run_id", runID).Msg("Scheduled sweep finished")
	return nil
}
