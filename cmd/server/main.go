// Package main is the entry point for the qemlab noisy quantum
// simulation service. It serves the device simulation API, runs
// scheduled noise-sweep grids over the registered molecular systems
// and persists their results.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/qemlab/internal/config"
	"github.com/aristath/qemlab/internal/database"
	"github.com/aristath/qemlab/internal/events"
	"github.com/aristath/qemlab/internal/modules/experiments"
	"github.com/aristath/qemlab/internal/modules/systems"
	"github.com/aristath/qemlab/internal/scheduler"
	"github.com/aristath/qemlab/internal/server"
	"github.com/aristath/qemlab/pkg/logger"
)

func main() {
	// Load configuration first to get the log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting qemlab")

	// Results database holds sweep runs and their grid points
	resultsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "results.db"),
		Profile: database.ProfileResults,
		Name:    "results",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open results database")
	}
	defer resultsDB.Close()

	resultRepo, err := experiments.NewResultRepository(resultsDB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize result repository")
	}

	// Reference-energy cache persists between runs
	energyCache, err := systems.NewCache(filepath.Join(cfg.DataDir, "energies.msgpack"), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open energy cache")
	}
	defer func() {
		if err := energyCache.Save(); err != nil {
			log.Warn().Err(err).Msg("Failed to persist energy cache")
		}
	}()

	evaluator, err := experiments.NewEvaluator(
		energyCache,
		cfg.SweepBootstraps,
		cfg.SweepShotBudget,
		uint64(time.Now().UnixNano()),
		log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize evaluator")
	}

	eventBus := events.NewBus()
	gridRunner := experiments.NewGridRunner(evaluator, resultRepo, eventBus, cfg.DataDir, cfg.DefaultNoiseType, log)
	sweepJob := experiments.NewSweepJob(gridRunner, 30*time.Minute, log)

	// Scheduler runs periodic sweeps when enabled
	sched := scheduler.New(log)
	if cfg.SweepEnabled {
		if err := sched.AddJob(cfg.SweepSchedule, sweepJob); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.SweepSchedule).Msg("Failed to schedule sweep job")
		}
		sched.Start()
		defer sched.Stop()
		log.Info().Str("schedule", cfg.SweepSchedule).Msg("Scheduled periodic grid sweeps")
	}

	srv := server.New(server.Config{
		Log:        log,
		Config:     cfg,
		ResultsDB:  resultsDB,
		EventBus:   eventBus,
		GridRunner: gridRunner,
		ResultRepo: resultRepo,
		Port:       cfg.Port,
		DevMode:    cfg.DevMode,
	})
	srv.SetSweepJob(sweepJob)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	// Checkpoint the WAL so the results database is compact on disk
	if err := resultsDB.WALCheckpoint("TRUNCATE"); err != nil {
		log.Warn().Err(err).Msg("WAL checkpoint failed")
	}

	log.Info().Msg("Shutdown complete")
}
