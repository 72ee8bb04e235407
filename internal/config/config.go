// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for databases, sweep CSVs and caches (always absolute)
	Port     int
	LogLevel string
	DevMode  bool

	// Device defaults used by the HTTP surface when a request omits them.
	DefaultNoiseType  string
	DefaultNoiseGamma float64

	// Sweep configuration.
	SweepEnabled    bool   // Run the periodic grid sweep job
	SweepSchedule   string // Cron schedule for the grid sweep
	SweepBootstraps int    // Bootstrap resamples per grid point
	SweepShotBudget int    // Physical shot budget N for sampling sigma
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory:
	// 1. QEMLAB_DATA_DIR environment variable
	// 2. Fallback to ./data
	// Always resolved to an absolute path, created if missing.
	dataDir := getEnv("QEMLAB_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:           absDataDir,
		Port:              getEnvAsInt("QEMLAB_PORT", 8010),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		DefaultNoiseType:  getEnv("QEMLAB_NOISE_TYPE", "composite"),
		DefaultNoiseGamma: getEnvAsFloat("QEMLAB_NOISE_GAMMA", 0.05),
		SweepEnabled:      getEnvAsBool("QEMLAB_SWEEP_ENABLED", false),
		SweepSchedule:     getEnv("QEMLAB_SWEEP_SCHEDULE", "@daily"),
		SweepBootstraps:   getEnvAsInt("QEMLAB_SWEEP_BOOTSTRAPS", 50),
		SweepShotBudget:   getEnvAsInt("QEMLAB_SWEEP_SHOTS", 10000),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and consistent
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.DefaultNoiseGamma < 0 || c.DefaultNoiseGamma > 1 {
		return fmt.Errorf("QEMLAB_NOISE_GAMMA must be in [0, 1], got %v", c.DefaultNoiseGamma)
	}
	if c.SweepBootstraps < 1 {
		return fmt.Errorf("QEMLAB_SWEEP_BOOTSTRAPS must be positive, got %d", c.SweepBootstraps)
	}
	if c.SweepShotBudget < 1 {
		return fmt.Errorf("QEMLAB_SWEEP_SHOTS must be positive, got %d", c.SweepShotBudget)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
