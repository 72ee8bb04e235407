package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/qemlab/internal/database"
	"github.com/aristath/qemlab/internal/scheduler"
)

// SystemHandlers provides system monitoring endpoints
type SystemHandlers struct {
	log       zerolog.Logger
	dataDir   string
	resultsDB *database.DB
	sweepJob  scheduler.Job
	startTime time.Time
}

// NewSystemHandlers creates system handlers
func NewSystemHandlers(log zerolog.Logger, dataDir string, resultsDB *database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("component", "system_handlers").Logger(),
		dataDir:   dataDir,
		resultsDB: resultsDB,
		startTime: time.Now(),
	}
}

// SetSweepJob registers the sweep job for manual triggering
func (h *SystemHandlers) SetSweepJob(job scheduler.Job) {
	h.sweepJob = job
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.getSystemStats()

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"status":         "running",
			"uptime_seconds": int(time.Since(h.startTime).Seconds()),
			"cpu_percent":    cpuPercent,
			"memory_percent": memPercent,
			"goroutines":     runtime.NumGoroutine(),
			"data_dir":       h.dataDir,
			"data_size_mb":   h.getDirSize(h.dataDir),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, response)
}

// HandleDatabaseStats handles GET /api/system/database/stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"name":    h.resultsDB.Name(),
		"path":    h.resultsDB.Path(),
		"profile": string(h.resultsDB.Profile()),
	}

	if info, err := os.Stat(h.resultsDB.Path()); err == nil {
		stats["size_mb"] = float64(info.Size()) / 1024 / 1024
	}

	if err := h.resultsDB.HealthCheck(r.Context()); err != nil {
		stats["healthy"] = false
		h.log.Warn().Err(err).Msg("Results database health check failed")
	} else {
		stats["healthy"] = true
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"databases": []interface{}{stats},
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, response)
}

// HandleTriggerSweep handles POST /api/system/jobs/grid-sweep
func (h *SystemHandlers) HandleTriggerSweep(w http.ResponseWriter, r *http.Request) {
	if h.sweepJob == nil {
		h.log.Warn().Msg("Sweep job not registered yet")
		h.writeJSON(w, map[string]string{
			"status":  "error",
			"message": "Sweep job not registered",
		})
		return
	}

	h.log.Info().Msg("Manual grid sweep triggered")

	go func() {
		if err := h.sweepJob.Run(); err != nil {
			h.log.Error().Err(err).Msg("Manually triggered sweep failed")
		}
	}()

	h.writeJSON(w, map[string]string{
		"status":  "success",
		"message": "Grid sweep triggered successfully",
	})
}

// getSystemStats calculates CPU and RAM usage percentages.
// The CPU sample interval is kept short so status calls stay fast.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	var totalSize int64

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})

	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
