package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobsearch-api/internal/cache"
	"jobsearch-api/internal/logging"
	"jobsearch-api/internal/search/workers"
	"jobsearch-api/pkg/models"
	"jobsearch-api/pkg/utils"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	requestID := utils.GenerateRequestID()
	logger := logging.GetGlobalLogger()

	logger.Debug("Health check requested", map[string]any{"request_id": requestID})

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler reports whether the service can accept searches. The
// worker pool must be running; the cache is always usable once constructed.
func ReadinessHandler(pool *workers.WorkerPool) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{
			"api":   "ok",
			"cache": "ok",
		}
		status := "ready"
		code := http.StatusOK

		if pool.IsRunning() {
			checks["workers"] = "ok"
		} else {
			checks["workers"] = "not running"
			status = "not ready"
			code = http.StatusServiceUnavailable
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
	})
}

// StatusHandler provides detailed service status including pool and cache
// statistics in one payload.
func StatusHandler(pool *workers.WorkerPool, resultsCache *cache.ResultsCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":    "running",
			"timestamp": time.Now(),
			"version":   version,
			"uptime":    utils.FormatDuration(time.Since(startTime)),
			"workers": map[string]any{
				"running": pool.IsRunning(),
				"stats":   pool.GetStats(),
			},
			"cache": resultsCache.GetStats(),
		})
	}
}
