package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobsearch-api/internal/cache"
	"jobsearch-api/internal/search/workers"
)

// WorkerStatsHandler exposes worker pool and per-site limiter counters
func WorkerStatsHandler(pool *workers.WorkerPool) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"running":   pool.IsRunning(),
			"pool":      pool.GetStats(),
			"sites":     pool.SiteStats(),
			"timestamp": time.Now(),
		})
	}
}

// CacheStatsHandler exposes result cache entry counts and size estimate
func CacheStatsHandler(resultsCache *cache.ResultsCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"cache":     resultsCache.GetStats(),
			"timestamp": time.Now(),
		})
	}
}
