package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"jobsearch-api/internal/api/handlers"
	"jobsearch-api/internal/api/middleware"
	"jobsearch-api/internal/cache"
	"jobsearch-api/internal/config"
	"jobsearch-api/internal/export"
	"jobsearch-api/internal/search"
	"jobsearch-api/internal/search/workers"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, svc *search.Service, pool *workers.WorkerPool, resultsCache *cache.ResultsCache, projector *export.Projector) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig(cfg.Server.AllowedOrigins))
	e.Use(middleware.RequestValidation())
	// Search endpoints wait on upstream boards and get a longer budget than
	// the rest of the surface
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout.Std(), cfg.Workers.Timeout.Std()))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(pool))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(pool, resultsCache))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		searchGroup := v1.Group("/search")
		{
			searchGroup.POST("", handlers.SearchHandler(svc, resultsCache))
			searchGroup.GET("/validate", handlers.ValidateSearchHandler(svc))
		}

		exportGroup := v1.Group("/export")
		{
			exportGroup.GET("/:search_id", handlers.ExportHandler(resultsCache, projector))
			exportGroup.GET("/:search_id/info", handlers.ExportInfoHandler(resultsCache))
		}

		// Monitoring routes
		v1.GET("/workers/stats", handlers.WorkerStatsHandler(pool))
		v1.GET("/cache/stats", handlers.CacheStatsHandler(resultsCache))
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Job Search API",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
