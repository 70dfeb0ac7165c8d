package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"jobsearch-api/internal/api/routes"
	"jobsearch-api/internal/cache"
	"jobsearch-api/internal/config"
	"jobsearch-api/internal/export"
	"jobsearch-api/internal/logging"
	"jobsearch-api/internal/search"
	"jobsearch-api/internal/search/workers"
	"jobsearch-api/internal/source"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging from config before anything else logs
	if err := logging.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger := logging.GetGlobalLogger()
	logger.Info("Starting Job Search API")

	// Upstream job board source
	provider := source.NewHTTPClient(cfg)

	// Worker pool for upstream searches
	pool := workers.NewWorkerPool(cfg, provider)
	if err := pool.Start(); err != nil {
		logger.Fatal("Failed to start worker pool", map[string]any{"error": err.Error()})
	}

	// Result cache: sweep goroutine is owned here and stopped on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resultsCache := cache.New(cfg)
	if err := resultsCache.Start(ctx); err != nil {
		logger.Fatal("Failed to start results cache", map[string]any{"error": err.Error()})
	}

	svc := search.NewService(cfg, pool)
	projector := export.NewProjector()

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	routes.SetupRoutes(e, cfg, svc, pool, resultsCache, projector)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]any{"error": err.Error()})
		}

		logger.Info("Stopping worker pool...")
		if err := pool.Stop(); err != nil {
			logger.Error("Error stopping worker pool", map[string]any{"error": err.Error()})
		}

		logger.Info("Stopping results cache...")
		if err := resultsCache.Stop(); err != nil {
			logger.Error("Error stopping results cache", map[string]any{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
		_ = logging.Shutdown()
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]any{"address": address})

	if err := e.Start(address); err != nil {
		logger.Info("Server stopped", map[string]any{"reason": err.Error()})
	}
}
