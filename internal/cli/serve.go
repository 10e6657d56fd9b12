package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/orders-dashboard/internal/api"
	"github.com/eshaffer321/orders-dashboard/internal/api/middleware"
	"github.com/eshaffer321/orders-dashboard/internal/application/dashboard"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/config"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/logging"
	"github.com/eshaffer321/orders-dashboard/internal/observability"
)

const shutdownTimeout = 30 * time.Second

// RunServe runs the API server until SIGINT or SIGTERM.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logging.NewLoggerWithComponent(loggingCfg, "api")

	ctx := context.Background()
	store, err := openStore(ctx, cfg.Storage.DatabasePath, cfg.Dashboard.SeedPath, logging.WithComponent(logger, "storage"))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var metrics *observability.Metrics
	if cfg.Observability.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	dashLogger := logging.WithComponent(logger, "dashboard")
	registry, err := dashboard.LoadRegistry(ctx, store, dashboard.Options{
		DefaultPageSize: cfg.Dashboard.DefaultPageSize,
		TopProducts:     cfg.Dashboard.TopProducts,
		Sinks:           []dashboard.Sink{dashboard.LogSink{Logger: dashLogger}},
		Metrics:         metrics,
		Logger:          dashLogger,
		IdleTTL:         cfg.Dashboard.ProfileTTL,
		MaxProfiles:     cfg.Dashboard.MaxProfiles,
	})
	if err != nil {
		return err
	}
	logger.Info("orders loaded", slog.Int("count", len(registry.Records())))

	server := api.NewServer(apiConfig(cfg, flags), registry, store, metrics, logger)

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}

func apiConfig(cfg *config.Config, flags *ServeFlags) api.Config {
	apiCfg := api.DefaultConfig()
	apiCfg.Port = cfg.Server.Port
	if flags != nil && flags.Port > 0 {
		apiCfg.Port = flags.Port
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		apiCfg.AllowedOrigins = cfg.Server.AllowedOrigins
	}
	apiCfg.RateLimit = middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
		Burst:             cfg.Server.RateLimit.Burst,
		EntryTTL:          middleware.DefaultRateLimiterConfig().EntryTTL,
	}
	apiCfg.ExposeMetrics = cfg.Observability.Metrics.Enabled
	return apiCfg
}
