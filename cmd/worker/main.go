package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/smart-inventory/inventory/internal/app"
	"github.com/smart-inventory/inventory/internal/inventory"
	"github.com/smart-inventory/inventory/internal/observability"
	"github.com/smart-inventory/inventory/internal/platform/cache"
	"github.com/smart-inventory/inventory/internal/platform/db"
	"github.com/smart-inventory/inventory/internal/reports"
	"github.com/smart-inventory/inventory/internal/shared"
	"github.com/smart-inventory/inventory/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if cfg.RedisAddr == "" {
		logger.Error("worker requires REDIS_ADDR")
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: cfg.PGMaxConns, MaxConnLifetime: cfg.PGMaxConnLife})
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	if cfg.WorkerMetricsAddr != "" {
		metricsServer := &http.Server{Addr: cfg.WorkerMetricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("serving worker metrics", slog.String("addr", cfg.WorkerMetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("worker metrics server", slog.Any("error", err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	reportsRepo := reports.NewRepository(pool)
	reportService := reports.NewService(reportsRepo, reports.NewCache(redisClient, cfg.ReportCacheTTL), logger)

	deps := jobs.Dependencies{
		Stock:       inventory.NewRepository(pool),
		Audit:       shared.NewAuditLogger(pool),
		LowStock:    reportsRepo,
		Idempotency: shared.NewIdempotencyStore(pool),
		Reports:     reportService,
		Retention:   cfg.IdempotencyRetention,
		Logger:      logger,
		Metrics:     metrics.Jobs(),
	}
	schedule := jobs.Schedule{
		LowStockScan:       cfg.LowStockScanSpec,
		ReportWarmup:       cfg.ReportWarmupSpec,
		IdempotencyCleanup: cfg.IdempotencyCleanup,
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers:  deps.Handlers(),
		Cron:      schedule.Registrations(),
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
