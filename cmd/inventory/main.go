package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/smart-inventory/inventory/internal/app"
	"github.com/smart-inventory/inventory/internal/audit"
	audithttp "github.com/smart-inventory/inventory/internal/audit/http"
	"github.com/smart-inventory/inventory/internal/auth"
	"github.com/smart-inventory/inventory/internal/inventory"
	"github.com/smart-inventory/inventory/internal/masterdata"
	"github.com/smart-inventory/inventory/internal/observability"
	"github.com/smart-inventory/inventory/internal/platform/cache"
	"github.com/smart-inventory/inventory/internal/platform/db"
	"github.com/smart-inventory/inventory/internal/reports"
	"github.com/smart-inventory/inventory/internal/shared"
	"github.com/smart-inventory/inventory/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: cfg.PGMaxConns, MaxConnLifetime: cfg.PGMaxConnLife})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, reports run uncached", slog.Any("error", err))
		redisClient = nil
	}
	if redisClient != nil {
		defer func(c *redis.Client) {
			if err := c.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}(redisClient)
	}

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	if err := reportCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("report cache invalidation listener", slog.Any("error", err))
	}
	reportService := reports.NewService(reports.NewRepository(dbpool), reportCache, logger)

	events := inventory.EventHandlers{reportService}
	var jobsHandler *jobs.Handler
	if redisClient != nil {
		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
		jobClient := jobs.NewClient(redisOpts)
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		events = append(events, &jobs.LowStockEnqueuer{Queue: jobClient, Logger: logger})

		inspector := asynq.NewInspector(redisOpts)
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobsHandler = jobs.NewHandler(inspector, logger)
	}

	inventoryService := inventory.NewService(
		inventory.NewRepository(dbpool),
		auditLogger,
		idempotencyStore,
		inventory.ServiceConfig{Logger: logger, Metrics: metrics},
		events,
	)
	masterData := masterdata.NewModule(dbpool, reportService, auditLogger, logger)

	authRepo, err := auth.NewStaticRepository(cfg.AdminUsername, cfg.AdminPassword, bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash admin password", slog.Any("error", err))
		os.Exit(1)
	}
	authService := auth.NewService(authRepo, cfg.AdminToken, cfg.AdminUsername)

	router := app.NewRouter(app.RouterParams{
		Logger:  logger,
		Config:  cfg,
		Metrics: metrics,
		DB:      dbpool,
		InitSchema: func(ctx context.Context) (int, error) {
			count, err := db.RunScript(ctx, dbpool, db.Schema)
			if err == nil {
				if err := reportService.Invalidate(ctx); err != nil {
					logger.Warn("invalidate reports after schema init", slog.Any("error", err))
				}
			}
			return count, err
		},
		Auth:             authService,
		AuthHandler:      auth.NewHandler(logger, authService),
		InventoryHandler: inventory.NewHandler(logger, inventoryService),
		MasterData:       masterData,
		ReportsHandler:   reports.NewHandler(logger, reportService),
		JobsHandler:      jobsHandler,
		AuditHandler:     audithttp.NewHandler(logger, audit.NewService(audit.NewRepository(dbpool))),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
