package jobs

import (
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/smart-inventory/inventory/internal/jobs"
)

// Dependencies gathers the services the worker's tasks run against.
type Dependencies struct {
	Stock       StockReader
	Audit       AuditPort
	LowStock    LowStockCounter
	Idempotency IdempotencyCleaner
	Reports     ReportWarmer
	Retention   time.Duration
	Logger      *slog.Logger
	Metrics     *jobmetrics.Metrics
}

// Handlers builds the task handlers for every job with its dependency set.
func (d Dependencies) Handlers() []TaskHandler {
	var handlers []TaskHandler
	if d.Stock != nil {
		job := &LowStockAlertJob{Stock: d.Stock, Audit: d.Audit, Logger: d.Logger, Metrics: d.Metrics}
		handlers = append(handlers, TaskHandler{Type: TaskLowStockAlert, Handler: job.Handle})
	}
	if d.LowStock != nil {
		job := &LowStockScanJob{Products: d.LowStock, Logger: d.Logger, Metrics: d.Metrics}
		handlers = append(handlers, TaskHandler{Type: TaskLowStockScan, Handler: job.Handle})
	}
	if d.Idempotency != nil {
		job := &IdempotencyCleanupJob{Store: d.Idempotency, Retention: d.Retention, Logger: d.Logger, Metrics: d.Metrics}
		handlers = append(handlers, TaskHandler{Type: TaskIdempotencyCleanup, Handler: job.Handle})
	}
	if d.Reports != nil {
		job := &ReportsWarmupJob{Reports: d.Reports, Logger: d.Logger, Metrics: d.Metrics}
		handlers = append(handlers, TaskHandler{Type: TaskReportsWarmup, Handler: job.Handle})
	}
	return handlers
}

// Schedule maps cron specs to periodic tasks. Empty specs disable a task.
type Schedule struct {
	LowStockScan       string
	ReportWarmup       string
	IdempotencyCleanup string
}

// Registrations returns the cron entries for the scheduler.
func (s Schedule) Registrations() []CronRegistration {
	cleanup, _ := NewIdempotencyCleanupTask(IdempotencyCleanupPayload{})
	entries := []CronRegistration{
		{Spec: s.LowStockScan, Task: NewLowStockScanTask()},
		{Spec: s.ReportWarmup, Task: NewReportsWarmupTask()},
		{Spec: s.IdempotencyCleanup, Task: cleanup},
	}
	out := entries[:0]
	for _, e := range entries {
		if e.Spec == "" {
			continue
		}
		e.Options = []asynq.Option{asynq.MaxRetry(3)}
		out = append(out, e)
	}
	return out
}
