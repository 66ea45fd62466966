package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskLowStockAlert re-checks a product after a sale left it under its
	// reorder level.
	TaskLowStockAlert = "inventory:low_stock_alert"
	// TaskLowStockScan counts every product under its reorder level.
	TaskLowStockScan = "inventory:low_stock_scan"
	// TaskIdempotencyCleanup prunes expired idempotency keys.
	TaskIdempotencyCleanup = "maintenance:idempotency_cleanup"
	// TaskReportsWarmup pre-computes cached reports.
	TaskReportsWarmup = "reports:warmup"
)

// LowStockAlertPayload identifies the product to re-check.
type LowStockAlertPayload struct {
	ProductID  int64 `json:"product_id"`
	SaleID     int64 `json:"sale_id"`
	StockAfter int64 `json:"stock_after"`
}

// NewLowStockAlertTask constructs a low-stock alert task.
func NewLowStockAlertTask(payload LowStockAlertPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockAlert, body, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}

// NewLowStockScanTask constructs the periodic low-stock scan.
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskLowStockScan, nil, asynq.Queue(QueueDefault))
}

// IdempotencyCleanupPayload carries the retention window in seconds. Zero
// falls back to the worker default.
type IdempotencyCleanupPayload struct {
	RetentionSeconds int64 `json:"retention_seconds,omitempty"`
}

// NewIdempotencyCleanupTask constructs an idempotency cleanup task.
func NewIdempotencyCleanupTask(payload IdempotencyCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyCleanup, body, asynq.Queue(QueueDefault)), nil
}

// NewReportsWarmupTask constructs a report warmup task.
func NewReportsWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskReportsWarmup, nil, asynq.Queue(QueueDefault))
}

// NewTask builds a task by type name with its default payload.
func NewTask(name string) (*asynq.Task, error) {
	switch name {
	case TaskLowStockScan:
		return NewLowStockScanTask(), nil
	case TaskIdempotencyCleanup:
		return NewIdempotencyCleanupTask(IdempotencyCleanupPayload{})
	case TaskReportsWarmup:
		return NewReportsWarmupTask(), nil
	default:
		return nil, &UnknownTaskError{Name: name}
	}
}

// UnknownTaskError reports a task name that cannot be built without input.
type UnknownTaskError struct {
	Name string
}

func (e *UnknownTaskError) Error() string {
	return "jobs: unsupported task " + e.Name
}
