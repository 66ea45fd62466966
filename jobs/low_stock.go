package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/smart-inventory/inventory/internal/jobs"
	"github.com/smart-inventory/inventory/internal/inventory"
	"github.com/smart-inventory/inventory/internal/shared"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// StockReader loads the current stock of a product.
type StockReader interface {
	GetProductStock(ctx context.Context, productID int64) (inventory.ProductStock, error)
}

// AuditPort records alert audit rows.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// LowStockAlertJob confirms a product is still under its reorder level and
// raises an alert.
type LowStockAlertJob struct {
	Stock   StockReader
	Audit   AuditPort
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// Handle processes TaskLowStockAlert tasks.
func (j *LowStockAlertJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Stock == nil {
		return errors.New("low stock alert: handler not configured")
	}
	var payload LowStockAlertPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.ProductID <= 0 {
		return fmt.Errorf("low stock alert: bad payload: %w", asynq.SkipRetry)
	}

	tracker := metricsOrDefault(j.Metrics).Track(TaskLowStockAlert)
	defer func() { resultErr = tracker.End(resultErr) }()

	logger := loggerFor(j.Logger, TaskLowStockAlert).With(slog.Int64("product_id", payload.ProductID))
	product, err := j.Stock.GetProductStock(ctx, payload.ProductID)
	if errors.Is(err, inventory.ErrProductNotFound) {
		logger.Info("product removed before alert")
		return nil
	}
	if err != nil {
		return err
	}
	if product.Quantity >= product.ReorderLevel {
		logger.Info("stock recovered before alert", slog.Int64("quantity", product.Quantity))
		return nil
	}

	logger.Warn("low stock",
		slog.String("product", product.Name),
		slog.Int64("quantity", product.Quantity),
		slog.Int64("reorder_level", product.ReorderLevel),
		slog.Int64("sale_id", payload.SaleID))
	if j.Audit != nil {
		err := j.Audit.Record(ctx, shared.AuditLog{
			Actor:    "system",
			Action:   "inventory.low_stock",
			Entity:   "product",
			EntityID: strconv.FormatInt(product.ProductID, 10),
			Meta: map[string]any{
				"quantity":      product.Quantity,
				"reorder_level": product.ReorderLevel,
				"sale_id":       payload.SaleID,
			},
		})
		if err != nil {
			return err
		}
	}
	metricsOrDefault(j.Metrics).AddAlert()
	return nil
}

// LowStockCounter lists products under their reorder level.
type LowStockCounter interface {
	LowStockIDs(ctx context.Context) ([]int64, error)
}

// LowStockScanJob publishes the number of products needing reorder.
type LowStockScanJob struct {
	Products LowStockCounter
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// Handle processes TaskLowStockScan tasks.
func (j *LowStockScanJob) Handle(ctx context.Context, _ *asynq.Task) (resultErr error) {
	if j == nil || j.Products == nil {
		return errors.New("low stock scan: handler not configured")
	}
	metrics := metricsOrDefault(j.Metrics)
	tracker := metrics.Track(TaskLowStockScan)
	defer func() { resultErr = tracker.End(resultErr) }()

	ids, err := j.Products.LowStockIDs(ctx)
	if err != nil {
		return err
	}
	metrics.SetLowStock(len(ids))
	loggerFor(j.Logger, TaskLowStockScan).Info("low stock scan complete", slog.Int("products", len(ids)), slog.Any("product_ids", ids))
	return nil
}

// LowStockEnqueuer schedules an alert whenever a committed sale leaves stock
// under the reorder level.
type LowStockEnqueuer struct {
	Queue  Enqueuer
	Logger *slog.Logger
}

// HandleSaleRecorded enqueues a TaskLowStockAlert for low stock.
func (e *LowStockEnqueuer) HandleSaleRecorded(ctx context.Context, evt inventory.SaleRecordedEvent) error {
	if e == nil || e.Queue == nil || !evt.BelowReorder() {
		return nil
	}
	task, err := NewLowStockAlertTask(LowStockAlertPayload{
		ProductID:  evt.ProductID,
		SaleID:     evt.SaleID,
		StockAfter: evt.StockAfter,
	})
	if err != nil {
		return err
	}
	if _, err := e.Queue.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("jobs: enqueue low stock alert: %w", err)
	}
	loggerFor(e.Logger, TaskLowStockAlert).Debug("low stock alert enqueued", slog.Int64("product_id", evt.ProductID))
	return nil
}

// HandlePurchaseRecorded is a no-op; purchases only raise stock.
func (e *LowStockEnqueuer) HandlePurchaseRecorded(context.Context, inventory.PurchaseRecordedEvent) error {
	return nil
}

func loggerFor(logger *slog.Logger, job string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("job", job))
}

func metricsOrDefault(m *jobmetrics.Metrics) *jobmetrics.Metrics {
	if m != nil {
		return m
	}
	return defaultJobMetrics
}
