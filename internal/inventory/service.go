package inventory

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smart-inventory/inventory/internal/shared"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListSales(ctx context.Context, filter ListFilter) ([]Sale, error)
	ListPurchases(ctx context.Context, filter ListFilter) ([]Purchase, error)
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// IdempotencyPort claims and releases request keys.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key, module string) error
}

// MetricsPort records the outcome of ledger operations.
type MetricsPort interface {
	ObserveLedger(operation, outcome string, elapsed time.Duration)
}

// ServiceConfig groups optional collaborators.
type ServiceConfig struct {
	Logger  *slog.Logger
	Metrics MetricsPort
}

// Service records sales and purchases against product stock.
type Service struct {
	repo        RepositoryPort
	audit       AuditPort
	idempotency IdempotencyPort
	events      EventHandler
	metrics     MetricsPort
	logger      *slog.Logger
}

// NewService builds Service.
func NewService(repo RepositoryPort, audit AuditPort, idem IdempotencyPort, cfg ServiceConfig, events EventHandler) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, idempotency: idem, events: events, metrics: cfg.Metrics, logger: logger}
}

// RecordSale decrements stock and appends a sale row in one transaction.
// The product row stays locked until commit so concurrent sales of the same
// product are applied one after another.
func (s *Service) RecordSale(ctx context.Context, input SaleInput) (_ Sale, err error) {
	start := time.Now()
	defer func() { s.observe("sale", err, start) }()

	release, err := s.claim(ctx, input.IdempotencyKey, ModuleSale)
	if err != nil {
		return Sale{}, err
	}

	var (
		sale Sale
		evt  SaleRecordedEvent
	)
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		product, err := tx.LockProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if input.QuantitySold <= 0 {
			return ErrQuantitySoldNotPositive
		}
		if input.QuantitySold > product.Quantity {
			return ErrInsufficientStock
		}
		total := product.Price.Mul(decimal.NewFromInt(input.QuantitySold)).Round(2)
		if total.GreaterThan(MaxAmount) {
			return ErrTotalOutOfRange
		}
		sale, err = tx.InsertSale(ctx, Sale{
			ProductID:    input.ProductID,
			CustomerID:   input.CustomerID,
			ProductName:  product.Name,
			QuantitySold: input.QuantitySold,
			TotalAmount:  total,
		})
		if err != nil {
			return err
		}
		stockAfter, err := tx.AdjustQuantity(ctx, input.ProductID, -input.QuantitySold)
		if err != nil {
			return err
		}
		evt = SaleRecordedEvent{
			SaleID:       sale.ID,
			ProductID:    input.ProductID,
			CustomerID:   input.CustomerID,
			QuantitySold: input.QuantitySold,
			StockAfter:   stockAfter,
			ReorderLevel: product.ReorderLevel,
			RecordedAt:   sale.SaleDate,
		}
		return nil
	})
	if err != nil {
		release()
		return Sale{}, err
	}

	s.record(ctx, shared.AuditLog{
		Actor:    input.Actor,
		Action:   "sale.recorded",
		Entity:   "sales",
		EntityID: strconv.FormatInt(sale.ID, 10),
		Meta: map[string]any{
			"product_id":    input.ProductID,
			"customer_id":   input.CustomerID,
			"quantity_sold": input.QuantitySold,
			"total_amount":  sale.TotalAmount.StringFixed(2),
			"stock_after":   evt.StockAfter,
		},
	})
	if s.events != nil {
		if err := s.events.HandleSaleRecorded(ctx, evt); err != nil {
			s.logger.Warn("sale event handlers failed", slog.Int64("sale_id", sale.ID), slog.Any("error", err))
		}
	}
	return sale, nil
}

// RecordPurchase increments stock and appends a purchase row in one transaction.
func (s *Service) RecordPurchase(ctx context.Context, input PurchaseInput) (_ Purchase, err error) {
	start := time.Now()
	defer func() { s.observe("purchase", err, start) }()

	if input.QuantityPurchased <= 0 || input.UnitCost.IsNegative() {
		return Purchase{}, ErrInvalidPurchase
	}
	unitCost := input.UnitCost.Round(2)
	total := unitCost.Mul(decimal.NewFromInt(input.QuantityPurchased))
	if unitCost.GreaterThan(MaxAmount) || total.GreaterThan(MaxAmount) {
		return Purchase{}, ErrTotalOutOfRange
	}

	release, err := s.claim(ctx, input.IdempotencyKey, ModulePurchase)
	if err != nil {
		return Purchase{}, err
	}

	var (
		purchase Purchase
		evt      PurchaseRecordedEvent
	)
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		product, err := tx.LockProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}
		purchase, err = tx.InsertPurchase(ctx, Purchase{
			ProductID:         input.ProductID,
			SupplierID:        input.SupplierID,
			ProductName:       product.Name,
			QuantityPurchased: input.QuantityPurchased,
			UnitCost:          unitCost,
			TotalCost:         total,
		})
		if err != nil {
			return err
		}
		stockAfter, err := tx.AdjustQuantity(ctx, input.ProductID, input.QuantityPurchased)
		if err != nil {
			return err
		}
		evt = PurchaseRecordedEvent{
			PurchaseID:        purchase.ID,
			ProductID:         input.ProductID,
			SupplierID:        input.SupplierID,
			QuantityPurchased: input.QuantityPurchased,
			StockAfter:        stockAfter,
			RecordedAt:        purchase.PurchaseDate,
		}
		return nil
	})
	if err != nil {
		release()
		return Purchase{}, err
	}

	s.record(ctx, shared.AuditLog{
		Actor:    input.Actor,
		Action:   "purchase.recorded",
		Entity:   "purchase",
		EntityID: strconv.FormatInt(purchase.ID, 10),
		Meta: map[string]any{
			"product_id":         input.ProductID,
			"supplier_id":        input.SupplierID,
			"quantity_purchased": input.QuantityPurchased,
			"unit_cost":          unitCost.StringFixed(2),
			"total_cost":         total.StringFixed(2),
			"stock_after":        evt.StockAfter,
		},
	})
	if s.events != nil {
		if err := s.events.HandlePurchaseRecorded(ctx, evt); err != nil {
			s.logger.Warn("purchase event handlers failed", slog.Int64("purchase_id", purchase.ID), slog.Any("error", err))
		}
	}
	return purchase, nil
}

// ListSales lists recorded sales.
func (s *Service) ListSales(ctx context.Context, filter ListFilter) ([]Sale, error) {
	return s.repo.ListSales(ctx, filter)
}

// ListPurchases lists recorded purchases.
func (s *Service) ListPurchases(ctx context.Context, filter ListFilter) ([]Purchase, error) {
	return s.repo.ListPurchases(ctx, filter)
}

// claim reserves an idempotency key and returns the func that frees it again.
func (s *Service) claim(ctx context.Context, key, module string) (func(), error) {
	if key == "" || s.idempotency == nil {
		return func() {}, nil
	}
	if err := s.idempotency.CheckAndInsert(ctx, key, module); err != nil {
		return nil, err
	}
	return func() {
		if err := s.idempotency.Delete(context.WithoutCancel(ctx), key, module); err != nil {
			s.logger.Warn("release idempotency key", slog.String("module", module), slog.Any("error", err))
		}
	}, nil
}

func (s *Service) record(ctx context.Context, log shared.AuditLog) {
	if s.audit == nil {
		return
	}
	if log.Actor == "" {
		log.Actor = shared.ActorFromContext(ctx)
	}
	if err := s.audit.Record(ctx, log); err != nil {
		s.logger.Warn("audit record failed", slog.String("action", log.Action), slog.String("entity_id", log.EntityID), slog.Any("error", err))
	}
}

func (s *Service) observe(operation string, err error, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveLedger(operation, shared.Classify(err), time.Since(start))
}
