package reports

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/smart-inventory/inventory/internal/inventory"
)

// RepositoryPort lists the queries the report service relies on.
type RepositoryPort interface {
	CountProducts(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	SumSales(ctx context.Context) (decimal.Decimal, error)
	LowStock(ctx context.Context) ([]LowStockProduct, error)
	SalesSummary(ctx context.Context, limit int) ([]SaleSummary, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
}

// Service coordinates report queries with the cache layer.
type Service struct {
	repo   RepositoryPort
	cache  *Cache
	logger *slog.Logger
}

// NewService wires a repository with a cache helper. The cache may be nil.
func NewService(repo RepositoryPort, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Dashboard returns the headline counts, computed concurrently on a miss.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	err := s.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return s.loadDashboard(ctx)
	}, "dashboard")
	return out, err
}

// LowStock lists products under their reorder level.
func (s *Service) LowStock(ctx context.Context) ([]LowStockProduct, error) {
	out := []LowStockProduct{}
	err := s.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return s.repo.LowStock(ctx)
	}, "low_stock")
	return nonNil(out), err
}

// SalesSummary lists the 50 most recent sales.
func (s *Service) SalesSummary(ctx context.Context) ([]SaleSummary, error) {
	out := []SaleSummary{}
	err := s.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return s.repo.SalesSummary(ctx, salesSummaryLimit)
	}, "sales_summary")
	return nonNil(out), err
}

// TopProducts lists the ten best selling products.
func (s *Service) TopProducts(ctx context.Context) ([]TopProduct, error) {
	out := []TopProduct{}
	err := s.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return s.repo.TopProducts(ctx, topProductsLimit)
	}, "top_products")
	return nonNil(out), err
}

// Warmup precomputes every report into the cache.
func (s *Service) Warmup(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { _, err := s.Dashboard(ctx); return err })
	g.Go(func() error { _, err := s.LowStock(ctx); return err })
	g.Go(func() error { _, err := s.SalesSummary(ctx); return err })
	g.Go(func() error { _, err := s.TopProducts(ctx); return err })
	return g.Wait()
}

// Invalidate bumps the cache version so the next read recomputes.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// HandleSaleRecorded invalidates reports after a committed sale.
func (s *Service) HandleSaleRecorded(ctx context.Context, _ inventory.SaleRecordedEvent) error {
	return s.Invalidate(ctx)
}

// HandlePurchaseRecorded invalidates reports after a committed purchase.
func (s *Service) HandlePurchaseRecorded(ctx context.Context, _ inventory.PurchaseRecordedEvent) error {
	return s.Invalidate(ctx)
}

func (s *Service) loadDashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountProducts(ctx)
		out.TotalProducts = n
		return err
	})
	g.Go(func() error {
		total, err := s.repo.SumSales(ctx)
		out.TotalSales = total
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountLowStock(ctx)
		out.LowStockCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountCustomers(ctx)
		out.TotalCustomers = n
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}

// cached serves dest from Redis, falling back to the loader when Redis is
// unreachable so reports keep working without the cache.
func (s *Service) cached(ctx context.Context, dest any, loader func(context.Context) (any, error), parts ...string) error {
	key, err := s.cache.BuildKey(ctx, parts...)
	if err == nil {
		err = s.cache.FetchJSON(ctx, key, dest, loader)
		var loadErr loadError
		if errors.As(err, &loadErr) {
			return loadErr.err
		}
		if err == nil || ctx.Err() != nil {
			return err
		}
	}
	s.logger.Warn("report cache unavailable", slog.String("report", parts[0]), slog.Any("error", err))
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	return roundTrip(value, dest)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
