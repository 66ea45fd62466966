package products

import (
	"context"
	"log/slog"
	"strconv"

	mdshared "github.com/smart-inventory/inventory/internal/masterdata/shared"
	"github.com/smart-inventory/inventory/internal/shared"
)

// Service validates product writes and keeps the report cache honest.
type Service struct {
	repo   Repository
	cache  mdshared.Invalidator
	audit  mdshared.AuditPort
	logger *slog.Logger
}

// NewService wires the product service. cache and audit may be nil.
func NewService(repo Repository, cache mdshared.Invalidator, audit mdshared.AuditPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, audit: audit, logger: logger}
}

func (s *Service) List(ctx context.Context, filters mdshared.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form ProductForm) (int64, error) {
	if err := s.validate(&form); err != nil {
		return 0, err
	}
	id, err := s.repo.Create(ctx, form)
	if err != nil {
		return 0, err
	}
	s.afterWrite(ctx, "product.created", id, map[string]any{"name": form.Name, "quantity": form.Quantity})
	return id, nil
}

func (s *Service) Update(ctx context.Context, id int64, form ProductForm) error {
	if id <= 0 {
		return ErrNotFound
	}
	if err := s.validate(&form); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, form); err != nil {
		return err
	}
	s.afterWrite(ctx, "product.updated", id, map[string]any{"name": form.Name, "price": form.Price.StringFixed(2)})
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.afterWrite(ctx, "product.deleted", id, nil)
	return nil
}

// afterWrite runs the post-commit side effects. Their failures are logged only.
func (s *Service) afterWrite(ctx context.Context, action string, id int64, meta map[string]any) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("invalidate report cache", slog.String("action", action), slog.Any("error", err))
		}
	}
	if s.audit != nil {
		err := s.audit.Record(ctx, shared.AuditLog{
			Actor:    shared.ActorFromContext(ctx),
			Action:   action,
			Entity:   "product",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     meta,
		})
		if err != nil {
			s.logger.Warn("audit product write", slog.String("action", action), slog.Any("error", err))
		}
	}
}
