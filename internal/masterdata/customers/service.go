package customers

import (
	"context"
	"log/slog"
	"strconv"

	mdshared "github.com/smart-inventory/inventory/internal/masterdata/shared"
	"github.com/smart-inventory/inventory/internal/shared"
)

type Service struct {
	repo   Repository
	cache  mdshared.Invalidator
	audit  mdshared.AuditPort
	logger *slog.Logger
}

func NewService(repo Repository, cache mdshared.Invalidator, audit mdshared.AuditPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, audit: audit, logger: logger}
}

func (s *Service) List(ctx context.Context, filters mdshared.ListFilters) ([]Customer, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	if id <= 0 {
		return Customer{}, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form CustomerForm) (int64, error) {
	if err := s.validate(&form); err != nil {
		return 0, err
	}
	id, err := s.repo.Create(ctx, form)
	if err != nil {
		return 0, err
	}
	s.afterWrite(ctx, "customer.created", id)
	return id, nil
}

func (s *Service) Update(ctx context.Context, id int64, form CustomerForm) error {
	if id <= 0 {
		return ErrNotFound
	}
	if err := s.validate(&form); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, form); err != nil {
		return err
	}
	s.afterWrite(ctx, "customer.updated", id)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.afterWrite(ctx, "customer.deleted", id)
	return nil
}

func (s *Service) afterWrite(ctx context.Context, action string, id int64) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("invalidate report cache", slog.String("action", action), slog.Any("error", err))
		}
	}
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		Actor:    shared.ActorFromContext(ctx),
		Action:   action,
		Entity:   "customer",
		EntityID: strconv.FormatInt(id, 10),
	})
	if err != nil {
		s.logger.Warn("audit customer write", slog.String("action", action), slog.Any("error", err))
	}
}
