package masterdata

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smart-inventory/inventory/internal/masterdata/customers"
	"github.com/smart-inventory/inventory/internal/masterdata/products"
	mdshared "github.com/smart-inventory/inventory/internal/masterdata/shared"
	"github.com/smart-inventory/inventory/internal/masterdata/suppliers"
)

// Module bundles the product, supplier and customer services.
type Module struct {
	Products  *products.Service
	Suppliers *suppliers.Service
	Customers *customers.Service
	logger    *slog.Logger
}

// NewModule wires the Postgres repositories. Every write invalidates cache.
func NewModule(pool *pgxpool.Pool, cache mdshared.Invalidator, audit mdshared.AuditPort, logger *slog.Logger) *Module {
	return &Module{
		Products:  products.NewService(products.NewRepository(pool), cache, audit, logger),
		Suppliers: suppliers.NewService(suppliers.NewRepository(pool), cache, audit, logger),
		Customers: customers.NewService(customers.NewRepository(pool), cache, audit, logger),
		logger:    logger,
	}
}

// MountRoutes registers master data routes.
func (m *Module) MountRoutes(r chi.Router) {
	r.Route("/products", products.NewHandler(m.logger, m.Products).MountRoutes)
	r.Route("/suppliers", suppliers.NewHandler(m.logger, m.Suppliers).MountRoutes)
	r.Route("/customers", customers.NewHandler(m.logger, m.Customers).MountRoutes)
}
