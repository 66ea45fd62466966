package suppliers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	mdshared "github.com/smart-inventory/inventory/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters mdshared.ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, form SupplierForm) (int64, error)
	Update(ctx context.Context, id int64, form SupplierForm) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const selectSupplier = `SELECT supplierid, suppliername, COALESCE(contactperson, ''), COALESCE(phone, ''),
       COALESCE(email, ''), COALESCE(address, '')
FROM supplier`

const searchClause = ` WHERE ($1 = '' OR suppliername ILIKE $1 OR contactperson ILIKE $1 OR email ILIKE $1)`

func (r *repository) List(ctx context.Context, filters mdshared.ListFilters) ([]Supplier, int, error) {
	pattern := filters.Pattern()
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM supplier`+searchClause, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("suppliers: count: %w", err)
	}
	rows, err := r.db.Query(ctx, selectSupplier+searchClause+` ORDER BY supplierid DESC LIMIT $2 OFFSET $3`,
		pattern, filters.Limit, filters.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("suppliers: list: %w", err)
	}
	suppliers, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Supplier])
	if err != nil {
		return nil, 0, fmt.Errorf("suppliers: scan: %w", err)
	}
	return suppliers, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	rows, err := r.db.Query(ctx, selectSupplier+` WHERE supplierid = $1`, id)
	if err != nil {
		return Supplier{}, fmt.Errorf("suppliers: get: %w", err)
	}
	supplier, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[Supplier])
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, ErrNotFound
	}
	if err != nil {
		return Supplier{}, fmt.Errorf("suppliers: get: %w", err)
	}
	return supplier, nil
}

func (r *repository) Create(ctx context.Context, form SupplierForm) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO supplier (suppliername, contactperson, phone, email, address)
VALUES ($1, $2, $3, $4, $5)
RETURNING supplierid`, form.Name, form.ContactPerson, form.Phone, form.Email, form.Address).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("suppliers: create: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, form SupplierForm) error {
	tag, err := r.db.Exec(ctx, `UPDATE supplier
SET suppliername = $1, contactperson = $2, phone = $3, email = $4, address = $5
WHERE supplierid = $6`, form.Name, form.ContactPerson, form.Phone, form.Email, form.Address, id)
	if err != nil {
		return fmt.Errorf("suppliers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the supplier. Products keep existing with no supplier and
// the supplier's purchases are removed with it.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM supplier WHERE supplierid = $1`, id)
	if err != nil {
		return fmt.Errorf("suppliers: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
