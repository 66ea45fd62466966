package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	mdshared "github.com/smart-inventory/inventory/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters mdshared.ListFilters) ([]Customer, int, error)
	Get(ctx context.Context, id int64) (Customer, error)
	Create(ctx context.Context, form CustomerForm) (int64, error)
	Update(ctx context.Context, id int64, form CustomerForm) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const selectCustomer = `SELECT customerid, customername, COALESCE(phone, ''),
       COALESCE(email, ''), COALESCE(address, '')
FROM customer`

const searchClause = ` WHERE ($1 = '' OR customername ILIKE $1 OR email ILIKE $1)`

func (r *repository) List(ctx context.Context, filters mdshared.ListFilters) ([]Customer, int, error) {
	pattern := filters.Pattern()
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customer`+searchClause, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("customers: count: %w", err)
	}
	rows, err := r.db.Query(ctx, selectCustomer+searchClause+` ORDER BY customerid DESC LIMIT $2 OFFSET $3`,
		pattern, filters.Limit, filters.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("customers: list: %w", err)
	}
	customers, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Customer])
	if err != nil {
		return nil, 0, fmt.Errorf("customers: scan: %w", err)
	}
	return customers, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Customer, error) {
	rows, err := r.db.Query(ctx, selectCustomer+` WHERE customerid = $1`, id)
	if err != nil {
		return Customer{}, fmt.Errorf("customers: get: %w", err)
	}
	customer, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[Customer])
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, fmt.Errorf("customers: get: %w", err)
	}
	return customer, nil
}

func (r *repository) Create(ctx context.Context, form CustomerForm) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO customer (customername, phone, email, address)
VALUES ($1, $2, $3, $4)
RETURNING customerid`, form.Name, form.Phone, form.Email, form.Address).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("customers: create: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, form CustomerForm) error {
	tag, err := r.db.Exec(ctx, `UPDATE customer
SET customername = $1, phone = $2, email = $3, address = $4
WHERE customerid = $5`, form.Name, form.Phone, form.Email, form.Address, id)
	if err != nil {
		return fmt.Errorf("customers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the customer together with the customer's sales.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customer WHERE customerid = $1`, id)
	if err != nil {
		return fmt.Errorf("customers: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
