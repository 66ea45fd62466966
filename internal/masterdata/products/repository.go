package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	mdshared "github.com/smart-inventory/inventory/internal/masterdata/shared"
	"github.com/smart-inventory/inventory/internal/platform/db"
)

// Repository persists products.
type Repository interface {
	List(ctx context.Context, filters mdshared.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, form ProductForm) (int64, error)
	Update(ctx context.Context, id int64, form ProductForm) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the Postgres product repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const selectProduct = `SELECT p.productid, p.productname, COALESCE(p.description, ''), COALESCE(p.category, ''),
       p.price, COALESCE(p.quantity, 0), COALESCE(p.reorderlevel, 10), p.supplierid, s.suppliername
FROM product p
LEFT JOIN supplier s ON p.supplierid = s.supplierid`

const searchClause = ` WHERE ($1 = '' OR p.productname ILIKE $1 OR p.category ILIKE $1)`

func (r *repository) List(ctx context.Context, filters mdshared.ListFilters) ([]Product, int, error) {
	pattern := filters.Pattern()
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM product p`+searchClause, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("products: count: %w", err)
	}
	rows, err := r.db.Query(ctx, selectProduct+searchClause+` ORDER BY p.productid DESC LIMIT $2 OFFSET $3`,
		pattern, filters.Limit, filters.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("products: list: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("products: scan: %w", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, selectProduct+` WHERE p.productid = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("products: get: %w", err)
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, form ProductForm) (int64, error) {
	reorder := int64(defaultReorderLevel)
	if form.ReorderLevel != nil {
		reorder = *form.ReorderLevel
	}
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO product (productname, description, category, price, quantity, reorderlevel, supplierid)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING productid`, form.Name, form.Description, form.Category, form.Price, form.Quantity, reorder, form.SupplierID).Scan(&id)
	if err != nil {
		return 0, mapWriteError("create", err)
	}
	return id, nil
}

// Update rewrites the descriptive fields. Quantity is never touched here and
// an absent ReorderLevel keeps the stored one.
func (r *repository) Update(ctx context.Context, id int64, form ProductForm) error {
	tag, err := r.db.Exec(ctx, `UPDATE product
SET productname = $1, description = $2, category = $3, price = $4,
    reorderlevel = COALESCE($5, reorderlevel), supplierid = $6
WHERE productid = $7`, form.Name, form.Description, form.Category, form.Price, form.ReorderLevel, form.SupplierID, id)
	if err != nil {
		return mapWriteError("update", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM product WHERE productid = $1`, id)
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Quantity,
		&p.ReorderLevel, &p.SupplierID, &p.SupplierName)
	return p, err
}

func mapWriteError(op string, err error) error {
	switch {
	case db.HasCode(err, db.CodeForeignKeyViolation):
		return ErrSupplierNotFound
	case db.HasCode(err, db.CodeNumericOutOfRange):
		return ErrOutOfRange
	default:
		return fmt.Errorf("products: %s: %w", op, err)
	}
}
