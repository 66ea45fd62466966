package reports

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository runs the read-only report queries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CountProducts returns the number of products.
func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	return r.count(ctx, "count products", `SELECT COUNT(*) FROM product`)
}

// CountLowStock returns the number of products below their reorder level.
func (r *Repository) CountLowStock(ctx context.Context) (int64, error) {
	return r.count(ctx, "count low stock", `SELECT COUNT(*) FROM product WHERE quantity < reorderlevel`)
}

// CountCustomers returns the number of customers.
func (r *Repository) CountCustomers(ctx context.Context) (int64, error) {
	return r.count(ctx, "count customers", `SELECT COUNT(*) FROM customer`)
}

// SumSales returns the revenue of all recorded sales.
func (r *Repository) SumSales(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(totalamount), 0) FROM sales`).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("reports: sum sales: %w", err)
	}
	return total, nil
}

// LowStock lists products below their reorder level, largest shortfall first.
func (r *Repository) LowStock(ctx context.Context) ([]LowStockProduct, error) {
	rows, err := r.pool.Query(ctx, `SELECT "ProductID", "ProductName", COALESCE("Category", ''), "Quantity",
       "ReorderLevel", "Price", "QuantityNeeded", "SupplierName"
FROM lowstockproducts
ORDER BY "QuantityNeeded" DESC, "ProductID"`)
	if err != nil {
		return nil, fmt.Errorf("reports: low stock: %w", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByPos[LowStockProduct])
	if err != nil {
		return nil, fmt.Errorf("reports: scan low stock: %w", err)
	}
	return products, nil
}

// SalesSummary lists the most recent sales.
func (r *Repository) SalesSummary(ctx context.Context, limit int) ([]SaleSummary, error) {
	rows, err := r.pool.Query(ctx, `SELECT "SaleID", "SaleDate", "ProductName", "CustomerName", "QuantitySold",
       "TotalAmount", COALESCE("Category", '')
FROM salessummary
ORDER BY "SaleDate" DESC, "SaleID" DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("reports: sales summary: %w", err)
	}
	sales, err := pgx.CollectRows(rows, pgx.RowToStructByPos[SaleSummary])
	if err != nil {
		return nil, fmt.Errorf("reports: scan sales summary: %w", err)
	}
	return sales, nil
}

// TopProducts ranks products by units sold.
func (r *Repository) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	rows, err := r.pool.Query(ctx, `SELECT p.productid, p.productname, SUM(s.quantitysold)::BIGINT AS totalsold,
       SUM(s.totalamount) AS revenue
FROM sales s
JOIN product p ON s.productid = p.productid
GROUP BY p.productid, p.productname
ORDER BY totalsold DESC, p.productid
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("reports: top products: %w", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByPos[TopProduct])
	if err != nil {
		return nil, fmt.Errorf("reports: scan top products: %w", err)
	}
	return products, nil
}

// LowStockIDs returns the ids of products below their reorder level.
func (r *Repository) LowStockIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT productid FROM product WHERE quantity < reorderlevel ORDER BY productid`)
	if err != nil {
		return nil, fmt.Errorf("reports: low stock ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("reports: scan low stock ids: %w", err)
	}
	return ids, nil
}

func (r *Repository) count(ctx context.Context, op, query string) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("reports: %s: %w", op, err)
	}
	return n, nil
}
