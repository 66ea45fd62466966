package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smart-inventory/inventory/internal/platform/db"
)

const defaultListLimit = 500

// Repository persists ledger data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes transactional operations used by service.
type TxRepository interface {
	LockProduct(ctx context.Context, productID int64) (ProductStock, error)
	InsertSale(ctx context.Context, sale Sale) (Sale, error)
	InsertPurchase(ctx context.Context, purchase Purchase) (Purchase, error)
	AdjustQuantity(ctx context.Context, productID, delta int64) (int64, error)
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a read-committed transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("inventory repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

// ListSales returns sales joined with product and customer names, newest first.
func (r *Repository) ListSales(ctx context.Context, filter ListFilter) ([]Sale, error) {
	rows, err := r.pool.Query(ctx, `SELECT s.saleid, s.saledate, s.productid, s.customerid, p.productname, c.customername, s.quantitysold, s.totalamount
FROM sales s
JOIN product p ON s.productid = p.productid
JOIN customer c ON s.customerid = c.customerid
ORDER BY s.saledate DESC, s.saleid DESC
LIMIT $1`, listLimit(filter))
	if err != nil {
		return nil, fmt.Errorf("inventory: list sales: %w", err)
	}
	defer rows.Close()
	sales := []Sale{}
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.SaleDate, &sale.ProductID, &sale.CustomerID, &sale.ProductName, &sale.CustomerName, &sale.QuantitySold, &sale.TotalAmount); err != nil {
			return nil, fmt.Errorf("inventory: scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory: list sales: %w", err)
	}
	return sales, nil
}

// ListPurchases returns purchases joined with product and supplier names, newest first.
func (r *Repository) ListPurchases(ctx context.Context, filter ListFilter) ([]Purchase, error) {
	rows, err := r.pool.Query(ctx, `SELECT pu.purchaseid, pu.purchasedate, pu.productid, pu.supplierid, p.productname, s.suppliername, pu.quantitypurchased, pu.unitcost, pu.totalcost
FROM purchase pu
JOIN product p ON pu.productid = p.productid
JOIN supplier s ON pu.supplierid = s.supplierid
ORDER BY pu.purchasedate DESC, pu.purchaseid DESC
LIMIT $1`, listLimit(filter))
	if err != nil {
		return nil, fmt.Errorf("inventory: list purchases: %w", err)
	}
	defer rows.Close()
	purchases := []Purchase{}
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.PurchaseDate, &p.ProductID, &p.SupplierID, &p.ProductName, &p.SupplierName, &p.QuantityPurchased, &p.UnitCost, &p.TotalCost); err != nil {
			return nil, fmt.Errorf("inventory: scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory: list purchases: %w", err)
	}
	return purchases, nil
}

// GetProductStock reads a product without locking it.
func (r *Repository) GetProductStock(ctx context.Context, productID int64) (ProductStock, error) {
	return scanProductStock(r.pool.QueryRow(ctx, `SELECT productid, productname, COALESCE(quantity, 0), price, COALESCE(reorderlevel, 10)
FROM product WHERE productid = $1`, productID))
}

func (r *txRepository) LockProduct(ctx context.Context, productID int64) (ProductStock, error) {
	return scanProductStock(r.tx.QueryRow(ctx, `SELECT productid, productname, COALESCE(quantity, 0), price, COALESCE(reorderlevel, 10)
FROM product WHERE productid = $1 FOR UPDATE`, productID))
}

func (r *txRepository) InsertSale(ctx context.Context, sale Sale) (Sale, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO sales (productid, customerid, quantitysold, totalamount)
VALUES ($1, $2, $3, $4) RETURNING saleid, saledate`, sale.ProductID, sale.CustomerID, sale.QuantitySold, sale.TotalAmount).
		Scan(&sale.ID, &sale.SaleDate)
	if err != nil {
		switch {
		case db.HasCode(err, db.CodeForeignKeyViolation):
			return Sale{}, ErrCustomerNotFound
		case db.HasCode(err, db.CodeNumericOutOfRange):
			return Sale{}, ErrTotalOutOfRange
		}
		return Sale{}, fmt.Errorf("inventory: insert sale: %w", err)
	}
	return sale, nil
}

func (r *txRepository) InsertPurchase(ctx context.Context, p Purchase) (Purchase, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO purchase (productid, supplierid, quantitypurchased, unitcost, totalcost)
VALUES ($1, $2, $3, $4, $5) RETURNING purchaseid, purchasedate`, p.ProductID, p.SupplierID, p.QuantityPurchased, p.UnitCost, p.TotalCost).
		Scan(&p.ID, &p.PurchaseDate)
	if err != nil {
		switch {
		case db.HasCode(err, db.CodeForeignKeyViolation):
			return Purchase{}, ErrSupplierNotFound
		case db.HasCode(err, db.CodeNumericOutOfRange):
			return Purchase{}, ErrTotalOutOfRange
		}
		return Purchase{}, fmt.Errorf("inventory: insert purchase: %w", err)
	}
	return p, nil
}

func (r *txRepository) AdjustQuantity(ctx context.Context, productID, delta int64) (int64, error) {
	var quantity int64
	err := r.tx.QueryRow(ctx, `UPDATE product SET quantity = COALESCE(quantity, 0) + $2 WHERE productid = $1 RETURNING quantity`, productID, delta).Scan(&quantity)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return 0, ErrProductNotFound
		case db.HasCode(err, db.CodeNumericOutOfRange):
			return 0, ErrQuantityOutOfRange
		}
		return 0, fmt.Errorf("inventory: adjust quantity: %w", err)
	}
	return quantity, nil
}

func scanProductStock(row pgx.Row) (ProductStock, error) {
	var stock ProductStock
	if err := row.Scan(&stock.ProductID, &stock.Name, &stock.Quantity, &stock.Price, &stock.ReorderLevel); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductStock{}, ErrProductNotFound
		}
		return ProductStock{}, fmt.Errorf("inventory: read product: %w", err)
	}
	return stock, nil
}

func listLimit(filter ListFilter) int {
	if filter.Limit <= 0 || filter.Limit > defaultListLimit {
		return defaultListLimit
	}
	return filter.Limit
}
