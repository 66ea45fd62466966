package inventory

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smart-inventory/inventory/internal/shared"
)

// Idempotency modules, one per ledger.
const (
	ModuleSale     = "inventory:sale"
	ModulePurchase = "inventory:purchase"
)

// MaxAmount is the largest total a NUMERIC(10,2) column stores.
var MaxAmount = decimal.RequireFromString("99999999.99")

// ProductStock is the locked view of a product row used by the ledger.
type ProductStock struct {
	ProductID    int64
	Name         string
	Quantity     int64
	Price        decimal.Decimal
	ReorderLevel int64
}

// BelowReorder reports whether stock sits under the reorder level.
func (p ProductStock) BelowReorder() bool {
	return p.Quantity < p.ReorderLevel
}

// Sale is an append-only ledger row.
type Sale struct {
	ID           int64           `json:"SaleID"`
	SaleDate     time.Time       `json:"SaleDate"`
	ProductID    int64           `json:"ProductID"`
	CustomerID   int64           `json:"CustomerID"`
	ProductName  string          `json:"ProductName"`
	CustomerName string          `json:"CustomerName"`
	QuantitySold int64           `json:"QuantitySold"`
	TotalAmount  decimal.Decimal `json:"TotalAmount"`
}

// Purchase is an append-only ledger row.
type Purchase struct {
	ID                int64           `json:"PurchaseID"`
	PurchaseDate      time.Time       `json:"PurchaseDate"`
	ProductID         int64           `json:"ProductID"`
	SupplierID        int64           `json:"SupplierID"`
	ProductName       string          `json:"ProductName"`
	SupplierName      string          `json:"SupplierName"`
	QuantityPurchased int64           `json:"QuantityPurchased"`
	UnitCost          decimal.Decimal `json:"UnitCost"`
	TotalCost         decimal.Decimal `json:"TotalCost"`
}

// MarshalJSON renders money with two decimals.
func (s Sale) MarshalJSON() ([]byte, error) {
	type alias Sale
	return json.Marshal(struct {
		alias
		TotalAmount string `json:"TotalAmount"`
	}{alias(s), s.TotalAmount.StringFixed(2)})
}

// MarshalJSON renders money with two decimals.
func (p Purchase) MarshalJSON() ([]byte, error) {
	type alias Purchase
	return json.Marshal(struct {
		alias
		UnitCost  string `json:"UnitCost"`
		TotalCost string `json:"TotalCost"`
	}{alias(p), p.UnitCost.StringFixed(2), p.TotalCost.StringFixed(2)})
}

// SaleInput describes a request to record a sale.
type SaleInput struct {
	ProductID      int64
	CustomerID     int64
	QuantitySold   int64
	Actor          string
	IdempotencyKey string
}

// PurchaseInput describes a request to record a purchase.
type PurchaseInput struct {
	ProductID         int64
	SupplierID        int64
	QuantityPurchased int64
	UnitCost          decimal.Decimal
	Actor             string
	IdempotencyKey    string
}

// ListFilter bounds ledger listings.
type ListFilter struct {
	Limit int
}

var (
	// ErrProductNotFound indicates the product row does not exist.
	ErrProductNotFound = shared.NotFoundError("Product not found")
	// ErrCustomerNotFound indicates the customer row does not exist.
	ErrCustomerNotFound = shared.NotFoundError("Customer not found")
	// ErrSupplierNotFound indicates the supplier row does not exist.
	ErrSupplierNotFound = shared.NotFoundError("Supplier not found")
	// ErrQuantitySoldNotPositive rejects zero sales.
	ErrQuantitySoldNotPositive = shared.BusinessRuleError("QuantitySold must be greater than 0")
	// ErrInsufficientStock rejects sales exceeding stock on hand.
	ErrInsufficientStock = shared.BusinessRuleError("Insufficient stock")
	// ErrInvalidPurchase rejects non-positive quantities and negative costs.
	ErrInvalidPurchase = shared.BusinessRuleError("QuantityPurchased must be > 0 and UnitCost >= 0")
	// ErrTotalOutOfRange rejects totals the ledger columns cannot hold.
	ErrTotalOutOfRange = shared.BusinessRuleError("Total exceeds the maximum storable amount")
	// ErrQuantityOutOfRange rejects stock levels the quantity column cannot hold.
	ErrQuantityOutOfRange = shared.BusinessRuleError("Quantity exceeds the maximum storable value")
	// ErrInvalidJSON is returned for bodies that are not a JSON object.
	ErrInvalidJSON = shared.ErrInvalidPayload
)
