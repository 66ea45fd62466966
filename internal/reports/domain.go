package reports

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	salesSummaryLimit = 50
	topProductsLimit  = 10
)

// Dashboard aggregates the headline numbers of the inventory.
type Dashboard struct {
	TotalProducts  int64           `json:"TotalProducts"`
	TotalSales     decimal.Decimal `json:"TotalSales"`
	LowStockCount  int64           `json:"LowStockCount"`
	TotalCustomers int64           `json:"TotalCustomers"`
}

// LowStockProduct is a product whose quantity is below its reorder level.
type LowStockProduct struct {
	ProductID      int64           `json:"ProductID"`
	ProductName    string          `json:"ProductName"`
	Category       string          `json:"Category"`
	Quantity       int64           `json:"Quantity"`
	ReorderLevel   int64           `json:"ReorderLevel"`
	Price          decimal.Decimal `json:"Price"`
	QuantityNeeded int64           `json:"QuantityNeeded"`
	SupplierName   *string         `json:"SupplierName"`
}

// SaleSummary is one row of the recent sales report.
type SaleSummary struct {
	SaleID       int64           `json:"SaleID"`
	SaleDate     time.Time       `json:"SaleDate"`
	ProductName  string          `json:"ProductName"`
	CustomerName string          `json:"CustomerName"`
	QuantitySold int64           `json:"QuantitySold"`
	TotalAmount  decimal.Decimal `json:"TotalAmount"`
	Category     string          `json:"Category"`
}

// TopProduct ranks products by units sold.
type TopProduct struct {
	ProductID   int64           `json:"ProductID"`
	ProductName string          `json:"ProductName"`
	TotalSold   int64           `json:"TotalSold"`
	Revenue     decimal.Decimal `json:"Revenue"`
}

// MarshalJSON renders money with two decimals.
func (d Dashboard) MarshalJSON() ([]byte, error) {
	type alias Dashboard
	return json.Marshal(struct {
		alias
		TotalSales string `json:"TotalSales"`
	}{alias: alias(d), TotalSales: d.TotalSales.StringFixed(2)})
}

// MarshalJSON renders money with two decimals.
func (p LowStockProduct) MarshalJSON() ([]byte, error) {
	type alias LowStockProduct
	return json.Marshal(struct {
		alias
		Price string `json:"Price"`
	}{alias: alias(p), Price: p.Price.StringFixed(2)})
}

// MarshalJSON renders money with two decimals.
func (s SaleSummary) MarshalJSON() ([]byte, error) {
	type alias SaleSummary
	return json.Marshal(struct {
		alias
		TotalAmount string `json:"TotalAmount"`
	}{alias: alias(s), TotalAmount: s.TotalAmount.StringFixed(2)})
}

// MarshalJSON renders money with two decimals.
func (t TopProduct) MarshalJSON() ([]byte, error) {
	type alias TopProduct
	return json.Marshal(struct {
		alias
		Revenue string `json:"Revenue"`
	}{alias: alias(t), Revenue: t.Revenue.StringFixed(2)})
}
