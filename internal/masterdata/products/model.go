package products

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product represents a product entity
type Product struct {
	ID           int64           `json:"ProductID"`
	Name         string          `json:"ProductName"`
	Description  string          `json:"Description"`
	Category     string          `json:"Category"`
	Price        decimal.Decimal `json:"Price"`
	Quantity     int64           `json:"Quantity"`
	ReorderLevel int64           `json:"ReorderLevel"`
	SupplierID   *int64          `json:"SupplierID"`
	SupplierName *string         `json:"SupplierName"`
}

// MarshalJSON renders money with two decimals.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		Price string `json:"Price"`
	}{alias(p), p.Price.StringFixed(2)})
}
