package products

import "github.com/shopspring/decimal"

// ProductForm carries the writable product fields. Quantity is only read on
// create; stock moves through sales and purchases afterwards.
type ProductForm struct {
	Name         string          `json:"ProductName" validate:"required,max=100"`
	Description  string          `json:"Description"`
	Category     string          `json:"Category" validate:"max=50"`
	Price        decimal.Decimal `json:"Price"`
	Quantity     int64           `json:"Quantity" validate:"gte=0"`
	ReorderLevel *int64          `json:"ReorderLevel" validate:"omitempty,gte=0"`
	SupplierID   *int64          `json:"SupplierID"`
}
