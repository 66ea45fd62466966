package inventory

import "time"

// SaleRecordedEvent is published after a sale commits.
type SaleRecordedEvent struct {
	SaleID       int64
	ProductID    int64
	CustomerID   int64
	QuantitySold int64
	StockAfter   int64
	ReorderLevel int64
	RecordedAt   time.Time
}

// BelowReorder reports whether the sale left stock under the reorder level.
func (e SaleRecordedEvent) BelowReorder() bool {
	return e.StockAfter < e.ReorderLevel
}

// PurchaseRecordedEvent is published after a purchase commits.
type PurchaseRecordedEvent struct {
	PurchaseID        int64
	ProductID         int64
	SupplierID        int64
	QuantityPurchased int64
	StockAfter        int64
	RecordedAt        time.Time
}
