package products

import "github.com/smart-inventory/inventory/internal/shared"

var (
	ErrNotFound         = shared.NotFoundError("Product not found")
	ErrSupplierNotFound = shared.NotFoundError("Supplier not found")
	ErrOutOfRange       = shared.FormatError("Quantity or ReorderLevel is out of range")
)
