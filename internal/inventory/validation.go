package inventory

import "github.com/smart-inventory/inventory/internal/shared"

// ParseSaleInput applies the format checks for a sale request. Business
// checks happen inside the ledger transaction.
func ParseSaleInput(payload shared.Payload) (SaleInput, error) {
	if err := payload.RequireFields("ProductID", "CustomerID", "QuantitySold"); err != nil {
		return SaleInput{}, err
	}
	if err := payload.RequireNonNegative("QuantitySold"); err != nil {
		return SaleInput{}, err
	}
	productID, err := payload.Int("ProductID")
	if err != nil {
		return SaleInput{}, err
	}
	customerID, err := payload.Int("CustomerID")
	if err != nil {
		return SaleInput{}, err
	}
	qty, err := payload.Int("QuantitySold")
	if err != nil {
		return SaleInput{}, err
	}
	return SaleInput{ProductID: productID, CustomerID: customerID, QuantitySold: qty}, nil
}

// ParsePurchaseInput applies the format checks for a purchase request.
func ParsePurchaseInput(payload shared.Payload) (PurchaseInput, error) {
	if err := payload.RequireFields("ProductID", "SupplierID", "QuantityPurchased", "UnitCost"); err != nil {
		return PurchaseInput{}, err
	}
	if err := payload.RequireNonNegative("QuantityPurchased", "UnitCost"); err != nil {
		return PurchaseInput{}, err
	}
	productID, err := payload.Int("ProductID")
	if err != nil {
		return PurchaseInput{}, err
	}
	supplierID, err := payload.Int("SupplierID")
	if err != nil {
		return PurchaseInput{}, err
	}
	qty, err := payload.Int("QuantityPurchased")
	if err != nil {
		return PurchaseInput{}, err
	}
	cost, err := payload.Decimal("UnitCost")
	if err != nil {
		return PurchaseInput{}, err
	}
	return PurchaseInput{ProductID: productID, SupplierID: supplierID, QuantityPurchased: qty, UnitCost: cost}, nil
}
