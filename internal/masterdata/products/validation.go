package products

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/smart-inventory/inventory/internal/inventory"
	mdshared "github.com/smart-inventory/inventory/internal/masterdata/shared"
	"github.com/smart-inventory/inventory/internal/shared"
)

const defaultReorderLevel = 10

// ParseForm applies the request format checks to a product payload.
func ParseForm(payload shared.Payload) (ProductForm, error) {
	if err := payload.RequireFields("ProductName", "Price"); err != nil {
		return ProductForm{}, err
	}
	if err := payload.RequireNonNegative("Price", "Quantity", "ReorderLevel"); err != nil {
		return ProductForm{}, err
	}
	price, err := payload.Decimal("Price")
	if err != nil {
		return ProductForm{}, err
	}
	qty, err := payload.IntOr("Quantity", 0)
	if err != nil {
		return ProductForm{}, err
	}
	reorder, err := payload.OptionalInt("ReorderLevel")
	if err != nil {
		return ProductForm{}, err
	}
	supplierID, err := payload.OptionalInt("SupplierID")
	if err != nil {
		return ProductForm{}, err
	}
	return ProductForm{
		Name:         payload.String("ProductName"),
		Description:  payload.String("Description"),
		Category:     payload.String("Category"),
		Price:        price,
		Quantity:     qty,
		ReorderLevel: reorder,
		SupplierID:   supplierID,
	}, nil
}

func (s *Service) validate(form *ProductForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)
	form.Category = normalizeCategory(form.Category)
	if err := mdshared.Validate(form); err != nil {
		return err
	}
	form.Price = form.Price.Round(2)
	if form.Price.GreaterThan(inventory.MaxAmount) {
		return shared.FormatError("Price is out of range")
	}
	return nil
}

// normalizeCategory collapses whitespace and title-cases the category so
// "office  supplies" and "Office Supplies" group together.
func normalizeCategory(category string) string {
	fields := strings.Fields(category)
	if len(fields) == 0 {
		return ""
	}
	return cases.Title(language.Und).String(strings.ToLower(strings.Join(fields, " ")))
}
