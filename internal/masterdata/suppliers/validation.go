package suppliers

import (
	"strings"

	mdshared "github.com/smart-inventory/inventory/internal/masterdata/shared"
	"github.com/smart-inventory/inventory/internal/shared"
)

var ErrNotFound = shared.NotFoundError("Supplier not found")

// ParseForm applies the request format checks to a supplier payload.
func ParseForm(payload shared.Payload) (SupplierForm, error) {
	if err := payload.RequireFields("SupplierName"); err != nil {
		return SupplierForm{}, err
	}
	return SupplierForm{
		Name:          payload.String("SupplierName"),
		ContactPerson: payload.String("ContactPerson"),
		Phone:         payload.String("Phone"),
		Email:         payload.String("Email"),
		Address:       payload.String("Address"),
	}, nil
}

func (s *Service) validate(form *SupplierForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.ContactPerson = strings.TrimSpace(form.ContactPerson)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	form.Address = strings.TrimSpace(form.Address)
	return mdshared.Validate(form)
}
