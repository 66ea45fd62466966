package customers

import (
	"strings"

	mdshared "github.com/smart-inventory/inventory/internal/masterdata/shared"
	"github.com/smart-inventory/inventory/internal/shared"
)

var ErrNotFound = shared.NotFoundError("Customer not found")

// ParseForm applies the request format checks to a customer payload.
func ParseForm(payload shared.Payload) (CustomerForm, error) {
	if err := payload.RequireFields("CustomerName"); err != nil {
		return CustomerForm{}, err
	}
	return CustomerForm{
		Name:    payload.String("CustomerName"),
		Phone:   payload.String("Phone"),
		Email:   payload.String("Email"),
		Address: payload.String("Address"),
	}, nil
}

func (s *Service) validate(form *CustomerForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	form.Address = strings.TrimSpace(form.Address)
	return mdshared.Validate(form)
}
