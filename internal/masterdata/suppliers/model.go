package suppliers

// Supplier represents a supplier entity
type Supplier struct {
	ID            int64  `json:"SupplierID"`
	Name          string `json:"SupplierName"`
	ContactPerson string `json:"ContactPerson"`
	Phone         string `json:"Phone"`
	Email         string `json:"Email"`
	Address       string `json:"Address"`
}

// SupplierForm carries the writable supplier fields.
type SupplierForm struct {
	Name          string `json:"SupplierName" validate:"required,max=100"`
	ContactPerson string `json:"ContactPerson" validate:"max=100"`
	Phone         string `json:"Phone" validate:"max=20"`
	Email         string `json:"Email" validate:"omitempty,max=100,email"`
	Address       string `json:"Address"`
}
