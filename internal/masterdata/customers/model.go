package customers

// Customer represents a customer entity
type Customer struct {
	ID      int64  `json:"CustomerID"`
	Name    string `json:"CustomerName"`
	Phone   string `json:"Phone"`
	Email   string `json:"Email"`
	Address string `json:"Address"`
}

// CustomerForm carries the writable customer fields.
type CustomerForm struct {
	Name    string `json:"CustomerName" validate:"required,max=100"`
	Phone   string `json:"Phone" validate:"max=20"`
	Email   string `json:"Email" validate:"omitempty,max=100,email"`
	Address string `json:"Address"`
}
