package command

import "time"

// SaleLineInput describes one requested line in a create or update command.
// The product fields are snapshot inputs; Cancelled only applies to updates.
type SaleLineInput struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
	Cancelled   bool
}

// CreateSale command
type CreateSale struct {
	SaleNumber string
	Date       time.Time
	CustomerID string
	Branch     string
	Lines      []SaleLineInput
}

// UpdateSale command. The incoming lines replace the sale's lines entirely.
type UpdateSale struct {
	SaleID     string
	SaleNumber string
	Date       time.Time
	Branch     string
	Lines      []SaleLineInput
}

// DeleteSale command
type DeleteSale struct {
	SaleID string
}

// RegisterUser command
type RegisterUser struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginUser command
type LoginUser struct {
	Email    string
	Password string
}
