// file: model/request.go

package model

import "github.com/shopspring/decimal"

// RegisterRequest defines the payload for creating a new operator user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the payload for operator authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// OpenAccountRequest defines the payload for opening a new bank account.
// InitialBalance is accepted for compatibility with older clients but the
// service always opens accounts with a zero balance, whatever is sent here.
type OpenAccountRequest struct {
	Number         int64           `json:"number" validate:"required,gt=0"`
	OwnerName      string          `json:"owner_name" validate:"required,min=2,max=100"`
	OwnerTaxID     string          `json:"owner_tax_id" validate:"required,min=5,max=20"`
	OwnerEmail     string          `json:"owner_email" validate:"required,email"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// AmountRequest defines the payload for deposits and withdrawals. The amount
// is revalidated by the service; the tag only rejects a missing field early.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// TransferRequest defines the payload for moving funds between two accounts.
type TransferRequest struct {
	FromNumber int64           `json:"from_number" validate:"required,gt=0"`
	ToNumber   int64           `json:"to_number" validate:"required,gt=0"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
}
