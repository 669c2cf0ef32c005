package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer holds the owner details embedded in an account. These fields are
// set at account opening and never updated afterwards.
type Customer struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email"`
}

// Account is the in-memory representation of a persisted bank account.
// Balance uses decimal.Decimal because monetary values require exact
// arithmetic; binary floating point would accumulate rounding errors.
type Account struct {
	Number    int64           `json:"number"`
	Balance   decimal.Decimal `json:"balance"`
	Owner     Customer        `json:"owner"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

// HasBalance reports whether the account still holds funds. Both closure
// paths use this predicate to enforce the zero-balance precondition.
func (a *Account) HasBalance() bool {
	return !a.Balance.IsZero()
}
