package models

import (
	"strings"
	"time"
)

// Account types mirror the columns accepted by the accounts check constraint.
const (
	AccountChecking   = "checking"
	AccountSavings    = "savings"
	AccountCredit     = "credit"
	AccountInvestment = "investment"
	AccountCash       = "cash"
	AccountOther      = "other"
)

type Account struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsSavingsLike reports whether the account counts toward the emergency
// fund: savings accounts, plus anything the user named "emergency".
func (a Account) IsSavingsLike() bool {
	return a.Type == AccountSavings || strings.Contains(strings.ToLower(a.Name), "emergency")
}

// IsDebtBearing reports whether the account carries revolving debt
// (a credit account with a negative balance).
func (a Account) IsDebtBearing() bool {
	return a.Type == AccountCredit && a.Balance < 0
}

type CreateAccountRequest struct {
	Name     string  `json:"name" binding:"required"`
	Type     string  `json:"type" binding:"required,oneof=checking savings credit investment cash other"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
	Color    string  `json:"color"`
	Icon     string  `json:"icon"`
}

type UpdateAccountRequest struct {
	Name     *string  `json:"name"`
	Type     *string  `json:"type"`
	Balance  *float64 `json:"balance"`
	Color    *string  `json:"color"`
	Icon     *string  `json:"icon"`
	IsActive *bool    `json:"is_active"`
}
