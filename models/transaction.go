package models

import "time"

// Transaction types.
const (
	TransactionIncome   = "income"
	TransactionExpense  = "expense"
	TransactionTransfer = "transfer"
)

type Transaction struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	AccountID          string    `json:"account_id"`
	CategoryID         *string   `json:"category_id"`
	ToAccountID        *string   `json:"to_account_id"` // transfers only
	Type               string    `json:"type"`
	Amount             float64   `json:"amount"`
	Description        string    `json:"description"`
	Notes              string    `json:"notes,omitempty"`
	Date               time.Time `json:"date"`
	IsRecurring        bool      `json:"is_recurring"`
	RecurringFrequency *string   `json:"recurring_frequency"` // daily | weekly | monthly | yearly
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Joined fields
	CategoryName *string `json:"category_name,omitempty"`
	AccountName  string  `json:"account_name,omitempty"`
}

type UpdateTransactionRequest struct {
	AccountID   *string  `json:"account_id"`
	CategoryID  *string  `json:"category_id"`
	ToAccountID *string  `json:"to_account_id"`
	Type        *string  `json:"type" binding:"omitempty,oneof=income expense transfer"`
	Amount      *float64 `json:"amount" binding:"omitempty,gt=0"`
	Description *string  `json:"description"`
	Notes       *string  `json:"notes"`
	Date        *string  `json:"date"` // yyyy-mm-dd
}

type CreateTransactionRequest struct {
	AccountID          string  `json:"account_id" binding:"required"`
	CategoryID         *string `json:"category_id"`
	ToAccountID        *string `json:"to_account_id"`
	Type               string  `json:"type" binding:"required,oneof=income expense transfer"`
	Amount             float64 `json:"amount" binding:"required,gt=0"`
	Description        string  `json:"description"`
	Notes              string  `json:"notes"`
	Date               string  `json:"date" binding:"required"` // yyyy-mm-dd
	IsRecurring        bool    `json:"is_recurring"`
	RecurringFrequency *string `json:"recurring_frequency"`
}
