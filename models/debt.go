package models

import "time"

// Debt types accepted by the debts check constraint.
const (
	DebtMortgage     = "mortgage"
	DebtCarLoan      = "car_loan"
	DebtStudentLoan  = "student_loan"
	DebtPersonalLoan = "personal_loan"
	DebtCreditCard   = "credit_card"
	DebtMedical      = "medical"
	DebtOther        = "other"
)

type Debt struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	OriginalAmount float64    `json:"original_amount"`
	CurrentBalance float64    `json:"current_balance"`
	InterestRate   float64    `json:"interest_rate"` // annual percentage
	MinimumPayment float64    `json:"minimum_payment"`
	DueDay         *int       `json:"due_day"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Lender         string     `json:"lender,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Color          string     `json:"color"`
	Icon           string     `json:"icon"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// DebtPayment is an append-only history record. Recording one reduces the
// parent debt's current_balance by PrincipalAmount as a separate update;
// the balance is never recomputed from history.
type DebtPayment struct {
	ID              string    `json:"id"`
	DebtID          string    `json:"debt_id"`
	UserID          string    `json:"user_id"`
	Amount          float64   `json:"amount"`
	PrincipalAmount float64   `json:"principal_amount"`
	InterestAmount  float64   `json:"interest_amount"`
	PaymentDate     time.Time `json:"payment_date"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateDebtRequest struct {
	Name           string  `json:"name" binding:"required"`
	Type           string  `json:"type" binding:"required,oneof=mortgage car_loan student_loan personal_loan credit_card medical other"`
	OriginalAmount float64 `json:"original_amount" binding:"required,gt=0"`
	CurrentBalance float64 `json:"current_balance" binding:"gte=0"`
	InterestRate   float64 `json:"interest_rate" binding:"gte=0"`
	MinimumPayment float64 `json:"minimum_payment" binding:"gte=0"`
	DueDay         *int    `json:"due_day"`
	StartDate      string  `json:"start_date" binding:"required"` // yyyy-mm-dd
	Lender         string  `json:"lender"`
	Notes          string  `json:"notes"`
	Color          string  `json:"color"`
	Icon           string  `json:"icon"`
}

type UpdateDebtRequest struct {
	Name           *string  `json:"name"`
	Type           *string  `json:"type" binding:"omitempty,oneof=mortgage car_loan student_loan personal_loan credit_card medical other"`
	CurrentBalance *float64 `json:"current_balance" binding:"omitempty,gte=0"`
	InterestRate   *float64 `json:"interest_rate" binding:"omitempty,gte=0"`
	MinimumPayment *float64 `json:"minimum_payment" binding:"omitempty,gte=0"`
	DueDay         *int     `json:"due_day"`
	Lender         *string  `json:"lender"`
	Notes          *string  `json:"notes"`
	Color          *string  `json:"color"`
	Icon           *string  `json:"icon"`
	IsActive       *bool    `json:"is_active"`
}

type RecordDebtPaymentRequest struct {
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	PrincipalAmount float64 `json:"principal_amount" binding:"required,gt=0"`
	InterestAmount  float64 `json:"interest_amount" binding:"gte=0"`
	PaymentDate     string  `json:"payment_date" binding:"required"` // yyyy-mm-dd
	Notes           string  `json:"notes"`
}
