package models

import "time"

// Budget is a per-category spending ceiling for a period.
type Budget struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	CategoryID string     `json:"category_id"`
	Amount     float64    `json:"amount"`
	Period     string     `json:"period"` // weekly | monthly | yearly
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Joined fields
	CategoryName string  `json:"category_name,omitempty"`
	Spent        float64 `json:"spent"` // realized spend for the current period
}

type CreateBudgetRequest struct {
	CategoryID string  `json:"category_id" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Period     string  `json:"period" binding:"required,oneof=weekly monthly yearly"`
}

type UpdateBudgetRequest struct {
	Amount *float64 `json:"amount"`
	Period *string  `json:"period"`
}
