package models

import "time"

// Insight types.
const (
	InsightAnomaly  = "anomaly"
	InsightCoaching = "coaching"
	InsightKudo     = "kudo"
)

type Insight struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    *string    `json:"category,omitempty"`
	Amount      *float64   `json:"amount,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	IsDismissed bool       `json:"is_dismissed"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
