package models

import "time"

type Goal struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	Deadline      *time.Time `json:"deadline"`
	Color         string     `json:"color"`
	Icon          string     `json:"icon"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Reached reports whether the goal has been fully funded.
func (g Goal) Reached() bool {
	return g.CurrentAmount >= g.TargetAmount
}

type CreateGoalRequest struct {
	Name         string  `json:"name" binding:"required"`
	TargetAmount float64 `json:"target_amount" binding:"required,gt=0"`
	Deadline     *string `json:"deadline"` // yyyy-mm-dd
	Color        string  `json:"color"`
	Icon         string  `json:"icon"`
}

type ContributeGoalRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}
