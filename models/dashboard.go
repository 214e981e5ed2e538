package models

type DashboardStats struct {
	TotalBalance    float64 `json:"total_balance"`
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	MonthlyNet      float64 `json:"monthly_net"`
	SavingsRate     float64 `json:"savings_rate"` // percentage
}

type SpendingByCategory struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Color      string  `json:"color"`
	Percentage float64 `json:"percentage"`
}

type MonthlyTrend struct {
	Month    string  `json:"month"` // yyyy-mm
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}
