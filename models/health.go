package models

// ============================================================================
// FINANCIAL HEALTH
// ============================================================================

// Badge is one achievement with its unlock state and, when still locked,
// a 0-100 progress value for rendering a progress bar.
type Badge struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Icon          string  `json:"icon"`
	Unlocked      bool    `json:"unlocked"`
	Progress      float64 `json:"progress"` // 0 to 100
	TargetDisplay string  `json:"target_display,omitempty"`
}

type HealthMetrics struct {
	MonthlyIncome        float64 `json:"monthly_income"`
	MonthlyExpenses      float64 `json:"monthly_expenses"`
	TotalBudgeted        float64 `json:"total_budgeted"`
	TotalSpent           float64 `json:"total_spent"`
	TargetEmergencyFund  float64 `json:"target_emergency_fund"`
	CurrentEmergencyFund float64 `json:"current_emergency_fund"`
}

// FinancialHealth is the full scorer output: composite score, the three
// sub-metric ratios, raw metrics, badges and at most two next steps.
type FinancialHealth struct {
	Score                 int           `json:"score"` // 0-100
	SavingsRate           float64       `json:"savings_rate"`
	BudgetAdherence       float64       `json:"budget_adherence"`
	EmergencyFundProgress float64       `json:"emergency_fund_progress"`
	Metrics               HealthMetrics `json:"metrics"`
	Badges                []Badge       `json:"badges"`
	NextSteps             []string      `json:"next_steps"`
}
