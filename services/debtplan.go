package services

import (
	"math"
	"sort"

	"github.com/fintrack/fintrack-api/models"
)

// ============================================================================
// DEBT PAYOFF PLANNER
// Fixed-payment amortization projections plus the two classic payoff
// orderings. Pure functions, no I/O.
// ============================================================================

// PayoffEstimate is the projection for a single debt. Months is nil when
// no payoff can be projected: zero balance, zero payment, or a minimum
// payment that does not cover the interest accruing each month.
type PayoffEstimate struct {
	Months        *int    `json:"months"`
	TotalInterest float64 `json:"total_interest"`
}

// EstimatePayoff projects how long the debt takes to clear at its minimum
// payment, and the total interest paid along the way.
func EstimatePayoff(d models.Debt) PayoffEstimate {
	months, ok := payoffMonths(d)
	if !ok {
		return PayoffEstimate{}
	}
	totalPaid := d.MinimumPayment * float64(months)
	return PayoffEstimate{
		Months:        &months,
		TotalInterest: math.Max(0, totalPaid-d.CurrentBalance),
	}
}

// payoffMonths applies the standard amortization formula
// n = ln(p / (p - b*r)) / ln(1+r). When the payment does not exceed the
// monthly interest accrual the balance never shrinks and the log argument
// is undefined; that is reported as ok=false rather than a NaN month count.
func payoffMonths(d models.Debt) (int, bool) {
	if d.CurrentBalance == 0 || d.MinimumPayment == 0 {
		return 0, false
	}

	monthlyRate := d.InterestRate / 100 / 12
	if monthlyRate == 0 {
		return int(math.Ceil(d.CurrentBalance / d.MinimumPayment)), true
	}

	monthlyInterest := d.CurrentBalance * monthlyRate
	if d.MinimumPayment <= monthlyInterest {
		return 0, false
	}

	months := math.Log(d.MinimumPayment/(d.MinimumPayment-monthlyInterest)) / math.Log(1+monthlyRate)
	return int(math.Ceil(months)), true
}

// PayoffProgress is the share of the original amount already paid off,
// 0-100. A zero original amount counts as fully paid.
func PayoffProgress(d models.Debt) float64 {
	if d.OriginalAmount == 0 {
		return 100
	}
	paid := d.OriginalAmount - d.CurrentBalance
	return math.Min(100, math.Max(0, paid/d.OriginalAmount*100))
}

// RankSnowball orders active, positive-balance debts smallest balance
// first. The input slice is not mutated.
func RankSnowball(debts []models.Debt) []models.Debt {
	ranked := activePositive(debts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CurrentBalance < ranked[j].CurrentBalance
	})
	return ranked
}

// RankAvalanche orders active, positive-balance debts highest interest
// rate first. The input slice is not mutated.
func RankAvalanche(debts []models.Debt) []models.Debt {
	ranked := activePositive(debts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].InterestRate > ranked[j].InterestRate
	})
	return ranked
}

func activePositive(debts []models.Debt) []models.Debt {
	out := make([]models.Debt, 0, len(debts))
	for _, d := range debts {
		if d.IsActive && d.CurrentBalance > 0 {
			out = append(out, d)
		}
	}
	return out
}

// ============================================================================
// PLAN AGGREGATE
// ============================================================================

// DebtPlanEntry pairs a debt with its projection for display.
type DebtPlanEntry struct {
	Debt           models.Debt    `json:"debt"`
	Progress       float64        `json:"progress"` // 0-100 paid off
	PayoffEstimate PayoffEstimate `json:"payoff_estimate"`
}

// DebtPlan is the full planner output for one user's debts.
type DebtPlan struct {
	Entries         []DebtPlanEntry `json:"entries"`
	Snowball        []models.Debt   `json:"snowball"`
	Avalanche       []models.Debt   `json:"avalanche"`
	TotalDebt       float64         `json:"total_debt"`
	TotalMinPayment float64         `json:"total_min_payment"`
	AvgInterestRate float64         `json:"avg_interest_rate"`
}

// BuildDebtPlan computes per-debt projections, both payoff orderings and
// the aggregate figures over the active debts.
func BuildDebtPlan(debts []models.Debt) DebtPlan {
	plan := DebtPlan{
		Entries:   make([]DebtPlanEntry, 0, len(debts)),
		Snowball:  RankSnowball(debts),
		Avalanche: RankAvalanche(debts),
	}

	active := 0
	for _, d := range debts {
		plan.Entries = append(plan.Entries, DebtPlanEntry{
			Debt:           d,
			Progress:       PayoffProgress(d),
			PayoffEstimate: EstimatePayoff(d),
		})
		if d.IsActive {
			active++
			plan.TotalDebt += d.CurrentBalance
			plan.TotalMinPayment += d.MinimumPayment
			plan.AvgInterestRate += d.InterestRate
		}
	}
	if active > 0 {
		plan.AvgInterestRate /= float64(active)
	}
	return plan
}
