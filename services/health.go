package services

import (
	"fmt"
	"math"

	"github.com/fintrack/fintrack-api/models"
)

// ============================================================================
// FINANCIAL HEALTH SCORER
// Pure computation over an already-fetched snapshot. No I/O in here:
// handlers fetch the rows, this turns them into a score.
// ============================================================================

// Score weights: savings rate 40%, budget adherence 30%, emergency fund 30%.
const (
	savingsWeight   = 0.4
	budgetWeight    = 0.3
	emergencyWeight = 0.3

	// Savings Star unlocks at a 30% savings rate.
	savingsStarTarget = 0.30

	// Frugal King unlocks when expenses stay at or under 80% of the
	// total budgeted amount.
	frugalBudgetShare = 0.8

	// Emergency fund target is six months of average expenses.
	emergencyFundMonths = 6

	// At most two recommendations are surfaced.
	maxNextSteps = 2
)

// DefaultFallbackMonthlyExpense is used as the average-monthly-expense
// stand-in when the user has no expense history at all. Overridable via
// ScoreOptions since the right default depends on the currency.
const DefaultFallbackMonthlyExpense = 2000

// HealthInput is one user's consistent snapshot. Transactions are the
// current calendar month's; TrailingQuarterExpenses is the expense total
// over the three full months before the current one.
type HealthInput struct {
	Transactions            []models.Transaction
	Budgets                 []models.Budget
	Goals                   []models.Goal
	Accounts                []models.Account
	TrailingQuarterExpenses float64
}

// ScoreOptions carries presentation concerns into the scorer without
// making the arithmetic currency-aware. FormatAmount is only used to
// render amounts inside next-step messages.
type ScoreOptions struct {
	FallbackMonthlyExpense float64
	FormatAmount           func(amount float64) string
}

// healthFacts are the derived values the achievement predicates read.
type healthFacts struct {
	savingsRate     float64
	expenses        float64
	totalBudgeted   float64
	maxGoalProgress float64 // best goal completion, 0-100
	anyGoalReached  bool
	hasDebt         bool
}

// achievementDef is one badge in the closed set: a stable identity plus an
// unlock predicate and a progress function evaluated while locked.
type achievementDef struct {
	id            string
	name          string
	description   string
	icon          string
	targetDisplay string
	unlocked      func(f healthFacts) bool
	progress      func(f healthFacts) float64
}

var achievements = []achievementDef{
	{
		id:            "frugal-king",
		name:          "Frugal King",
		description:   "Stay 20% under total budget",
		icon:          "Crown",
		targetDisplay: "20% Under",
		unlocked: func(f healthFacts) bool {
			return f.totalBudgeted > 0 && f.expenses <= frugalBudgetShare*f.totalBudgeted
		},
		progress: func(f healthFacts) float64 {
			if f.totalBudgeted <= 0 {
				return 0
			}
			headroom := f.totalBudgeted - frugalBudgetShare*f.totalBudgeted
			return (f.totalBudgeted - f.expenses) / headroom * 100
		},
	},
	{
		id:            "goal-crusher",
		name:          "Goal Crusher",
		description:   "Reach a savings goal",
		icon:          "Target",
		targetDisplay: "100% Goal",
		unlocked:      func(f healthFacts) bool { return f.anyGoalReached },
		progress:      func(f healthFacts) float64 { return f.maxGoalProgress },
	},
	{
		id:            "debt-slayer",
		name:          "Debt Slayer",
		description:   "Be debt-free on credit cards",
		icon:          "Sword",
		targetDisplay: "0 Debt",
		unlocked:      func(f healthFacts) bool { return !f.hasDebt },
		progress:      func(f healthFacts) float64 { return 0 }, // binary
	},
	{
		id:            "savings-star",
		name:          "Savings Star",
		description:   "Achieve 30% savings rate",
		icon:          "Star",
		targetDisplay: "30% Rate",
		unlocked:      func(f healthFacts) bool { return f.savingsRate >= savingsStarTarget },
		progress:      func(f healthFacts) float64 { return f.savingsRate / savingsStarTarget * 100 },
	},
}

// ComputeFinancialHealth scores one snapshot. Deterministic, never panics
// on empty inputs: zero budgets mean vacuously perfect adherence, zero
// goals mean zero goal progress.
func ComputeFinancialHealth(in HealthInput, opts ScoreOptions) models.FinancialHealth {
	fallbackExpense := opts.FallbackMonthlyExpense
	if fallbackExpense <= 0 {
		fallbackExpense = DefaultFallbackMonthlyExpense
	}
	formatAmount := opts.FormatAmount
	if formatAmount == nil {
		formatAmount = func(v float64) string { return fmt.Sprintf("%.0f", v) }
	}

	// 1. Savings rate
	var income, expenses float64
	for _, t := range in.Transactions {
		switch t.Type {
		case models.TransactionIncome:
			income += t.Amount
		case models.TransactionExpense:
			expenses += t.Amount
		}
	}
	savingsRate := 0.0
	if income > 0 {
		savingsRate = math.Max(0, (income-expenses)/income)
	}

	// 2. Budget adherence
	spentByCategory := make(map[string]float64)
	for _, t := range in.Transactions {
		if t.Type != models.TransactionExpense {
			continue
		}
		key := "uncategorized"
		if t.CategoryID != nil {
			key = *t.CategoryID
		}
		spentByCategory[key] += t.Amount
	}

	var totalBudgeted float64
	onTrack := 0
	for _, b := range in.Budgets {
		totalBudgeted += b.Amount
		if spentByCategory[b.CategoryID] <= b.Amount {
			onTrack++
		}
	}
	budgetAdherence := 1.0
	if len(in.Budgets) > 0 {
		budgetAdherence = float64(onTrack) / float64(len(in.Budgets))
	}

	// 3. Emergency fund progress
	var currentEmergencyFund float64
	for _, a := range in.Accounts {
		if a.IsSavingsLike() {
			currentEmergencyFund += a.Balance
		}
	}
	avgMonthlyExpenses := fallbackExpense
	if in.TrailingQuarterExpenses > 0 {
		avgMonthlyExpenses = in.TrailingQuarterExpenses / 3
	} else if expenses > 0 {
		avgMonthlyExpenses = expenses
	}
	targetEmergencyFund := avgMonthlyExpenses * emergencyFundMonths
	emergencyFundProgress := clamp(currentEmergencyFund/targetEmergencyFund, 0, 1)

	// 4. Composite score
	savingsScore := math.Min(100, savingsRate*100)
	rawScore := savingsScore*savingsWeight +
		budgetAdherence*100*budgetWeight +
		emergencyFundProgress*100*emergencyWeight
	score := int(math.Round(rawScore))

	// 5. Badges
	facts := healthFacts{
		savingsRate:   savingsRate,
		expenses:      expenses,
		totalBudgeted: totalBudgeted,
		hasDebt:       hasDebtBearingAccount(in.Accounts),
	}
	for _, g := range in.Goals {
		if g.TargetAmount > 0 {
			facts.maxGoalProgress = math.Max(facts.maxGoalProgress, g.CurrentAmount/g.TargetAmount*100)
		}
		if g.Reached() {
			facts.anyGoalReached = true
		}
	}
	facts.maxGoalProgress = math.Min(100, facts.maxGoalProgress)

	badges := make([]models.Badge, 0, len(achievements))
	for _, def := range achievements {
		unlocked := def.unlocked(facts)
		progress := 100.0
		if !unlocked {
			progress = clamp(def.progress(facts), 0, 100)
		}
		badges = append(badges, models.Badge{
			ID:            def.id,
			Name:          def.name,
			Description:   def.description,
			Icon:          def.icon,
			Unlocked:      unlocked,
			Progress:      progress,
			TargetDisplay: def.targetDisplay,
		})
	}

	// 6. Next steps
	nextSteps := buildNextSteps(savingsRate, budgetAdherence, emergencyFundProgress,
		facts.hasDebt, income, targetEmergencyFund, formatAmount)

	return models.FinancialHealth{
		Score:                 score,
		SavingsRate:           savingsRate,
		BudgetAdherence:       budgetAdherence,
		EmergencyFundProgress: emergencyFundProgress,
		Metrics: models.HealthMetrics{
			MonthlyIncome:        income,
			MonthlyExpenses:      expenses,
			TotalBudgeted:        totalBudgeted,
			TotalSpent:           expenses,
			TargetEmergencyFund:  targetEmergencyFund,
			CurrentEmergencyFund: currentEmergencyFund,
		},
		Badges:    badges,
		NextSteps: nextSteps,
	}
}

// buildNextSteps applies the recommendation rules in priority order and
// truncates to the two most important.
func buildNextSteps(savingsRate, budgetAdherence, emergencyFundProgress float64,
	hasDebt bool, income, targetEmergencyFund float64,
	formatAmount func(float64) string) []string {

	var steps []string
	if savingsRate < 0.2 {
		steps = append(steps, fmt.Sprintf("Increase monthly savings by %s to boost your score.",
			formatAmount(math.Round(income*0.1))))
	}
	if budgetAdherence < 0.8 {
		steps = append(steps, "Review categories that are over budget and adjust spending.")
	}
	if emergencyFundProgress < 0.5 {
		steps = append(steps, fmt.Sprintf("Add %s to your emergency fund.",
			formatAmount(math.Round(targetEmergencyFund*0.1))))
	}
	if hasDebt {
		steps = append(steps, "Prioritize paying off high-interest credit card debt.")
	}
	if len(steps) == 0 {
		steps = append(steps, "Great job! Maintain your current habits to keep your score high.")
	}
	if len(steps) > maxNextSteps {
		steps = steps[:maxNextSteps]
	}
	return steps
}

func hasDebtBearingAccount(accounts []models.Account) bool {
	for _, a := range accounts {
		if a.IsDebtBearing() {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
