package services

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/fintrack/fintrack-api/models"
)

func strPtr(s string) *string { return &s }

func expense(amount float64, categoryID string) models.Transaction {
	t := models.Transaction{Type: models.TransactionExpense, Amount: amount}
	if categoryID != "" {
		t.CategoryID = strPtr(categoryID)
	}
	return t
}

func income(amount float64) models.Transaction {
	return models.Transaction{Type: models.TransactionIncome, Amount: amount}
}

func TestComputeFinancialHealthEmptyInput(t *testing.T) {
	got := ComputeFinancialHealth(HealthInput{}, ScoreOptions{})

	if got.SavingsRate != 0 {
		t.Errorf("savings rate = %v, want 0", got.SavingsRate)
	}
	if got.BudgetAdherence != 1 {
		t.Errorf("budget adherence = %v, want 1 with no budgets", got.BudgetAdherence)
	}
	if got.EmergencyFundProgress != 0 {
		t.Errorf("emergency fund progress = %v, want 0", got.EmergencyFundProgress)
	}
	// Only the adherence term contributes: round(0 + 30 + 0).
	if got.Score != 30 {
		t.Errorf("score = %d, want 30", got.Score)
	}
	if len(got.Badges) != 4 {
		t.Fatalf("badges = %d, want 4", len(got.Badges))
	}
	if len(got.NextSteps) > 2 {
		t.Errorf("next steps = %d, want at most 2", len(got.NextSteps))
	}
}

func TestSavingsRateZeroIncome(t *testing.T) {
	in := HealthInput{Transactions: []models.Transaction{expense(500, "food")}}
	got := ComputeFinancialHealth(in, ScoreOptions{})
	if got.SavingsRate != 0 {
		t.Errorf("savings rate with zero income = %v, want 0", got.SavingsRate)
	}
	if math.IsNaN(got.SavingsRate) || math.IsInf(got.SavingsRate, 0) {
		t.Error("savings rate must be finite")
	}
}

func TestSavingsRateNeverNegative(t *testing.T) {
	// Expenses far above income.
	in := HealthInput{Transactions: []models.Transaction{income(100), expense(100000, "x")}}
	got := ComputeFinancialHealth(in, ScoreOptions{})
	if got.SavingsRate != 0 {
		t.Errorf("savings rate = %v, want floor of 0", got.SavingsRate)
	}
	if got.Score < 0 || got.Score > 100 {
		t.Errorf("score = %d, want within [0,100]", got.Score)
	}
}

func TestScoreConcreteScenario(t *testing.T) {
	// income 5000, expenses 3000 -> savings rate 0.4 contributes 16;
	// no budgets -> adherence contributes 30; no emergency fund -> 0.
	in := HealthInput{Transactions: []models.Transaction{income(5000), expense(3000, "rent")}}
	got := ComputeFinancialHealth(in, ScoreOptions{})

	if got.SavingsRate != 0.4 {
		t.Errorf("savings rate = %v, want 0.4", got.SavingsRate)
	}
	if got.Score != 46 {
		t.Errorf("score = %d, want 46", got.Score)
	}
}

func TestBudgetAdherence(t *testing.T) {
	tests := []struct {
		name         string
		transactions []models.Transaction
		budgets      []models.Budget
		want         float64
	}{
		{
			name: "all on track",
			transactions: []models.Transaction{
				expense(100, "food"), expense(50, "fun"),
			},
			budgets: []models.Budget{
				{CategoryID: "food", Amount: 200},
				{CategoryID: "fun", Amount: 50},
			},
			want: 1,
		},
		{
			name: "one over budget",
			transactions: []models.Transaction{
				expense(300, "food"), expense(50, "fun"),
			},
			budgets: []models.Budget{
				{CategoryID: "food", Amount: 200},
				{CategoryID: "fun", Amount: 100},
			},
			want: 0.5,
		},
		{
			name:    "no budgets is vacuously perfect",
			budgets: nil,
			want:    1,
		},
		{
			name: "budget with no spend is on track",
			budgets: []models.Budget{
				{CategoryID: "travel", Amount: 500},
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFinancialHealth(HealthInput{
				Transactions: tt.transactions,
				Budgets:      tt.budgets,
			}, ScoreOptions{})
			if got.BudgetAdherence != tt.want {
				t.Errorf("adherence = %v, want %v", got.BudgetAdherence, tt.want)
			}
		})
	}
}

func TestEmergencyFundProgress(t *testing.T) {
	in := HealthInput{
		Accounts: []models.Account{
			{Name: "Main Savings", Type: models.AccountSavings, Balance: 6000},
			{Name: "Emergency Stash", Type: models.AccountChecking, Balance: 3000},
			{Name: "Daily", Type: models.AccountChecking, Balance: 500},
		},
		TrailingQuarterExpenses: 9000, // 3000/month average -> target 18000
	}
	got := ComputeFinancialHealth(in, ScoreOptions{})

	if got.Metrics.CurrentEmergencyFund != 9000 {
		t.Errorf("current emergency fund = %v, want 9000 (savings + emergency-named)",
			got.Metrics.CurrentEmergencyFund)
	}
	if got.Metrics.TargetEmergencyFund != 18000 {
		t.Errorf("target emergency fund = %v, want 18000", got.Metrics.TargetEmergencyFund)
	}
	if got.EmergencyFundProgress != 0.5 {
		t.Errorf("emergency fund progress = %v, want 0.5", got.EmergencyFundProgress)
	}
}

func TestEmergencyFundFallbackTarget(t *testing.T) {
	// No expense history at all: fallback keeps the target above zero.
	in := HealthInput{
		Accounts: []models.Account{{Name: "Savings", Type: models.AccountSavings, Balance: 1000}},
	}
	got := ComputeFinancialHealth(in, ScoreOptions{})
	if got.Metrics.TargetEmergencyFund != DefaultFallbackMonthlyExpense*6 {
		t.Errorf("target = %v, want %v", got.Metrics.TargetEmergencyFund, float64(DefaultFallbackMonthlyExpense*6))
	}

	// And the fallback is configurable.
	got = ComputeFinancialHealth(in, ScoreOptions{FallbackMonthlyExpense: 1000})
	if got.Metrics.TargetEmergencyFund != 6000 {
		t.Errorf("configured target = %v, want 6000", got.Metrics.TargetEmergencyFund)
	}
}

func TestEmergencyFundProgressClamped(t *testing.T) {
	in := HealthInput{
		Accounts:                []models.Account{{Name: "Savings", Type: models.AccountSavings, Balance: -5000}},
		TrailingQuarterExpenses: 3000,
	}
	got := ComputeFinancialHealth(in, ScoreOptions{})
	if got.EmergencyFundProgress != 0 {
		t.Errorf("progress = %v, want clamp at 0 for negative savings", got.EmergencyFundProgress)
	}
	if got.Score < 0 || got.Score > 100 {
		t.Errorf("score = %d, want within [0,100]", got.Score)
	}
}

func TestScoreBounds(t *testing.T) {
	tests := []struct {
		name string
		in   HealthInput
	}{
		{"pathological expenses", HealthInput{Transactions: []models.Transaction{income(1), expense(1e12, "x")}}},
		{"huge income", HealthInput{Transactions: []models.Transaction{income(1e12)}}},
		{"everything maxed", HealthInput{
			Transactions:            []models.Transaction{income(10000)},
			Accounts:                []models.Account{{Name: "Savings", Type: models.AccountSavings, Balance: 1e9}},
			TrailingQuarterExpenses: 300,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFinancialHealth(tt.in, ScoreOptions{})
			if got.Score < 0 || got.Score > 100 {
				t.Errorf("score = %d, want within [0,100]", got.Score)
			}
		})
	}
}

func TestBadges(t *testing.T) {
	badgeByID := func(h models.FinancialHealth, id string) models.Badge {
		for _, b := range h.Badges {
			if b.ID == id {
				return b
			}
		}
		t.Fatalf("badge %q missing", id)
		return models.Badge{}
	}

	t.Run("frugal king unlocks at 80% of budget", func(t *testing.T) {
		in := HealthInput{
			Transactions: []models.Transaction{expense(700, "food")},
			Budgets:      []models.Budget{{CategoryID: "food", Amount: 1000}},
		}
		got := badgeByID(ComputeFinancialHealth(in, ScoreOptions{}), "frugal-king")
		if !got.Unlocked {
			t.Error("want unlocked at 70% of budget")
		}
		if got.Progress != 100 {
			t.Errorf("unlocked progress = %v, want 100", got.Progress)
		}
	})

	t.Run("frugal king locked with partial progress", func(t *testing.T) {
		// Budget 1000, spend 900: halfway between the 800 target and the
		// 1000 ceiling -> 50% progress.
		in := HealthInput{
			Transactions: []models.Transaction{expense(900, "food")},
			Budgets:      []models.Budget{{CategoryID: "food", Amount: 1000}},
		}
		got := badgeByID(ComputeFinancialHealth(in, ScoreOptions{}), "frugal-king")
		if got.Unlocked {
			t.Error("want locked at 90% of budget")
		}
		if math.Abs(got.Progress-50) > 1e-9 {
			t.Errorf("progress = %v, want 50", got.Progress)
		}
	})

	t.Run("frugal king needs a budget", func(t *testing.T) {
		got := badgeByID(ComputeFinancialHealth(HealthInput{}, ScoreOptions{}), "frugal-king")
		if got.Unlocked {
			t.Error("want locked without any budget")
		}
		if got.Progress != 0 {
			t.Errorf("progress = %v, want 0", got.Progress)
		}
	})

	t.Run("goal crusher unlocks on any reached goal", func(t *testing.T) {
		in := HealthInput{Goals: []models.Goal{
			{TargetAmount: 1000, CurrentAmount: 100},
			{TargetAmount: 500, CurrentAmount: 500},
		}}
		got := badgeByID(ComputeFinancialHealth(in, ScoreOptions{}), "goal-crusher")
		if !got.Unlocked {
			t.Error("want unlocked with a fully funded goal")
		}
	})

	t.Run("goal crusher progress is the best goal", func(t *testing.T) {
		in := HealthInput{Goals: []models.Goal{
			{TargetAmount: 1000, CurrentAmount: 250},
			{TargetAmount: 1000, CurrentAmount: 600},
		}}
		got := badgeByID(ComputeFinancialHealth(in, ScoreOptions{}), "goal-crusher")
		if got.Unlocked {
			t.Error("want locked")
		}
		if got.Progress != 60 {
			t.Errorf("progress = %v, want 60", got.Progress)
		}
	})

	t.Run("goal crusher with no goals", func(t *testing.T) {
		got := badgeByID(ComputeFinancialHealth(HealthInput{}, ScoreOptions{}), "goal-crusher")
		if got.Unlocked || got.Progress != 0 {
			t.Errorf("want locked with 0 progress, got unlocked=%v progress=%v", got.Unlocked, got.Progress)
		}
	})

	t.Run("debt slayer", func(t *testing.T) {
		clean := HealthInput{Accounts: []models.Account{{Type: models.AccountCredit, Balance: 0}}}
		got := badgeByID(ComputeFinancialHealth(clean, ScoreOptions{}), "debt-slayer")
		if !got.Unlocked || got.Progress != 100 {
			t.Errorf("want unlocked with 100, got unlocked=%v progress=%v", got.Unlocked, got.Progress)
		}

		indebted := HealthInput{Accounts: []models.Account{{Type: models.AccountCredit, Balance: -200}}}
		got = badgeByID(ComputeFinancialHealth(indebted, ScoreOptions{}), "debt-slayer")
		if got.Unlocked || got.Progress != 0 {
			t.Errorf("want locked with 0, got unlocked=%v progress=%v", got.Unlocked, got.Progress)
		}
	})

	t.Run("savings star", func(t *testing.T) {
		in := HealthInput{Transactions: []models.Transaction{income(1000), expense(850, "x")}}
		got := badgeByID(ComputeFinancialHealth(in, ScoreOptions{}), "savings-star")
		if got.Unlocked {
			t.Error("want locked at 15% savings rate")
		}
		if got.Progress != 50 {
			t.Errorf("progress = %v, want 50", got.Progress)
		}

		in = HealthInput{Transactions: []models.Transaction{income(1000), expense(700, "x")}}
		got = badgeByID(ComputeFinancialHealth(in, ScoreOptions{}), "savings-star")
		if !got.Unlocked {
			t.Error("want unlocked at 30% savings rate")
		}
	})
}

func TestNextSteps(t *testing.T) {
	t.Run("all healthy yields maintain message", func(t *testing.T) {
		in := HealthInput{
			Transactions: []models.Transaction{income(10000), expense(3000, "x")},
			Accounts: []models.Account{
				{Name: "Savings", Type: models.AccountSavings, Balance: 100000},
			},
			TrailingQuarterExpenses: 9000,
		}
		got := ComputeFinancialHealth(in, ScoreOptions{})
		if len(got.NextSteps) != 1 || !strings.Contains(got.NextSteps[0], "Maintain") {
			t.Errorf("next steps = %v, want single maintain message", got.NextSteps)
		}
	})

	t.Run("truncates to two in priority order", func(t *testing.T) {
		// Low savings rate, broken budget, no emergency fund, plus debt:
		// four rules fire but only the first two survive.
		in := HealthInput{
			Transactions: []models.Transaction{income(1000), expense(990, "food")},
			Budgets:      []models.Budget{{CategoryID: "food", Amount: 100}},
			Accounts:     []models.Account{{Type: models.AccountCredit, Balance: -500}},
		}
		got := ComputeFinancialHealth(in, ScoreOptions{})
		if len(got.NextSteps) != 2 {
			t.Fatalf("next steps = %d, want 2", len(got.NextSteps))
		}
		if !strings.Contains(got.NextSteps[0], "Increase monthly savings") {
			t.Errorf("first step = %q, want savings suggestion first", got.NextSteps[0])
		}
		if !strings.Contains(got.NextSteps[1], "over budget") {
			t.Errorf("second step = %q, want budget review second", got.NextSteps[1])
		}
	})

	t.Run("amounts go through the injected formatter", func(t *testing.T) {
		in := HealthInput{Transactions: []models.Transaction{income(1000), expense(990, "x")}}
		opts := ScoreOptions{FormatAmount: func(v float64) string { return fmt.Sprintf("EUR %.0f", v) }}
		got := ComputeFinancialHealth(in, opts)
		if !strings.Contains(got.NextSteps[0], "EUR 100") {
			t.Errorf("step = %q, want formatted amount", got.NextSteps[0])
		}
	})
}

func TestDeterminism(t *testing.T) {
	in := HealthInput{
		Transactions: []models.Transaction{income(5000), expense(1200, "food"), expense(800, "fun")},
		Budgets:      []models.Budget{{CategoryID: "food", Amount: 1500}, {CategoryID: "fun", Amount: 500}},
		Goals:        []models.Goal{{TargetAmount: 10000, CurrentAmount: 2500}},
		Accounts: []models.Account{
			{Name: "Savings", Type: models.AccountSavings, Balance: 4000},
			{Name: "Visa", Type: models.AccountCredit, Balance: -300},
		},
		TrailingQuarterExpenses: 6000,
	}
	first := ComputeFinancialHealth(in, ScoreOptions{})
	second := ComputeFinancialHealth(in, ScoreOptions{})
	if !reflect.DeepEqual(first, second) {
		t.Error("identical snapshots must yield identical output")
	}
}
