package services

import (
	"testing"

	"github.com/fintrack/fintrack-api/models"
)

func activeDebt(name string, balance, rate, minPayment float64) models.Debt {
	return models.Debt{
		Name:           name,
		OriginalAmount: balance,
		CurrentBalance: balance,
		InterestRate:   rate,
		MinimumPayment: minPayment,
		IsActive:       true,
	}
}

func TestEstimatePayoff(t *testing.T) {
	tests := []struct {
		name         string
		debt         models.Debt
		wantMonths   int
		wantNoEst    bool
		wantInterest float64
	}{
		{
			name:         "zero rate divides evenly",
			debt:         activeDebt("loan", 1000, 0, 100),
			wantMonths:   10,
			wantInterest: 0,
		},
		{
			name:       "zero rate rounds up",
			debt:       activeDebt("loan", 1000, 0, 300),
			wantMonths: 4,
			// 4 payments of 300 total 1200 against a 1000 balance.
			wantInterest: 200,
		},
		{
			name:      "zero balance has no estimate",
			debt:      models.Debt{CurrentBalance: 0, MinimumPayment: 100, IsActive: true},
			wantNoEst: true,
		},
		{
			name:      "zero payment has no estimate",
			debt:      activeDebt("loan", 1000, 5, 0),
			wantNoEst: true,
		},
		{
			name: "payment below monthly interest never converges",
			// 24% APR on 1000 accrues 20/month; 15 does not cover it.
			debt:      activeDebt("card", 1000, 24, 15),
			wantNoEst: true,
		},
		{
			name: "payment exactly at monthly interest never converges",
			debt: activeDebt("card", 1000, 24, 20),

			wantNoEst: true,
		},
		{
			name: "standard amortization",
			// 12% APR, 1% monthly: ln(100/(100-10))/ln(1.01) ~ 10.6 -> 11.
			debt:         activeDebt("loan", 1000, 12, 100),
			wantMonths:   11,
			wantInterest: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimatePayoff(tt.debt)
			if tt.wantNoEst {
				if got.Months != nil {
					t.Fatalf("months = %d, want no estimate", *got.Months)
				}
				if got.TotalInterest != 0 {
					t.Errorf("total interest = %v, want 0 without an estimate", got.TotalInterest)
				}
				return
			}
			if got.Months == nil {
				t.Fatal("months = nil, want an estimate")
			}
			if *got.Months != tt.wantMonths {
				t.Errorf("months = %d, want %d", *got.Months, tt.wantMonths)
			}
			if got.TotalInterest != tt.wantInterest {
				t.Errorf("total interest = %v, want %v", got.TotalInterest, tt.wantInterest)
			}
		})
	}
}

func TestEstimatePayoffNeverNegative(t *testing.T) {
	// Large payment against a small balance: one month, interest floors at 0.
	got := EstimatePayoff(activeDebt("loan", 50, 10, 5000))
	if got.Months == nil || *got.Months != 1 {
		t.Fatalf("months = %v, want 1", got.Months)
	}
	if got.TotalInterest < 0 {
		t.Errorf("total interest = %v, want >= 0", got.TotalInterest)
	}
}

func TestPayoffProgress(t *testing.T) {
	tests := []struct {
		name string
		debt models.Debt
		want float64
	}{
		{"half paid", models.Debt{OriginalAmount: 1000, CurrentBalance: 500}, 50},
		{"fully paid", models.Debt{OriginalAmount: 1000, CurrentBalance: 0}, 100},
		{"zero original is trivially paid", models.Debt{OriginalAmount: 0, CurrentBalance: 0}, 100},
		{"balance above original clamps at 0", models.Debt{OriginalAmount: 1000, CurrentBalance: 1500}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PayoffProgress(tt.debt); got != tt.want {
				t.Errorf("progress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankings(t *testing.T) {
	debts := []models.Debt{
		activeDebt("car", 8000, 6.5, 250),
		activeDebt("card", 2000, 22, 60),
		activeDebt("student", 15000, 4.2, 180),
		{Name: "paid off", CurrentBalance: 0, InterestRate: 30, IsActive: true},
		{Name: "closed", CurrentBalance: 5000, InterestRate: 18, IsActive: false},
	}

	t.Run("snowball ascending by balance", func(t *testing.T) {
		got := RankSnowball(debts)
		if len(got) != 3 {
			t.Fatalf("ranked %d debts, want 3 (inactive and zero-balance excluded)", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i-1].CurrentBalance > got[i].CurrentBalance {
				t.Errorf("snowball not non-decreasing at %d: %v > %v",
					i, got[i-1].CurrentBalance, got[i].CurrentBalance)
			}
		}
		if got[0].Name != "card" {
			t.Errorf("first = %q, want smallest balance first", got[0].Name)
		}
	})

	t.Run("avalanche descending by rate", func(t *testing.T) {
		got := RankAvalanche(debts)
		if len(got) != 3 {
			t.Fatalf("ranked %d debts, want 3", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i-1].InterestRate < got[i].InterestRate {
				t.Errorf("avalanche not non-increasing at %d: %v < %v",
					i, got[i-1].InterestRate, got[i].InterestRate)
			}
		}
		if got[0].Name != "card" {
			t.Errorf("first = %q, want highest rate first", got[0].Name)
		}
	})

	t.Run("input order preserved", func(t *testing.T) {
		names := func(ds []models.Debt) []string {
			out := make([]string, len(ds))
			for i, d := range ds {
				out[i] = d.Name
			}
			return out
		}
		before := names(debts)
		RankSnowball(debts)
		RankAvalanche(debts)
		after := names(debts)
		for i := range before {
			if before[i] != after[i] {
				t.Fatal("ranking mutated the input slice")
			}
		}
	})
}

func TestBuildDebtPlan(t *testing.T) {
	debts := []models.Debt{
		activeDebt("card", 2000, 22, 60),
		activeDebt("car", 8000, 6, 250),
		{Name: "closed", CurrentBalance: 400, MinimumPayment: 50, IsActive: false},
	}
	plan := BuildDebtPlan(debts)

	if len(plan.Entries) != 3 {
		t.Errorf("entries = %d, want one per debt", len(plan.Entries))
	}
	if plan.TotalDebt != 10000 {
		t.Errorf("total debt = %v, want 10000 (active only)", plan.TotalDebt)
	}
	if plan.TotalMinPayment != 310 {
		t.Errorf("total min payment = %v, want 310", plan.TotalMinPayment)
	}
	if plan.AvgInterestRate != 14 {
		t.Errorf("avg rate = %v, want 14", plan.AvgInterestRate)
	}
	if len(plan.Snowball) != 2 || len(plan.Avalanche) != 2 {
		t.Errorf("rankings = %d/%d, want 2/2", len(plan.Snowball), len(plan.Avalanche))
	}
}

func TestBuildDebtPlanEmpty(t *testing.T) {
	plan := BuildDebtPlan(nil)
	if plan.AvgInterestRate != 0 || plan.TotalDebt != 0 {
		t.Errorf("empty plan totals = %v/%v, want zeros", plan.TotalDebt, plan.AvgInterestRate)
	}
	if len(plan.Entries) != 0 {
		t.Errorf("entries = %d, want 0", len(plan.Entries))
	}
}
