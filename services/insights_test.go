package services

import (
	"strings"
	"testing"
	"time"

	"github.com/fintrack/fintrack-api/models"
)

func categorizedExpense(amount float64, category, description string, date time.Time) models.Transaction {
	return models.Transaction{
		Type:         models.TransactionExpense,
		Amount:       amount,
		Description:  description,
		Date:         date,
		CategoryName: &category,
	}
}

func TestDetectAnomalies(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	t.Run("flags spikes above category average", func(t *testing.T) {
		// Average over {40, 40, 40, 400} is 130; 400 > 1.8*130 and > 50.
		history := []models.Transaction{
			categorizedExpense(400, "Dining", "Anniversary dinner", now),
			categorizedExpense(40, "Dining", "", now.AddDate(0, 0, -3)),
			categorizedExpense(40, "Dining", "", now.AddDate(0, 0, -10)),
			categorizedExpense(40, "Dining", "", now.AddDate(0, 0, -20)),
		}
		got := detectAnomalies(groupByCategory(history), nil)
		if len(got) != 1 {
			t.Fatalf("anomalies = %d, want 1", len(got))
		}
		if got[0].Type != models.InsightAnomaly {
			t.Errorf("type = %q, want anomaly", got[0].Type)
		}
		if !strings.Contains(got[0].Description, "Anniversary dinner") {
			t.Errorf("description = %q, want transaction label", got[0].Description)
		}
		if got[0].Amount == nil || *got[0].Amount != 400 {
			t.Errorf("amount = %v, want 400", got[0].Amount)
		}
	})

	t.Run("small spikes stay under the noise floor", func(t *testing.T) {
		// 45 is over 1.8x the 10 average but still under the 50 floor.
		history := []models.Transaction{
			categorizedExpense(45, "Coffee", "", now),
			categorizedExpense(5, "Coffee", "", now.AddDate(0, 0, -2)),
			categorizedExpense(5, "Coffee", "", now.AddDate(0, 0, -4)),
		}
		got := detectAnomalies(groupByCategory(history), nil)
		if len(got) != 0 {
			t.Errorf("anomalies = %d, want 0", len(got))
		}
	})

	t.Run("only the most recent transactions are considered", func(t *testing.T) {
		// The spike is fourth-newest, outside the inspection window.
		history := []models.Transaction{
			categorizedExpense(40, "Dining", "", now),
			categorizedExpense(40, "Dining", "", now.AddDate(0, 0, -1)),
			categorizedExpense(40, "Dining", "", now.AddDate(0, 0, -2)),
			categorizedExpense(500, "Dining", "", now.AddDate(0, 0, -3)),
		}
		got := detectAnomalies(groupByCategory(history), nil)
		if len(got) != 0 {
			t.Errorf("anomalies = %d, want 0 when the spike is old", len(got))
		}
	})

	t.Run("uncategorized expenses are ignored", func(t *testing.T) {
		history := []models.Transaction{
			{Type: models.TransactionExpense, Amount: 5000, Date: now},
		}
		got := detectAnomalies(groupByCategory(history), nil)
		if len(got) != 0 {
			t.Errorf("anomalies = %d, want 0 without categories", len(got))
		}
	})
}

func TestBuildSpendingSummaries(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	history := []models.Transaction{
		categorizedExpense(120, "Groceries", "", now.AddDate(0, 0, -1)),
		categorizedExpense(80, "Groceries", "", now.AddDate(0, 0, -5)),
		categorizedExpense(150, "Groceries", "", time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)),
		categorizedExpense(90, "Groceries", "", time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)),
	}

	got := buildSpendingSummaries(groupByCategory(history), now)
	if len(got) != 1 {
		t.Fatalf("summaries = %d, want 1", len(got))
	}
	s := got[0]
	if s.Category != "Groceries" {
		t.Errorf("category = %q", s.Category)
	}
	if s.CurrentMonthTotal != 200 {
		t.Errorf("current month = %v, want 200", s.CurrentMonthTotal)
	}
	if s.LastMonthTotal != 150 {
		t.Errorf("last month = %v, want 150", s.LastMonthTotal)
	}
	if s.Average != 110 {
		t.Errorf("average = %v, want 110", s.Average)
	}
}

func TestGroupByCategoryStableOrder(t *testing.T) {
	now := time.Now()
	history := []models.Transaction{
		categorizedExpense(10, "Zoo", "", now),
		categorizedExpense(10, "Auto", "", now),
		categorizedExpense(10, "Music", "", now),
	}
	stats := groupByCategory(history)
	if len(stats) != 3 {
		t.Fatalf("groups = %d, want 3", len(stats))
	}
	if stats[0].name != "Auto" || stats[1].name != "Music" || stats[2].name != "Zoo" {
		t.Errorf("order = %s,%s,%s, want alphabetical", stats[0].name, stats[1].name, stats[2].name)
	}
}
