package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/fintrack/fintrack-api/models"
	"github.com/fintrack/fintrack-api/utils"
)

// ============================================================================
// AI INSIGHTS SERVICE
// Rule-based anomaly detection over recent spending, optionally enriched
// with model-generated coaching. Results are persisted so the feed stays
// stable between refreshes.
// ============================================================================

// Anomaly thresholds: a transaction is flagged when it exceeds 1.8x the
// category average and is above the noise floor.
const (
	anomalyFactor     = 1.8
	anomalyFloor      = 50.0
	anomaliesPerGroup = 3 // only the most recent few per category
	insightWindowDays = 7
	historyMonths     = 6
)

type InsightService struct {
	db     *sql.DB
	claude *ClaudeAIService
}

func NewInsightService(db *sql.DB, claude *ClaudeAIService) *InsightService {
	return &InsightService{db: db, claude: claude}
}

// categoryStats aggregates one expense category's recent history.
type categoryStats struct {
	name         string
	total        float64
	count        int
	transactions []models.Transaction // newest first
}

// CategorySpendingSummary is the per-category digest handed to the model.
type CategorySpendingSummary struct {
	Category          string  `json:"category"`
	CurrentMonthTotal float64 `json:"current_month_total"`
	LastMonthTotal    float64 `json:"last_month_total"`
	Average           float64 `json:"average"`
}

// List returns the user's non-dismissed insights from the last week.
func (s *InsightService) List(ctx context.Context, userID string) ([]models.Insight, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, title, description, category, amount, date, is_dismissed, created_at
		FROM ai_insights
		WHERE user_id = $1
		AND is_dismissed = false
		AND created_at > NOW() - make_interval(days => $2)
		ORDER BY created_at DESC
	`, userID, insightWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch insights: %w", err)
	}
	defer rows.Close()

	insights := []models.Insight{}
	for rows.Next() {
		var in models.Insight
		if err := rows.Scan(&in.ID, &in.UserID, &in.Type, &in.Title, &in.Description,
			&in.Category, &in.Amount, &in.Date, &in.IsDismissed, &in.CreatedAt); err != nil {
			return nil, err
		}
		insights = append(insights, in)
	}
	return insights, rows.Err()
}

// Generate recomputes the insight feed: anomalies from the last six
// months of expenses, model coaching when a key is configured, and a
// generic tip when nothing else fired. New rows are persisted.
func (s *InsightService) Generate(ctx context.Context, userID, currency string, formatAmount func(float64) string) ([]models.Insight, error) {
	history, err := s.fetchExpenseHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := groupByCategory(history)
	fresh := detectAnomalies(stats, formatAmount)

	if s.claude != nil && s.claude.Available() && len(history) > 0 {
		coaching, err := s.claude.GenerateCoachingInsights(ctx, currency, buildSpendingSummaries(stats, time.Now()))
		if err != nil {
			// Coaching is best-effort: the rule-based feed still ships.
			utils.SafeWarn("coaching insights unavailable: %v", err)
		}
		for _, c := range coaching {
			fresh = append(fresh, models.Insight{
				Type:        c.Type,
				Title:       c.Title,
				Description: c.Description,
			})
		}
	}

	if len(fresh) == 0 {
		fresh = append(fresh, models.Insight{
			Type:        models.InsightCoaching,
			Title:       "Financial Health Tip",
			Description: "Try the 50/30/20 rule: 50% for needs, 30% for wants, and 20% for savings.",
		})
	}

	saved := make([]models.Insight, 0, len(fresh))
	for _, in := range fresh {
		var row models.Insight
		err := s.db.QueryRowContext(ctx, `
			INSERT INTO ai_insights (user_id, type, title, description, category, amount, date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, user_id, type, title, description, category, amount, date, is_dismissed, created_at
		`, userID, in.Type, in.Title, in.Description, in.Category, in.Amount, in.Date).Scan(
			&row.ID, &row.UserID, &row.Type, &row.Title, &row.Description,
			&row.Category, &row.Amount, &row.Date, &row.IsDismissed, &row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to save insight: %w", err)
		}
		saved = append(saved, row)
	}
	return saved, nil
}

// Dismiss hides one insight from the feed.
func (s *InsightService) Dismiss(ctx context.Context, userID, insightID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE ai_insights SET is_dismissed = true WHERE id = $1 AND user_id = $2`,
		insightID, userID)
	if err != nil {
		return fmt.Errorf("failed to dismiss insight: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *InsightService) fetchExpenseHistory(ctx context.Context, userID string) ([]models.Transaction, error) {
	since := time.Now().AddDate(0, -historyMonths, 0)
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.type, t.amount, t.description, t.date, c.name
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1
		AND t.type = 'expense'
		AND t.date >= $2
		ORDER BY t.date DESC
	`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expense history: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var categoryName string
		if err := rows.Scan(&t.ID, &t.Type, &t.Amount, &t.Description, &t.Date, &categoryName); err != nil {
			return nil, err
		}
		t.CategoryName = &categoryName
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// groupByCategory buckets categorized expenses, preserving newest-first
// order within each bucket.
func groupByCategory(transactions []models.Transaction) []categoryStats {
	index := make(map[string]int)
	var stats []categoryStats
	for _, t := range transactions {
		if t.Type != models.TransactionExpense || t.CategoryName == nil {
			continue
		}
		name := *t.CategoryName
		i, ok := index[name]
		if !ok {
			i = len(stats)
			index[name] = i
			stats = append(stats, categoryStats{name: name})
		}
		stats[i].total += t.Amount
		stats[i].count++
		stats[i].transactions = append(stats[i].transactions, t)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].name < stats[j].name })
	return stats
}

// detectAnomalies flags recent transactions that are far above their
// category's average.
func detectAnomalies(stats []categoryStats, formatAmount func(float64) string) []models.Insight {
	if formatAmount == nil {
		formatAmount = func(v float64) string { return fmt.Sprintf("%.2f", v) }
	}

	var insights []models.Insight
	for _, cs := range stats {
		if cs.count == 0 {
			continue
		}
		average := cs.total / float64(cs.count)
		recent := cs.transactions
		if len(recent) > anomaliesPerGroup {
			recent = recent[:anomaliesPerGroup]
		}
		for _, t := range recent {
			if t.Amount <= average*anomalyFactor || t.Amount <= anomalyFloor {
				continue
			}
			label := cs.name
			if t.Description != "" {
				label = t.Description
			}
			category := cs.name
			amount := t.Amount
			date := t.Date
			insights = append(insights, models.Insight{
				Type:  models.InsightAnomaly,
				Title: "Unusual Spending",
				Description: fmt.Sprintf("You spent %s on %s, which is higher than your typical %s average.",
					formatAmount(t.Amount), label, formatAmount(average)),
				Category: &category,
				Amount:   &amount,
				Date:     &date,
			})
		}
	}
	return insights
}

// buildSpendingSummaries digests the stats for the coaching prompt:
// current month vs previous month vs overall average, per category.
func buildSpendingSummaries(stats []categoryStats, now time.Time) []CategorySpendingSummary {
	currentYear, currentMonth, _ := now.Date()
	// First-of-month before stepping back avoids end-of-month normalization.
	prev := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	prevYear, prevMonth, _ := prev.Date()

	summaries := make([]CategorySpendingSummary, 0, len(stats))
	for _, cs := range stats {
		if cs.count == 0 {
			continue
		}
		summary := CategorySpendingSummary{
			Category: cs.name,
			Average:  cs.total / float64(cs.count),
		}
		for _, t := range cs.transactions {
			y, m, _ := t.Date.Date()
			switch {
			case y == currentYear && m == currentMonth:
				summary.CurrentMonthTotal += t.Amount
			case y == prevYear && m == prevMonth:
				summary.LastMonthTotal += t.Amount
			}
		}
		summary.Average = math.Round(summary.Average*100) / 100
		summaries = append(summaries, summary)
	}
	return summaries
}
