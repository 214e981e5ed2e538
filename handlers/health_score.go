package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/models"
	"github.com/fintrack/fintrack-api/services"
)

// HealthScoreHandler assembles the snapshot the scorer needs and runs it.
type HealthScoreHandler struct {
	DB *sql.DB
}

func (h *HealthScoreHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	var (
		currency     string
		transactions []models.Transaction
		budgets      []models.Budget
		goals        []models.Goal
		accounts     []models.Account
		quarterSpend float64
	)

	// The five queries are independent; fetch them concurrently.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return h.DB.QueryRowContext(gctx,
			`SELECT currency FROM users WHERE id = $1`, userID).Scan(&currency)
	})
	g.Go(func() error {
		var err error
		transactions, err = h.fetchMonthTransactions(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = h.fetchBudgetsWithSpend(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = h.fetchGoals(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = h.fetchActiveAccounts(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load financial snapshot"})
		return
	}

	// Trailing quarter spend feeds the emergency fund target; it reads
	// the same table as the month fetch, so it runs after the group.
	err := h.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
		AND type = 'expense'
		AND date >= date_trunc('month', CURRENT_DATE) - interval '3 months'
		AND date < date_trunc('month', CURRENT_DATE)
	`, userID).Scan(&quarterSpend)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load financial snapshot"})
		return
	}

	health := services.ComputeFinancialHealth(services.HealthInput{
		Transactions:            transactions,
		Budgets:                 budgets,
		Goals:                   goals,
		Accounts:                accounts,
		TrailingQuarterExpenses: quarterSpend,
	}, services.ScoreOptions{
		FallbackMonthlyExpense: fallbackMonthlyExpense(),
		FormatAmount:           currencyFormatter(currency),
	})

	c.JSON(http.StatusOK, health)
}

func (h *HealthScoreHandler) fetchMonthTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := h.DB.QueryContext(ctx, `
		SELECT id, type, amount, category_id, date
		FROM transactions
		WHERE user_id = $1 AND date >= date_trunc('month', CURRENT_DATE)
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Type, &t.Amount, &t.CategoryID, &t.Date); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (h *HealthScoreHandler) fetchBudgetsWithSpend(ctx context.Context, userID string) ([]models.Budget, error) {
	rows, err := h.DB.QueryContext(ctx, `
		SELECT b.id, b.category_id, b.amount, b.period,
		       COALESCE((
		           SELECT SUM(t.amount)
		           FROM transactions t
		           WHERE t.user_id = b.user_id
		           AND t.category_id = b.category_id
		           AND t.type = 'expense'
		           AND t.date >= date_trunc('month', CURRENT_DATE)
		       ), 0)
		FROM budgets b
		WHERE b.user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.CategoryID, &b.Amount, &b.Period, &b.Spent); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (h *HealthScoreHandler) fetchGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	rows, err := h.DB.QueryContext(ctx, `
		SELECT id, name, target_amount, current_amount
		FROM goals
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.CurrentAmount); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (h *HealthScoreHandler) fetchActiveAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	rows, err := h.DB.QueryContext(ctx, `
		SELECT id, name, type, balance
		FROM accounts
		WHERE user_id = $1 AND is_active = true
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Balance); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func fallbackMonthlyExpense() float64 {
	if v := os.Getenv("HEALTH_FALLBACK_MONTHLY_EXPENSE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return 0 // scorer applies its own default
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CHF": "CHF ",
	"CAD": "CA$",
	"AUD": "A$",
}

// currencyFormatter renders whole amounts with the user's currency
// symbol, falling back to the ISO code.
func currencyFormatter(currency string) func(float64) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}
	return func(v float64) string {
		return fmt.Sprintf("%s%.0f", symbol, v)
	}
}
