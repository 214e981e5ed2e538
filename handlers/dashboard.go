package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/models"
)

type DashboardHandler struct {
	DB *sql.DB
}

const trendMonths = 6

// Stats returns the headline numbers: total balance across active
// accounts and the current month's income, expenses and savings rate.
func (h *DashboardHandler) Stats(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var stats models.DashboardStats

	err := h.DB.QueryRow(`
		SELECT COALESCE(SUM(balance), 0)
		FROM accounts
		WHERE user_id = $1 AND is_active = true
	`, userID).Scan(&stats.TotalBalance)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch balance"})
		return
	}

	err = h.DB.QueryRow(`
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= date_trunc('month', CURRENT_DATE)
	`, userID).Scan(&stats.MonthlyIncome, &stats.MonthlyExpenses)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch monthly totals"})
		return
	}

	stats.MonthlyNet = stats.MonthlyIncome - stats.MonthlyExpenses
	if stats.MonthlyIncome > 0 {
		stats.SavingsRate = stats.MonthlyNet / stats.MonthlyIncome * 100
		if stats.SavingsRate < 0 {
			stats.SavingsRate = 0
		}
	}

	c.JSON(http.StatusOK, stats)
}

// SpendingByCategory breaks the current month's expenses down per
// category with each slice's share of the total.
func (h *DashboardHandler) SpendingByCategory(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT COALESCE(c.name, 'Uncategorized'), COALESCE(c.color, '#94a3b8'), SUM(t.amount)
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1
		AND t.type = 'expense'
		AND t.date >= date_trunc('month', CURRENT_DATE)
		GROUP BY c.name, c.color
		ORDER BY SUM(t.amount) DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch spending"})
		return
	}
	defer rows.Close()

	spending := []models.SpendingByCategory{}
	var total float64
	for rows.Next() {
		var s models.SpendingByCategory
		if err := rows.Scan(&s.Category, &s.Color, &s.Amount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan spending"})
			return
		}
		total += s.Amount
		spending = append(spending, s)
	}

	if total > 0 {
		for i := range spending {
			spending[i].Percentage = spending[i].Amount / total * 100
		}
	}

	c.JSON(http.StatusOK, spending)
}

// Trends returns income vs expenses per month over the trailing window.
func (h *DashboardHandler) Trends(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT to_char(date_trunc('month', date), 'YYYY-MM'),
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1
		AND date >= date_trunc('month', CURRENT_DATE) - make_interval(months => $2)
		GROUP BY date_trunc('month', date)
		ORDER BY date_trunc('month', date) ASC
	`, userID, trendMonths-1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trends"})
		return
	}
	defer rows.Close()

	trends := []models.MonthlyTrend{}
	for rows.Next() {
		var t models.MonthlyTrend
		if err := rows.Scan(&t.Month, &t.Income, &t.Expenses); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan trend"})
			return
		}
		trends = append(trends, t)
	}

	c.JSON(http.StatusOK, trends)
}
