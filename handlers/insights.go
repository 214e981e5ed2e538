package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/models"
	"github.com/fintrack/fintrack-api/services"
)

type InsightHandler struct {
	DB       *sql.DB
	Insights *services.InsightService
	Claude   *services.ClaudeAIService
}

func (h *InsightHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	insights, err := h.Insights.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch insights"})
		return
	}

	c.JSON(http.StatusOK, insights)
}

func (h *InsightHandler) Generate(c *gin.Context) {
	userID := middleware.GetUserID(c)

	currency, err := h.userCurrency(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	insights, err := h.Insights.Generate(c.Request.Context(), userID, currency, currencyFormatter(currency))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate insights"})
		return
	}

	c.JSON(http.StatusOK, insights)
}

func (h *InsightHandler) Dismiss(c *gin.Context) {
	userID := middleware.GetUserID(c)
	insightID := c.Param("id")

	err := h.Insights.Dismiss(c.Request.Context(), userID, insightID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Insight not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to dismiss insight"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Insight dismissed"})
}

// Chat answers a free-form question grounded in the user's accounts,
// recent transactions and budgets.
func (h *InsightHandler) Chat(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if h.Claude == nil || !h.Claude.Available() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI assistant is not configured"})
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chatCtx, err := h.buildChatContext(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load financial context"})
		return
	}

	reply, err := h.Claude.Chat(c.Request.Context(), chatCtx, req.Message)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI assistant is unavailable"})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
}

func (h *InsightHandler) userCurrency(userID string) (string, error) {
	var currency string
	err := h.DB.QueryRow(`SELECT currency FROM users WHERE id = $1`, userID).Scan(&currency)
	return currency, err
}

type chatAccount struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Balance float64 `json:"balance"`
}

type chatTransaction struct {
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

type chatBudget struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Period   string  `json:"period"`
}

const chatTransactionLimit = 50

func (h *InsightHandler) buildChatContext(userID string) (services.ChatContext, error) {
	var chatCtx services.ChatContext

	currency, err := h.userCurrency(userID)
	if err != nil {
		return chatCtx, err
	}
	chatCtx.Currency = currency

	rows, err := h.DB.Query(`
		SELECT name, type, balance FROM accounts
		WHERE user_id = $1 AND is_active = true
	`, userID)
	if err != nil {
		return chatCtx, err
	}
	defer rows.Close()

	accounts := []chatAccount{}
	for rows.Next() {
		var a chatAccount
		if err := rows.Scan(&a.Name, &a.Type, &a.Balance); err != nil {
			return chatCtx, err
		}
		accounts = append(accounts, a)
	}
	chatCtx.Accounts = accounts

	txRows, err := h.DB.Query(`
		SELECT t.date, t.type, t.amount, COALESCE(c.name, ''), COALESCE(t.description, '')
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $2
	`, userID, chatTransactionLimit)
	if err != nil {
		return chatCtx, err
	}
	defer txRows.Close()

	transactions := []chatTransaction{}
	for txRows.Next() {
		var t chatTransaction
		var date sql.NullTime
		if err := txRows.Scan(&date, &t.Type, &t.Amount, &t.Category, &t.Description); err != nil {
			return chatCtx, err
		}
		if date.Valid {
			t.Date = date.Time.Format("2006-01-02")
		}
		transactions = append(transactions, t)
	}
	chatCtx.RecentTransactions = transactions

	budgetRows, err := h.DB.Query(`
		SELECT c.name, b.amount, b.period
		FROM budgets b
		JOIN categories c ON b.category_id = c.id
		WHERE b.user_id = $1
	`, userID)
	if err != nil {
		return chatCtx, err
	}
	defer budgetRows.Close()

	budgets := []chatBudget{}
	for budgetRows.Next() {
		var b chatBudget
		if err := budgetRows.Scan(&b.Category, &b.Amount, &b.Period); err != nil {
			return chatCtx, err
		}
		budgets = append(budgets, b)
	}
	chatCtx.Budgets = budgets

	return chatCtx, nil
}
