package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/models"
)

type BudgetHandler struct {
	DB *sql.DB
	WS *WSHandler
}

// List returns the user's budgets with realized spend for the current
// period (week, month or year, per budget).
func (h *BudgetHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT b.id, b.user_id, b.category_id, b.amount, b.period,
		       b.start_date, b.end_date, b.created_at, b.updated_at,
		       c.name,
		       COALESCE((
		           SELECT SUM(t.amount)
		           FROM transactions t
		           WHERE t.user_id = b.user_id
		           AND t.category_id = b.category_id
		           AND t.type = 'expense'
		           AND t.date >= CASE b.period
		               WHEN 'weekly' THEN date_trunc('week', CURRENT_DATE)
		               WHEN 'yearly' THEN date_trunc('year', CURRENT_DATE)
		               ELSE date_trunc('month', CURRENT_DATE)
		           END
		       ), 0) AS spent
		FROM budgets b
		JOIN categories c ON b.category_id = c.id
		WHERE b.user_id = $1
		ORDER BY c.name ASC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budgets"})
		return
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period,
			&b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt, &b.CategoryName, &b.Spent); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan budget"})
			return
		}
		budgets = append(budgets, b)
	}

	c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var b models.Budget
	err := h.DB.QueryRow(`
		INSERT INTO budgets (user_id, category_id, amount, period)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, category_id, amount, period, start_date, end_date, created_at, updated_at
	`, userID, req.CategoryID, req.Amount, req.Period).Scan(
		&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period,
		&b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		// Most likely the UNIQUE(user_id, category_id) constraint.
		c.JSON(http.StatusConflict, gin.H{"error": "Budget for this category already exists"})
		return
	}

	h.WS.NotifyChange(userID, "budgets")
	c.JSON(http.StatusCreated, b)
}

func (h *BudgetHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	var req models.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var b models.Budget
	err := h.DB.QueryRow(`
		UPDATE budgets
		SET amount = COALESCE($1, amount),
		    period = COALESCE($2, period),
		    updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, category_id, amount, period, start_date, end_date, created_at, updated_at
	`, req.Amount, req.Period, budgetID, userID).Scan(
		&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period,
		&b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget"})
		return
	}

	h.WS.NotifyChange(userID, "budgets")
	c.JSON(http.StatusOK, b)
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	result, err := h.DB.Exec(`DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete budget"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}

	h.WS.NotifyChange(userID, "budgets")
	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted"})
}
