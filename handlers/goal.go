package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/models"
)

type GoalHandler struct {
	DB *sql.DB
	WS *WSHandler
}

func (h *GoalHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, name, target_amount, current_amount, deadline, color, icon, created_at, updated_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch goals"})
		return
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
			&g.Deadline, &g.Color, &g.Icon, &g.CreatedAt, &g.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan goal"})
			return
		}
		goals = append(goals, g)
	}

	c.JSON(http.StatusOK, goals)
}

func (h *GoalHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var deadline *time.Time
	if req.Deadline != nil && *req.Deadline != "" {
		d, err := time.Parse("2006-01-02", *req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deadline, expected yyyy-mm-dd"})
			return
		}
		deadline = &d
	}

	if req.Color == "" {
		req.Color = "#22c55e"
	}
	if req.Icon == "" {
		req.Icon = "Target"
	}

	var g models.Goal
	err := h.DB.QueryRow(`
		INSERT INTO goals (user_id, name, target_amount, deadline, color, icon)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, name, target_amount, current_amount, deadline, color, icon, created_at, updated_at
	`, userID, req.Name, req.TargetAmount, deadline, req.Color, req.Icon).Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.Deadline, &g.Color, &g.Icon, &g.CreatedAt, &g.UpdatedAt)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}

	h.WS.NotifyChange(userID, "goals")
	c.JSON(http.StatusCreated, g)
}

// Contribute adds funds toward a goal. Over-funding past the target is
// allowed.
func (h *GoalHandler) Contribute(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	var req models.ContributeGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var g models.Goal
	err := h.DB.QueryRow(`
		UPDATE goals
		SET current_amount = current_amount + $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, name, target_amount, current_amount, deadline, color, icon, created_at, updated_at
	`, req.Amount, goalID, userID).Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.Deadline, &g.Color, &g.Icon, &g.CreatedAt, &g.UpdatedAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}

	h.WS.NotifyChange(userID, "goals")
	c.JSON(http.StatusOK, g)
}

func (h *GoalHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	result, err := h.DB.Exec(`DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete goal"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	h.WS.NotifyChange(userID, "goals")
	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted"})
}
