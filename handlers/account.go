package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/models"
)

type AccountHandler struct {
	DB *sql.DB
	WS *WSHandler
}

func (h *AccountHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, name, type, balance, currency, color, icon, is_active, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accounts"})
		return
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Currency,
			&a.Color, &a.Icon, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan account"})
			return
		}
		accounts = append(accounts, a)
	}

	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Currency == "" {
		req.Currency = "USD"
	}
	if req.Color == "" {
		req.Color = "#6366f1"
	}
	if req.Icon == "" {
		req.Icon = "Wallet"
	}

	var a models.Account
	err := h.DB.QueryRow(`
		INSERT INTO accounts (user_id, name, type, balance, currency, color, icon)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, name, type, balance, currency, color, icon, is_active, created_at, updated_at
	`, userID, req.Name, req.Type, req.Balance, req.Currency, req.Color, req.Icon).Scan(
		&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Currency,
		&a.Color, &a.Icon, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	h.WS.NotifyChange(userID, "accounts")
	c.JSON(http.StatusCreated, a)
}

func (h *AccountHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	accountID := c.Param("id")

	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var a models.Account
	err := h.DB.QueryRow(`
		UPDATE accounts
		SET name = COALESCE($1, name),
		    type = COALESCE($2, type),
		    balance = COALESCE($3, balance),
		    color = COALESCE($4, color),
		    icon = COALESCE($5, icon),
		    is_active = COALESCE($6, is_active),
		    updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING id, user_id, name, type, balance, currency, color, icon, is_active, created_at, updated_at
	`, req.Name, req.Type, req.Balance, req.Color, req.Icon, req.IsActive, accountID, userID).Scan(
		&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Currency,
		&a.Color, &a.Icon, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
		return
	}

	h.WS.NotifyChange(userID, "accounts")
	c.JSON(http.StatusOK, a)
}

func (h *AccountHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	accountID := c.Param("id")

	result, err := h.DB.Exec(`DELETE FROM accounts WHERE id = $1 AND user_id = $2`, accountID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	h.WS.NotifyChange(userID, "accounts")
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
