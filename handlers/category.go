package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/models"
)

type CategoryHandler struct {
	DB *sql.DB
	WS *WSHandler
}

func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, name, type, color, icon, parent_id, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name ASC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Color,
			&cat.Icon, &cat.ParentID, &cat.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan category"})
			return
		}
		categories = append(categories, cat)
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Color == "" {
		req.Color = "#6366f1"
	}
	if req.Icon == "" {
		req.Icon = "Tag"
	}

	var cat models.Category
	err := h.DB.QueryRow(`
		INSERT INTO categories (user_id, name, type, color, icon, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, name, type, color, icon, parent_id, created_at
	`, userID, req.Name, req.Type, req.Color, req.Icon, req.ParentID).Scan(
		&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Color, &cat.Icon, &cat.ParentID, &cat.CreatedAt)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	h.WS.NotifyChange(userID, "categories")
	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	categoryID := c.Param("id")

	result, err := h.DB.Exec(`DELETE FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	h.WS.NotifyChange(userID, "categories")
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
