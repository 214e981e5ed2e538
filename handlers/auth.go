package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/models"
	"github.com/fintrack/fintrack-api/utils"
)

const refreshTokenTTL = 7 * 24 * time.Hour

type AuthHandler struct {
	DB *sql.DB
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var exists bool
	err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", req.Email).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	var user models.User
	err = h.DB.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, currency, totp_enabled, created_at, updated_at
	`, req.Email, passwordHash, req.Name).Scan(
		&user.ID, &user.Email, &user.Name, &user.Currency, &user.TOTPEnabled, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	tokens, err := h.issueTokens(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}

	utils.LogAuthAction("signup", user.Email, true)
	c.JSON(http.StatusCreated, models.AuthResponse{
		User:         user,
		AccessToken:  tokens.access,
		RefreshToken: tokens.refresh,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	var passwordHash string
	var totpSecret sql.NullString

	err := h.DB.QueryRow(`
		SELECT id, email, password_hash, name, currency, totp_secret, totp_enabled, created_at, updated_at
		FROM users
		WHERE email = $1
	`, req.Email).Scan(&user.ID, &user.Email, &passwordHash, &user.Name, &user.Currency,
		&totpSecret, &user.TOTPEnabled, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		utils.LogAuthAction("login", req.Email, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !utils.CheckPassword(req.Password, passwordHash) {
		utils.LogAuthAction("login", req.Email, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "2FA code required", "requires_2fa": true})
			return
		}

		if totpSecret.Valid {
			secret, err := utils.Decrypt(totpSecret.String)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify 2FA"})
				return
			}
			valid, err := utils.VerifyTOTP(string(secret), req.TOTPCode)
			if err != nil || !valid {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid 2FA code"})
				return
			}
		}
	}

	tokens, err := h.issueTokens(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}

	utils.LogAuthAction("login", user.Email, true)
	c.JSON(http.StatusOK, models.AuthResponse{
		User:         user,
		AccessToken:  tokens.access,
		RefreshToken: tokens.refresh,
	})
}

// Refresh exchanges a valid refresh token for a new access token. The
// session row is rotated so stolen refresh tokens age out.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var userID, email string
	err := h.DB.QueryRow(`
		SELECT u.id, u.email
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.refresh_token = $1 AND s.expires_at > NOW()
	`, req.RefreshToken).Scan(&userID, &email)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	tokens, err := h.issueTokens(userID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}

	if _, err := h.DB.Exec(`DELETE FROM sessions WHERE refresh_token = $1`, req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.access,
		"refresh_token": tokens.refresh,
	})
}

type tokenPair struct {
	access  string
	refresh string
}

func (h *AuthHandler) issueTokens(userID, email string) (tokenPair, error) {
	access, err := utils.GenerateAccessToken(userID, email)
	if err != nil {
		return tokenPair{}, err
	}

	refresh, err := utils.GenerateRefreshToken()
	if err != nil {
		return tokenPair{}, err
	}

	_, err = h.DB.Exec(`
		INSERT INTO sessions (user_id, refresh_token, expires_at)
		VALUES ($1, $2, $3)
	`, userID, refresh, time.Now().Add(refreshTokenTTL))
	if err != nil {
		return tokenPair{}, err
	}

	return tokenPair{access: access, refresh: refresh}, nil
}
