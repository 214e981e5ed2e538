package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/models"
	"github.com/fintrack/fintrack-api/services"
	"github.com/fintrack/fintrack-api/utils"
)

type DebtHandler struct {
	DB *sql.DB
	WS *WSHandler
}

func (h *DebtHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	debts, err := h.fetchDebts(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch debts"})
		return
	}

	c.JSON(http.StatusOK, debts)
}

// Plan returns payoff projections and both payoff orderings over the
// user's debts.
func (h *DebtHandler) Plan(c *gin.Context) {
	userID := middleware.GetUserID(c)

	debts, err := h.fetchDebts(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch debts"})
		return
	}

	c.JSON(http.StatusOK, services.BuildDebtPlan(debts))
}

func (h *DebtHandler) fetchDebts(userID string) ([]models.Debt, error) {
	rows, err := h.DB.Query(`
		SELECT id, user_id, name, type, original_amount, current_balance, interest_rate,
		       minimum_payment, due_day, start_date, end_date, COALESCE(lender, ''),
		       COALESCE(notes, ''), color, icon, is_active, created_at, updated_at
		FROM debts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debts := []models.Debt{}
	for rows.Next() {
		var d models.Debt
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Type, &d.OriginalAmount,
			&d.CurrentBalance, &d.InterestRate, &d.MinimumPayment, &d.DueDay,
			&d.StartDate, &d.EndDate, &d.Lender, &d.Notes, &d.Color, &d.Icon,
			&d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (h *DebtHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected yyyy-mm-dd"})
		return
	}

	// A new debt with no stated balance starts at the full amount.
	if req.CurrentBalance == 0 {
		req.CurrentBalance = req.OriginalAmount
	}
	if req.Color == "" {
		req.Color = "#ef4444"
	}
	if req.Icon == "" {
		req.Icon = "CreditCard"
	}

	var d models.Debt
	err = h.DB.QueryRow(`
		INSERT INTO debts (user_id, name, type, original_amount, current_balance, interest_rate,
		                   minimum_payment, due_day, start_date, lender, notes, color, icon)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, user_id, name, type, original_amount, current_balance, interest_rate,
		          minimum_payment, due_day, start_date, end_date, COALESCE(lender, ''),
		          COALESCE(notes, ''), color, icon, is_active, created_at, updated_at
	`, userID, req.Name, req.Type, req.OriginalAmount, req.CurrentBalance, req.InterestRate,
		req.MinimumPayment, req.DueDay, startDate, req.Lender, req.Notes, req.Color, req.Icon).Scan(
		&d.ID, &d.UserID, &d.Name, &d.Type, &d.OriginalAmount, &d.CurrentBalance,
		&d.InterestRate, &d.MinimumPayment, &d.DueDay, &d.StartDate, &d.EndDate,
		&d.Lender, &d.Notes, &d.Color, &d.Icon, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create debt"})
		return
	}

	h.WS.NotifyChange(userID, "debts")
	c.JSON(http.StatusCreated, d)
}

// Update edits debt fields in place. Omitted fields keep their stored
// values.
func (h *DebtHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	debtID := c.Param("id")

	var req models.UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var d models.Debt
	err := h.DB.QueryRow(`
		UPDATE debts
		SET name = COALESCE($1, name),
		    type = COALESCE($2, type),
		    current_balance = COALESCE($3, current_balance),
		    interest_rate = COALESCE($4, interest_rate),
		    minimum_payment = COALESCE($5, minimum_payment),
		    due_day = COALESCE($6, due_day),
		    lender = COALESCE($7, lender),
		    notes = COALESCE($8, notes),
		    color = COALESCE($9, color),
		    icon = COALESCE($10, icon),
		    is_active = COALESCE($11, is_active),
		    updated_at = NOW()
		WHERE id = $12 AND user_id = $13
		RETURNING id, user_id, name, type, original_amount, current_balance, interest_rate,
		          minimum_payment, due_day, start_date, end_date, COALESCE(lender, ''),
		          COALESCE(notes, ''), color, icon, is_active, created_at, updated_at
	`, req.Name, req.Type, req.CurrentBalance, req.InterestRate, req.MinimumPayment,
		req.DueDay, req.Lender, req.Notes, req.Color, req.Icon, req.IsActive,
		debtID, userID).Scan(
		&d.ID, &d.UserID, &d.Name, &d.Type, &d.OriginalAmount, &d.CurrentBalance,
		&d.InterestRate, &d.MinimumPayment, &d.DueDay, &d.StartDate, &d.EndDate,
		&d.Lender, &d.Notes, &d.Color, &d.Icon, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Debt not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update debt"})
		return
	}

	h.WS.NotifyChange(userID, "debts")
	c.JSON(http.StatusOK, d)
}

// RecordPayment appends a payment and reduces the debt balance by the
// principal portion in one database transaction. A fully paid debt is
// closed with an end date.
func (h *DebtHandler) RecordPayment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	debtID := c.Param("id")

	var req models.RecordDebtPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment_date, expected yyyy-mm-dd"})
		return
	}

	var payment models.DebtPayment
	err = utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		var owned bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM debts WHERE id = $1 AND user_id = $2)`,
			debtID, userID).Scan(&owned); err != nil {
			return err
		}
		if !owned {
			return sql.ErrNoRows
		}

		err := tx.QueryRow(`
			INSERT INTO debt_payments (debt_id, user_id, amount, principal_amount, interest_amount, payment_date, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, debt_id, user_id, amount, principal_amount, interest_amount, payment_date,
			          COALESCE(notes, ''), created_at
		`, debtID, userID, req.Amount, req.PrincipalAmount, req.InterestAmount, paymentDate, req.Notes).Scan(
			&payment.ID, &payment.DebtID, &payment.UserID, &payment.Amount,
			&payment.PrincipalAmount, &payment.InterestAmount, &payment.PaymentDate,
			&payment.Notes, &payment.CreatedAt)
		if err != nil {
			return err
		}

		var balance float64
		err = tx.QueryRow(`
			UPDATE debts
			SET current_balance = GREATEST(current_balance - $1, 0), updated_at = NOW()
			WHERE id = $2
			RETURNING current_balance
		`, req.PrincipalAmount, debtID).Scan(&balance)
		if err != nil {
			return err
		}

		if balance == 0 {
			_, err = tx.Exec(`UPDATE debts SET is_active = false, end_date = $1 WHERE id = $2`,
				paymentDate, debtID)
		}
		return err
	})

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Debt not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	h.WS.NotifyChange(userID, "debts")
	c.JSON(http.StatusCreated, payment)
}

func (h *DebtHandler) ListPayments(c *gin.Context) {
	userID := middleware.GetUserID(c)
	debtID := c.Param("id")

	rows, err := h.DB.Query(`
		SELECT id, debt_id, user_id, amount, principal_amount, interest_amount, payment_date,
		       COALESCE(notes, ''), created_at
		FROM debt_payments
		WHERE debt_id = $1 AND user_id = $2
		ORDER BY payment_date DESC, created_at DESC
	`, debtID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}
	defer rows.Close()

	payments := []models.DebtPayment{}
	for rows.Next() {
		var p models.DebtPayment
		if err := rows.Scan(&p.ID, &p.DebtID, &p.UserID, &p.Amount, &p.PrincipalAmount,
			&p.InterestAmount, &p.PaymentDate, &p.Notes, &p.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan payment"})
			return
		}
		payments = append(payments, p)
	}

	c.JSON(http.StatusOK, payments)
}

func (h *DebtHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	debtID := c.Param("id")

	result, err := h.DB.Exec(`DELETE FROM debts WHERE id = $1 AND user_id = $2`, debtID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete debt"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Debt not found"})
		return
	}

	h.WS.NotifyChange(userID, "debts")
	c.JSON(http.StatusOK, gin.H{"message": "Debt deleted"})
}
