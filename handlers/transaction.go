package handlers

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/models"
	"github.com/fintrack/fintrack-api/services"
	"github.com/fintrack/fintrack-api/utils"
)

type TransactionHandler struct {
	DB *sql.DB
	WS *WSHandler
}

const defaultTransactionLimit = 100

func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	limit := defaultTransactionLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	query := `
		SELECT t.id, t.user_id, t.account_id, t.category_id, t.to_account_id,
		       t.type, t.amount, COALESCE(t.description, ''), COALESCE(t.notes, ''),
		       t.date, t.is_recurring, t.recurring_frequency, t.created_at, t.updated_at,
		       c.name, a.name
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		JOIN accounts a ON t.account_id = a.id
		WHERE t.user_id = $1`
	args := []interface{}{userID}

	if accountID := c.Query("account_id"); accountID != "" {
		args = append(args, accountID)
		query += fmt.Sprintf(" AND t.account_id = $%d", len(args))
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		args = append(args, categoryID)
		query += fmt.Sprintf(" AND t.category_id = $%d", len(args))
	}
	if txType := c.Query("type"); txType != "" {
		args = append(args, txType)
		query += fmt.Sprintf(" AND t.type = $%d", len(args))
	}
	if from := c.Query("from"); from != "" {
		args = append(args, from)
		query += fmt.Sprintf(" AND t.date >= $%d", len(args))
	}
	if to := c.Query("to"); to != "" {
		args = append(args, to)
		query += fmt.Sprintf(" AND t.date <= $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY t.date DESC, t.created_at DESC LIMIT $%d", len(args))

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan transaction"})
			return
		}
		transactions = append(transactions, t)
	}

	c.JSON(http.StatusOK, transactions)
}

func scanTransaction(rows *sql.Rows) (models.Transaction, error) {
	var t models.Transaction
	err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &t.ToAccountID,
		&t.Type, &t.Amount, &t.Description, &t.Notes, &t.Date, &t.IsRecurring,
		&t.RecurringFrequency, &t.CreatedAt, &t.UpdatedAt, &t.CategoryName, &t.AccountName)
	return t, err
}

// Create records a transaction and moves account balances in one database
// transaction. Transfers require a destination account.
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected yyyy-mm-dd"})
		return
	}

	if req.Type == models.TransactionTransfer && req.ToAccountID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transfer requires to_account_id"})
		return
	}
	if req.IsRecurring && req.RecurringFrequency == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recurring transaction requires recurring_frequency"})
		return
	}

	var t models.Transaction
	err = utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		err := tx.QueryRow(`
			INSERT INTO transactions
				(user_id, account_id, category_id, to_account_id, type, amount,
				 description, notes, date, is_recurring, recurring_frequency)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, user_id, account_id, category_id, to_account_id, type, amount,
			          COALESCE(description, ''), COALESCE(notes, ''), date,
			          is_recurring, recurring_frequency, created_at, updated_at
		`, userID, req.AccountID, req.CategoryID, req.ToAccountID, req.Type, req.Amount,
			req.Description, req.Notes, date, req.IsRecurring, req.RecurringFrequency).Scan(
			&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &t.ToAccountID, &t.Type, &t.Amount,
			&t.Description, &t.Notes, &t.Date, &t.IsRecurring, &t.RecurringFrequency,
			&t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return err
		}
		return services.ApplyBalanceEffect(tx, t, 1)
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		return
	}

	h.WS.NotifyChange(userID, "transactions")
	h.WS.NotifyChange(userID, "accounts")
	c.JSON(http.StatusCreated, t)
}

// Update rewrites a transaction: the old balance effect is reversed and
// the new one applied in the same database transaction, so edits cannot
// desynchronize stored balances from the ledger.
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	transactionID := c.Param("id")

	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var updated models.Transaction
	var mergeErr error
	err := utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		var old models.Transaction
		err := tx.QueryRow(`
			SELECT id, user_id, account_id, category_id, to_account_id, type, amount,
			       COALESCE(description, ''), COALESCE(notes, ''), date
			FROM transactions
			WHERE id = $1 AND user_id = $2
			FOR UPDATE
		`, transactionID, userID).Scan(&old.ID, &old.UserID, &old.AccountID, &old.CategoryID,
			&old.ToAccountID, &old.Type, &old.Amount, &old.Description, &old.Notes, &old.Date)
		if err != nil {
			return err
		}

		var merged models.Transaction
		merged, mergeErr = mergeTransaction(old, req)
		if mergeErr != nil {
			return mergeErr
		}

		if err := services.ApplyBalanceEffect(tx, old, -1); err != nil {
			return err
		}

		err = tx.QueryRow(`
			UPDATE transactions
			SET account_id = $1, category_id = $2, to_account_id = $3, type = $4,
			    amount = $5, description = $6, notes = $7, date = $8, updated_at = NOW()
			WHERE id = $9 AND user_id = $10
			RETURNING id, user_id, account_id, category_id, to_account_id, type, amount,
			          COALESCE(description, ''), COALESCE(notes, ''), date,
			          is_recurring, recurring_frequency, created_at, updated_at
		`, merged.AccountID, merged.CategoryID, merged.ToAccountID, merged.Type,
			merged.Amount, merged.Description, merged.Notes, merged.Date,
			transactionID, userID).Scan(
			&updated.ID, &updated.UserID, &updated.AccountID, &updated.CategoryID,
			&updated.ToAccountID, &updated.Type, &updated.Amount, &updated.Description,
			&updated.Notes, &updated.Date, &updated.IsRecurring, &updated.RecurringFrequency,
			&updated.CreatedAt, &updated.UpdatedAt)
		if err != nil {
			return err
		}

		return services.ApplyBalanceEffect(tx, updated, 1)
	})

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	if mergeErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": mergeErr.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transaction"})
		return
	}

	h.WS.NotifyChange(userID, "transactions")
	h.WS.NotifyChange(userID, "accounts")
	c.JSON(http.StatusOK, updated)
}

// mergeTransaction applies the provided fields onto the stored row and
// validates the result.
func mergeTransaction(old models.Transaction, req models.UpdateTransactionRequest) (models.Transaction, error) {
	merged := old

	if req.AccountID != nil {
		merged.AccountID = *req.AccountID
	}
	if req.CategoryID != nil {
		merged.CategoryID = req.CategoryID
	}
	if req.ToAccountID != nil {
		merged.ToAccountID = req.ToAccountID
	}
	if req.Type != nil {
		merged.Type = *req.Type
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return models.Transaction{}, fmt.Errorf("amount must be positive")
		}
		merged.Amount = *req.Amount
	}
	if req.Description != nil {
		merged.Description = *req.Description
	}
	if req.Notes != nil {
		merged.Notes = *req.Notes
	}
	if req.Date != nil {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("invalid date, expected yyyy-mm-dd")
		}
		merged.Date = d
	}

	switch merged.Type {
	case models.TransactionIncome, models.TransactionExpense:
		// A destination account only makes sense on a transfer.
		merged.ToAccountID = nil
	case models.TransactionTransfer:
		if merged.ToAccountID == nil {
			return models.Transaction{}, fmt.Errorf("transfer requires to_account_id")
		}
	default:
		return models.Transaction{}, fmt.Errorf("unknown transaction type: %s", merged.Type)
	}

	return merged, nil
}

// Delete removes a transaction and reverses its balance effect.
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	transactionID := c.Param("id")

	err := utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		var t models.Transaction
		err := tx.QueryRow(`
			DELETE FROM transactions
			WHERE id = $1 AND user_id = $2
			RETURNING id, user_id, account_id, to_account_id, type, amount
		`, transactionID, userID).Scan(&t.ID, &t.UserID, &t.AccountID, &t.ToAccountID, &t.Type, &t.Amount)
		if err != nil {
			return err
		}
		return services.ApplyBalanceEffect(tx, t, -1)
	})

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
		return
	}

	h.WS.NotifyChange(userID, "transactions")
	h.WS.NotifyChange(userID, "accounts")
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// ExportCSV streams the user's full transaction history as a CSV download.
func (h *TransactionHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT t.date, t.type, t.amount, COALESCE(c.name, ''), a.name,
		       COALESCE(t.description, ''), COALESCE(t.notes, '')
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		JOIN accounts a ON t.account_id = a.id
		WHERE t.user_id = $1
		ORDER BY t.date DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}
	defer rows.Close()

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	w := csv.NewWriter(c.Writer)
	w.Write([]string{"date", "type", "amount", "category", "account", "description", "notes"})

	for rows.Next() {
		var date time.Time
		var txType, category, account, description, notes string
		var amount float64
		if err := rows.Scan(&date, &txType, &amount, &category, &account, &description, &notes); err != nil {
			return
		}
		w.Write([]string{
			date.Format("2006-01-02"),
			txType,
			strconv.FormatFloat(amount, 'f', 2, 64),
			category,
			account,
			description,
			notes,
		})
	}
	w.Flush()
}
