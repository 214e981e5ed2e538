package services

import (
	"database/sql"
	"fmt"

	"github.com/fintrack/fintrack-api/models"
)

// ============================================================================
// LEDGER BALANCE EFFECTS
// Stored account balances are maintained alongside the transaction
// history, never recomputed from it. Every path that inserts, removes or
// rewrites ledger rows goes through ApplyBalanceEffect so the two cannot
// drift.
// ============================================================================

// AccountDelta is one account balance movement caused by a transaction.
type AccountDelta struct {
	AccountID string
	Amount    float64
}

// BalanceDeltas lists the balance movements a transaction causes. sign is
// +1 when recording and -1 when reversing.
func BalanceDeltas(t models.Transaction, sign float64) ([]AccountDelta, error) {
	delta := t.Amount * sign

	switch t.Type {
	case models.TransactionIncome:
		return []AccountDelta{{AccountID: t.AccountID, Amount: delta}}, nil
	case models.TransactionExpense:
		return []AccountDelta{{AccountID: t.AccountID, Amount: -delta}}, nil
	case models.TransactionTransfer:
		deltas := []AccountDelta{{AccountID: t.AccountID, Amount: -delta}}
		if t.ToAccountID != nil {
			deltas = append(deltas, AccountDelta{AccountID: *t.ToAccountID, Amount: delta})
		}
		return deltas, nil
	default:
		return nil, fmt.Errorf("unknown transaction type: %s", t.Type)
	}
}

// ApplyBalanceEffect moves account balances for a transaction inside an
// open database transaction.
func ApplyBalanceEffect(tx *sql.Tx, t models.Transaction, sign float64) error {
	deltas, err := BalanceDeltas(t, sign)
	if err != nil {
		return err
	}
	for _, d := range deltas {
		if _, err := tx.Exec(
			`UPDATE accounts SET balance = balance + $1, updated_at = NOW() WHERE id = $2`,
			d.Amount, d.AccountID); err != nil {
			return err
		}
	}
	return nil
}
