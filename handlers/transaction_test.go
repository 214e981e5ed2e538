package handlers

import (
	"testing"
	"time"

	"github.com/fintrack/fintrack-api/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestMergeTransaction(t *testing.T) {
	target := "acc2"
	old := models.Transaction{
		ID:          "tx1",
		UserID:      "u1",
		AccountID:   "acc1",
		Type:        models.TransactionExpense,
		Amount:      50,
		Description: "groceries",
		Date:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		merged, err := mergeTransaction(old, models.UpdateTransactionRequest{
			Amount: floatPtr(75),
		})
		if err != nil {
			t.Fatalf("mergeTransaction: %v", err)
		}
		if merged.Amount != 75 {
			t.Errorf("amount = %v, want 75", merged.Amount)
		}
		if merged.AccountID != "acc1" || merged.Type != models.TransactionExpense ||
			merged.Description != "groceries" {
			t.Errorf("unset fields changed: %+v", merged)
		}
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		if _, err := mergeTransaction(old, models.UpdateTransactionRequest{
			Amount: floatPtr(0),
		}); err == nil {
			t.Fatal("want error for zero amount")
		}
	})

	t.Run("date is parsed", func(t *testing.T) {
		merged, err := mergeTransaction(old, models.UpdateTransactionRequest{
			Date: strPtr("2026-08-15"),
		})
		if err != nil {
			t.Fatalf("mergeTransaction: %v", err)
		}
		want := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
		if !merged.Date.Equal(want) {
			t.Errorf("date = %v, want %v", merged.Date, want)
		}
	})

	t.Run("bad date rejected", func(t *testing.T) {
		if _, err := mergeTransaction(old, models.UpdateTransactionRequest{
			Date: strPtr("15/08/2026"),
		}); err == nil {
			t.Fatal("want error for malformed date")
		}
	})

	t.Run("switch to transfer requires a target", func(t *testing.T) {
		if _, err := mergeTransaction(old, models.UpdateTransactionRequest{
			Type: strPtr(models.TransactionTransfer),
		}); err == nil {
			t.Fatal("want error for transfer without to_account_id")
		}
	})

	t.Run("switch to transfer with target", func(t *testing.T) {
		merged, err := mergeTransaction(old, models.UpdateTransactionRequest{
			Type:        strPtr(models.TransactionTransfer),
			ToAccountID: &target,
		})
		if err != nil {
			t.Fatalf("mergeTransaction: %v", err)
		}
		if merged.ToAccountID == nil || *merged.ToAccountID != "acc2" {
			t.Errorf("to_account_id = %v, want acc2", merged.ToAccountID)
		}
	})

	t.Run("leaving transfer clears the target", func(t *testing.T) {
		transfer := old
		transfer.Type = models.TransactionTransfer
		transfer.ToAccountID = &target

		merged, err := mergeTransaction(transfer, models.UpdateTransactionRequest{
			Type: strPtr(models.TransactionIncome),
		})
		if err != nil {
			t.Fatalf("mergeTransaction: %v", err)
		}
		if merged.ToAccountID != nil {
			t.Errorf("to_account_id = %v, want nil", *merged.ToAccountID)
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		if _, err := mergeTransaction(old, models.UpdateTransactionRequest{
			Type: strPtr("refund"),
		}); err == nil {
			t.Fatal("want error for unknown type")
		}
	})
}
