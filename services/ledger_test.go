package services

import (
	"testing"

	"github.com/fintrack/fintrack-api/models"
)

func TestBalanceDeltas(t *testing.T) {
	target := "acc2"

	tests := []struct {
		name    string
		tx      models.Transaction
		sign    float64
		want    []AccountDelta
		wantErr bool
	}{
		{
			name: "income credits the account",
			tx:   models.Transaction{Type: models.TransactionIncome, AccountID: "acc1", Amount: 100},
			sign: 1,
			want: []AccountDelta{{AccountID: "acc1", Amount: 100}},
		},
		{
			name: "income reversal debits",
			tx:   models.Transaction{Type: models.TransactionIncome, AccountID: "acc1", Amount: 100},
			sign: -1,
			want: []AccountDelta{{AccountID: "acc1", Amount: -100}},
		},
		{
			name: "expense debits the account",
			tx:   models.Transaction{Type: models.TransactionExpense, AccountID: "acc1", Amount: 40},
			sign: 1,
			want: []AccountDelta{{AccountID: "acc1", Amount: -40}},
		},
		{
			name: "expense reversal credits",
			tx:   models.Transaction{Type: models.TransactionExpense, AccountID: "acc1", Amount: 40},
			sign: -1,
			want: []AccountDelta{{AccountID: "acc1", Amount: 40}},
		},
		{
			name: "transfer moves between accounts",
			tx: models.Transaction{Type: models.TransactionTransfer, AccountID: "acc1",
				ToAccountID: &target, Amount: 60},
			sign: 1,
			want: []AccountDelta{
				{AccountID: "acc1", Amount: -60},
				{AccountID: "acc2", Amount: 60},
			},
		},
		{
			name: "transfer reversal moves back",
			tx: models.Transaction{Type: models.TransactionTransfer, AccountID: "acc1",
				ToAccountID: &target, Amount: 60},
			sign: -1,
			want: []AccountDelta{
				{AccountID: "acc1", Amount: 60},
				{AccountID: "acc2", Amount: -60},
			},
		},
		{
			name: "transfer without target only debits the source",
			tx:   models.Transaction{Type: models.TransactionTransfer, AccountID: "acc1", Amount: 60},
			sign: 1,
			want: []AccountDelta{{AccountID: "acc1", Amount: -60}},
		},
		{
			name:    "unknown type is rejected",
			tx:      models.Transaction{Type: "refund", AccountID: "acc1", Amount: 10},
			sign:    1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BalanceDeltas(tt.tx, tt.sign)
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error for unknown type")
				}
				return
			}
			if err != nil {
				t.Fatalf("BalanceDeltas: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("deltas = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("delta[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
