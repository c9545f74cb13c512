package schedule

import (
	"testing"

	"bilancio/internal/core"
)

func TestIsRealized(t *testing.T) {
	ob := monthlyRent() // ID 1
	due := core.NewDate(2024, 3, 15)

	tx := func(obligationID int64, date core.Date) core.Transaction {
		return core.Transaction{
			ID: 99, Date: date, Amount: core.Money{Cents: 80000},
			AccountID: 1, Flow: core.FlowExpense, ObligationID: obligationID,
		}
	}

	tests := []struct {
		name string
		txs  []core.Transaction
		want bool
	}{
		{"no transactions", nil, false},
		{"exact day match", []core.Transaction{tx(1, core.NewDate(2024, 3, 15))}, true},
		{"one day early", []core.Transaction{tx(1, core.NewDate(2024, 3, 14))}, false},
		{"one day late", []core.Transaction{tx(1, core.NewDate(2024, 3, 16))}, false},
		{"other obligation", []core.Transaction{tx(2, core.NewDate(2024, 3, 15))}, false},
		{"unlinked transaction", []core.Transaction{tx(0, core.NewDate(2024, 3, 15))}, false},
		{"match among several", []core.Transaction{
			tx(0, core.NewDate(2024, 3, 15)),
			tx(1, core.NewDate(2024, 3, 14)),
			tx(1, core.NewDate(2024, 3, 15)),
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRealized(ob, due, tt.txs); got != tt.want {
				t.Errorf("IsRealized() = %v, want %v", got, tt.want)
			}
		})
	}
}
