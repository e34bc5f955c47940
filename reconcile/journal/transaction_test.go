package journal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBalanced(t *testing.T) {
	tests := []struct {
		name         string
		tx           *Transaction
		wantErr      error
		wantBalances []decimal.Decimal
	}{
		{
			name: "errors on too few postings",
			tx: &Transaction{
				Postings: []Posting{
					{Account: "Assets:Bank", Amount: decimal.NewFromInt(10)},
				},
			},
			wantErr: ErrNeedAtLeastTwoPostings,
		},
		{
			name: "no empty account error",
			tx: &Transaction{
				Postings: []Posting{
					{Account: "Assets:Bank", Amount: decimal.NewFromInt(10)},
					{Account: "Expenses:Food", Amount: decimal.NewFromInt(-5)},
				},
			},
			wantErr: ErrNoEmptyAccountForExtraBalance,
		},
		{
			name: "more than one empty account error",
			tx: &Transaction{
				Postings: []Posting{
					{Account: "Assets:Bank", Amount: decimal.NewFromInt(10)},
					{Account: "Expenses:Food"},
					{Account: "Equity:OpeningBalances"},
				},
			},
			wantErr: ErrMoreThanOneEmptyAccountInTx,
		},
		{
			name: "single empty account gets balancing amount",
			tx: &Transaction{
				Postings: []Posting{
					{Account: "Assets:Bank", Amount: decimal.NewFromInt(-10)},
					{Account: "Expenses:Food"},
				},
			},
			wantBalances: []decimal.Decimal{decimal.NewFromInt(-10), decimal.NewFromInt(10)},
		},
		{
			name: "already balanced with no empty account",
			tx: &Transaction{
				Postings: []Posting{
					{Account: "Assets:Bank", Amount: decimal.NewFromInt(-10)},
					{Account: "Expenses:Food", Amount: decimal.NewFromInt(10)},
				},
			},
			wantBalances: []decimal.Decimal{decimal.NewFromInt(-10), decimal.NewFromInt(10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.tx.IsBalanced()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			require.Len(t, tt.tx.Postings, len(tt.wantBalances))
			for i, want := range tt.wantBalances {
				assert.True(t, tt.tx.Postings[i].Amount.Equal(want), "posting %d: expected %s, got %s", i, want, tt.tx.Postings[i].Amount)
			}
		})
	}
}
