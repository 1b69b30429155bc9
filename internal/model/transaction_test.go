package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction() Transaction {
	return Transaction{
		PurchaseDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CustomerID:   "CUS001",
		PurchaseID:   "ORD001",
		Category:     "Womens",
		Amount:       2500,
	}
}

func TestValidateRow(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Transaction)
		wantReason string
	}{
		{
			name:   "valid row",
			mutate: func(*Transaction) {},
		},
		{
			name:   "zero amount is valid",
			mutate: func(txn *Transaction) { txn.Amount = 0 },
		},
		{
			name:       "missing customer id",
			mutate:     func(txn *Transaction) { txn.CustomerID = "  " },
			wantReason: DropMissingCustomerID,
		},
		{
			name:       "missing purchase id",
			mutate:     func(txn *Transaction) { txn.PurchaseID = "" },
			wantReason: DropMissingPurchaseID,
		},
		{
			name:       "zero purchase date",
			mutate:     func(txn *Transaction) { txn.PurchaseDate = time.Time{} },
			wantReason: DropBadDate,
		},
		{
			name:       "unparsable amount",
			mutate:     func(txn *Transaction) { txn.Amount = math.NaN() },
			wantReason: DropBadAmount,
		},
		{
			name: "missing customer id wins over bad amount",
			mutate: func(txn *Transaction) {
				txn.CustomerID = ""
				txn.Amount = math.NaN()
			},
			wantReason: DropMissingCustomerID,
		},
		{
			name:       "negative amount",
			mutate:     func(txn *Transaction) { txn.Amount = -1 },
			wantReason: DropNegativeAmount,
		},
		{
			name:       "missing category",
			mutate:     func(txn *Transaction) { txn.Category = "" },
			wantReason: DropMissingCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := validTransaction()
			tt.mutate(&txn)
			reason, ok := ValidateRow(txn)
			if tt.wantReason == "" {
				assert.True(t, ok)
				assert.Empty(t, reason)
				return
			}
			assert.False(t, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestTransactionSet_Append(t *testing.T) {
	set := NewTransactionSet("csv:test")

	set.Append(validTransaction())
	bad := validTransaction()
	bad.CustomerID = ""
	set.Append(bad)
	set.Append(bad)

	assert.Len(t, set.Transactions, 1)
	assert.Equal(t, 2, set.DroppedTotal())
	assert.Equal(t, 2, set.Dropped[DropMissingCustomerID])
}

func TestTransactionSet_DateRange(t *testing.T) {
	set := NewTransactionSet("csv:test")
	_, _, ok := set.DateRange()
	assert.False(t, ok, "empty set has no date range")

	for _, day := range []int{10, 3, 25} {
		txn := validTransaction()
		txn.PurchaseDate = time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
		set.Append(txn)
	}

	start, end, ok := set.DateRange()
	require.True(t, ok)
	assert.Equal(t, 3, start.Day())
	assert.Equal(t, 25, end.Day())
}

func TestTransactionSet_CustomerIDs(t *testing.T) {
	set := NewTransactionSet("csv:test")
	for _, id := range []string{"b", "a", "b", "c", "a"} {
		txn := validTransaction()
		txn.CustomerID = id
		set.Append(txn)
	}

	assert.Equal(t, []string{"b", "a", "c"}, set.CustomerIDs(),
		"ids should be distinct, in first-seen order")
}
