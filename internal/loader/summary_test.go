package loader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mayfashion/segmentflow/internal/model"
)

func TestSummarize(t *testing.T) {
	set := model.NewTransactionSet("csv:test")
	rows := []struct {
		customer string
		amount   float64
		category string
		day      int
	}{
		{"a", 1000, "Womens", 1},
		{"a", 3000, "Mens", 5},
		{"b", 2000, "Womens", 3},
	}
	for i, r := range rows {
		set.Append(model.Transaction{
			PurchaseDate: time.Date(2024, 3, r.day, 0, 0, 0, 0, time.UTC),
			CustomerID:   r.customer,
			PurchaseID:   "ord-" + string(rune('a'+i)),
			Category:     r.category,
			Amount:       r.amount,
		})
	}
	set.Append(model.Transaction{}) // dropped

	summary := Summarize(set)

	assert.Equal(t, "csv:test", summary.Source)
	assert.Equal(t, 3, summary.TotalRecords)
	assert.Equal(t, 2, summary.UniqueCustomers)
	assert.Equal(t, 1, summary.RepeatCustomers)
	assert.Equal(t, map[string]int{"Womens": 2, "Mens": 1}, summary.Categories)
	assert.Equal(t, 1000.0, summary.Amount.Min)
	assert.Equal(t, 3000.0, summary.Amount.Max)
	assert.Equal(t, 2000.0, summary.Amount.Mean)
	assert.Equal(t, 1, summary.DateStart.Day())
	assert.Equal(t, 5, summary.DateEnd.Day())
	assert.Equal(t, 1, summary.Dropped[model.DropMissingCustomerID])
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(model.NewTransactionSet("csv:empty"))

	assert.Zero(t, summary.TotalRecords)
	assert.Zero(t, summary.UniqueCustomers)
	assert.Zero(t, summary.Amount.Mean)
	assert.True(t, summary.DateStart.IsZero())
}
