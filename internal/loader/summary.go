package loader

import (
	"time"

	"github.com/mayfashion/segmentflow/internal/model"
)

// AmountStats summarizes the distribution of transaction amounts.
type AmountStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// Summary describes a loaded transaction table before segmentation.
type Summary struct {
	DateStart       time.Time      `json:"date_start"`
	DateEnd         time.Time      `json:"date_end"`
	Categories      map[string]int `json:"categories"`
	Dropped         map[string]int `json:"dropped"`
	Source          string         `json:"source"`
	Amount          AmountStats    `json:"amount"`
	TotalRecords    int            `json:"total_records"`
	UniqueCustomers int            `json:"unique_customers"`
	RepeatCustomers int            `json:"repeat_customers"`
}

// Summarize computes descriptive statistics for a transaction set.
func Summarize(set *model.TransactionSet) Summary {
	summary := Summary{
		Source:       set.Source,
		TotalRecords: len(set.Transactions),
		Categories:   make(map[string]int),
		Dropped:      set.Dropped,
	}

	perCustomer := make(map[string]int)
	total := 0.0
	for i, t := range set.Transactions {
		perCustomer[t.CustomerID]++
		summary.Categories[t.Category]++
		total += t.Amount
		if i == 0 || t.Amount < summary.Amount.Min {
			summary.Amount.Min = t.Amount
		}
		if t.Amount > summary.Amount.Max {
			summary.Amount.Max = t.Amount
		}
	}

	summary.UniqueCustomers = len(perCustomer)
	for _, n := range perCustomer {
		if n > 1 {
			summary.RepeatCustomers++
		}
	}
	if summary.TotalRecords > 0 {
		summary.Amount.Mean = total / float64(summary.TotalRecords)
	}
	if start, end, ok := set.DateRange(); ok {
		summary.DateStart = start
		summary.DateEnd = end
	}
	return summary
}
