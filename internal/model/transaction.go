// Package model defines the core domain models used throughout the application.
package model

import (
	"math"
	"strings"
	"time"
)

// Transaction represents a single purchase row after the loader has
// normalized it into the canonical column vocabulary.
type Transaction struct {
	PurchaseDate time.Time
	CustomerID   string
	PurchaseID   string
	Category     string
	Amount       float64
}

// RequiredColumns lists the canonical columns every transaction table must carry.
var RequiredColumns = []string{"customer_id", "purchase_id", "purchase_date", "amount", "category"}

// Drop reasons recorded by the loader when a row fails required-field parsing.
const (
	DropMissingCustomerID = "missing_customer_id"
	DropMissingPurchaseID = "missing_purchase_id"
	DropBadDate           = "bad_purchase_date"
	DropBadAmount         = "bad_amount"
	DropNegativeAmount    = "negative_amount"
	DropMissingCategory   = "missing_category"
)

// ValidateRow checks a parsed transaction against the required-field rules.
// It returns the drop reason for rows that must be filtered out. Loaders
// record an unparsable amount as NaN so it reaches this single check.
func ValidateRow(t Transaction) (string, bool) {
	switch {
	case strings.TrimSpace(t.CustomerID) == "":
		return DropMissingCustomerID, false
	case strings.TrimSpace(t.PurchaseID) == "":
		return DropMissingPurchaseID, false
	case t.PurchaseDate.IsZero():
		return DropBadDate, false
	case math.IsNaN(t.Amount):
		return DropBadAmount, false
	case t.Amount < 0:
		return DropNegativeAmount, false
	case strings.TrimSpace(t.Category) == "":
		return DropMissingCategory, false
	}
	return "", true
}

// TransactionSet is a filtered transaction table together with the
// diagnostics of the lossy required-field filter that produced it.
type TransactionSet struct {
	Dropped      map[string]int
	Source       string
	Transactions []Transaction
}

// NewTransactionSet creates an empty set for the given source descriptor.
func NewTransactionSet(source string) *TransactionSet {
	return &TransactionSet{
		Source:  source,
		Dropped: make(map[string]int),
	}
}

// Append adds a row to the set, filtering it out with a recorded reason
// when it fails required-field validation.
func (s *TransactionSet) Append(t Transaction) {
	if reason, ok := ValidateRow(t); !ok {
		s.Dropped[reason]++
		return
	}
	s.Transactions = append(s.Transactions, t)
}

// DroppedTotal returns the number of rows removed by the required-field filter.
func (s *TransactionSet) DroppedTotal() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

// DateRange returns the earliest and latest purchase dates in the set.
// The second return value is false when the set is empty.
func (s *TransactionSet) DateRange() (start, end time.Time, ok bool) {
	if len(s.Transactions) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start = s.Transactions[0].PurchaseDate
	end = start
	for _, t := range s.Transactions[1:] {
		if t.PurchaseDate.Before(start) {
			start = t.PurchaseDate
		}
		if t.PurchaseDate.After(end) {
			end = t.PurchaseDate
		}
	}
	return start, end, true
}

// CustomerIDs returns the distinct customer identifiers in the set.
func (s *TransactionSet) CustomerIDs() []string {
	seen := make(map[string]struct{}, len(s.Transactions))
	ids := make([]string, 0)
	for _, t := range s.Transactions {
		if _, ok := seen[t.CustomerID]; ok {
			continue
		}
		seen[t.CustomerID] = struct{}{}
		ids = append(ids, t.CustomerID)
	}
	return ids
}
