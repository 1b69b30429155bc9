// Package report computes descriptive analytics over segmentation results.
// It has no decision logic: labels are already assigned when it runs, and it
// never fails; degenerate inputs yield empty analytics.
package report

import (
	"sort"
	"time"

	"github.com/mayfashion/segmentflow/internal/model"
)

// DefaultTopCombinations is how many cross-segment triples the report keeps.
const DefaultTopCombinations = 10

// SegmentStats describes one segment within a dimension.
type SegmentStats struct {
	FirstPurchase time.Time `json:"first_purchase"`
	LastPurchase  time.Time `json:"last_purchase"`
	Customers     int       `json:"customers"`
	Transactions  int       `json:"transactions"`
	Revenue       float64   `json:"revenue"`
	MeanAmount    float64   `json:"mean_amount"`
}

// DimensionAnalysis holds per-segment statistics for one dimension.
type DimensionAnalysis struct {
	SegmentCounts map[string]int          `json:"segment_counts"`
	SegmentStats  map[string]SegmentStats `json:"segment_stats"`
}

// Combination is one unique (frequency, spending, category) label triple.
type Combination struct {
	Frequency     string  `json:"frequency"`
	Spending      string  `json:"spending"`
	Category      string  `json:"category"`
	CustomerCount int     `json:"customer_count"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// CrossSegmentAnalysis summarizes label triples across dimensions.
type CrossSegmentAnalysis struct {
	TopCombinations    []Combination `json:"top_customer_combinations"`
	UniqueCombinations int           `json:"total_unique_combinations"`
}

// Analysis is the full analytics block of the result envelope.
type Analysis struct {
	Frequency    DimensionAnalysis    `json:"frequency_analysis"`
	Spending     DimensionAnalysis    `json:"spending_analysis"`
	Category     DimensionAnalysis    `json:"category_analysis"`
	CrossSegment CrossSegmentAnalysis `json:"cross_segment_analysis"`
}

// Build computes the analytics for a run. topN bounds the cross-segment
// combination list; values below 1 fall back to DefaultTopCombinations.
func Build(txns []model.Transaction, combined []model.CustomerSegments, topN int) Analysis {
	if topN < 1 {
		topN = DefaultTopCombinations
	}

	labels := make(map[string]model.LabelSet, len(combined))
	for _, cs := range combined {
		labels[cs.CustomerID] = cs.Segmentation
	}

	return Analysis{
		Frequency:    buildDimension(txns, combined, model.DimensionFrequency, labels),
		Spending:     buildDimension(txns, combined, model.DimensionSpending, labels),
		Category:     buildDimension(txns, combined, model.DimensionCategory, labels),
		CrossSegment: buildCrossSegment(txns, combined, labels, topN),
	}
}

func buildDimension(txns []model.Transaction, combined []model.CustomerSegments, dim model.Dimension, labels map[string]model.LabelSet) DimensionAnalysis {
	counts := make(map[string]int)
	for _, cs := range combined {
		counts[cs.Segmentation.Label(dim)]++
	}

	stats := make(map[string]SegmentStats)
	customers := make(map[string]map[string]struct{})
	for _, t := range txns {
		ls, ok := labels[t.CustomerID]
		if !ok {
			continue
		}
		segment := ls.Label(dim)
		s := stats[segment]
		if s.Transactions == 0 {
			s.FirstPurchase = t.PurchaseDate
			s.LastPurchase = t.PurchaseDate
		}
		if t.PurchaseDate.Before(s.FirstPurchase) {
			s.FirstPurchase = t.PurchaseDate
		}
		if t.PurchaseDate.After(s.LastPurchase) {
			s.LastPurchase = t.PurchaseDate
		}
		s.Transactions++
		s.Revenue += t.Amount
		if customers[segment] == nil {
			customers[segment] = make(map[string]struct{})
		}
		customers[segment][t.CustomerID] = struct{}{}
		stats[segment] = s
	}

	for segment, s := range stats {
		s.Customers = len(customers[segment])
		s.MeanAmount = s.Revenue / float64(s.Transactions)
		stats[segment] = s
	}

	return DimensionAnalysis{SegmentCounts: counts, SegmentStats: stats}
}

func buildCrossSegment(txns []model.Transaction, combined []model.CustomerSegments, labels map[string]model.LabelSet, topN int) CrossSegmentAnalysis {
	type triple struct{ frequency, spending, category string }

	customers := make(map[triple]int)
	for _, cs := range combined {
		customers[triple{cs.Segmentation.PurchaseFrequency, cs.Segmentation.Spending, cs.Segmentation.Category}]++
	}

	revenue := make(map[triple]float64)
	for _, t := range txns {
		if ls, ok := labels[t.CustomerID]; ok {
			revenue[triple{ls.PurchaseFrequency, ls.Spending, ls.Category}] += t.Amount
		}
	}

	combos := make([]Combination, 0, len(customers))
	for tr, n := range customers {
		combos = append(combos, Combination{
			Frequency:     tr.frequency,
			Spending:      tr.spending,
			Category:      tr.category,
			CustomerCount: n,
			TotalRevenue:  revenue[tr],
		})
	}

	// Rank by customer count, then by labels for a stable order.
	sort.Slice(combos, func(i, j int) bool {
		a, b := combos[i], combos[j]
		if a.CustomerCount != b.CustomerCount {
			return a.CustomerCount > b.CustomerCount
		}
		if a.Frequency != b.Frequency {
			return a.Frequency < b.Frequency
		}
		if a.Spending != b.Spending {
			return a.Spending < b.Spending
		}
		return a.Category < b.Category
	})

	unique := len(combos)
	if len(combos) > topN {
		combos = combos[:topN]
	}

	return CrossSegmentAnalysis{TopCombinations: combos, UniqueCombinations: unique}
}
