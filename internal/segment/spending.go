package segment

import (
	"math"

	"github.com/mayfashion/segmentflow/internal/model"
)

// SpendingThresholds are the monetary cut points for the value-tier rules.
// They are configuration, overridable per run.
type SpendingThresholds struct {
	HighAOV      float64 `mapstructure:"high_aov"`
	HighLifetime float64 `mapstructure:"high_lifetime"`
	LowLifetime  float64 `mapstructure:"low_lifetime"`
}

// DefaultSpendingThresholds returns the standard LKR thresholds.
func DefaultSpendingThresholds() SpendingThresholds {
	return SpendingThresholds{
		HighAOV:      15000,
		HighLifetime: 150000,
		LowLifetime:  10000,
	}
}

// SpendingClassifier assigns value-tier segments from per-customer monetary
// statistics. The three rules are mutually exclusive given their priority
// order and cover every customer.
type SpendingClassifier struct {
	thresholds SpendingThresholds
	rules      []Rule[model.SpendingProfile]
}

// NewSpendingClassifier creates a classifier with the given thresholds.
// Each zero-valued threshold falls back to its default independently, so a
// partial override leaves the other cut points intact.
func NewSpendingClassifier(t SpendingThresholds) *SpendingClassifier {
	defaults := DefaultSpendingThresholds()
	if t.HighAOV == 0 {
		t.HighAOV = defaults.HighAOV
	}
	if t.HighLifetime == 0 {
		t.HighLifetime = defaults.HighLifetime
	}
	if t.LowLifetime == 0 {
		t.LowLifetime = defaults.LowLifetime
	}
	return &SpendingClassifier{
		thresholds: t,
		rules: []Rule[model.SpendingProfile]{
			{
				Name: "high_value",
				When: func(p model.SpendingProfile) bool {
					return p.EffectiveAOV() >= t.HighAOV || p.LifetimeSpend >= t.HighLifetime
				},
				Label: model.SpendingHighValue,
			},
			{
				Name:  "low_value",
				When:  func(p model.SpendingProfile) bool { return p.LifetimeSpend <= t.LowLifetime },
				Label: model.SpendingLowValue,
			},
		},
	}
}

// Thresholds returns the configured cut points.
func (c *SpendingClassifier) Thresholds() SpendingThresholds {
	return c.thresholds
}

// Rules exposes the ordered rule table for auditing.
func (c *SpendingClassifier) Rules() []Rule[model.SpendingProfile] {
	return c.rules
}

// Profiles computes per-customer monetary statistics. Volatility is the
// sample standard deviation of transaction amounts, zero for customers with
// a single transaction.
func (c *SpendingClassifier) Profiles(txns []model.Transaction) map[string]model.SpendingProfile {
	sums := make(map[string]float64)
	sumSquares := make(map[string]float64)
	counts := make(map[string]int)
	orders := make(map[string]map[string]struct{})

	for _, t := range txns {
		sums[t.CustomerID] += t.Amount
		sumSquares[t.CustomerID] += t.Amount * t.Amount
		counts[t.CustomerID]++
		if orders[t.CustomerID] == nil {
			orders[t.CustomerID] = make(map[string]struct{})
		}
		orders[t.CustomerID][t.PurchaseID] = struct{}{}
	}

	profiles := make(map[string]model.SpendingProfile, len(counts))
	for id, n := range counts {
		mean := sums[id] / float64(n)
		volatility := 0.0
		if n > 1 {
			// Sample variance via the sum-of-squares identity; clamp tiny
			// negative values from floating point error.
			variance := (sumSquares[id] - float64(n)*mean*mean) / float64(n-1)
			if variance > 0 {
				volatility = math.Sqrt(variance)
			}
		}
		profiles[id] = model.SpendingProfile{
			LifetimeSpend:     sums[id],
			AverageOrderValue: mean,
			Volatility:        volatility,
			TotalTransactions: n,
			DistinctOrders:    len(orders[id]),
		}
	}
	return profiles
}

// Segment assigns a spending segment to every customer in the table.
func (c *SpendingClassifier) Segment(txns []model.Transaction) map[string]string {
	profiles := c.Profiles(txns)
	segments := make(map[string]string, len(profiles))
	for id, p := range profiles {
		segments[id] = apply(c.rules, model.SpendingMedium, p)
	}
	return segments
}
