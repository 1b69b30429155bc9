package model

import "time"

// FrequencyProfile holds the per-customer recency and frequency statistics
// the frequency classifier derives from the transaction table. Profiles are
// recomputed on every run and never persisted.
type FrequencyProfile struct {
	FirstPurchase  time.Time
	LastPurchase   time.Time
	TotalPurchases int
	RecentCount    int
	DaysSinceLast  int
	FestiveRatio   float64
}

// SpendingProfile holds the per-customer monetary statistics used by the
// spending classifier.
type SpendingProfile struct {
	LifetimeSpend     float64
	AverageOrderValue float64
	Volatility        float64
	TotalTransactions int
	DistinctOrders    int
}

// EffectiveAOV returns the larger of the mean-per-transaction and the
// mean-per-distinct-order spend. The two differ when several transactions
// share one order identifier.
func (p SpendingProfile) EffectiveAOV() float64 {
	if p.DistinctOrders == 0 {
		return p.AverageOrderValue
	}
	perOrder := p.LifetimeSpend / float64(p.DistinctOrders)
	if perOrder > p.AverageOrderValue {
		return perOrder
	}
	return p.AverageOrderValue
}

// CategoryProfile holds the per-customer category spend distribution.
type CategoryProfile struct {
	SpendByCategory map[string]float64
	TotalSpend      float64
}

// Share returns the fraction of the customer's total spend that fell in the
// given category. Customers with zero total spend have zero share everywhere.
func (p CategoryProfile) Share(category string) float64 {
	if p.TotalSpend <= 0 {
		return 0
	}
	return p.SpendByCategory[category] / p.TotalSpend
}

// CategoriesPurchased counts the listed categories with nonzero spend.
func (p CategoryProfile) CategoriesPurchased(categories []string) int {
	n := 0
	for _, c := range categories {
		if p.SpendByCategory[c] > 0 {
			n++
		}
	}
	return n
}
