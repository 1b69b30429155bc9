package segment

import (
	"time"

	"github.com/mayfashion/segmentflow/internal/model"
)

// Frequency classification windows.
const (
	recentWindowDays      = 180
	lapsedAfterDays       = 90
	activeWindowDays      = 30
	recentBuyerWindowDays = 60
	seasonalRatio         = 0.8
	loyalRecentPurchases  = 5
	loyalTotalPurchases   = 3
)

// FrequencyClassifier assigns purchase-frequency segments from recency,
// frequency and seasonality statistics. It is a pure function of the
// transaction table and the reference date.
type FrequencyClassifier struct {
	reference time.Time
	calendar  FestiveCalendar
	rules     []Rule[model.FrequencyProfile]
}

// NewFrequencyClassifier creates a classifier anchored at the given
// reference date. A zero reference date means "now".
func NewFrequencyClassifier(reference time.Time, calendar FestiveCalendar) *FrequencyClassifier {
	if reference.IsZero() {
		reference = time.Now()
	}
	return &FrequencyClassifier{
		reference: reference,
		calendar:  calendar,
		rules: []Rule[model.FrequencyProfile]{
			{
				Name:  "first_time_buyer",
				When:  func(p model.FrequencyProfile) bool { return p.TotalPurchases == 1 },
				Label: model.FrequencyNew,
			},
			{
				Name:  "lapsed",
				When:  func(p model.FrequencyProfile) bool { return p.DaysSinceLast > lapsedAfterDays },
				Label: model.FrequencyLapsed,
			},
			{
				Name: "seasonal",
				When: func(p model.FrequencyProfile) bool {
					return p.FestiveRatio >= seasonalRatio && p.TotalPurchases >= 2
				},
				Label: model.FrequencySeasonal,
			},
			{
				Name:  "loyal_recent",
				When:  func(p model.FrequencyProfile) bool { return p.RecentCount >= loyalRecentPurchases },
				Label: model.FrequencyLoyal,
			},
			{
				Name: "loyal_consistent",
				When: func(p model.FrequencyProfile) bool {
					return p.DaysSinceLast <= activeWindowDays && p.TotalPurchases >= loyalTotalPurchases
				},
				Label: model.FrequencyLoyal,
			},
			{
				Name:  "recent_low_frequency",
				When:  func(p model.FrequencyProfile) bool { return p.DaysSinceLast <= recentBuyerWindowDays },
				Label: model.FrequencyNew,
			},
		},
	}
}

// ReferenceDate returns the date recency is measured against.
func (c *FrequencyClassifier) ReferenceDate() time.Time {
	return c.reference
}

// Rules exposes the ordered rule table for auditing.
func (c *FrequencyClassifier) Rules() []Rule[model.FrequencyProfile] {
	return c.rules
}

// Profiles computes per-customer recency, frequency and seasonality
// statistics from the transaction table.
func (c *FrequencyClassifier) Profiles(txns []model.Transaction) map[string]model.FrequencyProfile {
	profiles := make(map[string]model.FrequencyProfile)
	festive := make(map[string]int)
	recentCutoff := c.reference.AddDate(0, 0, -recentWindowDays)

	for _, t := range txns {
		p, ok := profiles[t.CustomerID]
		if !ok {
			p = model.FrequencyProfile{FirstPurchase: t.PurchaseDate, LastPurchase: t.PurchaseDate}
		}
		p.TotalPurchases++
		if t.PurchaseDate.Before(p.FirstPurchase) {
			p.FirstPurchase = t.PurchaseDate
		}
		if t.PurchaseDate.After(p.LastPurchase) {
			p.LastPurchase = t.PurchaseDate
		}
		if !t.PurchaseDate.Before(recentCutoff) {
			p.RecentCount++
		}
		if c.calendar.Contains(t.PurchaseDate) {
			festive[t.CustomerID]++
		}
		profiles[t.CustomerID] = p
	}

	for id, p := range profiles {
		p.DaysSinceLast = int(c.reference.Sub(p.LastPurchase).Hours() / 24)
		p.FestiveRatio = float64(festive[id]) / float64(p.TotalPurchases)
		profiles[id] = p
	}
	return profiles
}

// Segment assigns a frequency segment to every customer in the table.
// An empty table yields an empty result, not an error.
func (c *FrequencyClassifier) Segment(txns []model.Transaction) map[string]string {
	profiles := c.Profiles(txns)
	segments := make(map[string]string, len(profiles))
	for id, p := range profiles {
		segments[id] = apply(c.rules, model.FrequencyLapsed, p)
	}
	return segments
}
