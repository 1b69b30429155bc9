package model

// Dimension identifies one of the three independent classification axes.
type Dimension string

// Classification dimensions.
const (
	DimensionFrequency Dimension = "purchase_frequency"
	DimensionSpending  Dimension = "spending"
	DimensionCategory  Dimension = "category"
)

// Purchase frequency segments.
const (
	FrequencyNew      = "New"
	FrequencyLoyal    = "Loyal"
	FrequencyLapsed   = "Lapsed"
	FrequencySeasonal = "Seasonal"
)

// Spending value segments.
const (
	SpendingHighValue = "High Value Customer"
	SpendingLowValue  = "Low Value Customer"
	SpendingMedium    = "Medium Value"
)

// CategoryFamily is the cross-category affinity segment. Single-category
// customers are labeled with the category name itself.
const CategoryFamily = "Family"

// SegmentUnknown fills a dimension when a customer is missing from that
// classifier's output. It only appears when the join keys diverge, which
// indicates malformed input rather than a valid segment.
const SegmentUnknown = "Unknown"

// LabelSet holds one label per classification dimension for a customer.
type LabelSet struct {
	PurchaseFrequency string `json:"purchase_frequency"`
	Spending          string `json:"spending"`
	Category          string `json:"category"`
}

// Label returns the label assigned on the given dimension.
func (l LabelSet) Label(d Dimension) string {
	switch d {
	case DimensionFrequency:
		return l.PurchaseFrequency
	case DimensionSpending:
		return l.Spending
	case DimensionCategory:
		return l.Category
	}
	return ""
}

// CustomerSegments is one row of the merged segmentation output.
type CustomerSegments struct {
	CustomerID   string   `json:"customer_id"`
	Segmentation LabelSet `json:"segmentation"`
}
