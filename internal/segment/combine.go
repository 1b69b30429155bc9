package segment

import (
	"log/slog"
	"sort"

	"github.com/mayfashion/segmentflow/internal/model"
)

// Diagnostics counts customers that were missing from one dimension's
// output during the combine step. Nonzero counts indicate the classifiers
// saw diverging key sets, which should not happen with a shared input table.
type Diagnostics struct {
	MissingFrequency int
	MissingSpending  int
	MissingCategory  int
}

// Total returns the number of Unknown fills across all dimensions.
func (d Diagnostics) Total() int {
	return d.MissingFrequency + d.MissingSpending + d.MissingCategory
}

// Combine outer-joins the three per-customer label maps into one record per
// customer, sorted by customer id. A customer absent from one dimension is
// kept, filled with Unknown there, and counted in the diagnostics.
func Combine(frequency, spending, category map[string]string) ([]model.CustomerSegments, Diagnostics) {
	ids := make(map[string]struct{}, len(frequency))
	for id := range frequency {
		ids[id] = struct{}{}
	}
	for id := range spending {
		ids[id] = struct{}{}
	}
	for id := range category {
		ids[id] = struct{}{}
	}

	var diags Diagnostics
	combined := make([]model.CustomerSegments, 0, len(ids))
	for id := range ids {
		labels := model.LabelSet{
			PurchaseFrequency: frequency[id],
			Spending:          spending[id],
			Category:          category[id],
		}
		if labels.PurchaseFrequency == "" {
			labels.PurchaseFrequency = model.SegmentUnknown
			diags.MissingFrequency++
		}
		if labels.Spending == "" {
			labels.Spending = model.SegmentUnknown
			diags.MissingSpending++
		}
		if labels.Category == "" {
			labels.Category = model.SegmentUnknown
			diags.MissingCategory++
		}
		combined = append(combined, model.CustomerSegments{CustomerID: id, Segmentation: labels})
	}

	sort.Slice(combined, func(i, j int) bool {
		return combined[i].CustomerID < combined[j].CustomerID
	})

	if diags.Total() > 0 {
		slog.Warn("Segment join diverged, filled missing dimensions with Unknown",
			"missing_frequency", diags.MissingFrequency,
			"missing_spending", diags.MissingSpending,
			"missing_category", diags.MissingCategory)
	}

	return combined, diags
}
