// Package loader produces normalized transaction tables from external
// sources. It owns source-specific parsing, column remapping and the lossy
// required-field filter; the segmentation core only ever sees the canonical
// table it emits.
package loader

import (
	"strconv"
	"strings"
	"time"

	"github.com/mayfashion/segmentflow/internal/common"
)

// columnAliases maps lowercased source column names to the canonical
// vocabulary. Covers both the POS CSV export and the document-store fields.
var columnAliases = map[string]string{
	"customer_id":      "customer_id",
	"order_id":         "purchase_id",
	"purchase_id":      "purchase_id",
	"date":             "purchase_date",
	"purchase_date":    "purchase_date",
	"total_amount_lkr": "amount",
	"amount":           "amount",
	"product_category": "category",
	"category":         "category",
}

// categoryAliases folds source category spellings into the canonical set.
var categoryAliases = map[string]string{
	"Women": "Womens",
	"Men":   "Mens",
}

// dateLayouts are tried in order when parsing purchase dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// CanonicalColumn maps a source column name to its canonical name, or ""
// when the column is not part of the transaction vocabulary.
func CanonicalColumn(name string) string {
	return columnAliases[strings.ToLower(strings.TrimSpace(name))]
}

// NormalizeCategory folds a source category name into the canonical set.
func NormalizeCategory(name string) string {
	name = strings.TrimSpace(name)
	if canonical, ok := categoryAliases[name]; ok {
		return canonical
	}
	return name
}

// ValidateHeader checks that every required canonical column is reachable
// from the given source header, failing fast on the first absent one.
func ValidateHeader(header []string, required []string) error {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		if canonical := CanonicalColumn(name); canonical != "" {
			present[canonical] = true
		}
	}
	for _, col := range required {
		if !present[col] {
			return &common.MissingColumnError{Column: col}
		}
	}
	return nil
}

// ParseDate parses a purchase date trying the supported layouts in order.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseAmount parses a monetary value, tolerating thousands separators.
func ParseAmount(value string) (float64, bool) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
