package segment

import (
	"github.com/mayfashion/segmentflow/internal/model"
)

// CategoryConfig holds the affinity thresholds and the fixed category
// ordering used to break ties. PluralityThreshold is a deliberately separate
// knob from FamilyThreshold: it marks a clear-but-not-dominant preference.
type CategoryConfig struct {
	Categories         []string `mapstructure:"categories"`
	DominantThreshold  float64  `mapstructure:"dominant_threshold"`
	FamilyThreshold    float64  `mapstructure:"family_threshold"`
	PluralityThreshold float64  `mapstructure:"plurality_threshold"`
}

// DefaultCategoryConfig returns the standard apparel category setup.
func DefaultCategoryConfig() CategoryConfig {
	return CategoryConfig{
		Categories:         []string{"Womens", "Mens", "Kids"},
		DominantThreshold:  0.7,
		FamilyThreshold:    0.3,
		PluralityThreshold: 0.4,
	}
}

// CategoryClassifier assigns affinity segments from each customer's
// category spend distribution. The label vocabulary is the configured
// category set plus Family.
type CategoryClassifier struct {
	config CategoryConfig
}

// NewCategoryClassifier creates a classifier with the given configuration.
// Missing fields fall back to the defaults.
func NewCategoryClassifier(cfg CategoryConfig) *CategoryClassifier {
	defaults := DefaultCategoryConfig()
	if len(cfg.Categories) == 0 {
		cfg.Categories = defaults.Categories
	}
	if cfg.DominantThreshold == 0 {
		cfg.DominantThreshold = defaults.DominantThreshold
	}
	if cfg.FamilyThreshold == 0 {
		cfg.FamilyThreshold = defaults.FamilyThreshold
	}
	if cfg.PluralityThreshold == 0 {
		cfg.PluralityThreshold = defaults.PluralityThreshold
	}
	return &CategoryClassifier{config: cfg}
}

// Config returns the configured thresholds and category ordering.
func (c *CategoryClassifier) Config() CategoryConfig {
	return c.config
}

// Profiles computes per-customer spend totals per category.
func (c *CategoryClassifier) Profiles(txns []model.Transaction) map[string]model.CategoryProfile {
	profiles := make(map[string]model.CategoryProfile)
	for _, t := range txns {
		p, ok := profiles[t.CustomerID]
		if !ok {
			p = model.CategoryProfile{SpendByCategory: make(map[string]float64)}
		}
		p.SpendByCategory[t.Category] += t.Amount
		p.TotalSpend += t.Amount
		profiles[t.CustomerID] = p
	}
	return profiles
}

// Segment assigns a category segment to every customer in the table.
func (c *CategoryClassifier) Segment(txns []model.Transaction) map[string]string {
	profiles := c.Profiles(txns)
	segments := make(map[string]string, len(profiles))
	for id, p := range profiles {
		segments[id] = c.classify(p)
	}
	return segments
}

// classify walks the affinity ladder in priority order. Unlike the other two
// classifiers the label here depends on which category fired, so the ladder
// is explicit rather than a fixed-label rule table.
func (c *CategoryClassifier) classify(p model.CategoryProfile) string {
	// Dominant single category. The configured ordering breaks ties.
	for _, cat := range c.config.Categories {
		if p.Share(cat) >= c.config.DominantThreshold {
			return cat
		}
	}

	// Meaningful spend in at least two categories.
	if p.CategoriesPurchased(c.config.Categories) >= 2 {
		significant := 0
		for _, cat := range c.config.Categories {
			if p.Share(cat) >= c.config.FamilyThreshold {
				significant++
			}
		}
		if significant >= 2 {
			return model.CategoryFamily
		}
	}

	// Clear plurality below the dominant threshold.
	best := ""
	bestShare := 0.0
	for _, cat := range c.config.Categories {
		if share := p.Share(cat); share > bestShare {
			best = cat
			bestShare = share
		}
	}
	if best != "" && bestShare > c.config.PluralityThreshold {
		return best
	}

	// No clear preference.
	return model.CategoryFamily
}
