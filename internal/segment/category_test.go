package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayfashion/segmentflow/internal/model"
)

func TestCategoryClassifier_Segment(t *testing.T) {
	when := referenceDate.AddDate(0, 0, -10)

	tests := []struct {
		name string
		txns []model.Transaction
		want string
	}{
		{
			name: "dominant single category",
			txns: []model.Transaction{
				txn("c1", "p1", when, 8000, "Womens"),
				txn("c1", "p2", when, 2000, "Mens"),
			},
			want: "Womens",
		},
		{
			name: "exactly at dominant threshold",
			txns: []model.Transaction{
				txn("c1", "p1", when, 7000, "Mens"),
				txn("c1", "p2", when, 3000, "Kids"),
			},
			want: "Mens",
		},
		{
			name: "two significant categories is Family",
			txns: []model.Transaction{
				txn("c1", "p1", when, 4000, "Womens"),
				txn("c1", "p2", when, 3500, "Kids"),
				txn("c1", "p3", when, 2500, "Mens"),
			},
			want: model.CategoryFamily,
		},
		{
			name: "clear plurality below dominant threshold",
			txns: []model.Transaction{
				// 60/25/15: only one category above the family threshold,
				// so the plurality rule picks it.
				txn("c1", "p1", when, 6000, "Kids"),
				txn("c1", "p2", when, 2500, "Womens"),
				txn("c1", "p3", when, 1500, "Mens"),
			},
			want: "Kids",
		},
		{
			name: "three significant categories is Family",
			txns: []model.Transaction{
				txn("c1", "p1", when, 3800, "Womens"),
				txn("c1", "p2", when, 3200, "Mens"),
				txn("c1", "p3", when, 3000, "Kids"),
			},
			want: model.CategoryFamily,
		},
		{
			name: "no clear preference falls back to Family",
			txns: []model.Transaction{
				// Spend outside the configured set dilutes every share:
				// only Womens reaches 0.3 and nothing clears 0.4.
				txn("c1", "p1", when, 4000, "Womens"),
				txn("c1", "p2", when, 2500, "Mens"),
				txn("c1", "p3", when, 2000, "Kids"),
				txn("c1", "p4", when, 1500, "Accessories"),
			},
			want: model.CategoryFamily,
		},
		{
			name: "zero total spend falls back to Family",
			txns: []model.Transaction{
				txn("c1", "p1", when, 0, "Womens"),
			},
			want: model.CategoryFamily,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := NewCategoryClassifier(DefaultCategoryConfig())
			segments := classifier.Segment(tt.txns)
			require.Contains(t, segments, "c1")
			assert.Equal(t, tt.want, segments["c1"])
		})
	}
}

func TestCategoryClassifier_OrderingBreaksTies(t *testing.T) {
	when := referenceDate
	// Lower the dominant threshold so two categories can qualify at once;
	// the configured ordering must decide.
	classifier := NewCategoryClassifier(CategoryConfig{
		Categories:         []string{"Mens", "Womens"},
		DominantThreshold:  0.5,
		FamilyThreshold:    0.3,
		PluralityThreshold: 0.4,
	})

	segments := classifier.Segment([]model.Transaction{
		txn("c1", "p1", when, 5000, "Womens"),
		txn("c1", "p2", when, 5000, "Mens"),
	})
	assert.Equal(t, "Mens", segments["c1"])
}

func TestCategoryClassifier_SharesSumToOne(t *testing.T) {
	when := referenceDate
	classifier := NewCategoryClassifier(DefaultCategoryConfig())

	profiles := classifier.Profiles([]model.Transaction{
		txn("c1", "p1", when, 1234.56, "Womens"),
		txn("c1", "p2", when, 789.01, "Mens"),
		txn("c1", "p3", when, 456.78, "Kids"),
	})

	p := profiles["c1"]
	total := 0.0
	for category := range p.SpendByCategory {
		total += p.Share(category)
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestCategoryClassifier_LabelVocabulary(t *testing.T) {
	when := referenceDate
	classifier := NewCategoryClassifier(DefaultCategoryConfig())

	segments := classifier.Segment([]model.Transaction{
		txn("c1", "p1", when, 9000, "Womens"),
		txn("c2", "p2", when, 9000, "Mens"),
		txn("c3", "p3", when, 5000, "Kids"),
		txn("c3", "p4", when, 5000, "Womens"),
	})

	valid := map[string]bool{"Womens": true, "Mens": true, "Kids": true, model.CategoryFamily: true}
	for id, segment := range segments {
		assert.True(t, valid[segment], "customer %s got %q", id, segment)
	}
}
