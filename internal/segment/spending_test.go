package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayfashion/segmentflow/internal/model"
)

func TestSpendingClassifier_Segment(t *testing.T) {
	when := referenceDate.AddDate(0, 0, -10)

	tests := []struct {
		name string
		txns []model.Transaction
		want string
	}{
		{
			name: "high average order value",
			txns: []model.Transaction{
				txn("c1", "p1", when, 16000, "Womens"),
				txn("c1", "p2", when, 15000, "Womens"),
			},
			want: model.SpendingHighValue,
		},
		{
			name: "high lifetime spend with small orders",
			txns: []model.Transaction{
				txn("c1", "p1", when, 75000, "Womens"),
				txn("c1", "p2", when, 75000, "Womens"),
			},
			want: model.SpendingHighValue,
		},
		{
			name: "split order reaches high via effective AOV",
			txns: []model.Transaction{
				// Two transactions on one order: mean per transaction is
				// 8000 but mean per distinct order is 16000.
				txn("c1", "order-1", when, 8000, "Womens"),
				txn("c1", "order-1", when, 8000, "Mens"),
			},
			want: model.SpendingHighValue,
		},
		{
			name: "low lifetime spend",
			txns: []model.Transaction{
				txn("c1", "p1", when, 5000, "Kids"),
				txn("c1", "p2", when, 4000, "Kids"),
			},
			want: model.SpendingLowValue,
		},
		{
			name: "boundary lifetime spend is still low",
			txns: []model.Transaction{
				txn("c1", "p1", when, 10000, "Kids"),
			},
			want: model.SpendingLowValue,
		},
		{
			name: "between thresholds is medium",
			txns: []model.Transaction{
				txn("c1", "p1", when, 12000, "Womens"),
				txn("c1", "p2", when, 11000, "Mens"),
				txn("c1", "p3", when, 13000, "Kids"),
			},
			want: model.SpendingMedium,
		},
		{
			name: "zero spend customer is low value",
			txns: []model.Transaction{
				txn("c1", "p1", when, 0, "Womens"),
			},
			want: model.SpendingLowValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := NewSpendingClassifier(DefaultSpendingThresholds())
			segments := classifier.Segment(tt.txns)
			require.Contains(t, segments, "c1")
			assert.Equal(t, tt.want, segments["c1"])
		})
	}
}

// Overriding one threshold must not zero out the others: with only the low
// cut point set, a tiny spender is still low value, not swept into high by a
// vanished AOV threshold.
func TestNewSpendingClassifier_PartialOverride(t *testing.T) {
	classifier := NewSpendingClassifier(SpendingThresholds{LowLifetime: 5000})

	got := classifier.Thresholds()
	assert.Equal(t, 5000.0, got.LowLifetime)
	assert.Equal(t, DefaultSpendingThresholds().HighAOV, got.HighAOV)
	assert.Equal(t, DefaultSpendingThresholds().HighLifetime, got.HighLifetime)

	when := referenceDate.AddDate(0, 0, -10)
	segments := classifier.Segment([]model.Transaction{
		txn("c1", "p1", when, 100, "Womens"),
		txn("c2", "p2", when, 8000, "Womens"),
		txn("c3", "p3", when, 16000, "Womens"),
	})
	assert.Equal(t, model.SpendingLowValue, segments["c1"])
	assert.Equal(t, model.SpendingMedium, segments["c2"])
	assert.Equal(t, model.SpendingHighValue, segments["c3"])
}

func TestSpendingClassifier_Profiles(t *testing.T) {
	when := referenceDate
	classifier := NewSpendingClassifier(DefaultSpendingThresholds())

	t.Run("single transaction has zero volatility", func(t *testing.T) {
		profiles := classifier.Profiles([]model.Transaction{
			txn("c1", "p1", when, 5000, "Womens"),
		})
		require.Contains(t, profiles, "c1")
		p := profiles["c1"]
		assert.Zero(t, p.Volatility)
		assert.Equal(t, 5000.0, p.LifetimeSpend)
		assert.Equal(t, 5000.0, p.AverageOrderValue)
		assert.Equal(t, 1, p.DistinctOrders)
	})

	t.Run("volatility is the sample standard deviation", func(t *testing.T) {
		profiles := classifier.Profiles([]model.Transaction{
			txn("c1", "p1", when, 1000, "Womens"),
			txn("c1", "p2", when, 2000, "Womens"),
			txn("c1", "p3", when, 3000, "Womens"),
		})
		p := profiles["c1"]
		assert.InDelta(t, 1000.0, p.Volatility, 1e-6)
		assert.Equal(t, 2000.0, p.AverageOrderValue)
	})

	t.Run("effective AOV guards order granularity", func(t *testing.T) {
		profiles := classifier.Profiles([]model.Transaction{
			txn("c1", "order-1", when, 6000, "Womens"),
			txn("c1", "order-1", when, 6000, "Mens"),
			txn("c1", "order-2", when, 6000, "Kids"),
		})
		p := profiles["c1"]
		assert.Equal(t, 2, p.DistinctOrders)
		assert.Equal(t, 6000.0, p.AverageOrderValue)
		assert.Equal(t, 9000.0, p.EffectiveAOV())
	})
}

// Every profile must land in exactly one of the three labels.
func TestSpendingClassifier_Exhaustive(t *testing.T) {
	classifier := NewSpendingClassifier(DefaultSpendingThresholds())
	when := referenceDate

	amounts := []float64{0, 500, 9999, 10000, 10001, 14999, 15000, 149999, 150000, 500000}
	valid := map[string]bool{
		model.SpendingHighValue: true,
		model.SpendingLowValue:  true,
		model.SpendingMedium:    true,
	}
	for _, amount := range amounts {
		segments := classifier.Segment([]model.Transaction{
			txn("c1", "p1", when, amount, "Womens"),
			txn("c1", "p2", when, amount, "Womens"),
		})
		assert.True(t, valid[segments["c1"]], "amount %v produced %q", amount, segments["c1"])
	}
}
