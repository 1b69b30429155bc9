// Package pipeline sequences the three classifiers, the combiner and the
// reporter over one transaction table and packages the result envelope.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mayfashion/segmentflow/internal/common"
	"github.com/mayfashion/segmentflow/internal/model"
	"github.com/mayfashion/segmentflow/internal/report"
	"github.com/mayfashion/segmentflow/internal/segment"
)

// StatusSuccess marks a completed run.
const StatusSuccess = "success"

// Options configures one pipeline run. The zero value means: reference date
// now, default calendar, default thresholds, top 10 combinations.
type Options struct {
	ReferenceDate   time.Time
	Calendar        segment.FestiveCalendar
	Spending        segment.SpendingThresholds
	Category        segment.CategoryConfig
	TopCombinations int
}

// DateRange bounds the purchase dates of the input table. Empty strings mean
// the table was empty.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Metadata describes a run for auditing.
type Metadata struct {
	Timestamp             time.Time `json:"timestamp"`
	RunID                 string    `json:"run_id"`
	Source                string    `json:"source"`
	DataDateRange         DateRange `json:"data_date_range"`
	TotalRecords          int       `json:"total_records"`
	TotalCustomers        int       `json:"total_customers"`
	DroppedRecords        int       `json:"dropped_records"`
	ProcessingTimeSeconds float64   `json:"processing_time_seconds"`
}

// Result is the envelope the pipeline emits: labels, analytics and metadata.
type Result struct {
	Status       string                   `json:"status"`
	Segmentation []model.CustomerSegments `json:"segmentation"`
	Analysis     report.Analysis          `json:"analysis"`
	Metadata     Metadata                 `json:"metadata"`

	// Diagnostics from the combine step; zero unless the join diverged.
	Diagnostics segment.Diagnostics `json:"-"`
}

// Pipeline runs the multi-dimensional segmentation over a transaction table.
// It holds no mutable state between runs; the caller owns run serialization.
type Pipeline struct {
	frequency *segment.FrequencyClassifier
	spending  *segment.SpendingClassifier
	category  *segment.CategoryClassifier
	topN      int
}

// New creates a pipeline from the given options.
func New(opts Options) *Pipeline {
	calendar := opts.Calendar
	if calendar == nil {
		calendar = segment.DefaultCalendar()
	}
	topN := opts.TopCombinations
	if topN < 1 {
		topN = report.DefaultTopCombinations
	}
	return &Pipeline{
		frequency: segment.NewFrequencyClassifier(opts.ReferenceDate, calendar),
		spending:  segment.NewSpendingClassifier(opts.Spending),
		category:  segment.NewCategoryClassifier(opts.Category),
		topN:      topN,
	}
}

// Run executes the full segmentation over the given table. An empty table
// completes with an empty segmentation list; a nil set is a structural error
// and produces no partial output.
func (p *Pipeline) Run(set *model.TransactionSet) (*Result, error) {
	if set == nil {
		return nil, fmt.Errorf("pipeline: %w", common.ErrNilInput)
	}

	start := time.Now()
	txns := set.Transactions

	slog.Info("Starting segmentation run",
		"source", set.Source,
		"records", len(txns),
		"dropped", set.DroppedTotal(),
		"reference_date", p.frequency.ReferenceDate().Format("2006-01-02"))

	if len(txns) == 0 {
		slog.Warn("No transactions after required-field filtering, emitting empty segmentation",
			"dropped", set.DroppedTotal())
	}

	// The three classifiers are independent; order among them is irrelevant.
	frequency := p.frequency.Segment(txns)
	spending := p.spending.Segment(txns)
	category := p.category.Segment(txns)

	combined, diags := segment.Combine(frequency, spending, category)
	analysis := report.Build(txns, combined, p.topN)

	result := &Result{
		Status:       StatusSuccess,
		Segmentation: combined,
		Analysis:     analysis,
		Diagnostics:  diags,
		Metadata: Metadata{
			Timestamp:             time.Now(),
			RunID:                 uuid.New().String(),
			Source:                set.Source,
			TotalRecords:          len(txns),
			TotalCustomers:        len(combined),
			DroppedRecords:        set.DroppedTotal(),
			ProcessingTimeSeconds: time.Since(start).Seconds(),
		},
	}
	if first, last, ok := set.DateRange(); ok {
		result.Metadata.DataDateRange = DateRange{
			Start: first.Format(time.RFC3339),
			End:   last.Format(time.RFC3339),
		}
	}

	slog.Info("Segmentation run completed",
		"run_id", result.Metadata.RunID,
		"customers", result.Metadata.TotalCustomers,
		"duration", time.Since(start))

	return result, nil
}
