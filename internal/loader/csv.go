package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/mayfashion/segmentflow/internal/model"
)

// CSVSource loads transactions from a POS CSV export.
type CSVSource struct {
	Path string

	// ShowProgress renders a byte-progress bar on stderr while reading.
	ShowProgress bool
}

// NewCSVSource creates a CSV transaction source for the given file.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path, ShowProgress: true}
}

// Describe returns the source descriptor recorded in run metadata.
func (s *CSVSource) Describe() string {
	return "csv:" + s.Path
}

// Load reads and normalizes the CSV file. It fails fast when a required
// column is absent; rows failing required-field parsing are dropped and
// counted per reason.
func (s *CSVSource) Load(ctx context.Context) (*model.TransactionSet, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("Failed to close csv file", "path", s.Path, "error", closeErr)
		}
	}()

	var source io.Reader = file
	if s.ShowProgress {
		if info, statErr := file.Stat(); statErr == nil {
			bar := progressbar.NewOptions64(info.Size(),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("Loading transactions..."),
				progressbar.OptionShowBytes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionClearOnFinish(),
			)
			source = io.TeeReader(file, bar)
		}
	}

	reader := csv.NewReader(source)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv %s is empty: %w", s.Path, err)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	if err := ValidateHeader(header, model.RequiredColumns); err != nil {
		return nil, err
	}

	// Column index per canonical name.
	index := make(map[string]int, len(header))
	for i, name := range header {
		if canonical := CanonicalColumn(name); canonical != "" {
			index[canonical] = i
		}
	}

	set := model.NewTransactionSet(s.Describe())
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", readErr)
		}

		field := func(col string) string {
			if i, ok := index[col]; ok && i < len(record) {
				return record[i]
			}
			return ""
		}

		txn := model.Transaction{
			CustomerID: field("customer_id"),
			PurchaseID: field("purchase_id"),
			Category:   NormalizeCategory(field("category")),
			// A parse failure leaves NaN so ValidateRow attributes the drop.
			Amount: math.NaN(),
		}
		if date, ok := ParseDate(field("purchase_date")); ok {
			txn.PurchaseDate = date
		}
		if amount, ok := ParseAmount(field("amount")); ok {
			txn.Amount = amount
		}

		set.Append(txn)
	}

	slog.Info("Loaded transactions from csv",
		"path", s.Path,
		"records", len(set.Transactions),
		"dropped", set.DroppedTotal())
	if set.DroppedTotal() > 0 {
		slog.Warn("Dropped rows failing required-field parsing", "reasons", set.Dropped)
	}

	return set, nil
}
