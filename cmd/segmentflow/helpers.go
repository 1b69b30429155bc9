package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/mayfashion/segmentflow/internal/common"
	"github.com/mayfashion/segmentflow/internal/loader"
	"github.com/mayfashion/segmentflow/internal/pipeline"
	"github.com/mayfashion/segmentflow/internal/segment"
	"github.com/mayfashion/segmentflow/internal/service"
	"github.com/mayfashion/segmentflow/internal/storage"
)

// newSource builds the transaction source selected by configuration.
func newSource() (service.TransactionSource, error) {
	switch source := viper.GetString("source"); source {
	case "csv", "":
		path := viper.GetString("csv.path")
		if path == "" {
			return nil, common.NewUserError("no CSV file configured; pass --csv or set csv.path", common.ErrMissingConfig)
		}
		return loader.NewCSVSource(path), nil
	case "mongodb":
		uri := viper.GetString("mongodb.uri")
		if uri == "" {
			return nil, common.NewUserError("no MongoDB URI configured; set mongodb.uri", common.ErrMissingConfig)
		}
		database := viper.GetString("mongodb.database")
		if database == "" {
			database = "retail_db"
		}
		collection := viper.GetString("mongodb.collection")
		if collection == "" {
			collection = "purchases"
		}
		return loader.NewMongoSource(uri, database, collection), nil
	default:
		return nil, fmt.Errorf("unknown source %q (expected csv or mongodb)", source)
	}
}

// pipelineOptions assembles run options from configuration.
func pipelineOptions() (pipeline.Options, error) {
	opts := pipeline.Options{
		Spending: segment.SpendingThresholds{
			HighAOV:      viper.GetFloat64("segmentation.spending.high_aov"),
			HighLifetime: viper.GetFloat64("segmentation.spending.high_lifetime"),
			LowLifetime:  viper.GetFloat64("segmentation.spending.low_lifetime"),
		},
		Category: segment.CategoryConfig{
			Categories:         viper.GetStringSlice("segmentation.category.categories"),
			DominantThreshold:  viper.GetFloat64("segmentation.category.dominant_threshold"),
			FamilyThreshold:    viper.GetFloat64("segmentation.category.family_threshold"),
			PluralityThreshold: viper.GetFloat64("segmentation.category.plurality_threshold"),
		},
		TopCombinations: viper.GetInt("segmentation.top_combinations"),
	}

	if ref := viper.GetString("segmentation.reference_date"); ref != "" {
		parsed, err := time.Parse("2006-01-02", ref)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("invalid reference date %q: %w", ref, err)
		}
		opts.ReferenceDate = parsed
	}

	if viper.IsSet("segmentation.festive_periods") {
		var calendar segment.FestiveCalendar
		if err := viper.UnmarshalKey("segmentation.festive_periods", &calendar); err != nil {
			return pipeline.Options{}, fmt.Errorf("invalid festive period config: %w", err)
		}
		opts.Calendar = calendar
	}

	return opts, nil
}

// openStore opens the run history store at the configured path.
func openStore(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("storage.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "segmentflow", "segmentflow.db")
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate run store: %w", err)
	}
	return store, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// writeEnvelope writes the result envelope as indented JSON.
func writeEnvelope(result *pipeline.Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write envelope: %w", err)
	}
	slog.Info("Segmentation envelope written", "path", path)
	return nil
}
