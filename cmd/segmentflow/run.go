package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mayfashion/segmentflow/internal/model"
	"github.com/mayfashion/segmentflow/internal/pipeline"
	"github.com/mayfashion/segmentflow/internal/service"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the segmentation pipeline once",
		Long: `Load the transaction table from the configured source, assign every
customer a frequency, spending and category segment, and write the result
envelope to the output file and the run history store.`,
		RunE: runSegmentation,
	}

	cmd.Flags().String("source", "csv", "Data source (csv, mongodb)")
	cmd.Flags().String("csv", "", "Path to the purchase records CSV")
	cmd.Flags().StringP("output", "o", "customer_segmentation.json", "Output file for the result envelope")
	cmd.Flags().String("reference-date", "", "Reference date for recency calculations (format: 2006-01-02, default: today)")
	cmd.Flags().Bool("no-store", false, "Skip recording the run in the history store")

	_ = viper.BindPFlag("source", cmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("csv.path", cmd.Flags().Lookup("csv"))
	_ = viper.BindPFlag("output.path", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("segmentation.reference_date", cmd.Flags().Lookup("reference-date"))
	_ = viper.BindPFlag("output.no_store", cmd.Flags().Lookup("no-store"))

	return cmd
}

func runSegmentation(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	source, err := newSource()
	if err != nil {
		return err
	}

	result, err := executeRun(ctx, source)
	if err != nil {
		return err
	}

	fmt.Printf("Segmentation completed: %d customers from %d records (run %s)\n",
		result.Metadata.TotalCustomers, result.Metadata.TotalRecords, result.Metadata.RunID)
	return nil
}

// executeRun is the single path for one pipeline invocation, shared by the
// run command and the watcher: load, segment, write envelope, record run.
func executeRun(ctx context.Context, source service.TransactionSource) (*pipeline.Result, error) {
	set, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	opts, err := pipelineOptions()
	if err != nil {
		return nil, err
	}

	result, err := pipeline.New(opts).Run(set)
	if err != nil {
		return nil, err
	}

	if outputPath := viper.GetString("output.path"); outputPath != "" {
		if err := writeEnvelope(result, outputPath); err != nil {
			return nil, err
		}
	}

	if !viper.GetBool("output.no_store") {
		if err := recordRun(ctx, result); err != nil {
			// The envelope is already on disk; a history failure should not
			// discard a completed run.
			slog.Error("Failed to record run in history store", "error", err)
		}
	}

	return result, nil
}

func recordRun(ctx context.Context, result *pipeline.Result) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	envelope, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode envelope for history: %w", err)
	}

	return store.SaveRun(ctx, &model.Run{
		ID:             result.Metadata.RunID,
		CreatedAt:      result.Metadata.Timestamp,
		Source:         result.Metadata.Source,
		Status:         result.Status,
		TotalRecords:   result.Metadata.TotalRecords,
		TotalCustomers: result.Metadata.TotalCustomers,
		DroppedRecords: result.Metadata.DroppedRecords,
		ProcessingTime: secondsToDuration(result.Metadata.ProcessingTimeSeconds),
		Envelope:       envelope,
	})
}
