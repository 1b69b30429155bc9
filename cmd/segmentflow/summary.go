package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mayfashion/segmentflow/internal/loader"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print summary statistics for the transaction table",
		Long: `Load the transaction table from the configured source and print its
descriptive statistics without running segmentation: record and customer
counts, date range, amount distribution and category breakdown.`,
		RunE: runSummary,
	}

	cmd.Flags().String("source", "csv", "Data source (csv, mongodb)")
	cmd.Flags().String("csv", "", "Path to the purchase records CSV")

	_ = viper.BindPFlag("source", cmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("csv.path", cmd.Flags().Lookup("csv"))

	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	source, err := newSource()
	if err != nil {
		return err
	}

	set, err := source.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	data, err := json.MarshalIndent(loader.Summarize(set), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
