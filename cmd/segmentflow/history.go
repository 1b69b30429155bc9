package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past segmentation runs",
		RunE:  runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show")
	_ = viper.BindPFlag("history.limit", cmd.Flags().Lookup("limit"))

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(ctx, viper.GetInt("history.limit"))
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tTIME\tSOURCE\tSTATUS\tRECORDS\tCUSTOMERS\tDROPPED\tDURATION")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Source,
			run.Status,
			run.TotalRecords,
			run.TotalCustomers,
			run.DroppedRecords,
			run.ProcessingTime)
	}
	return w.Flush()
}
