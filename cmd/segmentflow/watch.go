package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mayfashion/segmentflow/internal/common"
)

// debounceWindow suppresses repeated triggers while a file is still being
// written out by the POS export.
const debounceWindow = 30 * time.Second

// runScheduler coalesces triggers into a single pending slot consumed by the
// run worker. A trigger arriving while a run is pending or in flight
// collapses into the one already queued instead of being lost. Not
// goroutine-safe; offer is only called from the watch loop.
type runScheduler struct {
	pending  chan string
	debounce time.Duration
	last     time.Time
}

func newRunScheduler(debounce time.Duration) *runScheduler {
	return &runScheduler{pending: make(chan string, 1), debounce: debounce}
}

// offer queues a trigger, reporting whether it was accepted. Only accepted
// triggers advance the debounce clock, so a debounced or coalesced trigger
// never pushes a later one out of the window.
func (s *runScheduler) offer(reason string, now time.Time) bool {
	if now.Sub(s.last) < s.debounce {
		return false
	}
	select {
	case s.pending <- reason:
		s.last = now
		return true
	default:
		return false
	}
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run segmentation when the data file changes",
		Long: `Watch the configured CSV for changes and re-run the pipeline on every
update, plus on a fixed schedule. Triggers are debounced and runs are
serialized: a trigger arriving while a run is in flight is queued and runs
once the current one finishes.`,
		RunE: runWatch,
	}

	cmd.Flags().String("csv", "", "Path to the purchase records CSV to watch")
	cmd.Flags().StringP("output", "o", "customer_segmentation.json", "Output file for the result envelope")
	cmd.Flags().Duration("interval", 6*time.Hour, "Scheduled re-run interval (0 disables the schedule)")

	_ = viper.BindPFlag("csv.path", cmd.Flags().Lookup("csv"))
	_ = viper.BindPFlag("output.path", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("watch.interval", cmd.Flags().Lookup("interval"))

	return cmd
}

// dataFresherThanLastRun reports whether the data file has changed since the
// most recent recorded run. Errors on either side count as fresh so the
// watcher errs toward running.
func dataFresherThanLastRun(ctx context.Context, csvPath string) bool {
	info, err := os.Stat(csvPath)
	if err != nil {
		return true
	}

	store, err := openStore(ctx)
	if err != nil {
		return true
	}
	defer func() { _ = store.Close() }()

	latest, err := store.LatestRun(ctx)
	if err != nil {
		return true
	}
	return info.ModTime().After(latest.CreatedAt)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	csvPath := viper.GetString("csv.path")
	if csvPath == "" {
		return common.NewUserError("no CSV file configured; pass --csv or set csv.path", common.ErrMissingConfig)
	}
	csvPath, err := filepath.Abs(csvPath)
	if err != nil {
		return fmt.Errorf("failed to resolve csv path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors and exports replace files, which drops
	// a watch held on the file itself.
	if err := watcher.Add(filepath.Dir(csvPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(csvPath), err)
	}

	interval := viper.GetDuration("watch.interval")
	var ticker *time.Ticker
	var scheduled <-chan time.Time
	if interval > 0 {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
		scheduled = ticker.C
	}

	slog.Info("Watching for data changes",
		"path", csvPath,
		"interval", interval,
		"debounce", debounceWindow)

	sched := newRunScheduler(debounceWindow)

	// One run at a time: the worker drains the pending slot, so a trigger
	// racing an in-flight run waits its turn instead of being dropped.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case reason := <-sched.pending:
				slog.Info("Segmentation triggered", "reason", reason)
				source, srcErr := newSource()
				if srcErr != nil {
					slog.Error("Failed to build source", "error", srcErr)
					continue
				}
				if _, runErr := executeRun(ctx, source); runErr != nil {
					slog.Error("Triggered segmentation run failed", "error", runErr)
				}
			}
		}
	}()

	trigger := func(reason string) {
		if !sched.offer(reason, time.Now()) {
			slog.Debug("Trigger debounced or coalesced", "reason", reason)
		}
	}

	// Initial run so a fresh watcher never sits on stale output, unless the
	// history store already holds a run newer than the data file.
	if dataFresherThanLastRun(ctx, csvPath) {
		trigger("startup")
	} else {
		slog.Info("Data unchanged since last run, skipping startup run", "path", csvPath)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watcher stopping")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != csvPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				trigger("file_change")
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", "error", watchErr)
		case <-scheduled:
			trigger("schedule")
		}
	}
}
