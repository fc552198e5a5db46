package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrowhq/harrow"
	"github.com/harrowhq/harrow/pkg/core"
)

// watchQuietPeriod is how long the event stream must stay silent before
// a lint pass runs. Bulk operations (git checkout, rebase) emit one
// event per file; without this they would trigger as many full passes.
const watchQuietPeriod = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch the corpus and re-run compliance checks on change",
	Long: `Watch subscribes to filesystem events under the corpus root and re-runs
the full rule set whenever documents change. Events are debounced, and bulk
Git operations (checkout, rebase) trigger a single reconcile instead of a
storm of checks. Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, err := corpusRoot(args)
		if err != nil {
			fatal("Failed to resolve corpus root", err)
		}

		service, err := harrow.New(root,
			harrow.WithMustExist(true),
			harrow.WithReadOnly(true),
			harrow.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open corpus", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := service.Watch(ctx, "**/*.md")
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", root)
		reportOnce(ctx, args)

		coalesceEvents(ctx, events, watchQuietPeriod, func() {
			reportOnce(ctx, args)
		})
		if ctx.Err() != nil {
			fmt.Println("\nStopped.")
		}
	},
}

// coalesceEvents invokes fn once per burst of events: the timer restarts
// on every event and fn fires only after quiet of silence. Returns when
// the context is done or the event channel closes.
func coalesceEvents(ctx context.Context, events <-chan core.Event, quiet time.Duration, fn func()) {
	timer := time.NewTimer(quiet)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			slog.Debug("change detected", "type", event.Type, "id", event.ID)
			timer.Reset(quiet)
		case <-timer.C:
			fn()
		}
	}
}

// reportOnce runs a lint pass and prints the rendered report. Watch
// keeps going on failures; a broken parse is a finding, not a crash.
func reportOnce(ctx context.Context, args []string) {
	report, err := runLint(ctx, args)
	if err != nil {
		slog.Error("lint pass failed", "error", err)
		return
	}
	report.Render(os.Stdout)
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
