package app

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/watchmux/internal/journal"
	"github.com/blackwell-systems/watchmux/internal/lifecycle"
	"github.com/blackwell-systems/watchmux/internal/service"
	"github.com/blackwell-systems/watchmux/internal/watcher"
)

var (
	debounce      time.Duration
	noSynthChange bool
	journalPath   string
	parentWatch   bool
	efficiency    bool

	// RootCmd is the root command for watchmux
	RootCmd = &cobra.Command{
		Use:   "watchmux",
		Short: "Multiplex file-watch subscriptions for language clients",
		Long: `watchmux is a long-running helper that multiplexes any number of logical
file-watch subscriptions onto a minimal set of OS-level recursive watches.

It reads newline-delimited JSON control messages on stdin:

  {"register": {"uid": 1, "cwd": "/path", "events": ["create", "change"],
                "patterns": ["src/**"], "ignores": ["**/target/**"]}}
  {"unregister": 1}

and writes matched events to stdout, one per line, batch-terminated by a
<flush> sentinel:

  1:create:src/main.rs
  1:change:src/lib.rs
  <flush>

Subscriptions sharing a root (or nested under another subscription's root)
share one OS watch; bursts of raw events are debounced into batches.
Diagnostics go to stderr and never interleave with the event stream.

Examples:
  # Serve subscriptions with the default 400ms debounce window
  watchmux

  # Keep a record of every delivered event for later inspection
  watchmux --journal ~/.watchmux/journal.db

  # Inspect that record
  watchmux journal --journal ~/.watchmux/journal.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
)

func init() {
	RootCmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "window that coalesces raw event bursts into one batch")
	RootCmd.Flags().BoolVar(&noSynthChange, "no-synth-change", false, "suppress the synthetic change event after a rename-destination create")
	RootCmd.Flags().BoolVar(&parentWatch, "parent-watch", true, "exit when the parent process terminates")
	RootCmd.Flags().BoolVar(&efficiency, "efficiency", false, "run in the batch scheduling class (Linux only)")

	// Shared with the journal subcommand so both ends point at one database.
	RootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "record delivered events to a SQLite database at this path")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(journalCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

func runServe(cmd *cobra.Command, args []string) error {
	if efficiency {
		lifecycle.LowerSchedulingPriority()
	}

	var jrnl *journal.Journal
	if journalPath != "" {
		var err error
		jrnl, err = journal.Open(journalPath)
		if err != nil {
			return err
		}
		defer jrnl.Close()
	}

	svc := service.New(os.Stdout, service.Options{
		SynthChange: !noSynthChange,
		Journal:     jrnl,
	})

	backend, err := watcher.NewBackend(debounce, svc.HandleBatch)
	if err != nil {
		return fmt.Errorf("start watch backend: %w", err)
	}
	defer backend.Close()
	svc.Attach(backend)

	if parentWatch {
		lifecycle.WatchParent(func() { os.Exit(0) })
	}

	// EOF on stdin is the normal shutdown signal from the parent.
	return svc.Run(os.Stdin)
}
