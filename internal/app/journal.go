package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/watchmux/internal/journal"
	"github.com/blackwell-systems/watchmux/internal/output"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show delivered-event totals per subscription",
	Long: `Summarize the journal database written by a watcher running with
--journal: how many creates, changes and deletes each subscription id
received, across how many batches, and when the last batch was delivered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if journalPath == "" {
			return fmt.Errorf("no journal database given: pass --journal with the path the watcher writes to")
		}

		jrnl, err := journal.Open(journalPath)
		if err != nil {
			return err
		}
		defer jrnl.Close()

		summaries, err := jrnl.Summarize()
		if err != nil {
			return err
		}

		fmt.Print(output.RenderJournalTable(summaries))
		if len(summaries) > 0 {
			fmt.Println()
			fmt.Println(output.RenderJournalFooter(summaries))
		}
		return nil
	},
}
