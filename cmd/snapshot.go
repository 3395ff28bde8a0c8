package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ghighi/quotes-cli/internal/view"
)

var (
	snapshotEvent       string
	snapshotByTimestamp bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show the latest quote per player for an event",
	RunE: func(cmd *cobra.Command, _ []string) error {
		recs, err := readLog(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "snapshot: read log")
		}

		rows := view.Snapshot(view.FilterEvent(recs, snapshotEvent), snapshotByTimestamp)
		if len(rows) == 0 {
			fmt.Printf("no quotes recorded for event %q\n", snapshotEvent)
			return nil
		}

		renderSnapshot(os.Stdout, rows)
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotEvent, "event", "", "event name (required)")
	snapshotCmd.Flags().BoolVar(&snapshotByTimestamp, "by-timestamp", false, "sort by timestamp instead of date")
	_ = snapshotCmd.MarkFlagRequired("event")
	rootCmd.AddCommand(snapshotCmd)
}
