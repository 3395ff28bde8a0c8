package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ghighi/quotes-cli/internal/view"
)

var listEvent string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the raw quote log in storage order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		recs, err := readLog(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "list: read log")
		}
		if listEvent != "" {
			recs = view.FilterEvent(recs, listEvent)
		}
		if len(recs) == 0 {
			fmt.Println("no quotes recorded")
			return nil
		}
		renderRecords(os.Stdout, recs)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listEvent, "event", "", "restrict to one event")
	rootCmd.AddCommand(listCmd)
}
