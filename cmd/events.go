package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ghighi/quotes-cli/internal/view"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the distinct events present in the log",
	RunE: func(cmd *cobra.Command, _ []string) error {
		recs, err := readLog(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "events: read log")
		}
		names := view.Events(recs)
		if len(names) == 0 {
			fmt.Println("no events recorded")
			return nil
		}

		counts := make(map[string]int, len(names))
		for _, r := range recs {
			counts[r.Event]++
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "EVENT\tROWS")
		for _, n := range names {
			fmt.Fprintf(tw, "%s\t%d\n", n, counts[n])
		}
		tw.Flush()
		return nil
	},
}

var playersEvent string

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the distinct players present in the log",
	RunE: func(cmd *cobra.Command, _ []string) error {
		recs, err := readLog(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "players: read log")
		}
		if playersEvent != "" {
			recs = view.FilterEvent(recs, playersEvent)
		}
		names := view.Players(recs)
		if len(names) == 0 {
			fmt.Println("no players recorded")
			return nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

func init() {
	playersCmd.Flags().StringVar(&playersEvent, "event", "", "restrict to one event")
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(playersCmd)
}
