package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ghighi/quotes-cli/internal/view"
)

var (
	seriesEvent    string
	seriesMinDates int
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Show the date-by-player quote series for an event",
	Long: `Pivots the event's quotes into one row per date and one column per
player, keeping the last quote recorded on each date. Players observed on
fewer than --min-dates distinct dates are left out; when nobody qualifies
the raw rows are listed instead.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		recs, err := readLog(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "series: read log")
		}

		minDates := seriesMinDates
		if minDates == 0 {
			minDates = cfg.View.MinSeriesDates
		}

		s := view.Pivot(view.FilterEvent(recs, seriesEvent), minDates)
		switch {
		case s.Fallback:
			fmt.Printf("no player has %d distinct dates yet; raw rows:\n", minDates)
			renderRecords(os.Stdout, s.Listing)
		case len(s.Dates) == 0:
			fmt.Printf("no quotes recorded for event %q\n", seriesEvent)
		default:
			renderSeries(os.Stdout, s)
		}
		return nil
	},
}

func init() {
	seriesCmd.Flags().StringVar(&seriesEvent, "event", "", "event name (required)")
	seriesCmd.Flags().IntVar(&seriesMinDates, "min-dates", 0, "minimum distinct dates per player (default from config)")
	_ = seriesCmd.MarkFlagRequired("event")
	rootCmd.AddCommand(seriesCmd)
}
