package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ghighi/quotes-cli/internal/model"
	"github.com/ghighi/quotes-cli/internal/view"
)

func percent(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}

func renderSnapshot(w io.Writer, rows []view.SnapshotRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tPLAYER\tQUOTE\tIMPLIED PROB")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", r.Date, r.Player, r.Quote, percent(r.ImpliedProbability))
	}
	tw.Flush()
}

func renderRecords(w io.Writer, recs []model.Record) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tDATE\tPLAYER\tEVENT\tQUOTE\tIMPLIED PROB")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
			r.TimestampUTC, r.Date, r.Player, r.Event, r.Quote, percent(r.ImpliedProbability))
	}
	tw.Flush()
}

func renderSeries(w io.Writer, s view.Series) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "DATE")
	for _, p := range s.Players {
		fmt.Fprintf(tw, "\t%s", p)
	}
	fmt.Fprintln(tw)

	for _, date := range s.Dates {
		fmt.Fprint(tw, date)
		for _, p := range s.Players {
			if q, ok := s.Quote(date, p); ok {
				fmt.Fprintf(tw, "\t%.2f", q)
			} else {
				fmt.Fprint(tw, "\t-")
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}
