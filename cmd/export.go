package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghighi/quotes-cli/internal/export"
	"github.com/ghighi/quotes-cli/internal/view"
)

var (
	exportEvent string
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an event's snapshot and series to an xlsx workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		recs, err := readLog(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "export: read log")
		}
		recs = view.FilterEvent(recs, exportEvent)

		wb := export.Workbook{
			Event:    exportEvent,
			Snapshot: view.Snapshot(recs, false),
			Series:   view.Pivot(recs, cfg.View.MinSeriesDates),
		}
		if err := export.Write(exportOut, wb); err != nil {
			return eris.Wrapf(err, "export: write %s", exportOut)
		}

		zap.L().Info("workbook written",
			zap.String("event", exportEvent),
			zap.String("path", exportOut),
			zap.Int("players", len(wb.Snapshot)))
		fmt.Printf("wrote %s\n", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportEvent, "event", "", "event name (required)")
	exportCmd.Flags().StringVar(&exportOut, "out", "quotes.xlsx", "output workbook path")
	_ = exportCmd.MarkFlagRequired("event")
	rootCmd.AddCommand(exportCmd)
}
