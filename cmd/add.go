package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghighi/quotes-cli/internal/model"
)

var (
	addEvent  string
	addPlayer string
	addQuote  float64
	addDryRun bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record one quote observation",
	Long: `Validates the submission, previews the implied probability, and appends
one record stamped with the current UTC time. Nothing is written when
validation fails.

Examples:
  quotes-cli add --event "Roland Garros" --player Alice --quote 2.10
  quotes-cli add --event Finals --player Bob --quote 1.85 --dry-run`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rec, err := model.NewRecord(addEvent, addPlayer, addQuote, time.Now())
		if err != nil {
			return err
		}

		fmt.Printf("%s @ %s: quote %.2f, implied probability %s\n",
			rec.Player, rec.Event, rec.Quote, percent(rec.ImpliedProbability))

		if addDryRun {
			fmt.Println("dry run: nothing written")
			return nil
		}

		ctx := cmd.Context()
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close() //nolint:errcheck

		if err := s.Append(ctx, rec); err != nil {
			return eris.Wrap(err, "add: append record")
		}

		zap.L().Info("quote recorded",
			zap.String("event", rec.Event),
			zap.String("player", rec.Player),
			zap.Float64("quote", rec.Quote),
		)
		fmt.Println("saved.")
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addEvent, "event", "", "event name (required)")
	addCmd.Flags().StringVar(&addPlayer, "player", "", "player name (required)")
	addCmd.Flags().Float64Var(&addQuote, "quote", 0, "decimal odds quote, must be > 0 (required)")
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "validate and preview without writing")
	_ = addCmd.MarkFlagRequired("event")
	_ = addCmd.MarkFlagRequired("player")
	_ = addCmd.MarkFlagRequired("quote")
	rootCmd.AddCommand(addCmd)
}
