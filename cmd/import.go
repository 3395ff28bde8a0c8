package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ghighi/quotes-cli/internal/model"
	"github.com/ghighi/quotes-cli/internal/schema"
)

var (
	importPath        string
	importConcurrency int
	importDryRun      bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Append rows from a CSV file into the configured store",
	Long: `Reads a headered CSV file, normalizes it to the log's column set and
appends every valid row to the configured backend. Rows with an empty
event or player, or a non-positive quote, are skipped and counted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := os.Open(importPath)
		if err != nil {
			return eris.Wrapf(err, "import: open %s", importPath)
		}
		defer f.Close() //nolint:errcheck

		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			return eris.Wrapf(err, "import: parse %s", importPath)
		}
		if len(rows) == 0 {
			return eris.New("import: file has no header row")
		}

		t := schema.Table{Header: rows[0], Rows: rows[1:]}
		if missing := schema.Missing(t.Header); len(missing) > 0 {
			return eris.Errorf("import: missing columns: %s", strings.Join(missing, ", "))
		}

		valid := make([]model.Record, 0, len(t.Rows))
		skipped := 0
		for _, rec := range schema.Records(t) {
			if rec.Event == "" || rec.Player == "" || rec.Quote <= 0 {
				skipped++
				continue
			}
			valid = append(valid, rec)
		}

		if importDryRun {
			fmt.Printf("dry run: %d rows would be appended, %d skipped\n", len(valid), skipped)
			return nil
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "import: open store")
		}
		defer st.Close() //nolint:errcheck

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(importConcurrency)
		for _, rec := range valid {
			g.Go(func() error {
				return st.Append(ctx, rec)
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "import: append")
		}

		zap.L().Info("import finished",
			zap.String("file", importPath),
			zap.Int("appended", len(valid)),
			zap.Int("skipped", skipped))
		fmt.Printf("appended %d rows, skipped %d\n", len(valid), skipped)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importPath, "csv", "", "CSV file to import (required)")
	importCmd.Flags().IntVar(&importConcurrency, "concurrency", 1, "parallel appends")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "validate and count without appending")
	_ = importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}
