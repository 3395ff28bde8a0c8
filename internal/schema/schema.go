// Package schema coerces raw backend tables to the fixed column layout.
package schema

import (
	"strings"

	"github.com/ghighi/quotes-cli/internal/model"
)

// Table is an untyped tabular payload as a backend returned it: a header
// row plus data rows of arbitrary width.
type Table struct {
	Header []string
	Rows   [][]string
}

// Normalize reshapes every row to exactly model.DataColumns, in order.
// Extra columns are dropped, absent columns become empty strings, and
// ragged rows are padded. It never fails; downstream derivations handle
// empty sentinels per record.
func Normalize(t Table) [][]string {
	cols := model.DataColumns()
	idx := headerIndex(t.Header)

	out := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		shaped := make([]string, len(cols))
		for i, col := range cols {
			j, ok := idx[col]
			if !ok || j >= len(row) {
				continue
			}
			shaped[i] = row[j]
		}
		out = append(out, shaped)
	}
	return out
}

// Missing reports the expected columns entirely absent from the header.
// The remote worksheet read path treats a non-empty result as a schema
// mismatch; the local path tolerates it and lets Normalize fill blanks.
func Missing(header []string) []string {
	idx := headerIndex(header)

	var missing []string
	for _, col := range model.DataColumns() {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// Records normalizes a table and decodes each shaped row.
func Records(t Table) []model.Record {
	rows := Normalize(t)
	recs := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, model.FromRow(row))
	}
	return recs
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}
