// Package export writes derived views to an XLSX workbook.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/ghighi/quotes-cli/internal/view"
)

// Workbook bundles the two derived views for one event.
type Workbook struct {
	Event    string
	Snapshot []view.SnapshotRow
	Series   view.Series
}

// Write renders the workbook to path: a "snapshot" sheet with the
// latest-per-player table and a "series" sheet with the date-by-player
// pivot (or the fallback listing when no player met the chart threshold).
func Write(path string, wb Workbook) error {
	f := xlsx.NewFile()

	if err := writeSnapshot(f, wb.Snapshot); err != nil {
		return err
	}
	if err := writeSeries(f, wb.Series); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

func writeSnapshot(f *xlsx.File, rows []view.SnapshotRow) error {
	sheet, err := f.AddSheet("snapshot")
	if err != nil {
		return eris.Wrap(err, "export: add snapshot sheet")
	}

	header := sheet.AddRow()
	for _, col := range []string{"date", "player", "quote", "implied_probability"} {
		header.AddCell().Value = col
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r.Date
		row.AddCell().Value = r.Player
		row.AddCell().SetFloatWithFormat(r.Quote, "0.00")
		row.AddCell().SetFloatWithFormat(r.ImpliedProbability, "0.00%")
	}
	return nil
}

func writeSeries(f *xlsx.File, s view.Series) error {
	sheet, err := f.AddSheet("series")
	if err != nil {
		return eris.Wrap(err, "export: add series sheet")
	}

	if s.Fallback {
		header := sheet.AddRow()
		for _, col := range []string{"date", "player", "quote", "implied_probability"} {
			header.AddCell().Value = col
		}
		for _, r := range s.Listing {
			row := sheet.AddRow()
			row.AddCell().Value = r.Date
			row.AddCell().Value = r.Player
			row.AddCell().SetFloatWithFormat(r.Quote, "0.00")
			row.AddCell().SetFloatWithFormat(r.ImpliedProbability, "0.00%")
		}
		return nil
	}

	header := sheet.AddRow()
	header.AddCell().Value = "date"
	for _, p := range s.Players {
		header.AddCell().Value = p
	}

	for _, date := range s.Dates {
		row := sheet.AddRow()
		row.AddCell().Value = date
		for _, p := range s.Players {
			cell := row.AddCell()
			if q, ok := s.Quote(date, p); ok {
				cell.SetFloatWithFormat(q, "0.00")
			}
		}
	}
	return nil
}
