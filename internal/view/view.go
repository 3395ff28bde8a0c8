// Package view derives presentation tables from the raw observation log.
// Everything here is a pure function over a snapshot of the records plus a
// selected event; no derived state is persisted.
package view

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ghighi/quotes-cli/internal/model"
)

// DefaultMinSeriesDates is the charting threshold: a player needs this many
// distinct observation dates before their series is worth a line.
const DefaultMinSeriesDates = 2

// SnapshotRow is the latest observation for one player within an event.
type SnapshotRow struct {
	Date               string    `json:"date"`
	Player             string    `json:"player"`
	Quote              float64   `json:"quote"`
	ImpliedProbability float64   `json:"implied_probability"`
	Timestamp          time.Time `json:"-"`
}

// Series is the date-indexed, player-columned pivot that drives a chart.
// When no player meets the minimum-dates threshold the view degrades to a
// plain listing instead of an empty chart: Fallback is set and Listing
// carries the raw event rows sorted by date.
type Series struct {
	Dates    []string                      `json:"dates"`
	Players  []string                      `json:"players"`
	Cells    map[string]map[string]float64 `json:"cells"`
	Fallback bool                          `json:"fallback"`
	Listing  []model.Record                `json:"listing,omitempty"`
}

// Quote returns the cell for a (date, player) pair.
func (s Series) Quote(date, player string) (float64, bool) {
	byPlayer, ok := s.Cells[date]
	if !ok {
		return 0, false
	}
	q, ok := byPlayer[player]
	return q, ok
}

// FilterEvent selects records whose event exactly matches the chosen name
// after trimming. An empty selection matches nothing.
func FilterEvent(recs []model.Record, event string) []model.Record {
	event = strings.TrimSpace(event)
	if event == "" {
		return nil
	}

	var out []model.Record
	for _, r := range recs {
		if r.Event == event {
			out = append(out, r)
		}
	}
	return out
}

// Snapshot derives the latest-per-player table. Records without a player
// or with an unparsable timestamp are excluded from this derivation only.
// Timestamp ties go to the last record in stored order. Rows sort by date
// descending, or by timestamp descending when byTimestamp is set; both are
// views over the same derivation.
func Snapshot(recs []model.Record, byTimestamp bool) []SnapshotRow {
	type latest struct {
		rec model.Record
		ts  time.Time
	}

	best := make(map[string]latest)
	for _, r := range recs {
		if r.Player == "" {
			continue
		}
		ts, ok := r.Timestamp()
		if !ok {
			continue
		}
		prev, seen := best[r.Player]
		if !seen || !ts.Before(prev.ts) {
			best[r.Player] = latest{rec: r, ts: ts}
		}
	}

	rows := make([]SnapshotRow, 0, len(best))
	for _, l := range best {
		rows = append(rows, SnapshotRow{
			Date:               l.rec.Date,
			Player:             l.rec.Player,
			Quote:              l.rec.Quote,
			ImpliedProbability: l.rec.ImpliedProbability,
			Timestamp:          l.ts,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if byTimestamp || rows[i].Date == rows[j].Date {
			return rows[i].Timestamp.After(rows[j].Timestamp)
		}
		return rows[i].Date > rows[j].Date
	})
	return rows
}

// Pivot derives the chart series: distinct dates ascending by distinct
// players, each cell the player's last quote recorded on that date in
// stored order. Players observed on fewer than minDates distinct dates are
// dropped; if nobody qualifies and records exist, the fallback listing is
// returned instead.
func Pivot(recs []model.Record, minDates int) Series {
	if minDates < 1 {
		minDates = 1
	}

	cells := make(map[string]map[string]float64)
	playerDates := make(map[string]map[string]struct{})
	for _, r := range recs {
		if r.Player == "" {
			continue
		}
		if _, ok := r.Day(); !ok {
			continue
		}
		if cells[r.Date] == nil {
			cells[r.Date] = make(map[string]float64)
		}
		cells[r.Date][r.Player] = r.Quote // last same-day value wins
		if playerDates[r.Player] == nil {
			playerDates[r.Player] = make(map[string]struct{})
		}
		playerDates[r.Player][r.Date] = struct{}{}
	}

	var players []string
	for p, dates := range playerDates {
		if len(dates) >= minDates {
			players = append(players, p)
		}
	}

	if len(players) == 0 {
		if len(recs) == 0 {
			return Series{}
		}
		listing := make([]model.Record, len(recs))
		copy(listing, recs)
		sort.SliceStable(listing, func(i, j int) bool {
			return listing[i].Date < listing[j].Date
		})
		return Series{Fallback: true, Listing: listing}
	}

	sortNames(players)

	qualified := make(map[string]struct{}, len(players))
	for _, p := range players {
		qualified[p] = struct{}{}
	}

	out := make(map[string]map[string]float64)
	var dates []string
	for date, byPlayer := range cells {
		for p, q := range byPlayer {
			if _, ok := qualified[p]; !ok {
				continue
			}
			if out[date] == nil {
				out[date] = make(map[string]float64)
				dates = append(dates, date)
			}
			out[date][p] = q
		}
	}
	sort.Strings(dates)

	return Series{Dates: dates, Players: players, Cells: out}
}

// Events lists the distinct event names present in the log.
func Events(recs []model.Record) []string {
	return distinct(recs, func(r model.Record) string { return r.Event })
}

// Players lists the distinct player names present in the log.
func Players(recs []model.Record) []string {
	return distinct(recs, func(r model.Record) string { return r.Player })
}

func distinct(recs []model.Record, key func(model.Record) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range recs {
		k := strings.TrimSpace(key(r))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sortNames(out)
	return out
}

// sortNames orders free-form names the way a user expects them listed,
// accent- and case-insensitively.
func sortNames(names []string) {
	collate.New(language.Italian, collate.Loose).SortStrings(names)
}
