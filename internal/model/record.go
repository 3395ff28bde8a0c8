// Package model defines the observation record and its fixed column schema.
package model

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Column names of the append log, in wire order.
const (
	ColTimestampUTC       = "timestamp_utc"
	ColDate               = "date"
	ColPlayer             = "player"
	ColEvent              = "event"
	ColQuote              = "quote"
	ColImpliedProbability = "implied_probability"
)

// DataColumns is the fixed, ordered column set every backend must present.
func DataColumns() []string {
	return []string{
		ColTimestampUTC,
		ColDate,
		ColPlayer,
		ColEvent,
		ColQuote,
		ColImpliedProbability,
	}
}

// TimestampLayout renders second-precision UTC timestamps with an explicit
// +00:00 offset, matching the historical log format.
const (
	TimestampLayout = "2006-01-02T15:04:05+00:00"
	DateLayout      = "2006-01-02"
)

// ErrValidation marks submission-time input problems (empty names,
// non-positive quote). Nothing is appended when it is returned.
var ErrValidation = eris.New("invalid record")

// Record is one immutable logged observation. Temporal fields stay as
// strings so rows with unparsable values survive round-trips through the
// log and still show up in raw listings.
type Record struct {
	TimestampUTC       string  `json:"timestamp_utc"`
	Date               string  `json:"date"`
	Player             string  `json:"player"`
	Event              string  `json:"event"`
	Quote              float64 `json:"quote"`
	ImpliedProbability float64 `json:"implied_probability"`
}

// NewRecord validates the submission and stamps it with the given time,
// normalized to UTC at second precision. The implied probability is fixed
// at creation and is never edited independently of the quote.
func NewRecord(event, player string, quote float64, now time.Time) (Record, error) {
	event = strings.TrimSpace(event)
	player = strings.TrimSpace(player)

	if event == "" {
		return Record{}, eris.Wrap(ErrValidation, "event name is empty")
	}
	if player == "" {
		return Record{}, eris.Wrap(ErrValidation, "player name is empty")
	}
	if quote <= 0 {
		return Record{}, eris.Wrapf(ErrValidation, "quote must be > 0, got %v", quote)
	}

	utc := now.UTC().Truncate(time.Second)
	return Record{
		TimestampUTC:       utc.Format(TimestampLayout),
		Date:               utc.Format(DateLayout),
		Player:             player,
		Event:              event,
		Quote:              quote,
		ImpliedProbability: ImpliedProbability(quote),
	}, nil
}

// ImpliedProbability returns 1/quote rounded to six decimal digits. The
// same function runs at write time and for pre-submission previews, so the
// stored and previewed values always agree bit-for-bit.
func ImpliedProbability(quote float64) float64 {
	if quote <= 0 {
		return 0
	}
	return math.Round(1e6/quote) / 1e6
}

// Timestamp parses the record's timestamp. Records that fail to parse are
// excluded from temporal derivations but remain in raw listings.
func (r Record) Timestamp() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, r.TimestampUTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Day parses the record's calendar date.
func (r Record) Day() (time.Time, bool) {
	t, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Row renders the record in wire order. Quotes carry two fractional
// digits; probabilities keep their six-digit rounding without padding.
func (r Record) Row() []string {
	return []string{
		r.TimestampUTC,
		r.Date,
		r.Player,
		r.Event,
		strconv.FormatFloat(r.Quote, 'f', 2, 64),
		strconv.FormatFloat(r.ImpliedProbability, 'f', -1, 64),
	}
}

// FromRow builds a Record from a normalized row (exactly DataColumns, in
// order). Unparsable numerics become zero rather than failing the read.
func FromRow(row []string) Record {
	var rec Record
	if len(row) != len(DataColumns()) {
		return rec
	}
	rec.TimestampUTC = row[0]
	rec.Date = row[1]
	rec.Player = strings.TrimSpace(row[2])
	rec.Event = strings.TrimSpace(row[3])
	rec.Quote, _ = strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	rec.ImpliedProbability, _ = strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	return rec
}
