// Package store persists the append-only observation log behind a single
// interface with interchangeable backends.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ghighi/quotes-cli/internal/config"
	"github.com/ghighi/quotes-cli/internal/model"
)

// Supported driver names for config.Store.Driver.
const (
	DriverAuto     = "auto"
	DriverCSV      = "csv"
	DriverSheets   = "sheets"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Error kinds callers can test with errors.Is. Configuration problems are
// fatal at construction and never fall back to another backend: a silent
// fallback would split the log across stores.
var (
	// ErrConfig marks unusable backend configuration: unparsable
	// credentials, malformed document id or DSN, or a worksheet whose
	// schema lacks expected columns.
	ErrConfig = eris.New("store misconfigured")

	// ErrUnavailable marks a backend that could not be reached during a
	// read or append. It is never coerced into an empty result.
	ErrUnavailable = eris.New("storage backend unavailable")
)

// Store is the append-only persistence contract. Read returns every record
// in the backend's stored order and succeeds on an empty log; Append adds
// exactly one record without touching prior rows.
type Store interface {
	Read(ctx context.Context) ([]model.Record, error)
	Append(ctx context.Context, rec model.Record) error
	Close() error
}

// Open constructs the backend selected by configuration. The choice is
// resolved once per process: an explicit driver wins, otherwise a
// configured spreadsheet document id selects the remote backend and its
// absence selects the local CSV file.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch driver := ResolveDriver(cfg); driver {
	case DriverCSV:
		return NewLocalCSV(cfg.Store.CSVPath)
	case DriverSheets:
		return NewSheets(ctx, cfg.Sheets)
	case DriverSQLite:
		return NewSQLite(ctx, cfg.Store.DatabaseURL)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
	default:
		return nil, eris.Wrapf(ErrConfig, "unknown store driver %q", driver)
	}
}

// ResolveDriver applies the selection rule without constructing anything.
func ResolveDriver(cfg *config.Config) string {
	driver := strings.TrimSpace(cfg.Store.Driver)
	if driver != "" && driver != DriverAuto {
		return driver
	}
	if strings.TrimSpace(cfg.Sheets.DocID) != "" {
		return DriverSheets
	}
	return DriverCSV
}
