package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ghighi/quotes-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Rows carry a
// backend-private uuid key; the logical schema stays the fixed six columns.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS observations (
	id                  TEXT PRIMARY KEY,
	timestamp_utc       TEXT NOT NULL,
	date                TEXT NOT NULL,
	player              TEXT NOT NULL,
	event               TEXT NOT NULL,
	quote               REAL NOT NULL,
	implied_probability REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_observations_event ON observations(event);
`

// NewSQLite opens (or creates) a SQLite database at the given path,
// configures WAL mode, and ensures the observations table exists.
func NewSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, eris.Wrap(ErrConfig, "sqlite: database path is empty")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrapf(ErrConfig, "sqlite: open: %v", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(ErrUnavailable, "sqlite: exec %s: %v", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteMigration); err != nil {
		db.Close()
		return nil, eris.Wrapf(ErrUnavailable, "sqlite: migrate: %v", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Read(ctx context.Context) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp_utc, date, player, event, quote, implied_probability
		 FROM observations ORDER BY rowid`,
	)
	if err != nil {
		return nil, eris.Wrapf(ErrUnavailable, "sqlite: select observations: %v", err)
	}
	defer rows.Close()

	var recs []model.Record
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(&r.TimestampUTC, &r.Date, &r.Player, &r.Event, &r.Quote, &r.ImpliedProbability); err != nil {
			return nil, eris.Wrapf(ErrUnavailable, "sqlite: scan observation: %v", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(ErrUnavailable, "sqlite: iterate observations: %v", err)
	}
	return recs, nil
}

func (s *SQLiteStore) Append(ctx context.Context, rec model.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO observations (id, timestamp_utc, date, player, event, quote, implied_probability)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), rec.TimestampUTC, rec.Date, rec.Player, rec.Event, rec.Quote, rec.ImpliedProbability,
	)
	if err != nil {
		return eris.Wrapf(ErrUnavailable, "sqlite: insert observation: %v", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
