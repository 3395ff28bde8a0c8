package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/ghighi/quotes-cli/internal/config"
	"github.com/ghighi/quotes-cli/internal/model"
)

// pgPool is the slice of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type pgPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pgPool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS observations (
	seq                 BIGSERIAL PRIMARY KEY,
	id                  TEXT NOT NULL,
	timestamp_utc       TEXT NOT NULL,
	date                TEXT NOT NULL,
	player              TEXT NOT NULL,
	event               TEXT NOT NULL,
	quote               DOUBLE PRECISION NOT NULL,
	implied_probability DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_observations_event ON observations(event);
`

// NewPostgres creates a PostgresStore with a connection pool and ensures
// the observations table exists.
func NewPostgres(ctx context.Context, connString string, poolCfg config.PoolConfig) (*PostgresStore, error) {
	if connString == "" {
		return nil, eris.Wrap(ErrConfig, "postgres: database url is empty")
	}

	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrapf(ErrConfig, "postgres: parse config: %v", err)
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg.MaxConns > 0 {
		maxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		minConns = poolCfg.MinConns
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrapf(ErrUnavailable, "postgres: create pool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrapf(ErrUnavailable, "postgres: ping: %v", err)
	}
	if _, err := pool.Exec(ctx, postgresMigration); err != nil {
		pool.Close()
		return nil, eris.Wrapf(ErrUnavailable, "postgres: migrate: %v", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Read(ctx context.Context) ([]model.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT timestamp_utc, date, player, event, quote, implied_probability
		 FROM observations ORDER BY seq`,
	)
	if err != nil {
		return nil, eris.Wrapf(ErrUnavailable, "postgres: select observations: %v", err)
	}
	defer rows.Close()

	var recs []model.Record
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(&r.TimestampUTC, &r.Date, &r.Player, &r.Event, &r.Quote, &r.ImpliedProbability); err != nil {
			return nil, eris.Wrapf(ErrUnavailable, "postgres: scan observation: %v", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(ErrUnavailable, "postgres: iterate observations: %v", err)
	}
	return recs, nil
}

func (s *PostgresStore) Append(ctx context.Context, rec model.Record) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO observations (id, timestamp_utc, date, player, event, quote, implied_probability)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(), rec.TimestampUTC, rec.Date, rec.Player, rec.Event, rec.Quote, rec.ImpliedProbability,
	)
	if err != nil {
		return eris.Wrapf(ErrUnavailable, "postgres: insert observation: %v", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
