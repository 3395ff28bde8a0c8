package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghighi/quotes-cli/internal/config"
	"github.com/ghighi/quotes-cli/internal/model"
)

func testRecord(t *testing.T, player string, quote float64, at time.Time) model.Record {
	t.Helper()
	rec, err := model.NewRecord("Test Open", player, quote, at)
	require.NoError(t, err)
	return rec
}

// storeTestSuite exercises the Store contract against any backend.
func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("EmptyRead", func(t *testing.T) {
		s := newStore(t)

		recs, err := s.Read(context.Background())
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("AppendThenReadInOrder", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

		for i := 0; i < 5; i++ {
			rec := testRecord(t, fmt.Sprintf("Player %d", i), 2.0+float64(i)/10, base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, s.Append(ctx, rec))
		}

		recs, err := s.Read(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 5)
		for i, rec := range recs {
			assert.Equal(t, fmt.Sprintf("Player %d", i), rec.Player)
		}
	})

	t.Run("AppendNeverRewritesPriorRows", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

		for i := 0; i < 3; i++ {
			require.NoError(t, s.Append(ctx, testRecord(t, fmt.Sprintf("P%d", i), 1.5, base)))
		}
		before, err := s.Read(ctx)
		require.NoError(t, err)
		require.Len(t, before, 3)

		require.NoError(t, s.Append(ctx, testRecord(t, "P3", 9.99, base.Add(time.Hour))))

		after, err := s.Read(ctx)
		require.NoError(t, err)
		require.Len(t, after, 4)
		assert.Equal(t, before, after[:3])
	})

	t.Run("RoundTripValues", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		rec := testRecord(t, "Alice", 2.10, time.Date(2024, 3, 2, 14, 5, 33, 0, time.UTC))
		require.NoError(t, s.Append(ctx, rec))

		recs, err := s.Read(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		got := recs[0]
		assert.Equal(t, "Alice", got.Player)
		assert.Equal(t, "Test Open", got.Event)
		assert.Equal(t, "2024-03-02T14:05:33+00:00", got.TimestampUTC)
		assert.Equal(t, "2024-03-02", got.Date)
		assert.InDelta(t, 2.10, got.Quote, 1e-9)
		assert.InDelta(t, 0.476190, got.ImpliedProbability, 1e-9)
	})
}

func TestLocalCSVStore_Suite(t *testing.T) {
	storeTestSuite(t, func(t *testing.T) Store {
		s, err := NewLocalCSV(filepath.Join(t.TempDir(), "data", "quotes.csv"))
		require.NoError(t, err)
		return s
	})
}

func TestSQLiteStore_Suite(t *testing.T) {
	storeTestSuite(t, func(t *testing.T) Store {
		s, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "quotes.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestResolveDriver(t *testing.T) {
	cfg := &config.Config{}
	assert.Equal(t, DriverCSV, ResolveDriver(cfg))

	cfg.Sheets.DocID = "1AbCdEf"
	assert.Equal(t, DriverSheets, ResolveDriver(cfg), "doc id switches auto selection to the remote backend")

	cfg.Store.Driver = "csv"
	assert.Equal(t, DriverCSV, ResolveDriver(cfg), "explicit driver wins over capability detection")

	cfg.Store.Driver = "auto"
	assert.Equal(t, DriverSheets, ResolveDriver(cfg))

	cfg.Store.Driver = "postgres"
	assert.Equal(t, DriverPostgres, ResolveDriver(cfg))
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Driver = "carrier-pigeon"

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestOpen_SheetsWithoutCredentialsFailsFast(t *testing.T) {
	// Remote backend selected but unusable: construction must fail with a
	// configuration error instead of silently falling back to local CSV.
	cfg := &config.Config{}
	cfg.Sheets.DocID = "1AbCdEf"

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestOpen_SheetsBadCredentialsFailsFast(t *testing.T) {
	cfg := &config.Config{}
	cfg.Sheets.DocID = "1AbCdEf"
	cfg.Sheets.CredentialsJSON = "{this is not json"

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestOpen_CSVDefault(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.CSVPath = filepath.Join(t.TempDir(), "quotes.csv")

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*LocalCSVStore)
	assert.True(t, ok)
}
