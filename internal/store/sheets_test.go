package store

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghighi/quotes-cli/internal/config"
)

// fakeSheets is an in-memory gsheets.Client.
type fakeSheets struct {
	rows      [][]string
	valuesErr error
	appendErr error
	appended  [][]string
}

func (f *fakeSheets) Values(_ context.Context, _ string) ([][]string, error) {
	if f.valuesErr != nil {
		return nil, f.valuesErr
	}
	return f.rows, nil
}

func (f *fakeSheets) Append(_ context.Context, _ string, row []string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, row)
	return nil
}

func TestSheetsStore_Read(t *testing.T) {
	fake := &fakeSheets{rows: [][]string{
		{"timestamp_utc", "date", "player", "event", "quote", "implied_probability"},
		{"2024-01-01T10:00:00+00:00", "2024-01-01", "Alice", "Open", "2.00", "0.5"},
		{"2024-01-02T10:00:00+00:00", "2024-01-02", "Bob", "Open", "4.00", "0.25"},
	}}
	s := NewSheetsWithClient(fake, "quotes")

	recs, err := s.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Alice", recs[0].Player)
	assert.InDelta(t, 0.25, recs[1].ImpliedProbability, 1e-9)
}

func TestSheetsStore_ReadEmptyWorksheet(t *testing.T) {
	s := NewSheetsWithClient(&fakeSheets{}, "quotes")

	recs, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSheetsStore_ReadMissingColumn(t *testing.T) {
	// Unlike the tolerant local path, a remote worksheet without an
	// expected column is a misconfiguration.
	fake := &fakeSheets{rows: [][]string{
		{"timestamp_utc", "date", "player", "quote", "implied_probability"},
		{"2024-01-01T10:00:00+00:00", "2024-01-01", "Alice", "2.00", "0.5"},
	}}
	s := NewSheetsWithClient(fake, "quotes")

	_, err := s.Read(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "event")
}

func TestSheetsStore_ReadUnavailable(t *testing.T) {
	fake := &fakeSheets{valuesErr: eris.New("network down")}
	s := NewSheetsWithClient(fake, "quotes")

	_, err := s.Read(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSheetsStore_AppendFixedColumnOrder(t *testing.T) {
	fake := &fakeSheets{}
	s := NewSheetsWithClient(fake, "quotes")

	rec := testRecord(t, "Alice", 2.0, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, s.Append(context.Background(), rec))

	require.Len(t, fake.appended, 1)
	assert.Equal(t, []string{
		"2024-01-01T10:00:00+00:00", "2024-01-01", "Alice", "Test Open", "2.00", "0.5",
	}, fake.appended[0])
}

func TestSheetsStore_AppendUnavailable(t *testing.T) {
	fake := &fakeSheets{appendErr: eris.New("quota exceeded")}
	s := NewSheetsWithClient(fake, "quotes")

	err := s.Append(context.Background(), testRecord(t, "Alice", 2.0, time.Now()))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewSheets_CredentialErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewSheets(ctx, config.SheetsConfig{DocID: "doc"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewSheets(ctx, config.SheetsConfig{DocID: "doc", CredentialsFile: "/nonexistent/creds.json"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewSheets(ctx, config.SheetsConfig{DocID: "doc", CredentialsJSON: `{"type":"wrong"}`})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}
