package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalCSV_CreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "quotes.csv")

	s, err := NewLocalCSV(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "timestamp_utc,date,player,event,quote,implied_probability\n", string(data))
}

func TestNewLocalCSV_ExistingFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.csv")
	content := "timestamp_utc,date,player,event,quote,implied_probability\n" +
		"2024-01-01T10:00:00+00:00,2024-01-01,Alice,Open,2.00,0.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := NewLocalCSV(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestNewLocalCSV_EmptyPath(t *testing.T) {
	_, err := NewLocalCSV("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLocalCSV_AppendIsTrueAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.csv")
	s, err := NewLocalCSV(path)
	require.NoError(t, err)

	ctx := context.Background()
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(ctx, testRecord(t, "Alice", 2.0, at)))

	raw1, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, s.Append(ctx, testRecord(t, "Bob", 3.0, at.Add(time.Minute))))

	raw2, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw2), string(raw1)),
		"appending must not rewrite the existing file contents")
	assert.Len(t, strings.Split(strings.TrimRight(string(raw2), "\n"), "\n"), 3)
}

func TestLocalCSV_ReadToleratesMissingColumn(t *testing.T) {
	// A file edited out-of-band without the event column still reads; the
	// normalizer fills the gap with empty strings.
	path := filepath.Join(t.TempDir(), "quotes.csv")
	content := "timestamp_utc,date,player,quote,implied_probability\n" +
		"2024-01-01T10:00:00+00:00,2024-01-01,Alice,2.00,0.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := NewLocalCSV(path)
	require.NoError(t, err)

	recs, err := s.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Alice", recs[0].Player)
	assert.Empty(t, recs[0].Event)
	assert.InDelta(t, 2.0, recs[0].Quote, 1e-9)
}

func TestLocalCSV_ReadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.csv")
	s, err := NewLocalCSV(path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	_, err = s.Read(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}
