package store

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/ghighi/quotes-cli/internal/model"
	"github.com/ghighi/quotes-cli/internal/schema"
)

// LocalCSVStore keeps the log in a local CSV file, one header row plus one
// data row per observation. Append opens the file in append mode and
// writes a single row, so prior rows are never rewritten and append cost
// stays constant as the log grows.
type LocalCSVStore struct {
	path string
}

// NewLocalCSV ensures the file exists with the fixed header row (creating
// parent directories as needed) and returns the store.
func NewLocalCSV(path string) (*LocalCSVStore, error) {
	if path == "" {
		return nil, eris.Wrap(ErrConfig, "csv: path is empty")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, eris.Wrapf(ErrUnavailable, "csv: create data dir: %v", err)
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return nil, eris.Wrapf(ErrUnavailable, "csv: create %s: %v", path, err)
		}
		w := csv.NewWriter(f)
		_ = w.Write(model.DataColumns())
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, eris.Wrapf(ErrUnavailable, "csv: write header: %v", err)
		}
		if err := f.Close(); err != nil {
			return nil, eris.Wrapf(ErrUnavailable, "csv: close %s: %v", path, err)
		}
	} else if err != nil {
		return nil, eris.Wrapf(ErrUnavailable, "csv: stat %s: %v", path, err)
	}

	return &LocalCSVStore{path: path}, nil
}

// Path returns the backing file location.
func (s *LocalCSVStore) Path() string {
	return s.path
}

func (s *LocalCSVStore) Read(ctx context.Context) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "csv: read")
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, eris.Wrapf(ErrUnavailable, "csv: open %s: %v", s.path, err)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; the normalizer reshapes

	var table schema.Table
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(ErrUnavailable, "csv: read row: %v", err)
		}
		if table.Header == nil {
			table.Header = row
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return schema.Records(table), nil
}

func (s *LocalCSVStore) Append(ctx context.Context, rec model.Record) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "csv: append")
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return eris.Wrapf(ErrUnavailable, "csv: open %s for append: %v", s.path, err)
	}

	w := csv.NewWriter(f)
	_ = w.Write(rec.Row())
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return eris.Wrapf(ErrUnavailable, "csv: append row: %v", err)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(ErrUnavailable, "csv: close %s: %v", s.path, err)
	}
	return nil
}

func (s *LocalCSVStore) Close() error {
	return nil
}
