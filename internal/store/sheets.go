package store

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ghighi/quotes-cli/internal/config"
	"github.com/ghighi/quotes-cli/internal/model"
	"github.com/ghighi/quotes-cli/internal/schema"
	"github.com/ghighi/quotes-cli/pkg/gsheets"
)

// SheetsStore keeps the log in a Google Sheets worksheet. Appends use the
// values append call, which adds after the last data row without rewriting
// the sheet.
type SheetsStore struct {
	client    gsheets.Client
	worksheet string
}

// NewSheets builds the remote backend from configuration. Missing or
// unparsable credentials and an empty document id fail here, before any
// call is attempted; there is no fallback to local storage.
func NewSheets(ctx context.Context, cfg config.SheetsConfig, opts ...gsheets.Option) (*SheetsStore, error) {
	creds, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	client, err := gsheets.NewClient(creds, strings.TrimSpace(cfg.DocID), opts...)
	if err != nil {
		return nil, eris.Wrapf(ErrConfig, "sheets: %v", err)
	}

	worksheet := cfg.Worksheet
	if worksheet == "" {
		worksheet = "quotes"
	}
	return &SheetsStore{client: client, worksheet: worksheet}, nil
}

// NewSheetsWithClient wires an existing values client, used by tests.
func NewSheetsWithClient(client gsheets.Client, worksheet string) *SheetsStore {
	return &SheetsStore{client: client, worksheet: worksheet}
}

func loadCredentials(cfg config.SheetsConfig) ([]byte, error) {
	if strings.TrimSpace(cfg.CredentialsJSON) != "" {
		return []byte(cfg.CredentialsJSON), nil
	}
	if cfg.CredentialsFile != "" {
		creds, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, eris.Wrapf(ErrConfig, "sheets: read credentials file: %v", err)
		}
		return creds, nil
	}
	return nil, eris.Wrap(ErrConfig, "sheets: no credentials configured")
}

func (s *SheetsStore) Read(ctx context.Context) ([]model.Record, error) {
	rows, err := s.client.Values(ctx, s.worksheet)
	if err != nil {
		return nil, eris.Wrapf(ErrUnavailable, "sheets: fetch values: %v", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	if missing := schema.Missing(header); len(missing) > 0 {
		return nil, eris.Wrapf(ErrConfig, "sheets: worksheet %q missing columns %v", s.worksheet, missing)
	}

	return schema.Records(schema.Table{Header: header, Rows: rows[1:]}), nil
}

func (s *SheetsStore) Append(ctx context.Context, rec model.Record) error {
	if err := s.client.Append(ctx, s.worksheet, rec.Row()); err != nil {
		return eris.Wrapf(ErrUnavailable, "sheets: append row: %v", err)
	}
	return nil
}

func (s *SheetsStore) Close() error {
	return nil
}
