// Package gsheets is a minimal Google Sheets values API client used by the
// remote observation store.
package gsheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://sheets.googleapis.com/v4"
	scopeSheets    = "https://www.googleapis.com/auth/spreadsheets"
)

// Client performs worksheet value operations against one spreadsheet
// document.
type Client interface {
	// Values returns all rows of the worksheet, header included.
	Values(ctx context.Context, worksheet string) ([][]string, error)

	// Append adds one row after the last data row of the worksheet.
	Append(ctx context.Context, worksheet string, row []string) error
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the authenticated http.Client. Requests made
// through it skip the service-account token exchange.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the per-client request rate. The Sheets API
// enforces a per-minute read/write quota, so calls block rather than burn it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry overrides the retry policy for quota pushback and transient
// server failures.
func WithRetry(cfg RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// serviceAccount is the subset of a service-account key file the client
// needs. Anything else in the payload is ignored.
type serviceAccount struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

type httpClient struct {
	docID   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   RetryConfig
}

// NewClient validates the service-account credential payload and returns a
// client bound to the given spreadsheet document. Credential problems are
// reported here, at construction, never deferred to the first call.
func NewClient(credentialsJSON []byte, docID string, opts ...Option) (Client, error) {
	if strings.TrimSpace(docID) == "" {
		return nil, eris.New("gsheets: document id is empty")
	}

	var sa serviceAccount
	if err := json.Unmarshal(credentialsJSON, &sa); err != nil {
		return nil, eris.Wrap(err, "gsheets: parse credentials")
	}
	if sa.Type != "service_account" {
		return nil, eris.Errorf("gsheets: unexpected credential type %q", sa.Type)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, eris.New("gsheets: credentials missing client_email or private_key")
	}

	tokenURL := sa.TokenURI
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}
	auth := &jwt.Config{
		Email:      sa.ClientEmail,
		PrivateKey: []byte(sa.PrivateKey),
		TokenURL:   tokenURL,
		Scopes:     []string{scopeSheets},
	}

	c := &httpClient{
		docID:   docID,
		baseURL: defaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(1), 2),
		retry:   DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = auth.Client(context.Background())
		c.http.Timeout = 30 * time.Second
	}
	return c, nil
}

type valuesResponse struct {
	Values [][]any `json:"values"`
}

type appendRequest struct {
	Values [][]string `json:"values"`
}

func (c *httpClient) Values(ctx context.Context, worksheet string) ([][]string, error) {
	u := fmt.Sprintf("%s/spreadsheets/%s/values/%s", c.baseURL, c.docID, url.PathEscape(worksheet))

	var body []byte
	err := withRetry(ctx, c.retry, "values", func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		body, err = c.do(req)
		return err
	})
	if err != nil {
		return nil, eris.Wrap(err, "gsheets: read values")
	}

	var result valuesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "gsheets: unmarshal values")
	}

	rows := make([][]string, 0, len(result.Values))
	for _, raw := range result.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			if cell == nil {
				continue
			}
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *httpClient) Append(ctx context.Context, worksheet string, row []string) error {
	payload, err := json.Marshal(appendRequest{Values: [][]string{row}})
	if err != nil {
		return eris.Wrap(err, "gsheets: marshal append")
	}

	u := fmt.Sprintf("%s/spreadsheets/%s/values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS",
		c.baseURL, c.docID, url.PathEscape(worksheet))

	err = withRetry(ctx, c.retry, "append", func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		_, err = c.do(req)
		return err
	})
	if err != nil {
		return eris.Wrap(err, "gsheets: append row")
	}
	return nil
}

func (c *httpClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}
	return body, nil
}
