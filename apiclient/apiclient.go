// Package apiclient delivers one table's full row set to the sync API.
//
// A successful call causes the server to clear the target table and bulk
// insert the supplied rows: every sync is a full replace, never an upsert or
// append. Delivery is retried a bounded number of times with a fixed pause;
// a table that cannot be delivered is reported failed, not fatal.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/imcbsglobal/rrc-sync/retry"
	"github.com/imcbsglobal/rrc-sync/rowconv"
	"github.com/rs/zerolog"
)

const syncPath = "/api/sync"

type Config struct {
	BaseURL string
	// RequestTimeout bounds one attempt. An attempt runs to completion
	// (success, failure, or timeout) before the next one is considered.
	RequestTimeout time.Duration
	Retry          retry.Settings
}

func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		RequestTimeout: 5 * time.Minute,
		Retry:          retry.DefaultSettings(),
	}
}

func (c Config) Verify() error {
	if c.BaseURL == "" {
		return errors.Newf("api base url must be set")
	}
	if c.RequestTimeout <= 0 {
		return errors.Newf("request timeout must be > 0, got %s", c.RequestTimeout)
	}
	return c.Retry.Verify()
}

// Outcome is the final result of syncing one table.
type Outcome struct {
	Table            string
	Success          bool
	RecordsProcessed int
	Attempts         int
	ErrorDetail      string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}, nil
}

type syncRequest struct {
	Table string        `json:"table"`
	Data  []rowconv.Row `json:"data"`
}

type syncResponse struct {
	Success          bool   `json:"success"`
	RecordsProcessed *int   `json:"records_processed"`
	Error            string `json:"error"`
}

// SyncTable pushes the rows for one target table. An empty row set is a
// success with zero records and no network call: empty tables are not an
// error. Otherwise it attempts delivery up to the retry limit and reports
// the last failure reason if every attempt fails.
func (c *Client) SyncTable(
	ctx context.Context, targetName string, rows []rowconv.Row,
) Outcome {
	if len(rows) == 0 {
		c.logger.Info().Str("table", targetName).Msgf("no rows to sync, skipping delivery")
		return Outcome{Table: targetName, Success: true}
	}

	body, err := json.Marshal(syncRequest{Table: targetName, Data: rows})
	if err != nil {
		return Outcome{
			Table:       targetName,
			ErrorDetail: errors.Wrapf(err, "error encoding payload").Error(),
		}
	}

	r, err := retry.NewRetry(c.cfg.Retry)
	if err != nil {
		return Outcome{Table: targetName, ErrorDetail: err.Error()}
	}

	var lastErr error
	for {
		processed, err := c.deliver(ctx, body, len(rows))
		if err == nil {
			return Outcome{
				Table:            targetName,
				Success:          true,
				RecordsProcessed: processed,
				Attempts:         r.Attempt,
			}
		}
		lastErr = err
		c.logger.Warn().
			Str("table", targetName).
			Int("attempt", r.Attempt).
			Err(err).
			Msgf("sync attempt failed")
		if !r.ShouldContinue() {
			break
		}
		r.Next()
		c.logger.Info().
			Str("table", targetName).
			Dur("delay", r.NextDelay()).
			Msgf("retrying after delay")
		if werr := r.Wait(ctx); werr != nil {
			lastErr = werr
			break
		}
	}
	return Outcome{
		Table:       targetName,
		Attempts:    r.Attempt,
		ErrorDetail: lastErr.Error(),
	}
}

// deliver performs a single request/response cycle. A nil error means the
// server accepted the full replace; the returned count is the server's
// records_processed, defaulting to the number of rows sent.
func (c *Client) deliver(ctx context.Context, body []byte, numRows int) (int, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.cfg.BaseURL+syncPath, bytes.NewReader(body),
	)
	if err != nil {
		return 0, errors.Wrapf(err, "error building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, classifyTransportError(err, c.cfg.RequestTimeout)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, errors.Wrapf(err, "error reading response body")
	}

	if resp.StatusCode != http.StatusOK {
		var decoded syncResponse
		if err := json.Unmarshal(respBody, &decoded); err == nil && decoded.Error != "" {
			return 0, errors.Newf("HTTP %d: %s", resp.StatusCode, decoded.Error)
		}
		return 0, errors.Newf("HTTP %d", resp.StatusCode)
	}

	var decoded syncResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return 0, errors.Wrapf(err, "error decoding response body")
	}
	if !decoded.Success {
		if decoded.Error != "" {
			return 0, errors.Newf("%s", decoded.Error)
		}
		return 0, errors.Newf("unknown error")
	}
	if decoded.RecordsProcessed != nil {
		return *decoded.RecordsProcessed, nil
	}
	return numRows, nil
}

func classifyTransportError(err error, timeout time.Duration) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return errors.Newf("request timed out after %s", timeout)
	}
	return errors.Wrapf(err, "connection error")
}
