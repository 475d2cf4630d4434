package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/lepinkainen/furnish/internal/errors"
	"github.com/lepinkainen/furnish/internal/furniture"
	"github.com/lepinkainen/furnish/internal/ratelimit"
)

// DefaultBatchSize is the number of rows sent per insert request.
const DefaultBatchSize = 100

// DatasetteClient publishes inventory rows to a remote Datasette instance
// through the datasette-insert plugin API.
type DatasetteClient struct {
	baseURL   string
	apiToken  string
	client    *http.Client
	limiter   *ratelimit.Limiter
	batchSize int
}

// DatasetteOption configures a DatasetteClient.
type DatasetteOption func(*DatasetteClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) DatasetteOption {
	return func(c *DatasetteClient) {
		c.client = client
	}
}

// WithBatchSize sets the number of rows per request. Non-positive values keep the default.
func WithBatchSize(size int) DatasetteOption {
	return func(c *DatasetteClient) {
		if size > 0 {
			c.batchSize = size
		}
	}
}

// WithRequestsPerSecond paces insert requests. Zero disables pacing.
func WithRequestsPerSecond(rps float64) DatasetteOption {
	return func(c *DatasetteClient) {
		c.limiter = ratelimit.New("datasette", rps)
	}
}

// NewDatasetteClient creates a new DatasetteClient instance
func NewDatasetteClient(baseURL, apiToken string, opts ...DatasetteOption) *DatasetteClient {
	c := &DatasetteClient{
		baseURL:   baseURL,
		apiToken:  apiToken,
		client:    &http.Client{},
		limiter:   ratelimit.New("datasette", 0),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect verifies the configured base URL
func (c *DatasetteClient) Connect() error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL %q: scheme and host are required", c.baseURL)
	}
	return nil
}

// Publish sends all items to database/table in batches and returns the number of rows sent.
func (c *DatasetteClient) Publish(ctx context.Context, database, table string, items []furniture.Furniture) (int, error) {
	sent := 0
	for start := 0; start < len(items); start += c.batchSize {
		end := min(start+c.batchSize, len(items))

		rows := make([]map[string]any, 0, end-start)
		for _, item := range items[start:end] {
			rows = append(rows, item.Row())
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return sent, err
		}
		if err := c.BatchInsert(ctx, database, table, rows); err != nil {
			return sent, fmt.Errorf("failed to publish rows %d-%d: %w", start+1, end, err)
		}

		sent += len(rows)
		slog.Debug("Published batch", "table", table, "rows", len(rows), "total", sent)
	}
	return sent, nil
}

// BatchInsert sends records to the Datasette insert API. Rows are upserted on name.
func (c *DatasetteClient) BatchInsert(ctx context.Context, database, table string, records []map[string]any) error {
	if len(records) == 0 {
		return nil
	}

	// Construct the API endpoint URL
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = path.Join(u.Path, "-/insert", database, table)
	q := u.Query()
	q.Set("pk", "name")
	q.Set("upsert", "1")
	u.RawQuery = q.Encode()

	payload := map[string]any{
		"rows": records,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return errors.NewRateLimitError("datasette", retryAfter(resp.Header.Get("Retry-After")))
	}

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("request failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("API error (status %d): %v", resp.StatusCode, errResp)
	}

	return nil
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// Close is a no-op for the HTTP client
func (c *DatasetteClient) Close() error {
	return nil
}
