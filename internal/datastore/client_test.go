package datastore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/lepinkainen/furnish/internal/errors"
	"github.com/lepinkainen/furnish/internal/furniture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type insertRequest struct {
	Path  string
	Query string
	Auth  string
	Rows  []map[string]any
}

func newInsertServer(t *testing.T, status int) (*httptest.Server, func() []insertRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []insertRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var body struct {
			Rows []map[string]any `json:"rows"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}

		mu.Lock()
		requests = append(requests, insertRequest{
			Path:  r.URL.Path,
			Query: r.URL.RawQuery,
			Auth:  r.Header.Get("Authorization"),
			Rows:  body.Rows,
		})
		mu.Unlock()

		w.WriteHeader(status)
		if status != http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "forbidden"})
		}
	}))
	t.Cleanup(ts.Close)

	return ts, func() []insertRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]insertRequest(nil), requests...)
	}
}

func TestDatasetteClient_BatchInsert_Success(t *testing.T) {
	ts, requests := newInsertServer(t, http.StatusOK)

	client := NewDatasetteClient(ts.URL, "testtoken", WithHTTPClient(ts.Client()))
	require.NoError(t, client.Connect())

	records := []map[string]any{furniture.New("Chair", "Wooden chair", 49.99, 90, 45, 45).Row()}
	require.NoError(t, client.BatchInsert(context.Background(), "inventory", "furniture", records))

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, "/-/insert/inventory/furniture", got[0].Path)
	assert.Equal(t, "pk=name&upsert=1", got[0].Query)
	assert.Equal(t, "Bearer testtoken", got[0].Auth)
	require.Len(t, got[0].Rows, 1)
	assert.Equal(t, "Chair", got[0].Rows[0]["name"])
}

func TestDatasetteClient_BatchInsert_APIError(t *testing.T) {
	ts, _ := newInsertServer(t, http.StatusForbidden)

	client := NewDatasetteClient(ts.URL, "")
	err := client.BatchInsert(context.Background(), "inventory", "furniture", []map[string]any{{"name": "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestDatasetteClient_BatchInsert_RateLimited(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(ts.Close)

	client := NewDatasetteClient(ts.URL, "")
	err := client.BatchInsert(context.Background(), "inventory", "furniture", []map[string]any{{"name": "x"}})
	require.Error(t, err)
	assert.True(t, errors.IsRateLimitError(err))
	assert.Contains(t, err.Error(), "retry after 30s")
}

func TestDatasetteClient_WithHTTPClient(t *testing.T) {
	var used bool
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		used = true
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("{}")),
			Header:     make(http.Header),
		}, nil
	})

	client := NewDatasetteClient("http://datasette.invalid", "", WithHTTPClient(&http.Client{Transport: transport}))
	require.NoError(t, client.BatchInsert(context.Background(), "inventory", "furniture", []map[string]any{{"name": "x"}}))
	assert.True(t, used)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestDatasetteClient_BatchInsert_Empty(t *testing.T) {
	client := NewDatasetteClient("http://127.0.0.1:1", "")
	assert.NoError(t, client.BatchInsert(context.Background(), "inventory", "furniture", nil))
}

func TestDatasetteClient_Publish_Batches(t *testing.T) {
	ts, requests := newInsertServer(t, http.StatusOK)

	var items []furniture.Furniture
	for i := range 5 {
		items = append(items, furniture.New(fmt.Sprintf("Item %d", i), "Thing", float64(i), 1, 1, 1))
	}

	client := NewDatasetteClient(ts.URL, "", WithHTTPClient(ts.Client()), WithBatchSize(2), WithRequestsPerSecond(0))
	sent, err := client.Publish(context.Background(), "inventory", "furniture", items)
	require.NoError(t, err)
	assert.Equal(t, 5, sent)

	got := requests()
	require.Len(t, got, 3)
	assert.Len(t, got[0].Rows, 2)
	assert.Len(t, got[1].Rows, 2)
	assert.Len(t, got[2].Rows, 1)
	assert.Empty(t, got[0].Auth)
}

func TestDatasetteClient_Publish_StopsOnError(t *testing.T) {
	ts, requests := newInsertServer(t, http.StatusInternalServerError)

	items := []furniture.Furniture{
		furniture.New("A", "a", 1, 1, 1, 1),
		furniture.New("B", "b", 1, 1, 1, 1),
	}

	client := NewDatasetteClient(ts.URL, "", WithBatchSize(1))
	sent, err := client.Publish(context.Background(), "inventory", "furniture", items)
	require.Error(t, err)
	assert.Equal(t, 0, sent)
	assert.Contains(t, err.Error(), "rows 1-1")
	assert.Len(t, requests(), 1)
}

func TestDatasetteClient_Connect_InvalidURL(t *testing.T) {
	assert.Error(t, NewDatasetteClient("not a url", "").Connect())
	assert.Error(t, NewDatasetteClient("://bad", "").Connect())
	assert.NoError(t, NewDatasetteClient("https://datasette.example.com", "").Connect())
}
