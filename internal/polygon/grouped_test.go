package polygon

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testDay() time.Time {
	return time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
}

// zeroWaits keeps retry semantics but removes wall-clock sleeps.
func zeroWaits(maxAttempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: maxAttempts}
}

func TestGroupedDaily_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/v2/aggs/grouped/locale/us/market/stocks/2024-10-14"
		if r.URL.Path != wantPath {
			t.Errorf("path = %q, want %q", r.URL.Path, wantPath)
		}
		if got := r.URL.Query().Get("adjusted"); got != "true" {
			t.Errorf("adjusted = %q, want %q", got, "true")
		}
		if got := r.URL.Query().Get("apiKey"); got != "test-key" {
			t.Errorf("apiKey = %q, want %q", got, "test-key")
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"status": "OK",
			"resultsCount": 2,
			"results": [
				{"T": "AAPL", "v": 12345, "vw": 180.5, "o": 179.2, "c": 181.0, "h": 182.0, "l": 178.5, "n": 2100, "t": 1728936000000},
				{"T": "MSFT", "v": 6789, "vw": 415.1, "o": 414.0, "c": 416.3, "h": 417.0, "l": 413.2, "n": 1800, "t": 1728936000000}
			]
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", WithRetryPolicy(zeroWaits(3)))
	batch, err := c.GroupedDaily(context.Background(), testDay())
	if err != nil {
		t.Fatalf("GroupedDaily() error = %v", err)
	}

	if len(batch) != 2 {
		t.Fatalf("len(batch) = %d, want 2", len(batch))
	}
	if batch[0].Ticker != "AAPL" {
		t.Errorf("Ticker = %q, want %q", batch[0].Ticker, "AAPL")
	}
	if batch[0].VWAP != 180.5 {
		t.Errorf("VWAP = %v, want 180.5", batch[0].VWAP)
	}
	if batch[0].Transactions != 2100 {
		t.Errorf("Transactions = %d, want 2100", batch[0].Transactions)
	}
	if batch[0].Timestamp != 1728936000000 {
		t.Errorf("Timestamp = %d, want 1728936000000", batch[0].Timestamp)
	}
}

func TestGroupedDaily_Unadjusted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("adjusted"); got != "false" {
			t.Errorf("adjusted = %q, want %q", got, "false")
		}
		w.Write([]byte(`{"status": "OK", "resultsCount": 1, "results": [{"T": "AAPL"}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", WithAdjusted(false), WithRetryPolicy(zeroWaits(3)))
	if _, err := c.GroupedDaily(context.Background(), testDay()); err != nil {
		t.Fatalf("GroupedDaily() error = %v", err)
	}
}

func TestGroupedDaily_NoData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty results", `{"status": "OK", "resultsCount": 0, "results": []}`},
		{"missing results", `{"status": "OK", "resultsCount": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts.Add(1)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(server.URL, "test-key", WithRetryPolicy(zeroWaits(3)))
			_, err := c.GroupedDaily(context.Background(), testDay())

			if !errors.Is(err, ErrNoData) {
				t.Fatalf("error = %v, want ErrNoData", err)
			}
			var fe *FetchError
			if errors.As(err, &fe) {
				t.Errorf("ErrNoData must not be a *FetchError, got %v", fe)
			}
			if got := attempts.Load(); got != 1 {
				t.Errorf("attempts = %d, want 1 (no-data is not retried)", got)
			}
		})
	}
}

func TestGroupedDaily_ServerErrorRetryBound(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", WithRetryPolicy(zeroWaits(3)))
	_, err := c.GroupedDaily(context.Background(), testDay())

	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want exactly 3", got)
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if fe.Attempts != 3 {
		t.Errorf("FetchError.Attempts = %d, want 3", fe.Attempts)
	}
	if errors.Is(err, ErrNoData) {
		t.Error("fetch failure must not satisfy errors.Is(err, ErrNoData)")
	}

	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusInternalServerError {
		t.Errorf("cause = %v, want wrapped StatusError 500", err)
	}
}

func TestGroupedDaily_ClientErrorNoRetry(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient(server.URL, "bad-key", WithRetryPolicy(zeroWaits(3)))
	_, err := c.GroupedDaily(context.Background(), testDay())

	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1 (4xx is permanent)", got)
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if fe.Attempts != 1 {
		t.Errorf("FetchError.Attempts = %d, want 1", fe.Attempts)
	}
}

func TestGroupedDaily_RateLimitUsesLongWait(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"status": "OK", "resultsCount": 1, "results": [{"T": "AAPL"}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", WithRetryPolicy(RetryPolicy{
		MaxAttempts:     3,
		RateLimitWait:   60 * time.Second,
		ServerErrorWait: 5 * time.Second,
	}))

	var waits []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	batch, err := c.GroupedDaily(context.Background(), testDay())
	if err != nil {
		t.Fatalf("GroupedDaily() error = %v", err)
	}
	if len(batch) != 1 {
		t.Errorf("len(batch) = %d, want 1", len(batch))
	}
	if attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", attempts.Load())
	}
	if len(waits) != 1 || waits[0] != 60*time.Second {
		t.Errorf("waits = %v, want exactly one 60s rate-limit wait", waits)
	}
}

func TestGroupedDaily_ServerErrorUsesShortWait(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"status": "OK", "resultsCount": 1, "results": [{"T": "AAPL"}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", WithRetryPolicy(RetryPolicy{
		MaxAttempts:     3,
		RateLimitWait:   60 * time.Second,
		ServerErrorWait: 5 * time.Second,
	}))

	var waits []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	if _, err := c.GroupedDaily(context.Background(), testDay()); err != nil {
		t.Fatalf("GroupedDaily() error = %v", err)
	}
	if len(waits) != 1 || waits[0] != 5*time.Second {
		t.Errorf("waits = %v, want exactly one 5s server-error wait", waits)
	}
}

func TestGroupedDaily_TransportErrorRetries(t *testing.T) {
	// Closed server: every attempt fails at the transport layer.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := NewClient(server.URL, "test-key", WithRetryPolicy(zeroWaits(3)))

	var sleeps int
	c.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}

	_, err := c.GroupedDaily(context.Background(), testDay())

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if fe.Attempts != 3 {
		t.Errorf("FetchError.Attempts = %d, want 3", fe.Attempts)
	}
	if sleeps != 2 {
		t.Errorf("sleeps = %d, want 2 (no sleep after final attempt)", sleeps)
	}
}

func TestGroupedDaily_CancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())

	c := NewClient(server.URL, "test-key", WithRetryPolicy(RetryPolicy{
		MaxAttempts:     3,
		ServerErrorWait: time.Hour,
	}))
	c.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := c.GroupedDaily(ctx, testDay())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
