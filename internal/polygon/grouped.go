package polygon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rickgao/eod-pipeline/internal/model"
)

// ErrNoData marks a well-formed response with no results for the requested
// day. Callers must not treat it as a fetch failure: a holiday the calendar
// missed is not an error.
var ErrNoData = errors.New("no results for trading day")

// StatusError represents a non-2xx response from the Polygon API.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("polygon api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Transient reports whether the error should trigger a retry.
func (e *StatusError) Transient() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// FetchError is the terminal failure of a grouped-daily fetch, after retries
// are exhausted or a permanent upstream error. Distinct from ErrNoData.
type FetchError struct {
	Day      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch grouped daily %s failed after %d attempt(s): %v", e.Day, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RetryPolicy controls the attempt budget and the per-class waits between
// attempts. Tests substitute zero waits to assert attempt counts without
// wall-clock sleeps.
type RetryPolicy struct {
	MaxAttempts     int           // total attempts, not additional retries
	RateLimitWait   time.Duration // wait after a 429
	ServerErrorWait time.Duration // wait after a 5xx or transport error
}

// DefaultRetryPolicy returns the production policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		RateLimitWait:   60 * time.Second,
		ServerErrorWait: 5 * time.Second,
	}
}

// groupedResponse mirrors the grouped-daily endpoint payload. Unknown fields
// are dropped at decode, which keeps the output bound to the warehouse schema.
type groupedResponse struct {
	Status       string               `json:"status"`
	ResultsCount int                  `json:"resultsCount"`
	Results      []model.RawAggregate `json:"results"`
}

// GroupedDaily fetches the full cross-sectional aggregate snapshot for one
// trading day. It returns ErrNoData for an empty snapshot and a *FetchError
// once the retry budget is exhausted or on a permanent upstream error.
//
// Retry classification per attempt: 429 waits RateLimitWait, 5xx and
// transport errors wait ServerErrorWait, any other 4xx aborts immediately.
func (c *Client) GroupedDaily(ctx context.Context, day time.Time) ([]model.RawAggregate, error) {
	ds := day.Format("2006-01-02")

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		batch, err := c.groupedDailyOnce(ctx, ds)
		if err == nil {
			if len(batch) == 0 {
				return nil, ErrNoData
			}
			return batch, nil
		}
		lastErr = err

		wait := c.retry.ServerErrorWait
		var se *StatusError
		if errors.As(err, &se) {
			if !se.Transient() {
				return nil, &FetchError{Day: ds, Attempts: attempt, Err: err}
			}
			if se.StatusCode == http.StatusTooManyRequests {
				wait = c.retry.RateLimitWait
			}
		}

		c.logger.Warn("grouped daily request failed",
			"day", ds,
			"attempt", attempt,
			"max_attempts", c.retry.MaxAttempts,
			"error", err,
		)

		if attempt < c.retry.MaxAttempts {
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
		}
	}

	return nil, &FetchError{Day: ds, Attempts: c.retry.MaxAttempts, Err: lastErr}
}

// groupedDailyOnce performs a single request against the grouped-daily
// endpoint.
func (c *Client) groupedDailyOnce(ctx context.Context, ds string) ([]model.RawAggregate, error) {
	query := url.Values{}
	query.Set("adjusted", strconv.FormatBool(c.adjusted))
	query.Set("apiKey", c.apiKey)

	fullURL := c.baseURL + "/v2/aggs/grouped/locale/us/market/stocks/" + ds + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}

	var decoded groupedResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return decoded.Results, nil
}
