// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

package issue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Rudiend/weeklypedia/internal/config"
	"github.com/Rudiend/weeklypedia/internal/language"
	"github.com/Rudiend/weeklypedia/internal/logging"
	"github.com/Rudiend/weeklypedia/internal/metrics"
)

// ErrFetch indicates an upstream dependency failure: network error, non-2xx
// response, or a malformed response body. There are no retries at this
// layer; a single failed fetch surfaces immediately to the caller.
var ErrFetch = errors.New("recent activity fetch failed")

// maxFetchBody bounds the upstream response size read into memory.
const maxFetchBody = 8 << 20 // 8MB

// Fetcher retrieves recent-activity data for one language code from the
// upstream data source. Requests are wrapped in a circuit breaker so a
// down upstream fails fast instead of tying up request handlers; the
// breaker adds no retries.
type Fetcher struct {
	catalog *language.Catalog
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[map[string]any]
}

// NewFetcher creates a Fetcher for the configured upstream.
// Circuit breaker configuration:
//   - Opens after 60% failure rate with minimum 10 requests
//   - 1 minute measurement window, 2 minute recovery timeout
//   - Max 3 concurrent requests in half-open state
func NewFetcher(catalog *language.Catalog, cfg config.FetchConfig) *Fetcher {
	const breakerName = "recent-activity-fetch"
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed

	breaker := gobreaker.NewCircuitBreaker[map[string]any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Fetch circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})

	return &Fetcher{
		catalog: catalog,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
	}
}

// Fetch issues an HTTP GET to <base-url>/<code> and decodes the JSON object
// response. The code is resolved against the catalog first; an unknown code
// fails with language.ErrUnknownLanguage before any network I/O happens.
func (f *Fetcher) Fetch(ctx context.Context, code string) (map[string]any, error) {
	if _, err := f.catalog.Resolve(code); err != nil {
		return nil, err
	}

	data, err := f.breaker.Execute(func() (map[string]any, error) {
		return f.doFetch(ctx, code)
	})
	if err != nil {
		metrics.FetchRequestsTotal.WithLabelValues(code, "error").Inc()
		if errors.Is(err, ErrFetch) {
			return nil, err
		}
		// Breaker-originated errors (open state, too many requests).
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	metrics.FetchRequestsTotal.WithLabelValues(code, "success").Inc()
	return data, nil
}

func (f *Fetcher) doFetch(ctx context.Context, code string) (map[string]any, error) {
	endpoint := f.baseURL + "/" + url.PathEscape(code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Weeklypedia/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBody))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: upstream returned %d for %q", ErrFetch, resp.StatusCode, code)
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed response body: %w", ErrFetch, err)
	}

	return data, nil
}

// breakerStateValue maps gobreaker states to the metric encoding.
func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
