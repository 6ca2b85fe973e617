package sources

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/moonlight-energy/solar-dashboard/internal/solar"
)

// BackoffConfig controls exponential backoff behaviour for remote loads.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// loadRemoteCSV downloads and parses one country's CSV export. Transient
// failures (network errors, 429, 5xx) are retried with exponential backoff
// behind the circuit breaker. Parse and validation failures, and other 4xx
// statuses, are permanent and returned immediately: re-downloading a bad
// file cannot fix it.
func loadRemoteCSV(
	ctx context.Context,
	client *http.Client,
	backoff BackoffConfig,
	cb *gobreaker.CircuitBreaker,
	url, country string,
) ([]solar.Measurement, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}
	if backoff.MaxRetries < 0 || backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	var attempt int
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var measurements []solar.Measurement
		_, err := cb.Execute(func() (interface{}, error) {
			m, fetchErr := fetchAndParse(ctx, client, url, country)
			if fetchErr != nil {
				return nil, fetchErr
			}
			measurements = m
			return nil, nil
		})
		if err == nil {
			return measurements, nil
		}

		// If circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		if !transient(err) || attempt >= backoff.MaxRetries {
			return nil, err
		}

		// Backoff with exponential delay.
		delay := backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if backoff.MaxInterval > 0 && delay > backoff.MaxInterval {
			delay = backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
			// continue to next attempt
		}

		attempt++
	}
}

// fetchAndParse performs one download and parse of the export.
func fetchAndParse(ctx context.Context, client *http.Client, url, country string) ([]solar.Measurement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Handle rate limiting and server errors explicitly.
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errRateLimited
	}
	if resp.StatusCode >= 500 {
		return nil, errServerError
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
	}

	return parseCSV(resp.Body, country)
}

// transient reports whether retrying the load could succeed.
func transient(err error) bool {
	switch {
	case errors.Is(err, ErrMalformedRow),
		errors.Is(err, ErrOutOfRange),
		errors.Is(err, ErrMissingColumn),
		errors.Is(err, errUnexpected):
		return false
	}
	return true
}
