package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/moonlight-energy/solar-dashboard/internal/solar"
)

// HTTPSource loads one country's measurements from a CSV published over HTTP
// (e.g. a station export dropped on an object store). Transient failures are
// retried with backoff behind a circuit breaker so a flaky upstream cannot
// stall every reload cycle.
type HTTPSource struct {
	country string
	url     string
	client  *http.Client
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
}

// CountryFileName returns the station export file name for a country:
// the lowercased name with spaces removed (Sierra Leone -> sierraleone.csv).
func CountryFileName(country string) string {
	return strings.ToLower(strings.ReplaceAll(country, " ", "")) + ".csv"
}

// NewHTTPSource creates a source fetching the CSV for a country from baseURL,
// using the station export file naming convention. A malformed base URL is
// rejected here rather than on the first load.
func NewHTTPSource(client *http.Client, country, baseURL string) (*HTTPSource, error) {
	u, err := url.JoinPath(baseURL, CountryFileName(country))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "csv:" + country,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &HTTPSource{
		country: country,
		url:     u,
		client:  client,
		backoff: BackoffConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
	}, nil
}

func (s *HTTPSource) Name() string {
	return "http:" + s.url
}

func (s *HTTPSource) Country() string {
	return s.country
}

func (s *HTTPSource) Load(ctx context.Context) ([]solar.Measurement, error) {
	measurements, err := loadRemoteCSV(ctx, s.client, s.backoff, s.circuit, s.url, s.country)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.url, err)
	}
	return measurements, nil
}
