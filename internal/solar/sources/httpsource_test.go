package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastBackoff() BackoffConfig {
	return BackoffConfig{
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
	}
}

func TestHTTPSourceLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/togo.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(validCSV))
	}))
	defer server.Close()

	src, err := NewHTTPSource(server.Client(), "Togo", server.URL)
	if err != nil {
		t.Fatalf("NewHTTPSource failed: %v", err)
	}

	measurements, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(measurements) != 3 {
		t.Fatalf("loaded %d rows, want 3", len(measurements))
	}
	if measurements[0].Country != "Togo" {
		t.Errorf("country = %q, want Togo", measurements[0].Country)
	}
}

func TestHTTPSourceRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(validCSV))
	}))
	defer server.Close()

	src, err := NewHTTPSource(server.Client(), "Benin", server.URL)
	if err != nil {
		t.Fatalf("NewHTTPSource failed: %v", err)
	}
	src.backoff = fastBackoff()

	measurements, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load should survive transient errors: %v", err)
	}
	if len(measurements) != 3 {
		t.Errorf("loaded %d rows, want 3", len(measurements))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3 (two retries)", got)
	}
}

func TestHTTPSourceDoesNotRetryBadPayload(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("Timestamp,GHI,DNI,DHI,Tamb\nyesterday,1,2,3,4\n"))
	}))
	defer server.Close()

	src, err := NewHTTPSource(server.Client(), "Benin", server.URL)
	if err != nil {
		t.Fatalf("NewHTTPSource failed: %v", err)
	}
	src.backoff = fastBackoff()

	if _, err := src.Load(context.Background()); !errors.Is(err, ErrMalformedRow) {
		t.Fatalf("Load error = %v, want ErrMalformedRow", err)
	}
	// Re-downloading a bad file cannot fix it.
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1 (no retries)", got)
	}
}

func TestHTTPSourceNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	src, err := NewHTTPSource(server.Client(), "Benin", server.URL)
	if err != nil {
		t.Fatalf("NewHTTPSource failed: %v", err)
	}
	src.backoff = fastBackoff()

	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing remote file")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1 (4xx is permanent)", got)
	}
}

func TestNewHTTPSourceRejectsBadBaseURL(t *testing.T) {
	if _, err := NewHTTPSource(http.DefaultClient, "Benin", "://not-a-url"); err == nil {
		t.Fatal("expected error for malformed base URL")
	}
}
