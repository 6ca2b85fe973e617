package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/moonlight-energy/solar-dashboard/internal/solar"
	"github.com/moonlight-energy/solar-dashboard/internal/store"
)

func testApp(t *testing.T) *fiber.App {
	t.Helper()

	memStore := store.NewMemoryStore()
	base := time.Date(2021, 8, 9, 10, 0, 0, 0, time.UTC)
	memStore.ReplaceDataset("Benin", []solar.Measurement{
		{Country: "Benin", Timestamp: base, GHI: 100, DNI: 80, DHI: 40, Tamb: 28},
		{Country: "Benin", Timestamp: base.Add(time.Minute), GHI: 300, DNI: 200, DHI: 60, Tamb: 29},
	})
	memStore.ReplaceDataset("Togo", []solar.Measurement{
		{Country: "Togo", Timestamp: base, GHI: 150, DNI: 90, DHI: 45, Tamb: 27},
	})

	svc := solar.NewService(memStore, nil, nil, nil)

	app := fiber.New()
	RegisterRoutes(app, svc)
	return app
}

func TestRankingsValidation(t *testing.T) {
	app := testApp(t)

	// Unknown metric should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rankings?metric=Humidity", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Default metric is GHI; Benin leads with mean 200.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/rankings", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Metric  string                `json:"metric"`
		Ranking []solar.RankedCountry `json:"ranking"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Metric != "GHI" {
		t.Errorf("metric = %q, want GHI", body.Metric)
	}
	if len(body.Ranking) != 2 || body.Ranking[0].Country != "Benin" {
		t.Errorf("ranking = %+v, want Benin first", body.Ranking)
	}
}

func TestSummariesEndpoint(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summaries", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var summaries map[string]solar.CountrySummary
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if got := summaries["Benin"].Metrics[solar.MetricGHI].Mean; got != 200 {
		t.Errorf("Benin mean GHI = %v, want 200", got)
	}
}

func TestInsightsUnknownCountry(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/countries/Atlantis/insights", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestInsightsCountryWithSpace(t *testing.T) {
	memStore := store.NewMemoryStore()
	base := time.Date(2021, 8, 9, 10, 0, 0, 0, time.UTC)
	memStore.ReplaceDataset("Sierra Leone", []solar.Measurement{
		{Country: "Sierra Leone", Timestamp: base, GHI: 185, DNI: 104, DHI: 50, Tamb: 26},
	})
	app := fiber.New()
	RegisterRoutes(app, solar.NewService(memStore, nil, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/countries/Sierra%20Leone/insights", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var ins solar.Insights
	if err := json.NewDecoder(resp.Body).Decode(&ins); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if ins.Country != "Sierra Leone" || ins.Records != 1 {
		t.Errorf("insights = %+v, want Sierra Leone with 1 record", ins)
	}
}

func TestMeasurementsRangeValidation(t *testing.T) {
	app := testApp(t)

	// Missing range parameters should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/countries/Benin/measurements", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// A to before from should also return 400.
	req = httptest.NewRequest(http.MethodGet,
		"/api/v1/countries/Benin/measurements?from=2021-08-09T11:00:00Z&to=2021-08-09T10:00:00Z", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Valid inclusive range returns both rows.
	req = httptest.NewRequest(http.MethodGet,
		"/api/v1/countries/Benin/measurements?from=2021-08-09T10:00:00Z&to=2021-08-09T10:01:00Z", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Measurements []solar.Measurement `json:"measurements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Measurements) != 2 {
		t.Errorf("got %d measurements, want 2", len(body.Measurements))
	}
}

func TestArtifactsEndpoints(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/artifacts", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Artifacts []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			ContentType string `json:"contentType"`
		} `json:"artifacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(body.Artifacts))
	}

	// Fetching one by name serves its content with the right type.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/artifacts/summary-table.json", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/artifacts/unknown.bin", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestDashboardPage(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != fiber.MIMETextHTMLCharsetUTF8 {
		t.Errorf("content type = %q, want %q", ct, fiber.MIMETextHTMLCharsetUTF8)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	// One page carries both the distribution box plots and the trend lines.
	for _, want := range []string{"box-ghi", "ts-benin"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("dashboard page missing chart %q", want)
		}
	}
}
