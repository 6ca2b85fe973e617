// Package render turns computed summaries and measurement sets into the
// dashboard's visual artifacts. Rendering is a pure function of its inputs:
// chart IDs are fixed and artifact IDs are name-derived, so rendering the
// same inputs twice yields byte-identical artifacts.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"

	"github.com/moonlight-energy/solar-dashboard/internal/solar"
)

// maxSeriesPoints caps the number of points per time-series line so a year
// of one-minute readings does not end up in the page.
const maxSeriesPoints = 1000

// Artifact is one rendered output of the dashboard.
type Artifact struct {
	// ID is a name-derived UUID, stable across renders of the same artifact.
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

func newArtifact(name, contentType string, data []byte) Artifact {
	return Artifact{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String(),
		Name:        name,
		ContentType: contentType,
		Data:        data,
	}
}

// Render produces the full artifact set: the box-plot page, the time-series
// page, and the summary table as JSON.
func Render(summaries map[string]solar.CountrySummary, measurements []solar.Measurement) ([]Artifact, error) {
	boxPage, err := BoxPlotPage(summaries, measurements)
	if err != nil {
		return nil, err
	}
	tsPage, err := TimeSeriesPage(measurements)
	if err != nil {
		return nil, err
	}
	table, err := SummaryTable(summaries)
	if err != nil {
		return nil, err
	}

	return []Artifact{
		newArtifact("boxplots.html", "text/html; charset=utf-8", boxPage),
		newArtifact("timeseries.html", "text/html; charset=utf-8", tsPage),
		newArtifact("summary-table.json", "application/json", table),
	}, nil
}

// BoxPlotPage renders one box plot per irradiance metric, countries side by
// side, onto a single HTML page.
func BoxPlotPage(summaries map[string]solar.CountrySummary, measurements []solar.Measurement) ([]byte, error) {
	page := newPage("Solar Irradiance Comparison")
	page.AddCharts(boxPlotCharts(summaries, measurements)...)
	return renderPage(page, "box plots")
}

// TimeSeriesPage renders one GHI trend line per country onto a single HTML
// page, downsampled to at most maxSeriesPoints points each.
func TimeSeriesPage(measurements []solar.Measurement) ([]byte, error) {
	page := newPage("GHI Trends")
	page.AddCharts(timeSeriesCharts(measurements)...)
	return renderPage(page, "time series")
}

// DashboardPage renders the box plots and the GHI trend lines together on a
// single HTML page.
func DashboardPage(summaries map[string]solar.CountrySummary, measurements []solar.Measurement) ([]byte, error) {
	page := newPage("Solar Irradiance Dashboard")
	page.AddCharts(boxPlotCharts(summaries, measurements)...)
	page.AddCharts(timeSeriesCharts(measurements)...)
	return renderPage(page, "dashboard")
}

func newPage(title string) *components.Page {
	page := components.NewPage()
	page.PageTitle = title
	return page
}

func renderPage(page *components.Page, what string) ([]byte, error) {
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", what, err)
	}
	return buf.Bytes(), nil
}

// boxPlotCharts builds one box plot per irradiance metric, countries side by
// side.
func boxPlotCharts(summaries map[string]solar.CountrySummary, measurements []solar.Measurement) []components.Charter {
	countries := sortedCountries(summaries)

	byCountry := make(map[string][]solar.Measurement)
	for _, m := range measurements {
		byCountry[m.Country] = append(byCountry[m.Country], m)
	}

	out := make([]components.Charter, 0, len(solar.IrradianceMetrics))
	for _, metric := range solar.IrradianceMetrics {
		box := charts.NewBoxPlot()
		box.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{
				ChartID: chartID("box", string(metric)),
				Width:   "600px",
				Height:  "400px",
			}),
			charts.WithTitleOpts(opts.Title{
				Title: fmt.Sprintf("%s Distribution (W/m²)", metric),
			}),
		)

		data := make([]opts.BoxPlotData, 0, len(countries))
		for _, country := range countries {
			values := metricValues(byCountry[country], metric)
			data = append(data, opts.BoxPlotData{Value: fiveNumber(values)})
		}
		box.SetXAxis(countries).AddSeries(string(metric), data)

		out = append(out, box)
	}
	return out
}

// timeSeriesCharts builds one GHI trend line per country, downsampled to at
// most maxSeriesPoints points each.
func timeSeriesCharts(measurements []solar.Measurement) []components.Charter {
	byCountry := make(map[string][]solar.Measurement)
	for _, m := range measurements {
		byCountry[m.Country] = append(byCountry[m.Country], m)
	}

	countries := make([]string, 0, len(byCountry))
	for country := range byCountry {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	out := make([]components.Charter, 0, len(countries))
	for _, country := range countries {
		sampled := solar.Downsample(byCountry[country], maxSeriesPoints)

		xs := make([]string, len(sampled))
		ys := make([]opts.LineData, len(sampled))
		for i, m := range sampled {
			xs[i] = m.Timestamp.UTC().Format("2006-01-02 15:04")
			ys[i] = opts.LineData{Value: m.GHI}
		}

		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{
				ChartID: chartID("ts", country),
				Width:   "900px",
				Height:  "400px",
			}),
			charts.WithTitleOpts(opts.Title{
				Title: fmt.Sprintf("%s GHI Trend (W/m²)", country),
			}),
		)
		line.SetXAxis(xs).AddSeries(country, ys)

		out = append(out, line)
	}
	return out
}

// SummaryTable marshals the summaries as JSON. Map keys marshal in sorted
// order, so the output is deterministic.
func SummaryTable(summaries map[string]solar.CountrySummary) ([]byte, error) {
	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal summary table: %w", err)
	}
	return data, nil
}

// fiveNumber returns the box-plot tuple [min, Q1, median, Q3, max].
func fiveNumber(values []float64) []float64 {
	if len(values) == 0 {
		return []float64{0, 0, 0, 0, 0}
	}
	return []float64{
		solar.Quantile(values, 0),
		solar.Quantile(values, 0.25),
		solar.Quantile(values, 0.5),
		solar.Quantile(values, 0.75),
		solar.Quantile(values, 1),
	}
}

func metricValues(measurements []solar.Measurement, metric solar.Metric) []float64 {
	values := make([]float64, len(measurements))
	for i, m := range measurements {
		values[i] = m.Value(metric)
	}
	return values
}

func sortedCountries(summaries map[string]solar.CountrySummary) []string {
	countries := make([]string, 0, len(summaries))
	for country := range summaries {
		countries = append(countries, country)
	}
	sort.Strings(countries)
	return countries
}

// chartID builds a fixed, HTML-safe element ID for a chart.
func chartID(kind, name string) string {
	name = strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return kind + "-" + name
}
