package solar

import (
	"fmt"
	"time"
)

// Metric identifies one of the measured solar quantities.
type Metric string

const (
	// MetricGHI is Global Horizontal Irradiance in W/m².
	MetricGHI Metric = "GHI"
	// MetricDNI is Direct Normal Irradiance in W/m².
	MetricDNI Metric = "DNI"
	// MetricDHI is Diffuse Horizontal Irradiance in W/m².
	MetricDHI Metric = "DHI"
	// MetricTamb is ambient air temperature in °C.
	MetricTamb Metric = "Tamb"
)

// Metrics lists all measured quantities in display order.
var Metrics = []Metric{MetricGHI, MetricDNI, MetricDHI, MetricTamb}

// IrradianceMetrics lists the irradiance components only (no temperature).
var IrradianceMetrics = []Metric{MetricGHI, MetricDNI, MetricDHI}

// ParseMetric maps a metric name (case sensitive, as it appears in the data
// files) to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricGHI, MetricDNI, MetricDHI, MetricTamb:
		return Metric(s), nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Measurement is one timestamped station reading for a country.
// Measurements are immutable once loaded; datasets are replaced wholesale,
// never edited in place.
type Measurement struct {
	Country   string    `json:"country"`
	Timestamp time.Time `json:"timestamp"` // always UTC
	GHI       float64   `json:"ghi"`
	DNI       float64   `json:"dni"`
	DHI       float64   `json:"dhi"`
	Tamb      float64   `json:"tambC"`
}

// Value returns the reading for the given metric.
func (m Measurement) Value(metric Metric) float64 {
	switch metric {
	case MetricGHI:
		return m.GHI
	case MetricDNI:
		return m.DNI
	case MetricDHI:
		return m.DHI
	case MetricTamb:
		return m.Tamb
	}
	return 0
}

// Summary holds the descriptive statistics for one metric of one country.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// CountrySummary aggregates the per-metric summaries for one country.
// It is derived state: always fully recomputed from the current measurement
// set, never mutated incrementally.
type CountrySummary struct {
	Country string             `json:"country"`
	Records int                `json:"records"`
	Metrics map[Metric]Summary `json:"metrics"`
}

// Insights is the per-country digest shown on the country page.
type Insights struct {
	Country  string  `json:"country"`
	Records  int     `json:"records"`
	MeanGHI  float64 `json:"meanGhi"`
	MeanDNI  float64 `json:"meanDni"`
	MeanDHI  float64 `json:"meanDhi"`
	MeanTamb float64 `json:"meanTambC"`
	// PeakHour is the hour of day (0-23, UTC) with the highest mean GHI.
	PeakHour int `json:"peakHour"`
	// PeakSunHours is the estimated equivalent hours per day of
	// full-intensity (1 kW/m²) sunlight.
	PeakSunHours float64 `json:"peakSunHours"`
}

// Observations is the cross-country digest derived from the rankings.
type Observations struct {
	// Ranking orders countries by descending mean GHI.
	Ranking []RankedCountry `json:"ranking"`
	// BestDNI names the country with the highest mean DNI.
	BestDNI RankedCountry `json:"bestDni"`
	// OptimalTemp names the country whose mean ambient temperature is
	// closest to the 25 °C module rating point.
	OptimalTemp RankedCountry `json:"optimalTemp"`
	// Notes are the rendered textual observations, one line each.
	Notes []string `json:"notes"`
}

// RankedCountry pairs a country with the metric value it was ranked on.
type RankedCountry struct {
	Country string  `json:"country"`
	Value   float64 `json:"value"`
}

// Overview summarizes the whole loaded dataset.
type Overview struct {
	TotalRecords int      `json:"totalRecords"`
	Countries    []string `json:"countries"`
	MeanGHI      float64  `json:"meanGhi"`
}

// HourlyProfile holds mean irradiance per hour of day for one country,
// backing the intra-day charts. Index is the hour (0-23).
type HourlyProfile struct {
	Country string      `json:"country"`
	MeanGHI [24]float64 `json:"meanGhi"`
	MeanDNI [24]float64 `json:"meanDni"`
}
