// Package metrics provides Prometheus instrumentation for the dashboard
// service.
//
// It exposes operational metrics about the load pipeline and summary
// computation, all served on the /metrics HTTP endpoint for Prometheus
// scraping:
//   - solar_source_load_seconds: Histogram of per-source load duration
//   - solar_rows_loaded_total: Counter of measurement rows loaded, by country
//   - solar_load_errors_total: Counter of failed loads, by source
//   - solar_dataset_rows: Gauge of currently loaded rows, by country
//   - solar_summary_compute_seconds: Histogram of summary recompute duration
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the dashboard service.
type Metrics struct {
	SourceLoadSeconds     prometheus.Histogram
	RowsLoadedTotal       *prometheus.CounterVec
	LoadErrorsTotal       *prometheus.CounterVec
	DatasetRows           *prometheus.GaugeVec
	SummaryComputeSeconds prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SourceLoadSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "solar_source_load_seconds",
			Help:    "Time spent loading and parsing one measurement source",
			Buckets: prometheus.DefBuckets,
		}),

		RowsLoadedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "solar_rows_loaded_total",
			Help: "Measurement rows loaded, by country",
		}, []string{"country"}),

		LoadErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "solar_load_errors_total",
			Help: "Failed source loads, by source",
		}, []string{"source"}),

		DatasetRows: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "solar_dataset_rows",
			Help: "Currently loaded measurement rows, by country",
		}, []string{"country"}),

		SummaryComputeSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "solar_summary_compute_seconds",
			Help:    "Time spent recomputing country summaries",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
