package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for report
// composition and record ingestion.
type Metrics struct {
	ReportsGenerated prometheus.Counter
	ReportFailures   *prometheus.CounterVec // labels: reason={bad_request,store,internal}
	ComposeDuration  prometheus.Histogram

	// Per-section lookup metrics; the section label is the composer's
	// stable lookup key (seasonal, weekly_1, reservoir_major, ...).
	LookupDuration *prometheus.HistogramVec // labels: section
	SectionsAbsent *prometheus.CounterVec   // labels: section

	// Ingestion consumer metrics.
	IngestRecordsConsumed prometheus.Counter
	IngestErrors          prometheus.Counter
	IngestRunning         prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReportsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agromet_report",
			Name:      "reports_generated_total",
			Help:      "Total advisory documents successfully composed.",
		}),
		ReportFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agromet_report",
			Name:      "report_failures_total",
			Help:      "Report requests that failed, by reason.",
		}, []string{"reason"}),
		ComposeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agromet_report",
			Name:      "compose_duration_seconds",
			Help:      "Duration of a complete fan-out, render, and assembly cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		LookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agromet_report",
			Name:      "lookup_duration_seconds",
			Help:      "Record store lookup duration per report section.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}, []string{"section"}),
		SectionsAbsent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agromet_report",
			Name:      "sections_absent_total",
			Help:      "Lookups that resolved to no record, by section.",
		}, []string{"section"}),
		IngestRecordsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agromet_report",
			Name:      "ingest_records_consumed_total",
			Help:      "Total records consumed from the ingestion topic.",
		}),
		IngestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agromet_report",
			Name:      "ingest_errors_total",
			Help:      "Ingestion messages rejected or failed to store.",
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "agromet_report",
			Name:      "ingest_running",
			Help:      "1 when the ingestion consumer is active, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.ReportsGenerated,
		m.ReportFailures,
		m.ComposeDuration,
		m.LookupDuration,
		m.SectionsAbsent,
		m.IngestRecordsConsumed,
		m.IngestErrors,
		m.IngestRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReportsGenerated:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agromet_report", Name: "reports_generated_total"}),
		ReportFailures:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "agromet_report", Name: "report_failures_total"}, []string{"reason"}),
		ComposeDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "agromet_report", Name: "compose_duration_seconds"}),
		LookupDuration:        prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "agromet_report", Name: "lookup_duration_seconds"}, []string{"section"}),
		SectionsAbsent:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "agromet_report", Name: "sections_absent_total"}, []string{"section"}),
		IngestRecordsConsumed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agromet_report", Name: "ingest_records_consumed_total"}),
		IngestErrors:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agromet_report", Name: "ingest_errors_total"}),
		IngestRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "agromet_report", Name: "ingest_running"}),
	}
}
