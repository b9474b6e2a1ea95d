package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup sources reported by LookupsTotal.
const (
	SourceCache   = "cache"
	SourceNetwork = "network"
	SourceError   = "error"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LookupsTotal      *prometheus.CounterVec
	VerdictsTotal     *prometheus.CounterVec
	ThreatAPIDuration prometheus.Histogram

	HoverSessions prometheus.Gauge

	ScansTotal   *prometheus.CounterVec
	ScanDuration prometheus.Histogram
	ScansInQueue prometheus.Gauge
}

// New registers the metrics on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		LookupsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "urlsafety_lookups_total",
				Help: "URL safety lookups by the source that answered them.",
			},
			[]string{"source"}, // cache, network, error
		),
		VerdictsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "urlsafety_verdicts_total",
				Help: "Verdicts returned to callers.",
			},
			[]string{"verdict"}, // safe, unsafe
		),
		ThreatAPIDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "urlsafety_threat_api_duration_seconds",
				Help:    "Duration of threat-intelligence API calls.",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		HoverSessions: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "urlsafety_hover_sessions",
				Help: "Currently connected hover sessions.",
			},
		),
		ScansTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "urlsafety_scans_total",
				Help: "Total number of page scans.",
			},
			[]string{"status"}, // completed, failed
		),
		ScanDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "urlsafety_scan_duration_seconds",
				Help:    "Duration of page scans.",
				Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
			},
		),
		ScansInQueue: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "urlsafety_scans_in_queue",
				Help: "Current number of pages waiting to be scanned.",
			},
		),
	}
}
