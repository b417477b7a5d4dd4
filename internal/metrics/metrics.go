// Package metrics defines Prometheus metrics for the maintenance backend.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gmao_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gmao_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gmao_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	RelationRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gmao_relation_refreshes_total",
			Help: "Membership relation refreshes by outcome",
		},
		[]string{"outcome"},
	)

	RelationVersion = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gmao_relation_version",
			Help: "Current membership relation cache version",
		},
	)

	EnrichmentPasses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gmao_enrichment_passes_total",
			Help: "Enrichment passes by outcome",
		},
		[]string{"outcome"},
	)

	EnrichmentDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gmao_enrichment_duration_seconds",
			Help:    "Enrichment pass duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EnrichmentLookups = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gmao_enrichment_lookups_total",
			Help: "Per-entity relation lookups issued by enrichment passes",
		},
	)

	ResponseCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gmao_response_cache_lookups_total",
			Help: "Reference response cache lookups by result",
		},
		[]string{"result"},
	)

	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gmao_audit_queue_depth",
			Help: "Current audit queue depth",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		RelationRefreshes, RelationVersion,
		EnrichmentPasses, EnrichmentDuration, EnrichmentLookups,
		ResponseCacheLookups, AuditQueueDepth,
	)
}
