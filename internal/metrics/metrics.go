package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripweave_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripweave_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SuggestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripweave_suggestions_total",
			Help: "Total number of suggestion generations by outcome.",
		},
		[]string{"status"},
	)

	QuotaDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripweave_quota_denials_total",
			Help: "Total number of requests denied by a quota check.",
		},
		[]string{"scope"},
	)

	ProviderRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tripweave_provider_request_duration_seconds",
			Help:    "Completion provider request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		SuggestionsTotal,
		QuotaDenialsTotal,
		ProviderRequestDuration,
	)
}
