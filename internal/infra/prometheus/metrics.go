package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Redirect outcomes.
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

var (
	// LinksCreated counts successful link creations by code origin.
	LinksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tinyurl_links_created_total",
			Help: "Total number of short links created",
		},
		[]string{"origin"},
	)

	// CodeCollisions counts create attempts rejected because the code was taken.
	CodeCollisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tinyurl_code_collisions_total",
			Help: "Create attempts whose code already existed, by detection point",
		},
		[]string{"detected_by"},
	)

	// Redirects counts redirect resolutions by outcome.
	Redirects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tinyurl_redirects_total",
			Help: "Total number of short link redirect resolutions",
		},
		[]string{"result"},
	)

	// HTTPRequests counts HTTP requests by method, route template and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// HTTPInFlight tracks requests currently being served.
	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)
)
