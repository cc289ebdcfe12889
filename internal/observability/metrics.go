package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce     sync.Once
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
	httpErrors       *prometheus.CounterVec
	reviewDecisions  *prometheus.CounterVec
	authAttempts     *prometheus.CounterVec
	uploadsRejected  *prometheus.CounterVec
	dashboardResults *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hr_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		reviewDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_review_decisions_total",
			Help: "Review transitions applied to skills, performance records and documents.",
		}, []string{"entity", "decision"})

		authAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_auth_attempts_total",
			Help: "Authentication attempts by operation and outcome.",
		}, []string{"operation", "outcome"})

		uploadsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_document_uploads_rejected_total",
			Help: "Document uploads rejected before storage.",
		}, []string{"reason"})

		dashboardResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_dashboard_cache_total",
			Help: "HR dashboard stat lookups by cache outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(httpRequests, httpLatency, httpErrors,
			reviewDecisions, authAttempts, uploadsRejected, dashboardResults)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequests
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatency
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrors
}

// ReviewDecisions exposes the counter for review transitions.
func ReviewDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return reviewDecisions
}

// AuthAttempts exposes the counter for authentication operations.
func AuthAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return authAttempts
}

// UploadsRejected exposes the counter for rejected document uploads.
func UploadsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadsRejected
}

// DashboardCache exposes the counter for dashboard cache outcomes.
func DashboardCache() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardResults
}
