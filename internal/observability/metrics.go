package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	apiRequestsTotal       *prometheus.CounterVec
	apiLatencySeconds      *prometheus.HistogramVec
	apiErrorsTotal         *prometheus.CounterVec
	moderationActionsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumos_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lumos_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumos_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		moderationActionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumos_moderation_actions_total",
			Help: "Total number of moderation actions executed, by action type.",
		}, []string{"action_type"})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, moderationActionsTotal)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// ModerationActions exposes the counter for executed moderation actions.
func ModerationActions() *prometheus.CounterVec {
	RegisterMetrics()
	return moderationActionsTotal
}
