// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Spotify Web API
	SpotifyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuneboard_spotify_requests_total",
			Help: "Spotify Web API requests by endpoint and status code",
		},
		[]string{"endpoint", "status"},
	)

	SpotifyRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tuneboard_spotify_request_duration_seconds",
			Help:    "Duration of Spotify Web API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	SpotifyRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuneboard_spotify_retries_total",
			Help: "Spotify Web API requests retried after 429 or 5xx",
		},
		[]string{"endpoint"},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tuneboard_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuneboard_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuneboard_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// History
	HistoryCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuneboard_history_cycles_total",
			Help: "History record cycles by outcome reason",
		},
		[]string{"reason"},
	)

	HistoryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuneboard_history_errors_total",
			Help: "History cycles that failed, by stage",
		},
		[]string{"stage"}, // fetch, store
	)

	HistoryLogLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tuneboard_history_log_records",
			Help: "Number of records in the history log after the last append",
		},
	)

	HistoryLastAppend = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tuneboard_history_last_append_timestamp_seconds",
			Help: "Unix time of the last appended history record",
		},
	)

	// Colors
	ColorExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuneboard_color_extractions_total",
			Help: "Album art color extractions by result",
		},
		[]string{"result"}, // success, error
	)

	ColorExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tuneboard_color_extraction_duration_seconds",
			Help:    "Time to fetch and process album art",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Pollers
	PollDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tuneboard_poll_duration_seconds",
			Help:    "Duration of one poll cycle",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"poller"},
	)

	PollsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuneboard_polls_skipped_total",
			Help: "Ticks dropped because the previous poll was still running",
		},
		[]string{"poller"},
	)

	// HTTP API
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuneboard_api_requests_total",
			Help: "HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tuneboard_api_request_duration_seconds",
			Help:    "HTTP API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordSpotifyRequest records one Web API round trip. status 0 means the
// request never produced a response.
func RecordSpotifyRequest(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	SpotifyRequests.WithLabelValues(endpoint, label).Inc()
	SpotifyRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordHistoryCycle records the outcome of one history cycle.
func RecordHistoryCycle(reason string, appended bool, logLen int) {
	HistoryCycles.WithLabelValues(reason).Inc()
	if appended {
		HistoryLogLength.Set(float64(logLen))
		HistoryLastAppend.SetToCurrentTime()
	}
}

// RecordColorExtraction records one artwork fetch and extraction.
func RecordColorExtraction(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ColorExtractions.WithLabelValues(result).Inc()
	ColorExtractionDuration.Observe(duration.Seconds())
}

// RecordAPIRequest records one HTTP API request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
