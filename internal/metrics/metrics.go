package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamtv_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamtv_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamtv_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	// Playout Metrics
	PlayoutResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamtv_playout_resolutions_total",
			Help: "Total number of playout descriptors resolved",
		},
		[]string{"protocol", "drm", "device"},
	)

	PlayoutFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamtv_playout_failures_total",
			Help: "Total number of failed playout resolutions",
		},
		[]string{"reason"},
	)

	// Subtitle Metrics
	SubtitleLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamtv_subtitle_loads_total",
			Help: "Total number of subtitle loads",
		},
		[]string{"source", "status"},
	)

	SubtitleLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamtv_subtitle_load_duration_seconds",
			Help:    "Subtitle fetch and parse duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	SubtitleCuesParsed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streamtv_subtitle_cues_parsed",
			Help:    "Number of cues per parsed subtitle document",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// Viewer State Metrics
	HeartbeatsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamtv_heartbeats_total",
			Help: "Total number of playback heartbeats",
		},
		[]string{"completed"},
	)

	MyListOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamtv_mylist_operations_total",
			Help: "Total number of my list operations",
		},
		[]string{"operation"},
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamtv_store_operation_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"driver", "operation", "status"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamtv_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordRateLimited records a request rejected by the limiter
func RecordRateLimited() {
	RateLimitedTotal.Inc()
}

// RecordPlayout records a resolved playout
func RecordPlayout(protocol string, drm bool, device string) {
	PlayoutResolutionsTotal.WithLabelValues(protocol, boolLabel(drm), device).Inc()
}

// RecordPlayoutFailure records a failed playout resolution
func RecordPlayoutFailure(reason string) {
	PlayoutFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordSubtitleLoad records a subtitle load and, on success, its cue count
func RecordSubtitleLoad(source, status string, duration float64, cues int) {
	SubtitleLoadsTotal.WithLabelValues(source, status).Inc()
	SubtitleLoadDuration.WithLabelValues(source).Observe(duration)
	if status == "success" {
		SubtitleCuesParsed.Observe(float64(cues))
	}
}

// RecordHeartbeat records a playback heartbeat
func RecordHeartbeat(completed bool) {
	HeartbeatsTotal.WithLabelValues(boolLabel(completed)).Inc()
}

// RecordMyListOperation records an add or remove
func RecordMyListOperation(operation string) {
	MyListOperationsTotal.WithLabelValues(operation).Inc()
}

// RecordStoreOperation records a store call
func RecordStoreOperation(driver, operation, status string, duration float64) {
	StoreOperationDuration.WithLabelValues(driver, operation, status).Observe(duration)
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
