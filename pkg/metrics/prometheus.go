// Package metrics provides Prometheus metrics for the juryboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Scoring pipeline
	sheetsProcessed *prometheus.CounterVec
	sheetLatency    prometheus.Histogram
	batches         *prometheus.CounterVec
	batchDuration   prometheus.Histogram
	batchSize       prometheus.Histogram
	teamsRanked     prometheus.Gauge
	uploadBytes     prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "juryboard",
		subsystem:        "scoring",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics on the configured registry.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sheetsProcessed = auto.NewCounterVec(
		m.counterOpts("sheets_processed_total", "Sheets processed by outcome (ok or an error code)"),
		[]string{"outcome"},
	)
	m.sheetLatency = auto.NewHistogram(
		m.histogramOpts("sheet_latency_milliseconds", "Decode and score latency per sheet", m.histogramBuckets),
	)
	m.batches = auto.NewCounterVec(
		m.counterOpts("batches_total", "Batches handled by outcome (ok, partial, failed)"),
		[]string{"outcome"},
	)
	m.batchDuration = auto.NewHistogram(
		m.histogramOpts("batch_duration_milliseconds", "End-to-end batch duration", m.histogramBuckets),
	)
	m.batchSize = auto.NewHistogram(
		m.histogramOpts("batch_files", "Number of files per batch", []float64{1, 2, 5, 10, 20, 50, 100}),
	)
	m.teamsRanked = auto.NewGauge(
		m.gaugeOpts("teams_ranked", "Teams on the most recent leaderboard"),
	)
	m.uploadBytes = auto.NewHistogram(
		m.histogramOpts("upload_bytes", "Size of uploaded files in bytes", prometheus.ExponentialBuckets(1024, 4, 8)),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100}),
	)
}

// RecordSheet counts a processed sheet under outcome and observes its latency.
func RecordSheet(outcome string, latencyMs float64) {
	globalManager.sheetsProcessed.WithLabelValues(outcome).Inc()
	globalManager.sheetLatency.Observe(latencyMs)
}

// RecordUploadBytes observes the size of one uploaded file.
func RecordUploadBytes(n int) {
	globalManager.uploadBytes.Observe(float64(n))
}

// RecordBatch counts a finished batch and observes its size and duration.
func RecordBatch(outcome string, files int, durationMs float64) {
	globalManager.batches.WithLabelValues(outcome).Inc()
	globalManager.batchSize.Observe(float64(files))
	globalManager.batchDuration.Observe(durationMs)
}

// UpdateTeamsRanked sets the size of the latest leaderboard.
func UpdateTeamsRanked(n int) {
	globalManager.teamsRanked.Set(float64(n))
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByType records errors by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records errors by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage updates system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
