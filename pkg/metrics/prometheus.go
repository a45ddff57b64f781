// Package metrics provides Prometheus metrics for the journal dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Journal grid
	gridOperations   *prometheus.CounterVec
	validationErrors *prometheus.CounterVec
	gridColumns      prometheus.Gauge
	gridCells        prometheus.Gauge
	gridSavedCells   prometheus.Gauge
	participants     prometheus.Gauge

	// Collaborator calls (remote REST API or SQL backend)
	backendCalls   *prometheus.CounterVec
	backendLatency *prometheus.HistogramVec

	// Report jobs
	queueCapacity      prometheus.Gauge
	queueSize          prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec
	workerCount        prometheus.Gauge
	jobsProcessed      *prometheus.CounterVec
	jobLatency         prometheus.Histogram

	// Exports
	exports *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "journal",
		subsystem:        "dashboard",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.gridOperations = m.counterVec("grid_operations_total",
		"Journal grid operations by operation and outcome", "operation", "outcome")
	m.validationErrors = m.counterVec("grid_validation_errors_total",
		"Score values rejected before any remote call", "operation")
	m.gridColumns = m.gauge("grid_columns", "Date columns currently shown in the journal grid")
	m.gridCells = m.gauge("grid_cells", "Score cells currently held by the journal grid")
	m.gridSavedCells = m.gauge("grid_saved_cells", "Score cells persisted and locked")
	m.participants = m.gauge("participants", "Participants loaded into the journal grid")

	m.backendCalls = m.counterVec("backend_calls_total",
		"Collaborator calls by backend, operation and outcome", "backend", "operation", "outcome")
	m.backendLatency = m.histogramVec("backend_call_duration_milliseconds",
		"Collaborator call latency in milliseconds", "backend", "operation")

	m.queueCapacity = m.gauge("report_queue_capacity", "Maximum number of pending report jobs")
	m.queueSize = m.gauge("report_queue_size", "Pending report jobs")
	m.queueEnqueued = m.counter("report_queue_enqueued_total", "Report jobs accepted by the queue")
	m.queueDequeued = m.counter("report_queue_dequeued_total", "Report jobs handed to workers")
	m.queueEnqueueErrors = m.counterVec("report_queue_enqueue_errors_total",
		"Report jobs rejected by the queue", "reason")
	m.workerCount = m.gauge("report_workers", "Report worker goroutines")
	m.jobsProcessed = m.counterVec("report_jobs_processed_total",
		"Report jobs processed by kind and outcome", "kind", "outcome")
	m.jobLatency = promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "report_job_duration_milliseconds",
		Help:        "Report job processing latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.exports = m.counterVec("exports_total", "Journal exports written to blob storage", "driver", "outcome")

	m.httpRequests = m.counterVec("http_requests_total",
		"HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total",
		"HTTP errors by endpoint", "endpoint", "method", "error_type")
	m.errorsByType = m.counterVec("errors_by_type_total",
		"Errors by type and severity", "error_type", "severity")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})
}

// Journal grid.

// RecordGridOperation counts one grid operation with its outcome
// ("ok", "validation", "remote", "locked", "cancelled").
func RecordGridOperation(operation, outcome string) {
	globalManager.gridOperations.WithLabelValues(operation, outcome).Inc()
	if outcome == "validation" {
		globalManager.validationErrors.WithLabelValues(operation).Inc()
	}
}

// UpdateGridSize publishes the current grid dimensions.
func UpdateGridSize(columns, cells, saved, participants int) {
	globalManager.gridColumns.Set(float64(columns))
	globalManager.gridCells.Set(float64(cells))
	globalManager.gridSavedCells.Set(float64(saved))
	globalManager.participants.Set(float64(participants))
}

// Collaborators.

// RecordBackendCall records a collaborator call and its latency.
func RecordBackendCall(backend, operation string, err error, latencyMs float64) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	globalManager.backendCalls.WithLabelValues(backend, operation, outcome).Inc()
	globalManager.backendLatency.WithLabelValues(backend, operation).Observe(latencyMs)
}

// Report queue and workers.

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a rejected job.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordJobProcessed records a finished report job.
func RecordJobProcessed(kind, outcome string, latencyMs float64) {
	globalManager.jobsProcessed.WithLabelValues(kind, outcome).Inc()
	globalManager.jobLatency.Observe(latencyMs)
}

// Exports.

// RecordExport counts an export attempt for a blob driver.
func RecordExport(driver string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	globalManager.exports.WithLabelValues(driver, outcome).Inc()
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
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
