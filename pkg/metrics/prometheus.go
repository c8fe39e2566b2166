// Package metrics provides Prometheus metrics for the derby match simulator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the derby service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Match lifecycle
	matchesScheduled prometheus.Counter
	matchesStarted   prometheus.Counter
	matchesFinished  *prometheus.CounterVec
	matchesAborted   prometheus.Counter
	matchesActive    prometheus.Gauge
	matchDuration    prometheus.Histogram
	goalsPerMatch    prometheus.Histogram

	// Engine
	minutesSimulated prometheus.Counter
	matchEvents      *prometheus.CounterVec
	renderFallbacks  prometheus.Counter
	deliveryErrors   prometheus.Counter

	// Roster store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec
	teamsTotal   prometheus.Gauge

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
	customRegistry.MustRegister(collectors.NewBuildInfoCollector())
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "derby",
		subsystem:        "sim",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval returns how often gauge-style metrics should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.matchesScheduled = auto.NewCounter(m.counterOpts("matches_scheduled_total", "Total number of matches accepted for simulation"))
	m.matchesStarted = auto.NewCounter(m.counterOpts("matches_started_total", "Total number of matches that kicked off"))
	m.matchesFinished = auto.NewCounterVec(m.counterOpts("matches_finished_total", "Total number of matches played to the final whistle by result"), []string{"result"})
	m.matchesAborted = auto.NewCounter(m.counterOpts("matches_aborted_total", "Total number of matches aborted by an engine failure or cancellation"))
	m.matchesActive = auto.NewGauge(m.gaugeOpts("matches_active", "Number of matches currently being simulated"))
	m.matchDuration = auto.NewHistogram(m.histogramOpts("match_duration_milliseconds", "Wall-clock duration of a match simulation in milliseconds",
		[]float64{1, 5, 10, 50, 100, 500, 1000, 5000, 30000, 120000, 600000}))
	m.goalsPerMatch = auto.NewHistogram(m.histogramOpts("goals_per_match", "Total goals scored in a finished match",
		[]float64{0, 1, 2, 3, 4, 5, 6, 8, 10}))

	m.minutesSimulated = auto.NewCounter(m.counterOpts("minutes_simulated_total", "Total number of simulated match minutes"))
	m.matchEvents = auto.NewCounterVec(m.counterOpts("match_events_total", "Total number of resolved match events by type"), []string{"type"})
	m.renderFallbacks = auto.NewCounter(m.counterOpts("render_fallbacks_total", "Commentary lines that fell back to the raw template"))
	m.deliveryErrors = auto.NewCounter(m.counterOpts("delivery_errors_total", "Feed lines that could not be delivered"))

	m.storeLatency = auto.NewHistogramVec(m.histogramOpts("store_latency_milliseconds", "Roster store operation latency in milliseconds", m.histogramBuckets),
		[]string{"op"})
	m.storeErrors = auto.NewCounterVec(m.counterOpts("store_errors_total", "Roster store operation errors"), []string{"op"})
	m.teamsTotal = auto.NewGauge(m.gaugeOpts("teams_total", "Number of teams in the roster store"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of matches waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of fixtures enqueued"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of fixtures dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Total number of rejected enqueues"))
	m.queueProcessingLatency = auto.NewHistogram(m.histogramOpts("queue_processing_latency_milliseconds", "Time a fixture spent in the queue in milliseconds", m.histogramBuckets))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured number of match workers"))
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Number of workers currently running a match"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Worker processing latency in milliseconds", m.histogramBuckets))
	m.workerErrorRate = auto.NewCounter(m.counterOpts("worker_errors_total", "Total number of worker errors"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Match lifecycle.

// RecordMatchScheduled increments the scheduled matches counter.
func RecordMatchScheduled() {
	if !globalManager.enabled {
		return
	}
	globalManager.matchesScheduled.Inc()
}

// RecordMatchStarted increments the started counter and the active gauge.
func RecordMatchStarted() {
	if !globalManager.enabled {
		return
	}
	globalManager.matchesStarted.Inc()
	globalManager.matchesActive.Inc()
}

// RecordMatchFinished records a completed match with its result label
// ("home", "away" or "draw"), total goals and wall-clock duration.
func RecordMatchFinished(result string, goals int, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.matchesFinished.WithLabelValues(result).Inc()
	globalManager.matchesActive.Dec()
	globalManager.goalsPerMatch.Observe(float64(goals))
	globalManager.matchDuration.Observe(durationMs)
}

// RecordMatchAborted records a match that stopped before the final whistle.
func RecordMatchAborted(durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.matchesAborted.Inc()
	globalManager.matchesActive.Dec()
	globalManager.matchDuration.Observe(durationMs)
}

// Engine.

// RecordMinuteSimulated increments the simulated minutes counter.
func RecordMinuteSimulated() {
	if !globalManager.enabled {
		return
	}
	globalManager.minutesSimulated.Inc()
}

// RecordMatchEvent counts a resolved event by type.
func RecordMatchEvent(eventType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.matchEvents.WithLabelValues(eventType).Inc()
}

// RecordRenderFallback counts a commentary line that used the raw template.
func RecordRenderFallback() {
	if !globalManager.enabled {
		return
	}
	globalManager.renderFallbacks.Inc()
}

// RecordDeliveryError counts a feed line that could not be delivered.
func RecordDeliveryError() {
	if !globalManager.enabled {
		return
	}
	globalManager.deliveryErrors.Inc()
}

// Roster store.

// RecordStoreLatency records a roster store operation latency.
func RecordStoreLatency(op string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreError counts a failed roster store operation.
func RecordStoreError(op string) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// UpdateTeamsTotal sets the number of stored teams.
func UpdateTeamsTotal(count int) {
	globalManager.teamsTotal.Set(float64(count))
}

// Queue.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records how long a fixture waited in the queue.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Workers.

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
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

// Errors.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
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

// RefreshInterval returns the global manager's gauge refresh interval.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
