// Package metrics provides Prometheus metrics for the profile analyzer service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the analyzer.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Upstream (GitHub API) metrics
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	pagesFetched     *prometheus.CounterVec
	feedStops        *prometheus.CounterVec

	// Aggregation metrics
	eventsClassified *prometheus.CounterVec
	malformedRecords *prometheus.CounterVec
	degradedMetrics  *prometheus.CounterVec
	ratings          prometheus.Histogram
	aggregateLatency prometheus.Histogram

	// Cache metrics
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheErrors prometheus.Counter

	// Insight generation
	insightRequests *prometheus.CounterVec
	insightLatency  prometheus.Histogram

	// Persistence queue and workers
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueueErrors      prometheus.Counter
	queueDequeued           prometheus.Counter
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter
	profilesStored          prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ghopt",
		subsystem:        "analyzer",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often gauge updaters should sample.
func RefreshInterval() time.Duration { return globalManager.refreshInterval }

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	m.upstreamRequests = m.counterVec("upstream_requests_total",
		"GitHub API calls by endpoint and outcome", "endpoint", "outcome")
	m.upstreamLatency = m.histogramVec("upstream_latency_milliseconds",
		"GitHub API call latency in milliseconds", "endpoint")
	m.pagesFetched = m.counterVec("pages_fetched_total",
		"Paginated list pages fetched by endpoint", "endpoint")
	m.feedStops = m.counterVec("feed_stops_total",
		"Event feed terminations by reason", "reason")

	m.eventsClassified = m.counterVec("events_classified_total",
		"Events classified by kind", "kind")
	m.malformedRecords = m.counterVec("malformed_records_total",
		"Upstream records skipped because they could not be parsed", "record")
	m.degradedMetrics = m.counterVec("degraded_metrics_total",
		"Secondary metrics degraded to their default after a failed fetch", "metric")
	m.ratings = m.histogram("rating",
		"Distribution of computed profile ratings", []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100})
	m.aggregateLatency = m.histogram("aggregate_latency_milliseconds",
		"End-to-end profile aggregation latency in milliseconds", m.histogramBuckets)

	m.cacheHits = m.counter("cache_hits_total", "Profile summary cache hits")
	m.cacheMisses = m.counter("cache_misses_total", "Profile summary cache misses")
	m.cacheErrors = m.counter("cache_errors_total", "Profile summary cache failures")

	m.insightRequests = m.counterVec("insight_requests_total",
		"Narrative insight generations by outcome", "outcome")
	m.insightLatency = m.histogram("insight_latency_milliseconds",
		"Narrative insight generation latency in milliseconds", m.histogramBuckets)

	m.queueSize = m.gauge("persist_queue_size", "Current number of pending persistence jobs")
	m.queueCapacity = m.gauge("persist_queue_capacity", "Maximum number of pending persistence jobs")
	m.queueEnqueueErrors = m.counter("persist_queue_enqueue_errors_total", "Persistence jobs dropped at enqueue")
	m.queueDequeued = m.counter("persist_queue_dequeued_total", "Persistence jobs handed to workers")
	m.workerCount = m.gauge("persist_worker_count", "Number of persistence workers")
	m.workerProcessingLatency = m.histogram("persist_worker_latency_milliseconds",
		"Persistence job latency in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counter("persist_worker_errors_total", "Persistence jobs that failed")
	m.profilesStored = m.gauge("profiles_stored", "Number of profiles in the store")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total",
		"Errors by component and type", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total",
		"Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordUpstreamRequest counts one GitHub API call.
func RecordUpstreamRequest(endpoint, outcome string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	globalManager.upstreamLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// RecordPageFetched counts one page of a paginated listing.
func RecordPageFetched(endpoint string) {
	if !globalManager.enabled {
		return
	}
	globalManager.pagesFetched.WithLabelValues(endpoint).Inc()
}

// RecordFeedStop counts why an event feed stopped paginating.
func RecordFeedStop(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.feedStops.WithLabelValues(reason).Inc()
}

// RecordEventClassified counts one classified event.
func RecordEventClassified(kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.eventsClassified.WithLabelValues(kind).Inc()
}

// RecordMalformedRecord counts one skipped upstream record.
func RecordMalformedRecord(record string) {
	if !globalManager.enabled {
		return
	}
	globalManager.malformedRecords.WithLabelValues(record).Inc()
}

// RecordDegradedMetric counts a secondary metric falling back to its default.
func RecordDegradedMetric(metric string) {
	if !globalManager.enabled {
		return
	}
	globalManager.degradedMetrics.WithLabelValues(metric).Inc()
}

// RecordRating observes a computed rating.
func RecordRating(rating int) {
	if !globalManager.enabled {
		return
	}
	globalManager.ratings.Observe(float64(rating))
}

// RecordAggregateLatency observes the latency of a full profile aggregation.
func RecordAggregateLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.aggregateLatency.Observe(latencyMs)
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheMisses.Inc()
}

// RecordCacheError increments the cache error counter.
func RecordCacheError() {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheErrors.Inc()
}

// RecordInsight counts one insight generation attempt.
func RecordInsight(outcome string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.insightRequests.WithLabelValues(outcome).Inc()
	globalManager.insightLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current persistence queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the persistence queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError increments the dropped-job counter.
func RecordQueueEnqueueError() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueDequeue increments the dequeued-job counter.
func RecordQueueDequeue() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueDequeued.Inc()
}

// UpdateWorkerCount sets the number of persistence workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency observes how long one persistence job took.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the failed-job counter.
func RecordWorkerError() {
	if !globalManager.enabled {
		return
	}
	globalManager.workerErrors.Inc()
}

// UpdateProfilesStored sets the number of stored profiles.
func UpdateProfilesStored(count int) {
	globalManager.profilesStored.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error for a component.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error for an HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry every global metric is registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Since returns the milliseconds elapsed since start, the unit every latency
// metric in this package uses.
func Since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
