// Package metrics provides Prometheus metrics for the prediction engine.
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
	registry         prometheus.Registerer

	// Business metrics - settlement pipeline
	settlementsProcessed prometheus.Counter
	settlementsDuplicate prometheus.Counter
	settlementLatency    prometheus.Histogram
	predictionsScored    prometheus.Counter
	predictionPoints     prometheus.Histogram
	matchesAnalyzed      prometheus.Counter

	// Business metrics - achievements and ratings
	badgesAwarded       *prometheus.CounterVec
	badgeChecks         prometheus.Counter
	ratingSaves         prometheus.Counter
	ratingSaveConflicts prometheus.Counter
	standingsUpdates    prometheus.Counter

	// Operational health
	queueSize    prometheus.Gauge
	workerCount  prometheus.Gauge
	totalUsers   prometheus.Gauge
	pipelineErrs prometheus.Counter

	// Store metrics
	storeUpdateLatency prometheus.Histogram
	storeQueryLatency  prometheus.Histogram

	// Queue metrics
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker metrics
	workerActiveCount       prometheus.Gauge
	workerIdleCount         prometheus.Gauge
	workerMessagesPerSecond prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorRateByComponent *prometheus.CounterVec

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
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "panenka",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // metric registration is one long list
	auto := promauto.With(m.registry)

	m.settlementsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "settlements_processed_total",
		Help:      "Total number of match settlements successfully processed",
	})

	m.settlementsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "settlements_duplicate_total",
		Help:      "Total number of duplicate settlements detected",
	})

	m.settlementLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "settlement_latency_milliseconds",
		Help:      "End-to-end settlement processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.predictionsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_scored_total",
		Help:      "Total number of individual predictions scored",
	})

	m.predictionPoints = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_points",
		Help:      "Distribution of final points per scored prediction",
		Buckets:   []float64{-60, -30, 0, 10, 20, 35, 50, 70, 90},
	})

	m.matchesAnalyzed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_analyzed_total",
		Help:      "Total number of match analysis reports produced",
	})

	m.badgesAwarded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "badges_awarded_total",
			Help:      "Total number of badges awarded, by tier",
		},
		[]string{"tier"},
	)

	m.badgeChecks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "badge_checks_total",
		Help:      "Total number of badge award evaluations",
	})

	m.ratingSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_saves_total",
		Help:      "Total number of committed coach/player ratings",
	})

	m.ratingSaveConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_save_conflicts_total",
		Help:      "Total number of rating saves rejected by the one-shot lock",
	})

	m.standingsUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "standings_updates_total",
		Help:      "Total number of standings updates",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the settlement queue (backlog indicator)",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Current number of settlement workers",
	})

	m.totalUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_users",
		Help:      "Total number of users in the standings",
	})

	m.pipelineErrs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_errors_total",
		Help:      "Total number of settlement pipeline errors",
	})

	m.storeUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_update_latency_milliseconds",
		Help:      "Store write operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Store read operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum queue capacity",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization_ratio",
		Help:      "Queue utilization ratio (current size / capacity)",
	})

	m.queueEnqueueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of settlements enqueued",
	})

	m.queueDequeueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of settlements dequeued",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of enqueue errors",
	})

	m.queueProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_processing_latency_milliseconds",
		Help:      "Queue processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Number of active workers",
	})

	m.workerIdleCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_idle_count",
		Help:      "Number of idle workers",
	})

	m.workerMessagesPerSecond = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_messages_per_second",
		Help:      "Average settlements processed per second by workers",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Worker processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrorRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of worker errors",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordSettlementProcessed increments the settlements processed counter.
func RecordSettlementProcessed() {
	globalManager.settlementsProcessed.Inc()
}

// RecordSettlementDuplicate increments the duplicate settlements counter.
func RecordSettlementDuplicate() {
	globalManager.settlementsDuplicate.Inc()
}

// RecordSettlementLatency records end-to-end settlement latency in milliseconds.
func RecordSettlementLatency(latencyMs float64) {
	globalManager.settlementLatency.Observe(latencyMs)
}

// RecordPredictionScored counts n scored predictions.
func RecordPredictionScored(n int) {
	globalManager.predictionsScored.Add(float64(n))
}

// ObservePredictionPoints records the final points of one scored prediction.
func ObservePredictionPoints(points int) {
	globalManager.predictionPoints.Observe(float64(points))
}

// RecordMatchAnalyzed increments the analysis reports counter.
func RecordMatchAnalyzed() {
	globalManager.matchesAnalyzed.Inc()
}

// RecordBadgeAwarded counts one awarded badge by tier.
func RecordBadgeAwarded(tier string) {
	globalManager.badgesAwarded.WithLabelValues(tier).Inc()
}

// RecordBadgeCheck increments the badge evaluation counter.
func RecordBadgeCheck() {
	globalManager.badgeChecks.Inc()
}

// RecordRatingSave increments the committed ratings counter.
func RecordRatingSave() {
	globalManager.ratingSaves.Inc()
}

// RecordRatingConflict increments the one-shot lock conflict counter.
func RecordRatingConflict() {
	globalManager.ratingSaveConflicts.Inc()
}

// RecordStandingsUpdate increments the standings updates counter.
func RecordStandingsUpdate() {
	globalManager.standingsUpdates.Inc()
}

// RecordPipelineError increments the settlement pipeline error counter.
func RecordPipelineError() {
	globalManager.pipelineErrs.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateTotalUsers sets the total users count.
func UpdateTotalUsers(count int) {
	globalManager.totalUsers.Set(float64(count))
}

// RecordStoreUpdateLatency records store write latency in milliseconds.
func RecordStoreUpdateLatency(latencyMs float64) {
	globalManager.storeUpdateLatency.Observe(latencyMs)
}

// RecordStoreQueryLatency records store read latency in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
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

// RecordQueueProcessingLatency records queue processing latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerIdleCount sets the number of idle workers.
func UpdateWorkerIdleCount(count int) {
	globalManager.workerIdleCount.Set(float64(count))
}

// UpdateWorkerMessagesPerSecond sets the average settlements processed per second.
func UpdateWorkerMessagesPerSecond(rate float64) {
	globalManager.workerMessagesPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

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
