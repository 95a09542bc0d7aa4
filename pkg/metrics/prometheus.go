// Package metrics provides Prometheus metrics for the Universus simulator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by callers.
const (
	KindSingle     = "single"
	KindMultisport = "multisport"

	OutcomeSide1 = "side1"
	OutcomeSide2 = "side2"
	OutcomeTie   = "tie"

	ChangePromoted      = "promoted"
	ChangeDemoted       = "demoted"
	ChangeRespecialized = "respecialized"
)

// latencyBuckets are tuned for in-process simulations (milliseconds).
var latencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000}

// Manager manages all Prometheus metrics for the simulator.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Simulation
	matchesTotal     *prometheus.CounterVec
	matchDuration    *prometheus.HistogramVec
	sportsResolved   *prometheus.CounterVec
	validationErrors *prometheus.CounterVec

	// Progression & roster
	progressionChanges *prometheus.CounterVec
	progressionCommits *prometheus.CounterVec
	rosterSize         *prometheus.GaugeVec
	storeErrors        *prometheus.CounterVec

	// Jobs
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueEnqueue      prometheus.Counter
	queueDequeue      prometheus.Counter
	queueEnqueueError *prometheus.CounterVec
	jobsProcessed     *prometheus.CounterVec
	jobsDuplicate     prometheus.Counter
	jobLatency        prometheus.Histogram
	workerCount       prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "universus",
		subsystem:        "sim",
		histogramBuckets: latencyBuckets,
		enabled:          true,
		constLabels:      map[string]string{},
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

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.matchesTotal = m.counterVec("matches_total",
		"Resolved matches by kind and outcome", "kind", "outcome")
	m.matchDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "match_duration_milliseconds",
		Help:        "Wall time spent resolving a match, progression included",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"kind"})
	m.sportsResolved = m.counterVec("sports_resolved_total",
		"Single-sport resolutions by sport and contest type", "sport", "type")
	m.validationErrors = m.counterVec("validation_errors_total",
		"Rejected simulation or roster requests by reason", "reason")

	m.progressionChanges = m.counterVec("progression_changes_total",
		"Tier drift changes applied to community participants", "change")
	m.progressionCommits = m.counterVec("progression_commits_total",
		"Progression commits by result", "result")
	m.rosterSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "roster_size",
		Help:        "Number of participants by origin",
		ConstLabels: m.constLabels,
	}, []string{"origin"})
	m.storeErrors = m.counterVec("store_errors_total",
		"Roster store failures by operation", "op")

	m.queueSize = m.gauge("job_queue_size", "Current number of queued match jobs")
	m.queueCapacity = m.gauge("job_queue_capacity", "Maximum job queue capacity")
	m.queueEnqueue = m.counter("job_queue_enqueue_total", "Match jobs enqueued")
	m.queueDequeue = m.counter("job_queue_dequeue_total", "Match jobs dequeued")
	m.queueEnqueueError = m.counterVec("job_queue_enqueue_errors_total",
		"Match jobs rejected by the queue", "reason")
	m.jobsProcessed = m.counterVec("jobs_processed_total",
		"Match jobs processed by final status", "status")
	m.jobsDuplicate = m.counter("jobs_duplicate_total",
		"Job submissions rejected as duplicates of an earlier request id")
	m.jobLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "job_latency_milliseconds",
		Help:        "Time from job dequeue to completion",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
	m.workerCount = m.gauge("worker_count", "Number of match workers")

	m.httpRequests = m.counterVec("http_requests_total",
		"HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
}

// RecordMatch counts a resolved match and its duration.
func (m *Manager) RecordMatch(kind, outcome string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.matchesTotal.WithLabelValues(kind, outcome).Inc()
	m.matchDuration.WithLabelValues(kind).Observe(durationMs)
}

// RecordSportResolved counts one single-sport resolution.
func (m *Manager) RecordSportResolved(sport, sportType string) {
	if !m.enabled {
		return
	}
	m.sportsResolved.WithLabelValues(sport, sportType).Inc()
}

// RecordValidationError counts a rejected request.
func (m *Manager) RecordValidationError(reason string) {
	if !m.enabled {
		return
	}
	m.validationErrors.WithLabelValues(reason).Inc()
}

// RecordProgressionChanges adds tier drift counts.
func (m *Manager) RecordProgressionChanges(promoted, demoted, respecialized int) {
	if !m.enabled {
		return
	}
	m.progressionChanges.WithLabelValues(ChangePromoted).Add(float64(promoted))
	m.progressionChanges.WithLabelValues(ChangeDemoted).Add(float64(demoted))
	m.progressionChanges.WithLabelValues(ChangeRespecialized).Add(float64(respecialized))
}

// RecordProgressionCommit counts a progression commit attempt.
func (m *Manager) RecordProgressionCommit(ok bool) {
	if !m.enabled {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.progressionCommits.WithLabelValues(result).Inc()
}

// UpdateRosterSize sets the participant gauge for an origin.
func (m *Manager) UpdateRosterSize(origin string, n int) {
	if !m.enabled {
		return
	}
	m.rosterSize.WithLabelValues(origin).Set(float64(n))
}

// RecordStoreError counts a failed roster store operation.
func (m *Manager) RecordStoreError(op string) {
	if !m.enabled {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}

// Package-level helpers delegate to the global manager.

func RecordMatch(kind, outcome string, durationMs float64) {
	globalManager.RecordMatch(kind, outcome, durationMs)
}

func RecordSportResolved(sport, sportType string) {
	globalManager.RecordSportResolved(sport, sportType)
}

func RecordValidationError(reason string) { globalManager.RecordValidationError(reason) }

func RecordProgressionChanges(promoted, demoted, respecialized int) {
	globalManager.RecordProgressionChanges(promoted, demoted, respecialized)
}

func RecordProgressionCommit(ok bool) { globalManager.RecordProgressionCommit(ok) }

func UpdateRosterSize(origin string, n int) { globalManager.UpdateRosterSize(origin, n) }

func RecordStoreError(op string) { globalManager.RecordStoreError(op) }

func UpdateQueueSize(size int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(size))
	}
}

func UpdateQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

func RecordQueueEnqueue() {
	if globalManager.enabled {
		globalManager.queueEnqueue.Inc()
	}
}

func RecordQueueDequeue() {
	if globalManager.enabled {
		globalManager.queueDequeue.Inc()
	}
}

func RecordQueueEnqueueError(reason string) {
	if globalManager.enabled {
		globalManager.queueEnqueueError.WithLabelValues(reason).Inc()
	}
}

func RecordJobProcessed(status string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.jobsProcessed.WithLabelValues(status).Inc()
		globalManager.jobLatency.Observe(latencyMs)
	}
}

func RecordJobDuplicate() {
	if globalManager.enabled {
		globalManager.jobsDuplicate.Inc()
	}
}

func UpdateWorkerCount(count int) {
	if globalManager.enabled {
		globalManager.workerCount.Set(float64(count))
	}
}

func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
