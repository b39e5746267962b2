// Package metrics provides Prometheus metrics for the genemap pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Query client metrics
	searches        prometheus.Counter
	fetches         prometheus.Counter
	requestRetries  prometheus.Counter
	retryExhausted  prometheus.Counter
	requestLatency  *prometheus.HistogramVec
	requestFailures *prometheus.CounterVec

	// Resolution metrics
	resolved       *prometheus.CounterVec
	unresolved     *prometheus.CounterVec
	symbolLatency  prometheus.Histogram
	symbolsPending prometheus.Gauge

	// Queue and worker metrics
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge
	enqueues      prometheus.Counter
	dequeues      prometheus.Counter
	enqueueErrors prometheus.Counter
	workerCount   prometheus.Gauge
	workerErrors  prometheus.Counter

	// Enrichment and extraction metrics
	infoFetched      prometheus.Counter
	infoFailed       prometheus.Counter
	samplesExtracted *prometheus.CounterVec
	samplesSkipped   *prometheus.CounterVec
	genesKept        prometheus.Gauge
	genesDropped     prometheus.Gauge

	// Ops HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "genemap",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.searches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "esearch_requests_total",
		Help:      "Total number of successful ESearch calls",
	})

	m.fetches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "efetch_requests_total",
		Help:      "Total number of successful EFetch calls",
	})

	m.requestRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "request_retries_total",
		Help:      "Total number of retried transient request failures",
	})

	m.retryExhausted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "retry_exhausted_total",
		Help:      "Total number of calls that exhausted their retry budget",
	})

	m.requestLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "request_latency_seconds",
			Help:      "Latency of remote gene-database calls by endpoint",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint"},
	)

	m.requestFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "request_failures_total",
			Help:      "Total request failures by endpoint and kind",
		},
		[]string{"endpoint", "kind"},
	)

	m.resolved = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "symbols_resolved_total",
			Help:      "Total symbols resolved, labeled by match rule",
		},
		[]string{"match"},
	)

	m.unresolved = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "symbols_unresolved_total",
			Help:      "Total symbols left unresolved, labeled by reason",
		},
		[]string{"reason"},
	)

	m.symbolLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "symbol_resolution_latency_seconds",
		Help:      "Wall time to fully resolve one symbol including candidate fetches",
		Buckets:   m.histogramBuckets,
	})

	m.symbolsPending = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "symbols_pending",
		Help:      "Symbols still waiting for resolution in the current run",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the symbol job queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum capacity of the symbol job queue",
	})

	m.enqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of symbol jobs enqueued",
	})

	m.dequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of symbol jobs dequeued",
	})

	m.enqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of enqueue failures",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of resolution workers in the pool",
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of worker-level errors",
	})

	m.infoFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "gene_info_fetched_total",
		Help:      "Total gene metadata records fetched during enrichment",
	})

	m.infoFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "gene_info_failed_total",
		Help:      "Total gene metadata fetches that failed after retries",
	})

	m.samplesExtracted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "samples_extracted_total",
		Help:      "Total expression samples read into matrices",
	}, []string{"dataset"})

	m.samplesSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "samples_skipped_total",
		Help:      "Total samples skipped by reason (vial, duplicate, unreadable, malformed)",
	}, []string{"reason"})

	m.genesKept = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "genes_kept",
		Help:      "Gene columns kept by the last low-expression filter",
	})

	m.genesDropped = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "genes_dropped",
		Help:      "Gene columns dropped by the last low-expression filter",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total ops HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "Ops HTTP request duration by endpoint and status",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordSearch increments the ESearch counter.
func RecordSearch() { globalManager.searches.Inc() }

// RecordFetch increments the EFetch counter.
func RecordFetch() { globalManager.fetches.Inc() }

// RecordRequestRetry increments the retried-request counter.
func RecordRequestRetry() { globalManager.requestRetries.Inc() }

// RecordRetryExhausted increments the exhausted-retry counter.
func RecordRetryExhausted() { globalManager.retryExhausted.Inc() }

// RecordRequestLatency records the latency of a remote call.
func RecordRequestLatency(endpoint string, seconds float64) {
	globalManager.requestLatency.WithLabelValues(endpoint).Observe(seconds)
}

// RecordRequestFailure records a failed remote call by kind.
func RecordRequestFailure(endpoint, kind string) {
	globalManager.requestFailures.WithLabelValues(endpoint, kind).Inc()
}

// RecordResolved increments the resolved counter for a match rule.
func RecordResolved(match string) {
	globalManager.resolved.WithLabelValues(match).Inc()
}

// RecordUnresolved increments the unresolved counter for a reason.
func RecordUnresolved(reason string) {
	globalManager.unresolved.WithLabelValues(reason).Inc()
}

// RecordSymbolLatency records the total wall time for one symbol.
func RecordSymbolLatency(seconds float64) {
	globalManager.symbolLatency.Observe(seconds)
}

// UpdateSymbolsPending sets the pending-symbol gauge.
func UpdateSymbolsPending(n int) {
	globalManager.symbolsPending.Set(float64(n))
}

// UpdateQueueSize sets the queue size gauge.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordEnqueue increments the enqueue counter.
func RecordEnqueue() { globalManager.enqueues.Inc() }

// RecordDequeue increments the dequeue counter.
func RecordDequeue() { globalManager.dequeues.Inc() }

// RecordEnqueueError increments the enqueue error counter.
func RecordEnqueueError() { globalManager.enqueueErrors.Inc() }

// UpdateWorkerCount sets the worker count gauge.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// RecordInfoFetched increments the enrichment success counter.
func RecordInfoFetched() { globalManager.infoFetched.Inc() }

// RecordInfoFailed increments the enrichment failure counter.
func RecordInfoFailed() { globalManager.infoFailed.Inc() }

// RecordSampleExtracted increments the extracted-sample counter.
func RecordSampleExtracted(dataset string) {
	globalManager.samplesExtracted.WithLabelValues(dataset).Inc()
}

// RecordSampleSkipped increments the skipped-sample counter.
func RecordSampleSkipped(reason string) {
	globalManager.samplesSkipped.WithLabelValues(reason).Inc()
}

// UpdateGeneFilter sets the kept/dropped gauges after a column filter pass.
func UpdateGeneFilter(kept, dropped int) {
	globalManager.genesKept.Set(float64(kept))
	globalManager.genesDropped.Set(float64(dropped))
}

// RecordHTTPRequest records an ops HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records ops HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(seconds)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
