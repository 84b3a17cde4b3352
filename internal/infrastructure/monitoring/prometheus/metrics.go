package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the layout service records.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Layout pipeline
	LayoutRequestsTotal CounterVec
	LayoutDuration      HistogramVec
	LayoutStageDuration HistogramVec
	LayoutAtoms         HistogramVec
	RingsPerceivedTotal CounterVec
	ChainsFoundTotal    CounterVec
	DiagnosticsTotal    CounterVec

	// Infrastructure
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	ArchiveWritesTotal     CounterVec
	WorkerMessagesTotal    CounterVec
	MessageProcessDuration HistogramVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default buckets.
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultLayoutDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}
	DefaultAtomCountBuckets      = []float64{5, 10, 20, 40, 80, 120, 160, 250}
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	// Layout
	m.LayoutRequestsTotal = collector.RegisterCounter("layout_requests_total", "Layout requests by outcome", "source", "status")
	m.LayoutDuration = collector.RegisterHistogram("layout_duration_seconds", "End-to-end layout duration", DefaultLayoutDurationBuckets, "source")
	m.LayoutStageDuration = collector.RegisterHistogram("layout_stage_duration_seconds", "Duration of each layout stage", DefaultLayoutDurationBuckets, "stage")
	m.LayoutAtoms = collector.RegisterHistogram("layout_atoms", "Atoms per laid-out molecule", DefaultAtomCountBuckets, "source")
	m.RingsPerceivedTotal = collector.RegisterCounter("rings_perceived_total", "Rings perceived by ring type", "type")
	m.ChainsFoundTotal = collector.RegisterCounter("chains_found_total", "Acyclic chains found")
	m.DiagnosticsTotal = collector.RegisterCounter("diagnostics_total", "Layout diagnostics by code", "code", "severity")

	// Infrastructure
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.ArchiveWritesTotal = collector.RegisterCounter("archive_writes_total", "Layout archive writes", "status")
	m.WorkerMessagesTotal = collector.RegisterCounter("worker_messages_total", "Messages handled by the layout worker", "topic", "status")
	m.MessageProcessDuration = collector.RegisterHistogram("mq_process_duration_seconds", "Message processing duration", DefaultHTTPDurationBuckets, "topic")

	// System health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_code")

	return m
}

// NewNoopAppMetrics returns metrics that record nothing.
func NewNoopAppMetrics() *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:      noopCounterVec{},
		HTTPRequestDuration:    noopHistogramVec{},
		HTTPActiveRequests:     noopGaugeVec{},
		LayoutRequestsTotal:    noopCounterVec{},
		LayoutDuration:         noopHistogramVec{},
		LayoutStageDuration:    noopHistogramVec{},
		LayoutAtoms:            noopHistogramVec{},
		RingsPerceivedTotal:    noopCounterVec{},
		ChainsFoundTotal:       noopCounterVec{},
		DiagnosticsTotal:       noopCounterVec{},
		CacheHitsTotal:         noopCounterVec{},
		CacheMissesTotal:       noopCounterVec{},
		ArchiveWritesTotal:     noopCounterVec{},
		WorkerMessagesTotal:    noopCounterVec{},
		MessageProcessDuration: noopHistogramVec{},
		HealthCheckStatus:      noopGaugeVec{},
		ErrorsTotal:            noopCounterVec{},
	}
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordLayout records one finished layout. status is "complete",
// "partial" or "failed".
func RecordLayout(metrics *AppMetrics, source, status string, atoms int, duration time.Duration) {
	metrics.LayoutRequestsTotal.WithLabelValues(source, status).Inc()
	metrics.LayoutDuration.WithLabelValues(source).Observe(duration.Seconds())
	if atoms > 0 {
		metrics.LayoutAtoms.WithLabelValues(source).Observe(float64(atoms))
	}
}

func RecordStage(metrics *AppMetrics, stage string, duration time.Duration) {
	metrics.LayoutStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

func RecordDiagnostic(metrics *AppMetrics, code, severity string) {
	metrics.DiagnosticsTotal.WithLabelValues(code, severity).Inc()
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordWorkerMessage(metrics *AppMetrics, topic string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.WorkerMessagesTotal.WithLabelValues(topic, status).Inc()
	metrics.MessageProcessDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

func RecordError(metrics *AppMetrics, component, code string) {
	metrics.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
