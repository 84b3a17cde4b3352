package prometheus

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	c := newTestCollector(t)
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_AllMetricsRegistered(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.LayoutRequestsTotal)
	assert.NotNil(t, m.LayoutStageDuration)
	assert.NotNil(t, m.DiagnosticsTotal)
	assert.NotNil(t, m.WorkerMessagesTotal)
	assert.NotNil(t, m.ErrorsTotal)
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordHTTPRequest(m, "POST", "/api/v1/layout", 200, 40*time.Millisecond)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_http_requests_total{method="POST",path="/api/v1/layout",status_code="200"} 1`)
	assert.Contains(t, output, `test_unit_http_request_duration_seconds_count{method="POST",path="/api/v1/layout"} 1`)
}

func TestRecordLayout(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordLayout(m, "smiles", "complete", 10, time.Millisecond)
	RecordLayout(m, "example", "partial", 0, time.Millisecond)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_layout_requests_total{source="smiles",status="complete"} 1`)
	assert.Contains(t, output, `test_unit_layout_requests_total{source="example",status="partial"} 1`)
	assert.Contains(t, output, `test_unit_layout_atoms_sum{source="smiles"} 10`)
	assert.NotContains(t, output, `test_unit_layout_atoms_sum{source="example"}`)
}

func TestRecordStageAndDiagnostic(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordStage(m, "rings", 2*time.Millisecond)
	RecordDiagnostic(m, "LAY_004", "error")
	RecordDiagnostic(m, "LAY_004", "error")

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_layout_stage_duration_seconds_count{stage="rings"} 1`)
	assert.Contains(t, output, `test_unit_diagnostics_total{code="LAY_004",severity="error"} 2`)
}

func TestRecordCacheAccess(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordCacheAccess(m, "layout", true)
	RecordCacheAccess(m, "layout", false)
	RecordCacheAccess(m, "layout", false)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_cache_hits_total{cache="layout"} 1`)
	assert.Contains(t, output, `test_unit_cache_misses_total{cache="layout"} 2`)
}

func TestRecordWorkerMessage(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordWorkerMessage(m, "layout.requests", nil, time.Millisecond)
	RecordWorkerMessage(m, "layout.requests", errors.New("boom"), time.Millisecond)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_worker_messages_total{status="ok",topic="layout.requests"} 1`)
	assert.Contains(t, output, `test_unit_worker_messages_total{status="error",topic="layout.requests"} 1`)
}

func TestRecordError(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordError(m, "cache", "COMMON_004")
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_errors_total{component="cache",error_code="COMMON_004"} 1`)
}

func TestNoopAppMetrics(t *testing.T) {
	m := NewNoopAppMetrics()
	assert.NotPanics(t, func() {
		RecordHTTPRequest(m, "GET", "/", 200, time.Millisecond)
		RecordLayout(m, "smiles", "complete", 6, time.Millisecond)
		RecordStage(m, "parse", time.Millisecond)
		RecordDiagnostic(m, "LAY_004", "error")
		RecordCacheAccess(m, "layout", true)
		RecordWorkerMessage(m, "t", nil, time.Millisecond)
		RecordError(m, "x", "y")
		m.HealthCheckStatus.WithLabelValues("redis").Set(1)
		m.HTTPActiveRequests.WithLabelValues("GET").Dec()
	})
}

func TestDefaultBuckets(t *testing.T) {
	assert.IsIncreasing(t, DefaultHTTPDurationBuckets)
	assert.IsIncreasing(t, DefaultLayoutDurationBuckets)
	assert.IsIncreasing(t, DefaultAtomCountBuckets)
}

func TestConcurrentMetricRecording(t *testing.T) {
	m, c := newTestAppMetrics(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordCacheAccess(m, "layout", true)
		}()
	}
	wg.Wait()
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_cache_hits_total{cache="layout"} 20`)
}

//Personal.AI order the ending
