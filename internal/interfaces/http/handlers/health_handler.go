package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molsdg/pkg/types/common"
)

// HealthChecker is implemented by components that can report their health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) common.ComponentHealth
}

type pingChecker struct {
	name string
	ping func(ctx context.Context) error
}

// PingChecker adapts a ping function to a HealthChecker. A ping error marks
// the component down.
func PingChecker(name string, ping func(ctx context.Context) error) HealthChecker {
	return pingChecker{name: name, ping: ping}
}

func (p pingChecker) HealthCheck(ctx context.Context) common.ComponentHealth {
	h := common.ComponentHealth{Name: p.name, Status: common.HealthUp}
	start := time.Now()
	err := p.ping(ctx)
	h.Latency = time.Since(start)
	if err != nil {
		h.Status, h.Message = common.HealthDown, err.Error()
	}
	return h
}

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	checkers     []HealthChecker
	version      string
	startAt      time.Time
	checkTimeout time.Duration
	metrics      *prometheus.AppMetrics
	logger       logging.Logger
}

// HealthOption configures a HealthHandler.
type HealthOption func(*HealthHandler)

// WithHealthMetrics publishes every component status to the
// health_check_status gauge.
func WithHealthMetrics(m *prometheus.AppMetrics) HealthOption {
	return func(h *HealthHandler) { h.metrics = m }
}

// WithCheckTimeout bounds a readiness check.
func WithCheckTimeout(d time.Duration) HealthOption {
	return func(h *HealthHandler) {
		if d > 0 {
			h.checkTimeout = d
		}
	}
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(version string, logger logging.Logger, checkers []HealthChecker, opts ...HealthOption) *HealthHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	h := &HealthHandler{
		checkers:     checkers,
		version:      version,
		startAt:      time.Now(),
		checkTimeout: 5 * time.Second,
		logger:       logger.Named("http.health"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// LivenessResponse is the body of GET /healthz.
type LivenessResponse struct {
	Status  common.HealthStatus `json:"status"`
	Version string              `json:"version"`
	Uptime  string              `json:"uptime"`
}

// ReadinessResponse is the body of GET /readyz.
type ReadinessResponse struct {
	Status     common.HealthStatus      `json:"status"`
	Version    string                   `json:"version"`
	Components []common.ComponentHealth `json:"components"`
}

// Liveness handles GET /healthz. It never checks dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  common.HealthUp,
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz. Any component down yields 503; a degraded
// component keeps the service ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.checkTimeout)
	defer cancel()

	components := h.checkAll(ctx)
	status := overall(components)

	code := http.StatusOK
	if status == common.HealthDown {
		code = http.StatusServiceUnavailable
		h.logger.WithContext(r.Context()).Warn("readiness check failed", logging.Any("components", components))
	}
	writeJSON(w, code, ReadinessResponse{Status: status, Version: h.version, Components: components})
}

// checkAll runs all checkers concurrently. Results are sorted by name.
func (h *HealthHandler) checkAll(ctx context.Context) []common.ComponentHealth {
	results := make([]common.ComponentHealth, len(h.checkers))
	var wg sync.WaitGroup
	for i, checker := range h.checkers {
		wg.Add(1)
		go func(i int, c HealthChecker) {
			defer wg.Done()
			results[i] = c.HealthCheck(ctx)
		}(i, checker)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	if h.metrics != nil {
		for _, c := range results {
			h.metrics.HealthCheckStatus.WithLabelValues(c.Name).Set(gaugeValue(c.Status))
		}
	}
	return results
}

func overall(components []common.ComponentHealth) common.HealthStatus {
	status := common.HealthUp
	for _, c := range components {
		switch c.Status {
		case common.HealthDown:
			return common.HealthDown
		case common.HealthDegraded:
			status = common.HealthDegraded
		}
	}
	return status
}

func gaugeValue(s common.HealthStatus) float64 {
	switch s {
	case common.HealthUp:
		return 1
	case common.HealthDegraded:
		return 0.5
	default:
		return 0
	}
}

//Personal.AI order the ending
