package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molsdg/internal/interfaces/http/handlers"
	"github.com/turtacn/molsdg/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies of the
// route tree.
type RouterConfig struct {
	// Handlers
	LayoutHandler *handlers.LayoutHandler
	HealthHandler *handlers.HealthHandler

	// Middleware
	CORSOrigins   []string
	LoggingConfig *middleware.LoggingConfig

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter constructs the HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logCfg := middleware.DefaultLoggingConfig()
	if cfg.LoggingConfig != nil {
		logCfg = *cfg.LoggingConfig
	}

	r := chi.NewRouter()

	// --- Global middleware (applied to every request) ---
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	}
	r.Use(middleware.RequestLogging(logger, cfg.Metrics, logCfg))

	// --- Health ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	// --- API v1 ---
	r.Route("/api/v1", func(api chi.Router) {
		registerLayoutRoutes(api, cfg.LayoutHandler)
	})

	return r
}

// registerLayoutRoutes mounts the layout endpoints.
func registerLayoutRoutes(r chi.Router, h *handlers.LayoutHandler) {
	if h == nil {
		return
	}
	r.Route("/layout", func(lr chi.Router) {
		lr.Post("/", h.Layout)
		lr.Post("/batch", h.BatchLayout)
	})
	r.Post("/report", h.Report)

	r.Route("/examples", func(er chi.Router) {
		er.Get("/", h.ListExamples)
		er.Get("/{name}/layout", h.ExampleLayout)
		er.Get("/{category}/{name}/layout", h.ExampleLayout)
	})

	r.Get("/archive", h.Archived)
}

//Personal.AI order the ending
