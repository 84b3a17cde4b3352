// Package layout provides the application-level service that runs the
// structure diagram pipeline. It sits between the HTTP, CLI and worker
// surfaces and the domain packages, and owns caching, archiving and metrics.
package layout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/molsdg/internal/config"
	"github.com/turtacn/molsdg/internal/domain/catalog"
	"github.com/turtacn/molsdg/internal/domain/molecule"
	"github.com/turtacn/molsdg/internal/domain/smiles"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/common"
	"github.com/turtacn/molsdg/pkg/types/layout"
)

// Service defines the layout application operations.
type Service interface {
	// Layout parses one molecule and returns its diagram. Ring-level
	// problems are reported as diagnostics on the result; only input errors
	// and cancellation are returned as errors.
	Layout(ctx context.Context, req *layout.Request) (*layout.Result, error)

	// BatchLayout lays out every item concurrently. Item failures are
	// collected in the response and do not stop the batch.
	BatchLayout(ctx context.Context, req *layout.BatchRequest) (*common.BatchResponse[*layout.Result], error)

	// Report returns the per-atom property listing of one molecule.
	Report(ctx context.Context, req *layout.Request) (*molecule.Report, error)

	// Examples lists catalog entries, all of them when category is empty.
	Examples(ctx context.Context, category string) ([]catalog.Entry, error)
}

// ResultCache stores finished layouts by key.
type ResultCache interface {
	// GetOrCompute returns the cached result for key, or runs compute and
	// caches its result. hit reports whether the value came from the cache.
	GetOrCompute(ctx context.Context, key string, compute func(context.Context) (*layout.Result, error)) (result *layout.Result, hit bool, err error)
}

// Reconfigurable is implemented by services whose tunables can change while
// they run. Requests already in flight keep the settings they started with.
type Reconfigurable interface {
	Reconfigure(cfg config.LayoutConfig)
}

// Archive keeps a durable copy of computed layouts.
type Archive interface {
	Put(ctx context.Context, result *layout.Result) error
}

// Option configures optional collaborators of the service.
type Option func(*serviceImpl)

// WithCache enables result caching.
func WithCache(c ResultCache) Option {
	return func(s *serviceImpl) { s.cache = c }
}

// WithArchive enables archiving of freshly computed results.
func WithArchive(a Archive) Option {
	return func(s *serviceImpl) { s.archive = a }
}

// WithMetrics records pipeline metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *serviceImpl) {
		if m != nil {
			s.metrics = m
		}
	}
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	mu      sync.RWMutex
	cfg     config.LayoutConfig
	parser  *smiles.Parser
	cache   ResultCache
	archive Archive
	metrics *prometheus.AppMetrics
	logger  logging.Logger
	now     func() time.Time
}

// NewService creates a layout service. Zero values in cfg fall back to the
// configured defaults.
func NewService(cfg config.LayoutConfig, logger logging.Logger, opts ...Option) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	cfg = withLayoutDefaults(cfg)

	s := &serviceImpl{
		cfg:     cfg,
		parser:  smiles.NewParser(smiles.WithMaxAtoms(cfg.MaxAtoms)),
		metrics: prometheus.NewNoopAppMetrics(),
		logger:  logger.Named("layout"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func withLayoutDefaults(cfg config.LayoutConfig) config.LayoutConfig {
	defaults := config.NewDefaultConfig().Layout
	if cfg.BondLength <= 0 {
		cfg.BondLength = defaults.BondLength
	}
	if cfg.MaxSharedBonds <= 0 {
		cfg.MaxSharedBonds = defaults.MaxSharedBonds
	}
	if cfg.MaxBetaAtoms <= 0 {
		cfg.MaxBetaAtoms = defaults.MaxBetaAtoms
	}
	if cfg.MaxAtoms <= 0 {
		cfg.MaxAtoms = defaults.MaxAtoms
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = defaults.BatchWorkers
	}
	return cfg
}

// Reconfigure swaps the layout tunables. Zero values fall back to the
// configured defaults, as in NewService.
func (s *serviceImpl) Reconfigure(cfg config.LayoutConfig) {
	cfg = withLayoutDefaults(cfg)
	parser := smiles.NewParser(smiles.WithMaxAtoms(cfg.MaxAtoms))

	s.mu.Lock()
	s.cfg = cfg
	s.parser = parser
	s.mu.Unlock()

	s.logger.Info("layout tunables updated",
		logging.Float64("bond_length", cfg.BondLength),
		logging.Int("max_shared_bonds", cfg.MaxSharedBonds),
		logging.Int("max_beta_atoms", cfg.MaxBetaAtoms),
		logging.Int("max_atoms", cfg.MaxAtoms),
		logging.Int("batch_workers", cfg.BatchWorkers),
	)
}

// settings returns the current tunables and the parser built from them.
func (s *serviceImpl) settings() (config.LayoutConfig, *smiles.Parser) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.parser
}

func (s *serviceImpl) Layout(ctx context.Context, req *layout.Request) (*layout.Result, error) {
	if req == nil {
		return nil, errors.InvalidParam("layout request is required")
	}
	start := s.now()
	source := sourceOf(req)

	result, err := s.layout(ctx, req)
	if err != nil {
		prometheus.RecordLayout(s.metrics, source, "failed", 0, s.now().Sub(start))
		prometheus.RecordError(s.metrics, "layout", string(errors.GetCode(err)))
		return nil, err
	}

	status := "complete"
	if !result.Complete() || len(result.Diagnostics) > 0 {
		status = "partial"
	}
	prometheus.RecordLayout(s.metrics, source, status, len(result.Atoms), s.now().Sub(start))
	return result, nil
}

func (s *serviceImpl) layout(ctx context.Context, req *layout.Request) (*layout.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	smi, example, err := resolve(req)
	if err != nil {
		return nil, err
	}
	cfg, parser := s.settings()
	opts := effectiveOptions(cfg, req.Options)
	log := s.logger.WithContext(ctx).With(logging.String("smiles", smi))

	compute := func(ctx context.Context) (*layout.Result, error) {
		res, err := s.run(ctx, log, parser, smi, opts)
		if err != nil {
			return nil, err
		}
		res.Example = example
		if s.archive != nil {
			if err := s.archive.Put(ctx, res); err != nil {
				log.Warn("failed to archive layout", logging.Err(err))
				s.metrics.ArchiveWritesTotal.WithLabelValues("error").Inc()
			} else {
				s.metrics.ArchiveWritesTotal.WithLabelValues("ok").Inc()
			}
		}
		return res, nil
	}

	var res *layout.Result
	if s.cache == nil {
		res, err = compute(ctx)
	} else {
		var hit bool
		res, hit, err = s.cache.GetOrCompute(ctx, CacheKey(smi, opts), compute)
		prometheus.RecordCacheAccess(s.metrics, "layout", hit)
		if err == nil && hit {
			log.Debug("layout served from cache")
			res.Example = example
		}
	}
	if err != nil {
		return nil, err
	}
	res.RequestID = req.RequestID
	return res, nil
}

// run executes the pipeline stages for one molecule.
func (s *serviceImpl) run(ctx context.Context, log logging.Logger, parser *smiles.Parser, smi string, opts layout.Options) (*layout.Result, error) {
	start := s.now()
	p := newPipeline(smi, opts)

	stages := []struct {
		name string
		fn   func() error
	}{
		{"parse", func() error { return p.parse(parser) }},
		{"rings", p.perceiveRings},
		{"chains", p.perceiveChains},
		{"analyze", p.analyze},
		{"construct", p.construct},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeTimeout, "layout cancelled").WithDetail("stage=" + st.name)
		}
		t := s.now()
		if err := st.fn(); err != nil {
			return nil, err
		}
		prometheus.RecordStage(s.metrics, st.name, s.now().Sub(t))
		log.Debug("layout stage finished",
			logging.String("stage", st.name),
			logging.Int("atoms", p.atomCount()),
			logging.Int("rings", len(p.rings)),
			logging.Int("groups", len(p.groups)),
			logging.Int("chains", len(p.chains)),
		)
	}

	res := p.result()
	res.ID = common.NewID()
	res.CreatedAt = common.Timestamp(s.now().UTC())
	res.ElapsedMS = float64(s.now().Sub(start).Microseconds()) / 1000

	for _, r := range res.Rings {
		s.metrics.RingsPerceivedTotal.WithLabelValues(r.Type).Inc()
	}
	s.metrics.ChainsFoundTotal.WithLabelValues().Add(float64(len(res.Chains)))
	for _, d := range res.Diagnostics {
		prometheus.RecordDiagnostic(s.metrics, d.Code, d.Severity)
		log.Warn("layout diagnostic",
			logging.String("code", d.Code),
			logging.String("severity", d.Severity),
			logging.String("message", d.Message),
			logging.Int("group", d.Group),
			logging.Int("ring", d.Ring),
		)
	}
	return res, nil
}

func (s *serviceImpl) BatchLayout(ctx context.Context, req *layout.BatchRequest) (*common.BatchResponse[*layout.Result], error) {
	if req == nil || len(req.Items) == 0 {
		return nil, errors.InvalidParam("batch must contain at least one item")
	}

	results := make([]*layout.Result, len(req.Items))
	failures := make([]error, len(req.Items))

	cfg, _ := s.settings()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.BatchWorkers)
	for i := range req.Items {
		g.Go(func() error {
			results[i], failures[i] = s.Layout(gctx, &req.Items[i])
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "batch layout cancelled")
	}

	resp := &common.BatchResponse[*layout.Result]{TotalProcessed: len(req.Items)}
	for i := range req.Items {
		if failures[i] != nil {
			resp.Failed = append(resp.Failed, common.BatchError{Index: i, Error: *common.NewErrorDetail(failures[i])})
			continue
		}
		resp.Succeeded = append(resp.Succeeded, results[i])
	}
	s.logger.WithContext(ctx).Info("batch layout finished",
		logging.Int("total", resp.TotalProcessed),
		logging.Int("failed", len(resp.Failed)),
	)
	return resp, nil
}

func (s *serviceImpl) Report(ctx context.Context, req *layout.Request) (*molecule.Report, error) {
	if req == nil {
		return nil, errors.InvalidParam("report request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	smi, _, err := resolve(req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "report cancelled")
	}
	_, parser := s.settings()
	g, err := parser.Parse(smi)
	if err != nil {
		return nil, err
	}
	return molecule.NewReport(g), nil
}

func (s *serviceImpl) Examples(_ context.Context, category string) ([]catalog.Entry, error) {
	return catalog.List(strings.TrimSpace(category))
}

// effectiveOptions fills unset request options from the configuration.
func effectiveOptions(cfg config.LayoutConfig, o layout.Options) layout.Options {
	if o.BondLength == 0 {
		o.BondLength = cfg.BondLength
	}
	if o.MaxSharedBonds == 0 {
		o.MaxSharedBonds = cfg.MaxSharedBonds
	}
	if o.MaxBetaAtoms == 0 {
		o.MaxBetaAtoms = cfg.MaxBetaAtoms
	}
	return o
}

// resolve returns the SMILES to lay out and, for catalog requests, the
// example key it came from.
func resolve(req *layout.Request) (smi, example string, err error) {
	if strings.TrimSpace(req.Example) == "" {
		return strings.TrimSpace(req.SMILES), "", nil
	}
	e, err := catalog.Lookup(req.Example)
	if err != nil {
		return "", "", err
	}
	return e.SMILES, e.Key(), nil
}

func sourceOf(req *layout.Request) string {
	if req.Example != "" {
		return "example"
	}
	return "smiles"
}

// CacheKey identifies a layout by its input and effective options.
func CacheKey(smi string, o layout.Options) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%g|%d|%d", smi, o.BondLength, o.MaxSharedBonds, o.MaxBetaAtoms)))
	return "layout:" + hex.EncodeToString(h[:])
}

//Personal.AI order the ending
