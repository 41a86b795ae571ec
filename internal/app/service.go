// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/admitwise/josaa/internal/adapters/cache"
	"github.com/admitwise/josaa/internal/adapters/dataset"
	"github.com/admitwise/josaa/internal/domain/model"
	"github.com/admitwise/josaa/internal/domain/probability"
	"github.com/admitwise/josaa/internal/domain/rules"
	"github.com/admitwise/josaa/internal/engine"
	"github.com/admitwise/josaa/pkg/logger"
	"github.com/admitwise/josaa/pkg/metrics"
)

// ErrReloadInFlight reports that a dataset reload is already running.
var ErrReloadInFlight = errors.New("dataset reload already in progress")

// ErrNotReady reports that no dataset table has been published yet.
var ErrNotReady = errors.New("dataset not loaded")

// OptionValues groups the distinct dataset values used to populate
// client-facing selection controls.
type OptionValues struct {
	Branches     []string `json:"branches"`
	Categories   []string `json:"categories"`
	CollegeTypes []string `json:"college_types"`
	Rounds       []int    `json:"rounds"`
}

// Service owns the published cutoff table and wires the normalizer, the
// prediction engine and the result cache together. The table is replaced
// only as a whole (build-then-publish), so concurrent predictions never
// observe a partially loaded dataset.
type Service struct {
	table atomic.Pointer[dataset.Table]

	engine *engine.Engine
	cache  cache.Cache

	// Configuration
	datasetPath       string
	floor             float64
	ceiling           float64
	exclusionRules    []string
	parallelThreshold int

	reloadMu  sync.Mutex
	reloading atomic.Bool
	started   bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDatasetPath sets the cutoff CSV location.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.datasetPath = path
		}
	}
}

// WithProbabilityBounds sets the estimator floor and ceiling, in percent.
func WithProbabilityBounds(floor, ceiling float64) Option {
	return func(s *Service) {
		if floor >= 0 && ceiling <= 100 && floor < ceiling {
			s.floor = floor
			s.ceiling = ceiling
		}
	}
}

// WithExclusionRules sets the CEL exclusion rules compiled at startup.
func WithExclusionRules(exprs []string) Option {
	return func(s *Service) {
		s.exclusionRules = exprs
	}
}

// WithParallelThreshold sets the engine's parallel scoring threshold.
func WithParallelThreshold(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parallelThreshold = n
		}
	}
}

// WithCache installs a prediction result cache.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		datasetPath:       "josaa_cutoff.csv",
		floor:             2.0,
		ceiling:           98.0,
		parallelThreshold: 8192,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start compiles the exclusion rules, builds the engine and loads the
// dataset. A SchemaError here is fatal: the service must not serve
// predictions over a malformed dataset.
func (s *Service) Start(ctx context.Context) error {
	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	ruleSet, err := rules.Compile(s.exclusionRules)
	if err != nil {
		return err
	}
	s.engine = engine.New(
		engine.WithEstimator(probability.NewHybridEstimator(
			probability.WithBounds(s.floor, s.ceiling),
		)),
		engine.WithRules(ruleSet),
		engine.WithParallelThreshold(s.parallelThreshold),
	)

	start := time.Now()
	table, err := dataset.Load(s.datasetPath)
	metrics.RecordDatasetReload(time.Since(start), err == nil)
	if err != nil {
		return err
	}
	s.table.Store(table)

	s.started = true
	s.logger.Info(ctx, "predictor service started",
		logger.String("dataset", s.datasetPath),
		logger.Int("rows", table.Len()),
		logger.Int("maxRound", table.MaxRound()),
		logger.Int("rules", ruleSet.Len()),
	)
	return nil
}

// Stop releases resources held by the service.
func (s *Service) Stop() {
	if !s.started {
		return
	}
	if closer, ok := s.cache.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "predictor service stopped")
}

// Ready reports whether a dataset table has been published.
func (s *Service) Ready() bool {
	return s.table.Load() != nil
}

// Predict normalizes raw, consults the cache and runs the engine. The
// returned error is either a validation sentinel from the engine package
// or a context error; an empty result list is a valid outcome.
func (s *Service) Predict(ctx context.Context, raw engine.RawQuery) ([]model.PredictionResult, engine.Summary, error) {
	table := s.table.Load()
	if table == nil {
		return nil, engine.Summary{}, ErrNotReady
	}

	q, err := engine.Normalize(raw, table)
	if err != nil {
		metrics.RecordValidationFailure(validationReason(err))
		return nil, engine.Summary{}, err
	}

	key := cache.Key(q, table.Version())
	if s.cache != nil {
		if entry, ok, cerr := s.cache.Get(ctx, key); cerr == nil && ok {
			metrics.RecordCacheHit()
			return entry.Preferences, entry.Summary, nil
		}
		metrics.RecordCacheMiss()
	}

	results, summary, err := s.engine.Predict(ctx, table, q)
	if err != nil {
		return nil, engine.Summary{}, err
	}

	if s.cache != nil {
		if cerr := s.cache.Put(ctx, key, cache.Entry{Preferences: results, Summary: summary}); cerr != nil {
			s.logger.Warn(ctx, "caching prediction failed", logger.Error(cerr))
		}
	}
	return results, summary, nil
}

// Branches returns the distinct branch list for UI population.
func (s *Service) Branches() ([]string, error) {
	table := s.table.Load()
	if table == nil {
		return nil, ErrNotReady
	}
	return table.DistinctBranches(), nil
}

// Options returns every distinct selection value in the dataset.
func (s *Service) Options() (OptionValues, error) {
	table := s.table.Load()
	if table == nil {
		return OptionValues{}, ErrNotReady
	}
	return OptionValues{
		Branches:     table.DistinctBranches(),
		Categories:   table.DistinctCategories(),
		CollegeTypes: table.DistinctCollegeTypes(),
		Rounds:       table.Rounds(),
	}, nil
}

// Reload builds a fresh table from the dataset source and publishes it
// atomically. In-flight predictions keep the table they started with; on
// failure the previous table stays published.
func (s *Service) Reload(ctx context.Context) error {
	if !s.reloading.CompareAndSwap(false, true) {
		return ErrReloadInFlight
	}
	defer s.reloading.Store(false)
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	table, err := dataset.Load(s.datasetPath)
	metrics.RecordDatasetReload(time.Since(start), err == nil)
	if err != nil {
		s.logger.Error(ctx, "dataset reload failed; keeping previous table", logger.Error(err))
		return err
	}

	s.table.Store(table)
	s.logger.Info(ctx, "dataset reloaded",
		logger.Int("rows", table.Len()),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]any {
	stats := map[string]any{
		"started": s.started,
		"ready":   s.Ready(),
	}
	if table := s.table.Load(); table != nil {
		stats["dataset_rows"] = table.Len()
		stats["dataset_version"] = table.Version()
		stats["max_round"] = table.MaxRound()
		stats["load"] = table.Stats()
	}
	if s.cache != nil {
		stats["cache_entries"] = s.cache.Len(ctx)
	}
	return stats
}

// validationReason maps a normalizer sentinel to a metrics label.
func validationReason(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidRank):
		return "invalid_rank"
	case errors.Is(err, engine.ErrInvalidCategory):
		return "invalid_category"
	case errors.Is(err, engine.ErrInvalidCollegeType):
		return "invalid_college_type"
	case errors.Is(err, engine.ErrUnknownBranch):
		return "unknown_branch"
	case errors.Is(err, engine.ErrInvalidRound):
		return "invalid_round"
	default:
		return "other"
	}
}
