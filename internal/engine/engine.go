// Package engine turns a normalized prediction query and the loaded cutoff
// table into a ranked, probability-scored list of college options.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/admitwise/josaa/internal/adapters/dataset"
	"github.com/admitwise/josaa/internal/domain/model"
	"github.com/admitwise/josaa/internal/domain/probability"
	"github.com/admitwise/josaa/internal/domain/rules"
	"github.com/admitwise/josaa/pkg/metrics"
)

// Scoring goes parallel only when the candidate set is large enough that
// goroutine fan-out beats a plain loop.
const defaultParallelThreshold = 8192

// histogramBuckets is the number of probability buckets in the chart-ready
// summary (10-point bands over [0,100]).
const histogramBuckets = 10

// Bucket is one bar of the probability histogram summary.
type Bucket struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

// Summary is chart-ready aggregate data describing one prediction response.
type Summary struct {
	Total   int      `json:"total"`
	Buckets []Bucket `json:"buckets"`
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithEstimator replaces the probability estimator.
func WithEstimator(est probability.Estimator) Option {
	return func(e *Engine) {
		if est != nil {
			e.estimator = est
		}
	}
}

// WithRules installs compiled exclusion rules applied before scoring.
func WithRules(set *rules.Set) Option {
	return func(e *Engine) {
		if set != nil {
			e.rules = set
		}
	}
}

// WithParallelThreshold sets the candidate count above which scoring runs
// in parallel chunks.
func WithParallelThreshold(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelThreshold = n
		}
	}
}

// Engine is a pure function of (table, query): it holds no mutable state
// and is safe for concurrent use across requests.
type Engine struct {
	estimator         probability.Estimator
	rules             *rules.Set
	parallelThreshold int
}

// New constructs an Engine with the default hybrid estimator and no
// exclusion rules.
func New(opts ...Option) *Engine {
	e := &Engine{
		estimator:         probability.NewHybridEstimator(),
		rules:             &rules.Set{},
		parallelThreshold: defaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Predict filters table by the query, scores every surviving row, drops
// rows below the probability threshold and returns the survivors ranked by
// probability (ties: closing rank asc, institute asc, branch asc) with
// 1-based preference numbers. An empty slice is a valid outcome, not an
// error; the only failure mode is context cancellation.
func (e *Engine) Predict(ctx context.Context, table *dataset.Table, q model.PredictionQuery) ([]model.PredictionResult, Summary, error) {
	start := time.Now()

	sel := dataset.Selection{
		Category: q.Category,
		RoundNo:  q.RoundNo,
		Branch:   q.PreferredBranch,
	}
	if !q.CollegeTypeAll {
		sel.CollegeType = q.CollegeType
	}
	candidates := table.Select(sel)

	if e.rules.Len() > 0 {
		kept := candidates[:0]
		for _, r := range candidates {
			if !e.rules.Excluded(r) {
				kept = append(kept, r)
			}
		}
		candidates = kept
	}

	scores, err := e.score(ctx, q.JEERank, candidates)
	if err != nil {
		return nil, Summary{}, err
	}

	results := make([]model.PredictionResult, 0, len(candidates))
	for i, r := range candidates {
		if scores[i] < q.MinProbability {
			continue
		}
		results = append(results, model.PredictionResult{
			Institute:   r.Institute,
			CollegeType: r.CollegeType,
			Location:    r.Location,
			Branch:      r.Branch,
			Category:    r.Category,
			OpeningRank: r.OpeningRank,
			ClosingRank: r.ClosingRank,
			Probability: scores[i],
			Chance:      probability.Band(scores[i]),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Probability != b.Probability {
			return a.Probability > b.Probability
		}
		if a.ClosingRank != b.ClosingRank {
			return a.ClosingRank < b.ClosingRank
		}
		if a.Institute != b.Institute {
			return strings.ToLower(a.Institute) < strings.ToLower(b.Institute)
		}
		return strings.ToLower(a.Branch) < strings.ToLower(b.Branch)
	})
	for i := range results {
		results[i].Preference = i + 1
	}

	metrics.RecordPrediction(len(results), time.Since(start))
	if len(results) == 0 {
		metrics.RecordEmptyPrediction()
	}

	return results, summarize(results), nil
}

// score computes the probability for every candidate, fanning out over
// errgroup-managed chunks when the set is large.
func (e *Engine) score(ctx context.Context, rank int, candidates []model.HistoricalRecord) ([]float64, error) {
	scores := make([]float64, len(candidates))
	if len(candidates) < e.parallelThreshold {
		for i, r := range candidates {
			scores[i] = e.estimator.Estimate(rank, r.OpeningRank, r.ClosingRank)
		}
		return scores, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(candidates) + workers - 1) / workers
	for lo := 0; lo < len(candidates); lo += chunk {
		lo, hi := lo, min(lo+chunk, len(candidates))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("scoring cancelled: %w", err)
			}
			for i := lo; i < hi; i++ {
				r := candidates[i]
				scores[i] = e.estimator.Estimate(rank, r.OpeningRank, r.ClosingRank)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// summarize builds the fixed-width probability histogram for a response.
func summarize(results []model.PredictionResult) Summary {
	s := Summary{
		Total:   len(results),
		Buckets: make([]Bucket, histogramBuckets),
	}
	width := 100.0 / histogramBuckets
	for i := range s.Buckets {
		s.Buckets[i].From = float64(i) * width
		s.Buckets[i].To = float64(i+1) * width
	}
	for _, r := range results {
		i := int(r.Probability / width)
		if i >= histogramBuckets {
			i = histogramBuckets - 1
		}
		s.Buckets[i].Count++
	}
	return s
}
