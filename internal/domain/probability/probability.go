// Package probability estimates admission probability from a candidate's
// rank and a historical opening/closing rank interval.
package probability

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Default curve parameters. A single round's opening/closing ranks are a
// noisy point estimate of the real cutoff distribution, so the curve
// saturates below 100 and never drops to a hard zero inside the decay
// margin beyond the closing rank.
const (
	defaultCeiling        = 98.0
	defaultFloor          = 2.0
	defaultAtClosing      = 15.0
	defaultLogisticWeight = 0.6
	defaultMarginFactor   = 2.0
	defaultDecayRate      = 3.0
	logisticScaleDivisor  = 10.0
)

// Estimator computes an admission probability, in percent, for a rank
// against one historical cutoff interval. Implementations must be
// monotonically non-increasing in rank for a fixed interval and must
// return values within [floor, ceiling] of their configured range.
type Estimator interface {
	Estimate(rank, openingRank, closingRank int) float64
}

// Option applies a configuration option to the HybridEstimator.
type Option func(*HybridEstimator)

// WithBounds sets the probability ceiling and floor, in percent.
func WithBounds(floor, ceiling float64) Option {
	return func(e *HybridEstimator) {
		if floor >= 0 && ceiling <= 100 && floor < ceiling {
			e.floor = floor
			e.ceiling = ceiling
		}
	}
}

// WithLogisticWeight sets the blend weight of the logistic component
// inside the cutoff interval. Must lie in [0,1].
func WithLogisticWeight(w float64) Option {
	return func(e *HybridEstimator) {
		if w >= 0 && w <= 1 {
			e.logisticWeight = w
		}
	}
}

// WithDecay sets the decay rate and margin factor used beyond the closing
// rank. The probability decays toward the floor over marginFactor times
// the interval width.
func WithDecay(rate, marginFactor float64) Option {
	return func(e *HybridEstimator) {
		if rate > 0 && marginFactor > 0 {
			e.decayRate = rate
			e.marginFactor = marginFactor
		}
	}
}

// HybridEstimator blends a logistic survival curve centered on the cutoff
// interval with a linear ramp across it:
//
//   - rank <= opening: the ceiling.
//   - opening < rank <= closing: a weighted blend of the logistic survival
//     function (midpoint mean, width/10 scale) and a linear ramp from the
//     ceiling down to the at-closing value, clamped to [floor, ceiling].
//   - rank > closing: the at-closing estimate decayed exponentially over a
//     bounded margin, clamped at the floor.
//
// Both components are non-increasing in rank, so the blend is too.
type HybridEstimator struct {
	ceiling        float64
	floor          float64
	atClosing      float64
	logisticWeight float64
	marginFactor   float64
	decayRate      float64
}

// NewHybridEstimator creates an estimator with the default curve.
func NewHybridEstimator(opts ...Option) *HybridEstimator {
	e := &HybridEstimator{
		ceiling:        defaultCeiling,
		floor:          defaultFloor,
		atClosing:      defaultAtClosing,
		logisticWeight: defaultLogisticWeight,
		marginFactor:   defaultMarginFactor,
		decayRate:      defaultDecayRate,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ceiling returns the configured probability ceiling.
func (e *HybridEstimator) Ceiling() float64 { return e.ceiling }

// Floor returns the configured probability floor.
func (e *HybridEstimator) Floor() float64 { return e.floor }

// Estimate returns the admission probability, in percent, for rank against
// the [openingRank, closingRank] interval.
func (e *HybridEstimator) Estimate(rank, openingRank, closingRank int) float64 {
	if closingRank < openingRank {
		openingRank, closingRank = closingRank, openingRank
	}
	if rank <= closingRank {
		return e.within(rank, openingRank, closingRank)
	}

	// Beyond the closing rank: decay the edge value toward the floor over
	// marginFactor interval widths. width is at least 1 so a zero-width
	// interval never divides by zero.
	width := float64(closingRank - openingRank)
	if width < 1 {
		width = 1
	}
	edge := e.within(closingRank, openingRank, closingRank)
	margin := e.marginFactor * width
	decayed := edge * math.Exp(-e.decayRate*float64(rank-closingRank)/margin)
	return math.Max(e.floor, decayed)
}

// within handles rank <= closingRank.
func (e *HybridEstimator) within(rank, openingRank, closingRank int) float64 {
	if rank <= openingRank {
		return e.ceiling
	}

	width := float64(closingRank - openingRank)
	scale := width / logisticScaleDivisor
	if scale < 1 {
		scale = 1
	}
	dist := distuv.Logistic{
		Mu: float64(openingRank+closingRank) / 2,
		S:  scale,
	}
	logistic := 100 * (1 - dist.CDF(float64(rank)))

	position := (float64(rank) - float64(openingRank)) / width
	linear := e.ceiling - (e.ceiling-e.atClosing)*position

	blended := e.logisticWeight*logistic + (1-e.logisticWeight)*linear
	return math.Min(e.ceiling, math.Max(e.floor, blended))
}
