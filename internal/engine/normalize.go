package engine

import (
	"fmt"
	"strings"

	"github.com/admitwise/josaa/internal/adapters/dataset"
	"github.com/admitwise/josaa/internal/domain/model"
)

// RawQuery carries the untyped fields of an incoming prediction request,
// exactly as the transport layer received them. Client-side validation is
// advisory only; this normalizer is the single source of truth.
type RawQuery struct {
	JEERank         int
	Category        string
	CollegeType     string
	PreferredBranch string
	RoundNo         int
	MinProbability  float64
}

// Normalize validates raw against the loaded table and produces a canonical
// PredictionQuery. Rules apply in order, each with its own sentinel error;
// only min_probability is lenient (clamped instead of rejected).
func Normalize(raw RawQuery, table *dataset.Table) (model.PredictionQuery, error) {
	var q model.PredictionQuery

	if raw.JEERank < 1 {
		return q, fmt.Errorf("%w: got %d", ErrInvalidRank, raw.JEERank)
	}
	q.JEERank = raw.JEERank

	category, ok := model.ParseCategory(raw.Category)
	if !ok {
		return q, fmt.Errorf("%w: %q", ErrInvalidCategory, raw.Category)
	}
	q.Category = category

	ct := strings.ToUpper(strings.TrimSpace(raw.CollegeType))
	if ct == model.Wildcard {
		q.CollegeTypeAll = true
	} else {
		collegeType, ok := model.ParseCollegeType(ct)
		if !ok {
			return q, fmt.Errorf("%w: %q", ErrInvalidCollegeType, raw.CollegeType)
		}
		q.CollegeType = collegeType
	}

	branch := strings.TrimSpace(raw.PreferredBranch)
	if branch == "" {
		return q, fmt.Errorf("%w: branch must not be empty", ErrUnknownBranch)
	}
	if !strings.EqualFold(branch, model.Wildcard) {
		if !table.HasBranch(branch) {
			return q, fmt.Errorf("%w: %q", ErrUnknownBranch, raw.PreferredBranch)
		}
		q.PreferredBranch = strings.ToLower(branch)
	}

	if raw.RoundNo < 1 || raw.RoundNo > table.MaxRound() {
		return q, fmt.Errorf("%w: got %d, dataset has rounds 1..%d", ErrInvalidRound, raw.RoundNo, table.MaxRound())
	}
	q.RoundNo = raw.RoundNo

	// Lenient by design: out-of-range thresholds clamp rather than reject.
	q.MinProbability = raw.MinProbability
	if q.MinProbability < 0 {
		q.MinProbability = 0
	}
	if q.MinProbability > 100 {
		q.MinProbability = 100
	}

	return q, nil
}
