package model

import (
	"fmt"
	"strings"
)

// PredictionQuery is a validated, canonical prediction request. It is
// constructed once per request by the normalizer and never mutated.
type PredictionQuery struct {
	JEERank         int
	Category        Category
	CollegeType     CollegeType // zero value with CollegeTypeAll=true means wildcard
	CollegeTypeAll  bool
	PreferredBranch string // lowercase; empty means wildcard
	RoundNo         int
	MinProbability  float64 // percent, clamped to [0,100]
}

// WantsBranch reports whether the query restricts results to a branch.
func (q PredictionQuery) WantsBranch() bool { return q.PreferredBranch != "" }

// CacheKey returns a canonical string identifying the query for result
// caching. Two queries with the same key produce identical predictions
// against the same table.
func (q PredictionQuery) CacheKey() string {
	ct := Wildcard
	if !q.CollegeTypeAll {
		ct = string(q.CollegeType)
	}
	branch := q.PreferredBranch
	if branch == "" {
		branch = strings.ToLower(Wildcard)
	}
	return fmt.Sprintf("%d|%s|%s|%s|%d|%.2f", q.JEERank, q.Category, ct, branch, q.RoundNo, q.MinProbability)
}

// PredictionResult is one scored candidate, derived from exactly one
// HistoricalRecord plus the query's rank. Preference is the 1-based
// position in the final ordering of a single response.
type PredictionResult struct {
	Preference  int
	Institute   string
	CollegeType CollegeType
	Location    string
	Branch      string
	Category    Category
	OpeningRank int
	ClosingRank int
	Probability float64
	Chance      string
}
