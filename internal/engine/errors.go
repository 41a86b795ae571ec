package engine

import "errors"

// Sentinel kinds for query validation errors. All are client-caused and map
// to rejected requests at the API boundary; none are retried.
var (
	ErrInvalidRank        = errors.New("jee_rank must be a positive integer")
	ErrInvalidCategory    = errors.New("unknown reservation category")
	ErrInvalidCollegeType = errors.New("unknown college type")
	ErrUnknownBranch      = errors.New("branch not present in dataset")
	ErrInvalidRound       = errors.New("round_no out of range for dataset")
)
