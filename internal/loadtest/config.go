// Package loadtest drives a running predictor instance with randomized
// queries and verifies the response invariants hold under load.
package loadtest

import "time"

// Config controls one load test run.
type Config struct {
	// BaseURL of the predictor service, e.g. http://localhost:9080.
	BaseURL string

	// NumQueries is the total number of prediction requests to send.
	NumQueries int

	// Workers is the number of concurrent submitters.
	Workers int

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Verbose enables per-request logging.
	Verbose bool
}

// Stats accumulates the outcome of a run.
type Stats struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Sent       int
	Succeeded  int
	Rejected   int // 4xx: intentionally malformed queries
	Failed     int // transport errors and 5xx
	EmptyLists int
	Violations int // response invariant violations
}
