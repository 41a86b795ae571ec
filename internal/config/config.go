// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath locates the historical cutoff CSV loaded at startup.
	DatasetPath string `koanf:"dataset_path"`

	// ProbabilityFloor and ProbabilityCeiling bound the estimator output,
	// in percent.
	ProbabilityFloor   float64 `koanf:"probability_floor"`
	ProbabilityCeiling float64 `koanf:"probability_ceiling"`

	// ExclusionRules are CEL expressions; candidate rows matching any rule
	// are dropped before scoring.
	ExclusionRules []string `koanf:"exclusion_rules"`

	// ScoreParallelThreshold sets the candidate count above which the
	// engine scores rows in parallel.
	ScoreParallelThreshold int `koanf:"score_parallel_threshold"`

	// CacheEnabled turns on prediction response caching.
	CacheEnabled bool `koanf:"cache_enabled"`

	// CacheTTLSeconds bounds the lifetime of cached responses.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// RedisAddr selects the Redis cache backend when non-empty; otherwise
	// the in-memory cache is used.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		DatasetPath:            "josaa_cutoff.csv",
		ProbabilityFloor:       2.0,
		ProbabilityCeiling:     98.0,
		ScoreParallelThreshold: 8192,
		CacheEnabled:           false,
		CacheTTLSeconds:        300,
	}
}
