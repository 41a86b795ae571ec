package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/admitwise/josaa/internal/loadtest"
	"github.com/admitwise/josaa/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumQueries  = 5000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the predictor service")
		numQueries = flag.Int("queries", defaultNumQueries, "Number of prediction queries to send")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	cfg := &loadtest.Config{
		BaseURL:    *baseURL,
		NumQueries: *numQueries,
		Workers:    *workers,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}
	if err := loadtest.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("load test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
