package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/admitwise/josaa/pkg/logger"
)

type optionValues struct {
	Branches     []string `json:"branches"`
	Categories   []string `json:"categories"`
	CollegeTypes []string `json:"college_types"`
	Rounds       []int    `json:"rounds"`
}

type preferenceRow struct {
	Preference  int     `json:"Preference"`
	ClosingRank int     `json:"Closing_Rank"`
	Probability float64 `json:"Admission Probability (%)"`
}

type predictResponse struct {
	Preferences []preferenceRow `json:"preferences"`
}

// Run executes the complete query load test.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting predictor load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("queries", cfg.NumQueries),
		logger.Int("workers", cfg.Workers),
	)

	client := &http.Client{Timeout: cfg.Timeout}

	if err := waitReady(ctx, client, cfg.BaseURL); err != nil {
		return fmt.Errorf("service readiness check failed: %w", err)
	}

	opts, err := fetchOptions(ctx, client, cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("fetching options failed: %w", err)
	}
	if len(opts.Categories) == 0 || len(opts.Rounds) == 0 || len(opts.Branches) == 0 {
		return errors.New("service returned empty option lists")
	}

	queries := generateQueries(cfg.NumQueries, opts)
	if err := submit(ctx, client, cfg, queries, stats); err != nil {
		return fmt.Errorf("query submission failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "load test finished",
		logger.Int("sent", stats.Sent),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("emptyLists", stats.EmptyLists),
		logger.Int("violations", stats.Violations),
		logger.Duration("took", stats.Duration),
	)
	if stats.Violations > 0 {
		return fmt.Errorf("%d responses violated ordering or threshold invariants", stats.Violations)
	}
	return nil
}

// waitReady polls /readyz until the dataset is published or ctx expires.
func waitReady(ctx context.Context, client *http.Client, baseURL string) error {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/readyz", nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

func fetchOptions(ctx context.Context, client *http.Client, baseURL string) (optionValues, error) {
	var opts optionValues
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/options", nil)
	if err != nil {
		return opts, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return opts, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return opts, fmt.Errorf("GET /options returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// submit fans queries out over cfg.Workers concurrent senders.
func submit(ctx context.Context, client *http.Client, cfg *Config, queries []query, stats *Stats) error {
	var mu sync.Mutex
	work := make(chan query)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			for q := range work {
				outcome := send(ctx, client, cfg, q)
				mu.Lock()
				stats.Sent++
				stats.Succeeded += outcome.succeeded
				stats.Rejected += outcome.rejected
				stats.Failed += outcome.failed
				stats.EmptyLists += outcome.empty
				stats.Violations += outcome.violations
				mu.Unlock()
			}
			return nil
		})
	}

	for _, q := range queries {
		select {
		case <-ctx.Done():
			close(work)
			_ = g.Wait()
			return ctx.Err()
		case work <- q:
		}
	}
	close(work)
	return g.Wait()
}

type outcome struct {
	succeeded  int
	rejected   int
	failed     int
	empty      int
	violations int
}

func send(ctx context.Context, client *http.Client, cfg *Config, q query) outcome {
	body, err := json.Marshal(q)
	if err != nil {
		return outcome{failed: 1}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return outcome{failed: 1}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", q.ID)

	resp, err := client.Do(req)
	if err != nil {
		return outcome{failed: 1}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var pr predictResponse
		if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
			return outcome{failed: 1}
		}
		o := outcome{succeeded: 1}
		if len(pr.Preferences) == 0 {
			o.empty = 1
		}
		if !validResponse(pr.Preferences, q.MinProbability) {
			o.violations = 1
			if cfg.Verbose {
				logger.Get().Warn(ctx, "invariant violation",
					logger.String("requestID", q.ID),
					logger.Int("rank", q.JEERank),
				)
			}
		}
		return o
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		if q.wantRejected {
			return outcome{rejected: 1}
		}
		return outcome{failed: 1}
	default:
		return outcome{failed: 1}
	}
}

// validResponse checks the documented response invariants: probabilities
// non-increasing, ties broken by closing rank ascending, preferences
// numbered 1..n, and no probability below the requested threshold.
func validResponse(rows []preferenceRow, minProb float64) bool {
	for i, row := range rows {
		if row.Preference != i+1 {
			return false
		}
		if row.Probability < minProb {
			return false
		}
		if i > 0 {
			prev := rows[i-1]
			if row.Probability > prev.Probability {
				return false
			}
			if row.Probability == prev.Probability && row.ClosingRank < prev.ClosingRank {
				return false
			}
		}
	}
	return true
}
