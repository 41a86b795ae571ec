// Package cache provides prediction result caching implementations.
//
// Keys embed the table version, so publishing a reloaded table implicitly
// invalidates every cached response without an explicit flush.
package cache

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/admitwise/josaa/internal/domain/model"
	"github.com/admitwise/josaa/internal/engine"
)

// Entry is one cached prediction response.
type Entry struct {
	Preferences []model.PredictionResult `json:"preferences"`
	Summary     engine.Summary           `json:"summary"`
}

// Cache stores prediction responses keyed by (query, table version).
// Implementations must be safe for concurrent use. A cache miss is
// (zero Entry, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, e Entry) error
	Len(ctx context.Context) int
}

// Key derives the cache key for a query against a specific table build.
func Key(q model.PredictionQuery, tableVersion string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(q.CacheKey()))
	return "josaa:predict:" + strconv.FormatUint(h.Sum64(), 16) + ":" + tableVersion
}
