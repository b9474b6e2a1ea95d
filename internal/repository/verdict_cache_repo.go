package repository

import "context"

// VerdictCacheRepository is the persistent URL -> verdict map.
// Keys are exact URL strings; entries never expire and are only removed by Clear.
type VerdictCacheRepository interface {
	// Get returns the cached verdict and whether one was present.
	Get(ctx context.Context, url string) (safe bool, found bool, err error)
	// Set stores the verdict for a URL, replacing any previous entry.
	Set(ctx context.Context, url string, safe bool) error
	// Clear removes every cached verdict.
	Clear(ctx context.Context) error
	// Count returns the number of cached verdicts.
	Count(ctx context.Context) (int64, error)
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
