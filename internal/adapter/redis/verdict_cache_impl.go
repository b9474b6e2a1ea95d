package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// verdictHashKey holds every cached verdict as one hash field per exact URL string.
const verdictHashKey = "urlsafety:verdicts"

const (
	safeValue   = "1"
	unsafeValue = "0"
)

// VerdictCacheImpl provides a concrete implementation for the VerdictCacheRepository interface using a Redis hash.
type VerdictCacheImpl struct {
	client redis.UniversalClient
}

// NewVerdictCache creates a new instance of VerdictCacheImpl.
func NewVerdictCache(client redis.UniversalClient) *VerdictCacheImpl {
	return &VerdictCacheImpl{client: client}
}

// Get reads the verdict for url. A missing field is reported as found=false, not as an error.
func (r *VerdictCacheImpl) Get(ctx context.Context, url string) (bool, bool, error) {
	val, err := r.client.HGet(ctx, verdictHashKey, url).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return val == safeValue, true, nil
}

// Set writes the verdict for url. HSET overwrites, so a URL never has more than one entry.
func (r *VerdictCacheImpl) Set(ctx context.Context, url string, safe bool) error {
	val := unsafeValue
	if safe {
		val = safeValue
	}
	return r.client.HSet(ctx, verdictHashKey, url, val).Err()
}

// Clear removes every cached verdict.
func (r *VerdictCacheImpl) Clear(ctx context.Context) error {
	return r.client.Del(ctx, verdictHashKey).Err()
}

// Count returns the number of cached verdicts.
func (r *VerdictCacheImpl) Count(ctx context.Context) (int64, error) {
	return r.client.HLen(ctx, verdictHashKey).Result()
}

func (r *VerdictCacheImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
