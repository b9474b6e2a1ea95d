package memory

import (
	"context"
	"sync"
)

// VerdictCache is an in-process VerdictCacheRepository. It is used when no
// Redis is configured and in tests.
type VerdictCache struct {
	mu       sync.RWMutex
	verdicts map[string]bool
}

func NewVerdictCache() *VerdictCache {
	return &VerdictCache{verdicts: make(map[string]bool)}
}

func (c *VerdictCache) Get(_ context.Context, url string) (bool, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	safe, found := c.verdicts[url]
	return safe, found, nil
}

func (c *VerdictCache) Set(_ context.Context, url string, safe bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verdicts[url] = safe
	return nil
}

func (c *VerdictCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verdicts = make(map[string]bool)
	return nil
}

func (c *VerdictCache) Count(_ context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int64(len(c.verdicts)), nil
}

func (c *VerdictCache) Ping(context.Context) error { return nil }
