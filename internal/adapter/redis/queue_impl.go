package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/user/urlsafety-service/internal/repository"
)

const scanQueueKey = "urlsafety:scan_queue"

// QueueRepoImpl provides a concrete implementation for the QueueRepository interface using Redis Lists.
type QueueRepoImpl struct {
	client redis.UniversalClient
}

// NewQueueRepo creates a new instance of QueueRepoImpl.
func NewQueueRepo(client redis.UniversalClient) *QueueRepoImpl {
	return &QueueRepoImpl{client: client}
}

// Push adds a URL to the left side of the Redis list (acting as a queue).
func (r *QueueRepoImpl) Push(ctx context.Context, url string) error {
	return r.client.LPush(ctx, scanQueueKey, url).Err()
}

// Pop removes and returns a URL from the right side of the Redis list.
// An empty list is reported as repository.ErrEmptyQueue.
func (r *QueueRepoImpl) Pop(ctx context.Context) (string, error) {
	url, err := r.client.RPop(ctx, scanQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrEmptyQueue
	}
	return url, err
}

// Size returns the current number of items in the queue.
func (r *QueueRepoImpl) Size(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, scanQueueKey).Result()
}
