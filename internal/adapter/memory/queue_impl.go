package memory

import (
	"context"
	"sync"

	"github.com/user/urlsafety-service/internal/repository"
)

// Queue is an in-process FIFO QueueRepository.
type Queue struct {
	mu    sync.Mutex
	items []string
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(_ context.Context, url string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, url)
	return nil
}

func (q *Queue) Pop(_ context.Context) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return "", repository.ErrEmptyQueue
	}
	url := q.items[0]
	q.items = q.items[1:]
	return url, nil
}

func (q *Queue) Size(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items)), nil
}
