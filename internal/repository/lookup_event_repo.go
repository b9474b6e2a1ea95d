package repository

import (
	"context"

	"github.com/user/urlsafety-service/internal/entity"
)

// LookupEventRepository records network lookups for auditing.
type LookupEventRepository interface {
	// Record stores a single lookup event.
	Record(ctx context.Context, event *entity.LookupEvent) error
	// Recent returns the most recent events for a URL, newest first.
	Recent(ctx context.Context, url string, limit int) ([]*entity.LookupEvent, error)
}
