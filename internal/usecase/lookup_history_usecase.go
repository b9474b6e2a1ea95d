package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/urlsafety-service/internal/entity"
	"github.com/user/urlsafety-service/internal/repository"
)

// ErrHistoryDisabled is returned when no lookup event store is configured.
var ErrHistoryDisabled = errors.New("lookup history is not enabled")

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// LookupHistory reads the audit log of network lookups.
type LookupHistory interface {
	// Recent returns up to limit events for url, newest first. A limit outside
	// 1..MaxHistoryLimit is replaced by DefaultHistoryLimit or capped.
	Recent(ctx context.Context, url string, limit int) ([]*entity.LookupEvent, error)
}

type lookupHistoryUseCase struct {
	events repository.LookupEventRepository
}

// NewLookupHistory creates a LookupHistory. events may be nil, in which case every read
// returns ErrHistoryDisabled.
func NewLookupHistory(events repository.LookupEventRepository) LookupHistory {
	return &lookupHistoryUseCase{events: events}
}

func (uc *lookupHistoryUseCase) Recent(ctx context.Context, url string, limit int) ([]*entity.LookupEvent, error) {
	if uc.events == nil {
		return nil, ErrHistoryDisabled
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	events, err := uc.events.Recent(ctx, url, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup history for %s: %w", url, err)
	}
	return events, nil
}
