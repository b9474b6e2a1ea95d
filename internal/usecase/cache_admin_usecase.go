package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/user/urlsafety-service/internal/repository"
	"go.uber.org/zap"
)

// ClearConfirmationMessage is shown to the user after a bulk clear.
const ClearConfirmationMessage = "Cache cleared!"

// ClearResult is the confirmation surfaced after a bulk clear.
type ClearResult struct {
	Message    string
	DisplayFor time.Duration
}

// CacheAdmin exposes the bulk operations on the verdict cache.
type CacheAdmin interface {
	Clear(ctx context.Context) (ClearResult, error)
	Size(ctx context.Context) (int64, error)
}

type cacheAdminUseCase struct {
	cache      repository.VerdictCacheRepository
	displayFor time.Duration
	logger     *zap.Logger
}

// NewCacheAdmin creates a CacheAdmin. displayFor is how long the confirmation stays visible.
func NewCacheAdmin(cache repository.VerdictCacheRepository, displayFor time.Duration, logger *zap.Logger) CacheAdmin {
	return &cacheAdminUseCase{cache: cache, displayFor: displayFor, logger: logger}
}

func (uc *cacheAdminUseCase) Clear(ctx context.Context) (ClearResult, error) {
	if err := uc.cache.Clear(ctx); err != nil {
		return ClearResult{}, fmt.Errorf("failed to clear verdict cache: %w", err)
	}
	uc.logger.Info("verdict cache cleared")
	return ClearResult{Message: ClearConfirmationMessage, DisplayFor: uc.displayFor}, nil
}

func (uc *cacheAdminUseCase) Size(ctx context.Context) (int64, error) {
	return uc.cache.Count(ctx)
}
