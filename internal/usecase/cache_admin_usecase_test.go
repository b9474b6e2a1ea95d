package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/urlsafety-service/internal/adapter/memory"
	"go.uber.org/zap"
)

type clearFailCache struct{ memory.VerdictCache }

func (*clearFailCache) Clear(context.Context) error { return errors.New("boom") }

func TestCacheAdmin_Clear(t *testing.T) {
	ctx := context.Background()
	cache := memory.NewVerdictCache()
	require.NoError(t, cache.Set(ctx, "http://example.com", true))

	admin := NewCacheAdmin(cache, 2*time.Second, zap.NewNop())
	res, err := admin.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cache cleared!", res.Message)
	assert.Equal(t, 2*time.Second, res.DisplayFor)

	size, err := admin.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestCacheAdmin_ClearError(t *testing.T) {
	admin := NewCacheAdmin(&clearFailCache{}, 2*time.Second, zap.NewNop())
	_, err := admin.Clear(context.Background())
	assert.Error(t, err)
}
