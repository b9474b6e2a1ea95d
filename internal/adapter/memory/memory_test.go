package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/urlsafety-service/internal/repository"
)

var (
	_ repository.VerdictCacheRepository = (*VerdictCache)(nil)
	_ repository.QueueRepository        = (*Queue)(nil)
)

func TestVerdictCache_GetSetClear(t *testing.T) {
	ctx := context.Background()
	c := NewVerdictCache()

	_, found, err := c.Get(ctx, "http://example.com")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "http://example.com", true))
	require.NoError(t, c.Set(ctx, "http://malicious.com", false))
	require.NoError(t, c.Set(ctx, "http://example.com", true))

	safe, found, err := c.Get(ctx, "http://example.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, safe)

	safe, found, _ = c.Get(ctx, "http://malicious.com")
	assert.True(t, found)
	assert.False(t, safe)

	n, _ := c.Count(ctx)
	assert.Equal(t, int64(2), n, "one entry per distinct URL")

	require.NoError(t, c.Clear(ctx))
	n, _ = c.Count(ctx)
	assert.Zero(t, n)
}

func TestVerdictCache_NoNormalization(t *testing.T) {
	ctx := context.Background()
	c := NewVerdictCache()
	require.NoError(t, c.Set(ctx, "http://example.com", false))

	_, found, _ := c.Get(ctx, "http://example.com/")
	assert.False(t, found)
	_, found, _ = c.Get(ctx, "HTTP://example.com")
	assert.False(t, found)
}

func TestQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := NewQueue()

	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, repository.ErrEmptyQueue)

	require.NoError(t, q.Push(ctx, "a"))
	require.NoError(t, q.Push(ctx, "b"))
	n, _ := q.Size(ctx)
	assert.Equal(t, int64(2), n)

	got, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", got)
	got, _ = q.Pop(ctx)
	assert.Equal(t, "b", got)
}
