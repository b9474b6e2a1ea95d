//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/user/urlsafety-service/internal/repository"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("redis endpoint: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestVerdictCache_Redis(t *testing.T) {
	ctx := context.Background()
	cache := NewVerdictCache(startRedis(t))

	require.NoError(t, cache.Ping(ctx))

	_, found, err := cache.Get(ctx, "http://example.com")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "http://example.com", true))
	require.NoError(t, cache.Set(ctx, "http://malicious.com", false))
	require.NoError(t, cache.Set(ctx, "http://malicious.com", false))

	safe, found, err := cache.Get(ctx, "http://example.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, safe)

	safe, found, err = cache.Get(ctx, "http://malicious.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, safe)

	n, err := cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, cache.Clear(ctx))
	n, err = cache.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestQueueRepo_Redis(t *testing.T) {
	ctx := context.Background()
	q := NewQueueRepo(startRedis(t))

	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, repository.ErrEmptyQueue)

	require.NoError(t, q.Push(ctx, "https://a.example"))
	require.NoError(t, q.Push(ctx, "https://b.example"))

	first, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://a.example", first)

	size, err := q.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)
}
