//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/user/urlsafety-service/internal/entity"
	"github.com/user/urlsafety-service/internal/repository"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "urlsafety",
				"POSTGRES_PASSWORD": "urlsafety",
				"POSTGRES_DB":       "urlsafety",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("postgres endpoint: %v", err)
	}
	pool, err := pgxpool.New(ctx, fmt.Sprintf("postgres://urlsafety:urlsafety@%s/urlsafety?sslmode=disable", endpoint))
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool), "migrations must be re-runnable")
	return pool
}

func TestPostgresRepos(t *testing.T) {
	pool := startPostgres(t)

	t.Run("lookup events", func(t *testing.T) {
		ctx := context.Background()
		repo := NewLookupEventRepo(pool)
		now := time.Now().UTC().Truncate(time.Millisecond)

		older := &entity.LookupEvent{URL: "http://malicious.com", Safe: false, ThreatTypes: []string{"MALWARE"}, DurationMS: 12, CheckedAt: now.Add(-time.Minute)}
		newer := &entity.LookupEvent{URL: "http://malicious.com", Safe: true, Error: "threat API returned status 503", DurationMS: 40, CheckedAt: now}
		other := &entity.LookupEvent{URL: "https://example.com", Safe: true, DurationMS: 5, CheckedAt: now}
		for _, ev := range []*entity.LookupEvent{older, newer, other} {
			require.NoError(t, repo.Record(ctx, ev))
			assert.NotZero(t, ev.ID)
		}

		events, err := repo.Recent(ctx, "http://malicious.com", 10)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, newer.ID, events[0].ID)
		assert.Equal(t, []string{"MALWARE"}, events[1].ThreatTypes)
		assert.Empty(t, events[1].Error)
	})

	t.Run("scan reports", func(t *testing.T) {
		ctx := context.Background()
		repo := NewScanReportRepo(pool)

		_, err := repo.FindByPageURL(ctx, "https://nowhere.example")
		assert.ErrorIs(t, err, repository.ErrScanNotFound)

		pending := &entity.ScanReport{
			ID:        "7f0f4c1e-9a4c-4d47-8a8e-1d2f4b5c6a70",
			PageURL:   "https://example.com",
			Status:    entity.ScanStatusPending,
			ScannedAt: time.Now().UTC(),
		}
		require.NoError(t, repo.Save(ctx, pending))

		done := &entity.ScanReport{
			ID:      "0b7d8a2c-3e5f-4a61-9c7b-8d9e0f1a2b3c",
			PageURL: "https://example.com",
			Status:  entity.ScanStatusCompleted,
			Links: []entity.LinkVerdict{
				{URL: "https://example.com/about", Safe: true},
				{URL: "http://malicious.com", Safe: false},
			},
			FlaggedCount: 1,
			ScannedAt:    time.Now().UTC(),
		}
		require.NoError(t, repo.Save(ctx, done))

		got, err := repo.FindByPageURL(ctx, "https://example.com")
		require.NoError(t, err)
		assert.Equal(t, done.ID, got.ID)
		assert.Equal(t, entity.ScanStatusCompleted, got.Status)
		assert.Equal(t, done.Links, got.Links)
		assert.Len(t, got.Flagged(), 1)
	})
}
