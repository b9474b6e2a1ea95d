package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS lookup_events (
		id BIGSERIAL PRIMARY KEY,
		url TEXT NOT NULL,
		url_hash CHAR(64) NOT NULL,
		safe BOOLEAN NOT NULL,
		threat_types TEXT[] NOT NULL DEFAULT '{}',
		error TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL,
		checked_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS lookup_events_url_hash_idx ON lookup_events (url_hash, checked_at DESC);`,
	`CREATE TABLE IF NOT EXISTS scan_reports (
		id UUID PRIMARY KEY,
		page_url TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		links JSONB NOT NULL DEFAULT '[]',
		flagged_count INTEGER NOT NULL DEFAULT 0,
		failure_reason TEXT NOT NULL DEFAULT '',
		scanned_at TIMESTAMPTZ NOT NULL
	);`,
}

// Migrate creates the tables used by the postgres repositories if they do not exist.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
