package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/urlsafety-service/internal/entity"
	"github.com/user/urlsafety-service/pkg/utils"
)

// LookupEventRepoImpl provides a concrete implementation for the LookupEventRepository interface using PostgreSQL.
type LookupEventRepoImpl struct {
	db *pgxpool.Pool
}

// NewLookupEventRepo creates a new instance of LookupEventRepoImpl.
func NewLookupEventRepo(db *pgxpool.Pool) *LookupEventRepoImpl {
	return &LookupEventRepoImpl{db: db}
}

// Record inserts a lookup event. The URL hash is derived here when the caller left it empty.
func (r *LookupEventRepoImpl) Record(ctx context.Context, event *entity.LookupEvent) error {
	if event.URLHash == "" {
		event.URLHash = utils.HashURL(event.URL)
	}
	threatTypes := event.ThreatTypes
	if threatTypes == nil {
		threatTypes = []string{}
	}

	query := `
		INSERT INTO lookup_events (url, url_hash, safe, threat_types, error, duration_ms, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	return r.db.QueryRow(ctx, query,
		event.URL,
		event.URLHash,
		event.Safe,
		threatTypes,
		event.Error,
		event.DurationMS,
		event.CheckedAt,
	).Scan(&event.ID)
}

// Recent returns the latest lookup events for a URL, newest first.
func (r *LookupEventRepoImpl) Recent(ctx context.Context, url string, limit int) ([]*entity.LookupEvent, error) {
	query := `
		SELECT id, url, url_hash, safe, threat_types, error, duration_ms, checked_at
		FROM lookup_events
		WHERE url_hash = $1
		ORDER BY checked_at DESC
		LIMIT $2;
	`
	rows, err := r.db.Query(ctx, query, utils.HashURL(url), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*entity.LookupEvent
	for rows.Next() {
		var ev entity.LookupEvent
		if err := rows.Scan(
			&ev.ID,
			&ev.URL,
			&ev.URLHash,
			&ev.Safe,
			&ev.ThreatTypes,
			&ev.Error,
			&ev.DurationMS,
			&ev.CheckedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, &ev)
	}

	return events, rows.Err()
}
