package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/urlsafety-service/internal/entity"
	"github.com/user/urlsafety-service/internal/repository"
)

// ScanReportRepoImpl provides a concrete implementation for the ScanReportRepository interface using PostgreSQL.
type ScanReportRepoImpl struct {
	db *pgxpool.Pool
}

// NewScanReportRepo creates a new instance of ScanReportRepoImpl.
func NewScanReportRepo(db *pgxpool.Pool) *ScanReportRepoImpl {
	return &ScanReportRepoImpl{db: db}
}

// Save stores or replaces the scan report for a page.
func (r *ScanReportRepoImpl) Save(ctx context.Context, report *entity.ScanReport) error {
	links := report.Links
	if links == nil {
		links = []entity.LinkVerdict{}
	}
	linksJSON, err := json.Marshal(links)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO scan_reports (id, page_url, status, links, flagged_count, failure_reason, scanned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (page_url) DO UPDATE SET
			id = EXCLUDED.id,
			status = EXCLUDED.status,
			links = EXCLUDED.links,
			flagged_count = EXCLUDED.flagged_count,
			failure_reason = EXCLUDED.failure_reason,
			scanned_at = EXCLUDED.scanned_at;
	`
	_, err = r.db.Exec(ctx, query,
		report.ID,
		report.PageURL,
		report.Status,
		linksJSON,
		report.FlaggedCount,
		report.FailureReason,
		report.ScannedAt,
	)
	return err
}

// FindByPageURL retrieves the scan report for a page.
func (r *ScanReportRepoImpl) FindByPageURL(ctx context.Context, pageURL string) (*entity.ScanReport, error) {
	query := `
		SELECT id::text, page_url, status, links, flagged_count, failure_reason, scanned_at
		FROM scan_reports
		WHERE page_url = $1;
	`
	var report entity.ScanReport
	var linksJSON []byte

	err := r.db.QueryRow(ctx, query, pageURL).Scan(
		&report.ID,
		&report.PageURL,
		&report.Status,
		&linksJSON,
		&report.FlaggedCount,
		&report.FailureReason,
		&report.ScannedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrScanNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(linksJSON, &report.Links); err != nil {
		return nil, err
	}
	return &report, nil
}
