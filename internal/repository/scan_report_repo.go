package repository

import (
	"context"
	"errors"

	"github.com/user/urlsafety-service/internal/entity"
)

// ErrScanNotFound is returned when no scan report exists for a page.
var ErrScanNotFound = errors.New("scan report not found")

// ScanReportRepository stores page scan reports.
type ScanReportRepository interface {
	// Save stores the report. If a report for the page already exists, it is replaced.
	Save(ctx context.Context, report *entity.ScanReport) error
	// FindByPageURL retrieves the report for a page.
	FindByPageURL(ctx context.Context, pageURL string) (*entity.ScanReport, error)
}
