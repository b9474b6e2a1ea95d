package entity

import "time"

// Scan statuses.
const (
	ScanStatusPending   = "pending"
	ScanStatusCompleted = "completed"
	ScanStatusFailed    = "failed"
)

// LinkVerdict is one checked link on a scanned page.
type LinkVerdict struct {
	URL  string `json:"url"`
	Safe bool   `json:"safe"`
}

// ScanReport mirrors the `scan_reports` PostgreSQL table schema.
type ScanReport struct {
	ID            string
	PageURL       string
	Status        string
	Links         []LinkVerdict // Stored as JSONB in PostgreSQL
	FlaggedCount  int
	FailureReason string
	ScannedAt     time.Time
}

// Flagged returns the links with an unsafe verdict.
func (r *ScanReport) Flagged() []LinkVerdict {
	var out []LinkVerdict
	for _, l := range r.Links {
		if !l.Safe {
			out = append(out, l)
		}
	}
	return out
}
