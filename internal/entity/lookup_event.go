package entity

import "time"

// LookupEvent mirrors the `lookup_events` PostgreSQL table schema.
// One row is written per network lookup, successful or not.
type LookupEvent struct {
	ID          int64
	URL         string
	URLHash     string
	Safe        bool
	ThreatTypes []string
	Error       string // empty on success
	DurationMS  int
	CheckedAt   time.Time
}
