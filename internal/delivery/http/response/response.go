package response

import "time"

// CheckURLResponse answers a lookup message.
type CheckURLResponse struct {
	Safe bool `json:"safe"`
}

// ClearCacheResponse is the bulk-clear confirmation.
type ClearCacheResponse struct {
	Status       string `json:"status"`
	DisplayForMS int64  `json:"display_for_ms"`
}

type SubmitScanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ScanReportResponse is a DTO for a scan report, mirroring entity.ScanReport
type ScanReportResponse struct {
	ID            string        `json:"id"`
	PageURL       string        `json:"page_url"`
	Status        string        `json:"status"` // "pending", "completed", "failed"
	Links         []LinkVerdict `json:"links"`
	FlaggedCount  int           `json:"flagged_count"`
	FailureReason string        `json:"failure_reason,omitempty"`
	ScannedAt     time.Time     `json:"scanned_at"`
}

// LookupEventResponse is one audited network lookup.
type LookupEventResponse struct {
	URL         string    `json:"url"`
	Safe        bool      `json:"safe"`
	ThreatTypes []string  `json:"threat_types,omitempty"`
	Error       string    `json:"error,omitempty"`
	DurationMS  int       `json:"duration_ms"`
	CheckedAt   time.Time `json:"checked_at"`
}

type LinkVerdict struct {
	URL  string `json:"url"`
	Safe bool   `json:"safe"`
}

// Tooltip actions sent to the page.
const (
	ActionShow = "show"
	ActionHide = "hide"
)

// TooltipCommand is an outbound hover WebSocket frame.
type TooltipCommand struct {
	Action string `json:"action"`
	Text   string `json:"text,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	HTML   string `json:"html,omitempty"`
}
