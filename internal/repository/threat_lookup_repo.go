package repository

import (
	"context"
	"errors"
)

var (
	// ErrThreatAPIStatus is returned when the threat-intelligence API answers with a non-2xx status.
	ErrThreatAPIStatus = errors.New("threat api returned non-2xx status")
	// ErrThreatAPIDecode is returned when the threat-intelligence API response is not valid JSON.
	ErrThreatAPIDecode = errors.New("threat api returned malformed response")
)

// ThreatMatch is one entry of the threat-intelligence "matches" list.
type ThreatMatch struct {
	ThreatType      string `json:"threatType"`
	PlatformType    string `json:"platformType,omitempty"`
	ThreatEntryType string `json:"threatEntryType,omitempty"`
}

// ThreatLookupRepository queries an external threat-intelligence service.
type ThreatLookupRepository interface {
	// Lookup returns the matches reported for url. An empty result means no threat was found.
	Lookup(ctx context.Context, url string) ([]ThreatMatch, error)
}
