// Package utils holds URL helpers shared by the broker, the audit log and page scans.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// HashURL returns the hex SHA-256 of rawURL exactly as given. URLs are never
// normalised, so "http://a.com" and "http://a.com/" hash differently.
func HashURL(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

// ResolveHTTPLink resolves an anchor href against the page it appears on.
// ok is false for empty or fragment-only hrefs, unparsable hrefs and targets
// that are not http or https (mailto:, javascript:, tel:).
func ResolveHTTPLink(page *url.URL, href string) (link string, ok bool) {
	href = strings.TrimSpace(href)
	if href == "" || href[0] == '#' {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := page.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	return abs.String(), true
}
