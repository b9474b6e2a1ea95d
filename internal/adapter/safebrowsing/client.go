package safebrowsing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/user/urlsafety-service/internal/repository"
)

// Threat categories queried for every URL.
var threatTypes = []string{
	"MALWARE",
	"SOCIAL_ENGINEERING",
	"UNWANTED_SOFTWARE",
	"POTENTIALLY_HARMFUL_APPLICATION",
}

type clientInfo struct {
	ClientID      string `json:"clientId"`
	ClientVersion string `json:"clientVersion"`
}

type threatEntry struct {
	URL string `json:"url"`
}

type threatInfo struct {
	ThreatTypes      []string      `json:"threatTypes"`
	PlatformTypes    []string      `json:"platformTypes"`
	ThreatEntryTypes []string      `json:"threatEntryTypes"`
	ThreatEntries    []threatEntry `json:"threatEntries"`
}

type findRequest struct {
	Client     clientInfo `json:"client"`
	ThreatInfo threatInfo `json:"threatInfo"`
}

type findResponse struct {
	Matches []repository.ThreatMatch `json:"matches"`
}

// Options configures a Client.
type Options struct {
	Endpoint      string
	APIKey        string
	ClientID      string
	ClientVersion string
	Timeout       time.Duration
}

// Client implements repository.ThreatLookupRepository against the Safe Browsing v4 threatMatches:find API.
type Client struct {
	endpoint string
	client   clientInfo
	http     *http.Client
}

// NewClient builds a Client. The API key is appended to the endpoint as the "key" query parameter.
func NewClient(opts Options) (*Client, error) {
	u, err := url.Parse(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid safe browsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", opts.APIKey)
	u.RawQuery = q.Encode()

	return &Client{
		endpoint: u.String(),
		client:   clientInfo{ClientID: opts.ClientID, ClientVersion: opts.ClientVersion},
		http:     &http.Client{Timeout: opts.Timeout},
	}, nil
}

// Lookup queries the API for a single URL. No retry is attempted.
func (c *Client) Lookup(ctx context.Context, rawURL string) ([]repository.ThreatMatch, error) {
	body, err := json.Marshal(c.buildRequest(rawURL))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("threat api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d", repository.ErrThreatAPIStatus, resp.StatusCode)
	}

	var out findResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrThreatAPIDecode, err)
	}
	return out.Matches, nil
}

func (c *Client) buildRequest(rawURL string) findRequest {
	return findRequest{
		Client: c.client,
		ThreatInfo: threatInfo{
			ThreatTypes:      threatTypes,
			PlatformTypes:    []string{"ANY_PLATFORM"},
			ThreatEntryTypes: []string{"URL"},
			ThreatEntries:    []threatEntry{{URL: rawURL}},
		},
	}
}
