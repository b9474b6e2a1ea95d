package entity

// MessageTypeCheckURL is the only lookup message type the broker answers.
const MessageTypeCheckURL = "checkUrl"

// Tooltip labels for a verdict.
const (
	LabelSafe   = "Safe"
	LabelUnsafe = "Warning: Malicious"
)

// Verdict is the safety determination for a URL: true means safe, false means flagged.
type Verdict bool

// Label returns the tooltip text for the verdict.
func (v Verdict) Label() string {
	if v {
		return LabelSafe
	}
	return LabelUnsafe
}

// LookupRequest is the message sent to the broker to check a URL.
type LookupRequest struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// LookupResponse is the broker's answer to a LookupRequest.
type LookupResponse struct {
	Safe bool `json:"safe"`
}
