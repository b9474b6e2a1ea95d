package request

// CheckURLRequest is the lookup message accepted by POST /api/check.
type CheckURLRequest struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// SubmitScanRequest is the body of POST /api/scan.
type SubmitScanRequest struct {
	URL string `json:"url"`
}

// Hover frame types sent by the page.
const (
	PointerOver = "mouseover"
	PointerOut  = "mouseout"
)

// PointerEvent is an inbound hover WebSocket frame. Href is the resolved
// target of the closest enclosing anchor, empty when there is none.
type PointerEvent struct {
	Type string `json:"type"`
	Href string `json:"href,omitempty"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}
