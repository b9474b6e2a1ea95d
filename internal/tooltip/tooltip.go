// Package tooltip builds the verdict tooltip as an HTML subtree whose content
// lives in a declarative shadow root, so page CSS cannot reach it.
package tooltip

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ContentClass is the class of the single content node inside the shadow root.
const ContentClass = "url-safety-tooltip"

// DefaultOffset is the pixel distance between the cursor and the tooltip.
const DefaultOffset = 10

const boxStyle = "font:12px/1.4 sans-serif;padding:4px 8px;border-radius:4px;" +
	"background:#222;color:#fff;box-shadow:0 2px 6px rgba(0,0,0,.3);white-space:nowrap"

// Tooltip owns one host element. It is safe for concurrent use.
type Tooltip struct {
	mu      sync.Mutex
	offset  int
	host    *html.Node
	box     *html.Node
	text    string
	left    int
	top     int
	visible bool
}

// New returns a Tooltip that renders offset pixels below and right of the cursor.
func New(offset int) *Tooltip {
	return &Tooltip{offset: offset}
}

// Create builds the host element on first use and returns it. Later calls return the same node.
func (t *Tooltip) Create() *html.Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.create()
}

func (t *Tooltip) create() *html.Node {
	if t.host != nil {
		return t.host
	}

	t.box = &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr: []html.Attribute{
			{Key: "class", Val: ContentClass},
			{Key: "style", Val: boxStyle},
		},
	}
	shadow := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Template,
		Data:     "template",
		Attr:     []html.Attribute{{Key: "shadowrootmode", Val: "open"}},
	}
	shadow.AppendChild(t.box)

	t.host = &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr:     []html.Attribute{{Key: "data-url-safety", Val: "tooltip"}},
	}
	t.host.AppendChild(shadow)
	t.applyStyle()
	return t.host
}

// Show sets the text and moves the tooltip next to the cursor.
func (t *Tooltip) Show(text string, x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.create()

	for c := t.box.FirstChild; c != nil; c = t.box.FirstChild {
		t.box.RemoveChild(c)
	}
	t.box.AppendChild(&html.Node{Type: html.TextNode, Data: text})

	t.text = text
	t.left = x + t.offset
	t.top = y + t.offset
	t.visible = true
	t.applyStyle()
}

// Hide hides the tooltip. It is a no-op before Create.
func (t *Tooltip) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.host == nil {
		return
	}
	t.visible = false
	t.applyStyle()
}

// Visible reports whether the tooltip is shown.
func (t *Tooltip) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// Text returns the current tooltip text.
func (t *Tooltip) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

// HTML renders the host element and its shadow root.
func (t *Tooltip) HTML() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var sb strings.Builder
	if err := html.Render(&sb, t.create()); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// applyStyle rewrites the host's inline style. Callers hold t.mu.
func (t *Tooltip) applyStyle() {
	display := "none"
	if t.visible {
		display = "block"
	}
	style := fmt.Sprintf("position:fixed;left:%dpx;top:%dpx;z-index:999999;pointer-events:none;display:%s",
		t.left, t.top, display)
	setAttr(t.host, "style", style)
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
