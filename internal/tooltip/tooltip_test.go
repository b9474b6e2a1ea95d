package tooltip

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, tip *Tooltip) *goquery.Document {
	t.Helper()
	out, err := tip.HTML()
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	return doc
}

func TestCreate_IsIdempotent(t *testing.T) {
	tip := New(DefaultOffset)
	first := tip.Create()
	second := tip.Create()
	assert.Same(t, first, second)

	// Exactly one shadow root with exactly one content node.
	var shadows int
	for c := first.FirstChild; c != nil; c = c.NextSibling {
		shadows++
		assert.Equal(t, "template", c.Data)
		require.NotNil(t, c.FirstChild)
		assert.Nil(t, c.FirstChild.NextSibling)
	}
	assert.Equal(t, 1, shadows)
}

func TestHTML_ContentInsideShadowRoot(t *testing.T) {
	tip := New(DefaultOffset)
	tip.Show("Safe", 5, 7)

	doc := render(t, tip)
	box := doc.Find(`div[data-url-safety] > template[shadowrootmode="open"] > div.` + ContentClass)
	require.Equal(t, 1, box.Length())
	assert.Equal(t, "Safe", box.Text())
}

func TestShow_PositionAndStacking(t *testing.T) {
	tip := New(DefaultOffset)
	tip.Show("Warning: Malicious", 100, 200)

	style, _ := render(t, tip).Find("div[data-url-safety]").Attr("style")
	assert.Contains(t, style, "position:fixed")
	assert.Contains(t, style, "left:110px")
	assert.Contains(t, style, "top:210px")
	assert.Contains(t, style, "z-index:999999")
	assert.Contains(t, style, "pointer-events:none")
	assert.Contains(t, style, "display:block")
	assert.True(t, tip.Visible())
	assert.Equal(t, "Warning: Malicious", tip.Text())
}

func TestShow_ReplacesText(t *testing.T) {
	tip := New(0)
	tip.Show("Safe", 0, 0)
	tip.Show("Warning: Malicious", 0, 0)

	box := render(t, tip).Find("div." + ContentClass)
	assert.Equal(t, "Warning: Malicious", box.Text())
}

func TestHide(t *testing.T) {
	tip := New(DefaultOffset)
	tip.Hide() // before Create: no-op
	assert.False(t, tip.Visible())

	tip.Show("Safe", 1, 1)
	tip.Hide()
	assert.False(t, tip.Visible())

	style, _ := render(t, tip).Find("div[data-url-safety]").Attr("style")
	assert.Contains(t, style, "display:none")
}
