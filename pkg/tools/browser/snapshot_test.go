package browser

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseElements(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{
			"role":     "link",
			"label":    "Docs",
			"selector": "nav > a:nth-of-type(2)",
			"href":     "/docs",
		},
		"not a map",
		map[string]interface{}{
			"role":      "input",
			"label":     "Search",
			"selector":  "#search",
			"inputType": "search",
			"disabled":  true,
		},
	}

	elements := parseElements(raw)
	require.Len(t, elements, 2)

	assert.Equal(t, 1, elements[0].Index)
	assert.Equal(t, "link", elements[0].Role)
	assert.Equal(t, "/docs", elements[0].Href)

	assert.Equal(t, 2, elements[1].Index)
	assert.Equal(t, "search", elements[1].InputType)
	assert.True(t, elements[1].Disabled)
}

func TestParseElementsNonList(t *testing.T) {
	assert.Nil(t, parseElements("garbage"))
	assert.Nil(t, parseElements(nil))
}

func TestParseScroll(t *testing.T) {
	scroll := parseScroll(map[string]interface{}{
		"x":      float64(0),
		"y":      float64(480),
		"height": float64(2400),
	})
	assert.Equal(t, 0, scroll.X)
	assert.Equal(t, 480, scroll.Y)
	assert.Equal(t, 2400, scroll.PageHeight)

	assert.Equal(t, ScrollPosition{}, parseScroll(nil))
}

func TestScrollPositionDescribe(t *testing.T) {
	tests := []struct {
		name   string
		scroll ScrollPosition
		want   string
	}{
		{"unknown height", ScrollPosition{}, "unknown"},
		{"top of page", ScrollPosition{Y: 0, PageHeight: 1000}, "top of page (height 1000px)"},
		{"mid page", ScrollPosition{Y: 500, PageHeight: 2000}, "500px from top (~25% of 2000px)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scroll.describe())
		})
	}
}

func TestResolveElement(t *testing.T) {
	t.Run("no snapshot", func(t *testing.T) {
		session := &Session{Name: "test"}
		_, err := session.ResolveElement(1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no page state captured")
		assert.Contains(t, err.Error(), "refresh_browser_state")
	})

	t.Run("stale snapshot", func(t *testing.T) {
		session := &Session{Name: "test"}
		session.lastState = &PageState{
			Session:  "test",
			Seq:      0,
			Elements: []InteractiveElement{{Index: 1, Role: "link", Selector: "a"}},
		}
		session.bumpState() // simulates a navigation after the snapshot

		_, err := session.ResolveElement(1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stale")
		assert.Contains(t, err.Error(), "refresh_browser_state")
	})

	t.Run("current snapshot resolves", func(t *testing.T) {
		session := &Session{Name: "test"}
		session.lastState = &PageState{
			Session: "test",
			Seq:     0,
			Elements: []InteractiveElement{
				{Index: 1, Role: "link", Label: "Home", Selector: "#home"},
				{Index: 2, Role: "button", Label: "Submit", Selector: "#submit"},
			},
		}

		element, err := session.ResolveElement(2)
		require.NoError(t, err)
		assert.Equal(t, "#submit", element.Selector)
		assert.Equal(t, "Submit", element.Label)
	})

	t.Run("unknown index", func(t *testing.T) {
		session := &Session{Name: "test"}
		session.lastState = &PageState{
			Session:  "test",
			Seq:      0,
			Elements: []InteractiveElement{{Index: 1, Role: "link", Selector: "a"}},
		}

		_, err := session.ResolveElement(7)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index 7 not found")
	})
}

func TestTruncateAtRune(t *testing.T) {
	t.Run("short text untouched", func(t *testing.T) {
		assert.Equal(t, "hello", truncateAtRune("hello", 10))
	})

	t.Run("ascii cuts exactly", func(t *testing.T) {
		assert.Equal(t, "hell", truncateAtRune("hello", 4))
	})

	t.Run("multi-byte rune is never split", func(t *testing.T) {
		// "héllo": é is 2 bytes, so a cut at byte 2 lands mid-rune
		got := truncateAtRune("héllo", 2)
		assert.Equal(t, "h", got)
		assert.True(t, utf8.ValidString(got))
	})

	t.Run("cjk text stays valid at every cut", func(t *testing.T) {
		text := "日本語のテキスト"
		for maxBytes := 0; maxBytes <= len(text); maxBytes++ {
			got := truncateAtRune(text, maxBytes)
			assert.True(t, utf8.ValidString(got), "invalid UTF-8 at maxBytes=%d", maxBytes)
			assert.LessOrEqual(t, len(got), maxBytes)
		}
	})
}

func TestStateSeqBumping(t *testing.T) {
	session := &Session{Name: "test"}
	assert.Equal(t, uint64(0), session.StateSeq())

	session.bumpState()
	session.bumpState()
	assert.Equal(t, uint64(2), session.StateSeq())
}

func TestPageStateRender(t *testing.T) {
	state := &PageState{
		Session: "research",
		URL:     "https://example.com/pricing",
		Title:   "Pricing",
		Scroll:  ScrollPosition{Y: 0, PageHeight: 1800},
		Elements: []InteractiveElement{
			{Index: 1, Role: "link", Label: "Home", Href: "/"},
			{Index: 2, Role: "input", Label: "Email", InputType: "email"},
			{Index: 3, Role: "button", Label: "Subscribe", Disabled: true},
		},
		Excerpt:   "Pricing\nChoose the plan that fits.",
		Truncated: true,
	}

	rendered := state.Render()

	assert.True(t, strings.HasPrefix(rendered, "Browser state refreshed (session: research)"))
	assert.Contains(t, rendered, "- URL: https://example.com/pricing")
	assert.Contains(t, rendered, "- Title: Pricing")
	assert.Contains(t, rendered, "indices valid until the next navigation or interaction")
	assert.Contains(t, rendered, `[1] link "Home" -> /`)
	assert.Contains(t, rendered, `[2] input "Email" (type=email)`)
	assert.Contains(t, rendered, `[3] button "Subscribe" (disabled)`)
	assert.Contains(t, rendered, "Page excerpt:")
	assert.Contains(t, rendered, "Choose the plan that fits.")
	assert.Contains(t, rendered, "[Excerpt truncated to fit the state token budget]")
}

func TestPageStateRenderNoElements(t *testing.T) {
	state := &PageState{
		Session: "empty",
		URL:     "about:blank",
	}

	rendered := state.Render()
	assert.Contains(t, rendered, "(none found)")
	assert.NotContains(t, rendered, "Page excerpt:")
}
