package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanHTML(t *testing.T) {
	raw := `<!DOCTYPE html>
<html>
<head>
	<title>Example Page</title>
	<meta name="description" content="A page used in tests.">
	<style>body { color: red; }</style>
	<script>console.log("noise");</script>
</head>
<body>
	<nav><a href="/">Home</a></nav>
	<h1>Welcome</h1>
	<p>First paragraph.</p>
	<p>Second   paragraph with
	a line break.</p>
	<script>trackPageView();</script>
	<noscript>Enable JavaScript</noscript>
</body>
</html>`

	cleaned, err := CleanHTML(raw)
	require.NoError(t, err)

	assert.Equal(t, "Example Page", cleaned.Title)
	assert.Equal(t, "A page used in tests.", cleaned.Description)

	assert.Contains(t, cleaned.Text, "Welcome")
	assert.Contains(t, cleaned.Text, "First paragraph.")
	assert.Contains(t, cleaned.Text, "Second   paragraph")

	assert.NotContains(t, cleaned.Text, "console.log")
	assert.NotContains(t, cleaned.Text, "color: red")
	assert.NotContains(t, cleaned.Text, "trackPageView")
	assert.NotContains(t, cleaned.Text, "Enable JavaScript")
	// Title lives in head, which is excluded from body text
	assert.NotContains(t, cleaned.Text, "Example Page")
}

func TestCleanHTMLBlockStructure(t *testing.T) {
	raw := `<body><h1>Title</h1><p>One</p><p>Two</p></body>`

	cleaned, err := CleanHTML(raw)
	require.NoError(t, err)

	lines := strings.Split(cleaned.Text, "\n")
	nonEmpty := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}
	assert.Equal(t, []string{"Title", "One", "Two"}, nonEmpty)
}

func TestCleanHTMLMissingMetadata(t *testing.T) {
	cleaned, err := CleanHTML(`<body><p>Just text</p></body>`)
	require.NoError(t, err)

	assert.Empty(t, cleaned.Title)
	assert.Empty(t, cleaned.Description)
	assert.Equal(t, "Just text", cleaned.Text)
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses blank runs", "a\n\n\n\nb", "a\n\nb"},
		{"trims trailing spaces", "a  \nb\t\n", "a\nb"},
		{"trims surrounding blanks", "\n\nhello\n\n", "hello"},
		{"empty input", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeWhitespace(tt.input))
		})
	}
}
