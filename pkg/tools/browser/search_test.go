package browser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchFixture = `Welcome to Example
Pricing starts at $10 per month.
Contact us at sales@example.com
Enterprise PRICING is negotiated.
Footer text.`

func TestSearchText(t *testing.T) {
	t.Run("case insensitive by default", func(t *testing.T) {
		matches := searchText(searchFixture, SearchOptions{Pattern: "pricing", MaxResults: 10})
		require.Len(t, matches, 2)
		assert.Equal(t, "Pricing starts at $10 per month.", matches[0].Text)
		assert.Equal(t, "Enterprise PRICING is negotiated.", matches[1].Text)
	})

	t.Run("case sensitive", func(t *testing.T) {
		matches := searchText(searchFixture, SearchOptions{Pattern: "PRICING", CaseSensitive: true, MaxResults: 10})
		require.Len(t, matches, 1)
		assert.Equal(t, "Enterprise PRICING is negotiated.", matches[0].Text)
	})

	t.Run("max results caps matches", func(t *testing.T) {
		matches := searchText(searchFixture, SearchOptions{Pattern: "pricing", MaxResults: 1})
		require.Len(t, matches, 1)
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, searchText(searchFixture, SearchOptions{Pattern: "refunds", MaxResults: 10}))
	})

	t.Run("context includes neighbors", func(t *testing.T) {
		matches := searchText(searchFixture, SearchOptions{Pattern: "sales@example.com", MaxResults: 10})
		require.Len(t, matches, 1)
		assert.Contains(t, matches[0].Context, "Pricing starts at $10 per month.")
		assert.Contains(t, matches[0].Context, "Enterprise PRICING is negotiated.")
	})
}

func TestFormatSearchResults(t *testing.T) {
	t.Run("no matches", func(t *testing.T) {
		out := formatSearchResults("refunds", nil, 10)
		assert.Contains(t, out, `No matches found for "refunds"`)
	})

	t.Run("numbered matches", func(t *testing.T) {
		matches := []SearchMatch{
			{Text: "Pricing starts at $10.", Context: "Welcome Pricing starts at $10. Contact"},
			{Text: "Enterprise pricing.", Context: "Enterprise pricing."},
		}
		out := formatSearchResults("pricing", matches, 10)
		assert.Contains(t, out, `Found 2 match(es) for "pricing"`)
		assert.Contains(t, out, "1. Pricing starts at $10.")
		assert.Contains(t, out, "2. Enterprise pricing.")
		assert.Contains(t, out, "Context: Welcome Pricing starts at $10. Contact")
		assert.NotContains(t, out, "Limited to")
	})

	t.Run("limit note when capped", func(t *testing.T) {
		matches := []SearchMatch{{Text: "a"}, {Text: "b"}}
		out := formatSearchResults("x", matches, 2)
		assert.Contains(t, out, "[Limited to 2 results")
	})
}

func TestSearchToolValidation(t *testing.T) {
	manager := NewSessionManager()
	tool := NewSearchTool(manager)
	ctx := context.Background()

	tests := []struct {
		name    string
		args    string
		wantErr string
	}{
		{
			name:    "missing session",
			args:    "<arguments><pattern>pricing</pattern></arguments>",
			wantErr: "session name is required",
		},
		{
			name:    "missing pattern",
			args:    "<arguments><session>main</session></arguments>",
			wantErr: "search pattern is required",
		},
		{
			name:    "max_results out of range",
			args:    "<arguments><session>main</session><pattern>x</pattern><max_results>500</max_results></arguments>",
			wantErr: "max_results must be between 1 and 100",
		},
		{
			name:    "unknown session",
			args:    "<arguments><session>ghost</session><pattern>x</pattern></arguments>",
			wantErr: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tool.Execute(ctx, []byte(tt.args))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSearchToolMetadata(t *testing.T) {
	tool := NewSearchTool(NewSessionManager())

	assert.Equal(t, "browser_search", tool.Name())
	assert.False(t, tool.IsLoopBreaking())
	assert.True(t, strings.Contains(tool.Description(), "Search"))

	schema := tool.Schema()
	props := schema["properties"].(map[string]interface{})
	assert.Contains(t, props, "pattern")
	assert.Contains(t, props, "case_sensitive")
	assert.Contains(t, props, "max_results")
	require.Contains(t, schema, "required")
	assert.Contains(t, schema["required"].([]string), "pattern")
}
