package browser

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/entrhq/surf/pkg/agent/tools"
)

// SearchTool searches the readable text of the current page.
type SearchTool struct {
	manager *SessionManager
}

// NewSearchTool creates a new search tool.
func NewSearchTool(manager *SessionManager) *SearchTool {
	return &SearchTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *SearchTool) Name() string {
	return "browser_search"
}

// Description returns the tool description.
func (t *SearchTool) Description() string {
	return searchDescription
}

// Schema returns the tool's JSON schema.
func (t *SearchTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Name of the browser session to use",
			},
			"pattern": map[string]interface{}{
				"type":        "string",
				"description": "Text to search for in the page",
			},
			"case_sensitive": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether the search is case-sensitive (default: false)",
			},
			"max_results": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of matches to return (default: 10, max: 100)",
			},
		},
		[]string{"session", "pattern"},
	)
}

// searchInput represents the parameters for searching.
type searchInput struct {
	XMLName       xml.Name `xml:"arguments"`
	Session       string   `xml:"session"`
	Pattern       string   `xml:"pattern"`
	CaseSensitive bool     `xml:"case_sensitive"`
	MaxResults    int      `xml:"max_results"`
}

// Execute searches the page text.
func (t *SearchTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input searchInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Session == "" {
		return "", nil, fmt.Errorf("session name is required")
	}
	if input.Pattern == "" {
		return "", nil, fmt.Errorf("search pattern is required")
	}
	if input.MaxResults < 0 || input.MaxResults > MaxSearchResults {
		return "", nil, fmt.Errorf("max_results must be between 1 and %d", MaxSearchResults)
	}

	session, err := t.manager.GetSession(input.Session)
	if err != nil {
		return "", nil, err
	}

	opts := SearchOptions{
		Pattern:       input.Pattern,
		CaseSensitive: input.CaseSensitive,
		MaxResults:    input.MaxResults,
	}
	if opts.MaxResults == 0 {
		opts.MaxResults = DefaultSearchResults
	}

	matches, err := session.Search(opts)
	if err != nil {
		return "", nil, err
	}

	return formatSearchResults(input.Pattern, matches, opts.MaxResults), nil, nil
}

// formatSearchResults renders matches for the model.
func formatSearchResults(pattern string, matches []SearchMatch, maxResults int) string {
	if len(matches) == 0 {
		return fmt.Sprintf("No matches found for %q on the current page.", pattern)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d match(es) for %q:\n", len(matches), pattern)
	for i, match := range matches {
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, match.Text)
		if match.Context != "" && match.Context != match.Text {
			fmt.Fprintf(&sb, "   Context: %s\n", match.Context)
		}
	}
	if len(matches) >= maxResults {
		fmt.Fprintf(&sb, "\n[Limited to %d results. Refine the pattern to narrow the search.]", maxResults)
	}
	return sb.String()
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *SearchTool) IsLoopBreaking() bool {
	return false
}

// ShouldShow returns whether this tool should be visible.
func (t *SearchTool) ShouldShow() bool {
	return t.manager.HasSessions()
}
