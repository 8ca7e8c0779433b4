package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/surf/pkg/agent/tools"
)

// ExtractContentTool extracts page content in various formats.
type ExtractContentTool struct {
	manager *SessionManager
}

// NewExtractContentTool creates a new extract content tool.
func NewExtractContentTool(manager *SessionManager) *ExtractContentTool {
	return &ExtractContentTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *ExtractContentTool) Name() string {
	return "browser_extract_content"
}

// Description returns the tool description.
func (t *ExtractContentTool) Description() string {
	return extractContentDescription
}

// Schema returns the tool's JSON schema.
func (t *ExtractContentTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Name of the browser session to use",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Extraction format: 'markdown' (default), 'text', or 'structured'",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector to limit extraction to matching elements (optional)",
			},
			"max_length": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum content length in characters (default: 10000)",
			},
		},
		[]string{"session"},
	)
}

// extractInput represents the parameters for content extraction.
type extractInput struct {
	XMLName   xml.Name `xml:"arguments"`
	Session   string   `xml:"session"`
	Format    string   `xml:"format"`
	Selector  string   `xml:"selector"`
	MaxLength int      `xml:"max_length"`
}

// Execute extracts content from the page.
func (t *ExtractContentTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input extractInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Session == "" {
		return "", nil, fmt.Errorf("session name is required")
	}

	format := ExtractFormat(input.Format)
	if input.Format == "" {
		format = FormatMarkdown
	}
	switch format {
	case FormatMarkdown, FormatText, FormatStructured:
	default:
		return "", nil, fmt.Errorf("invalid format: %s (must be 'markdown', 'text', or 'structured')", input.Format)
	}

	session, err := t.manager.GetSession(input.Session)
	if err != nil {
		return "", nil, err
	}

	opts := ExtractOptions{
		Format:    format,
		Selector:  input.Selector,
		MaxLength: input.MaxLength,
	}

	content, err := session.ExtractContent(opts)
	if err != nil {
		return "", nil, err
	}

	metadata := map[string]interface{}{
		"session": input.Session,
		"url":     session.CurrentURL,
		"format":  string(format),
		"length":  len(content),
	}

	return content, metadata, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *ExtractContentTool) IsLoopBreaking() bool {
	return false
}

// ShouldShow returns whether this tool should be visible.
func (t *ExtractContentTool) ShouldShow() bool {
	return t.manager.HasSessions()
}
