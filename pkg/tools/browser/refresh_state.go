package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/surf/pkg/agent/tools"
)

// RefreshStateTool captures a fresh page state snapshot for a session and
// renders it for the agent's conversation context.
type RefreshStateTool struct {
	manager *SessionManager
}

// NewRefreshStateTool creates a new refresh state tool.
func NewRefreshStateTool(manager *SessionManager) *RefreshStateTool {
	return &RefreshStateTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *RefreshStateTool) Name() string {
	return "refresh_browser_state"
}

// Description returns the tool description.
func (t *RefreshStateTool) Description() string {
	return refreshStateToolDescription
}

// Schema returns the tool's JSON schema.
func (t *RefreshStateTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Name of the browser session to refresh. May be omitted when exactly one session is active.",
			},
			"max_elements": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of interactive elements to include. Default: 75",
			},
		},
		nil,
	)
}

// refreshStateInput defines the input parameters.
type refreshStateInput struct {
	XMLName     xml.Name `xml:"arguments"`
	Session     string   `xml:"session"`
	MaxElements *int     `xml:"max_elements"`
}

// Execute captures and renders the current page state.
func (t *RefreshStateTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input refreshStateInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}

	session, err := t.manager.ResolveSession(input.Session)
	if err != nil {
		return "", nil, err
	}

	opts := StateOptions{
		TokenBudget: t.manager.StateTokenBudget(),
	}
	if input.MaxElements != nil {
		if *input.MaxElements < 1 || *input.MaxElements > 500 {
			return "", nil, fmt.Errorf("max_elements must be between 1 and 500")
		}
		opts.MaxElements = *input.MaxElements
	}

	state, err := session.CaptureState(opts, t.manager.Tokenizer())
	if err != nil {
		return "", nil, fmt.Errorf("failed to capture page state: %w", err)
	}

	metadata := map[string]interface{}{
		"session":        state.Session,
		"url":            state.URL,
		"title":          state.Title,
		"element_count":  len(state.Elements),
		"excerpt_tokens": state.ExcerptTokens,
		"truncated":      state.Truncated,
	}

	return state.Render(), metadata, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *RefreshStateTool) IsLoopBreaking() bool {
	return false
}

// ShouldShow returns whether this tool should be visible.
// State refresh is only meaningful while sessions exist.
func (t *RefreshStateTool) ShouldShow() bool {
	return t.manager.HasSessions()
}
