package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/surf/pkg/agent/tools"
	"github.com/entrhq/surf/pkg/config"
)

// CloseSessionTool closes an active browser session.
type CloseSessionTool struct {
	manager *SessionManager
}

// NewCloseSessionTool creates a new close session tool.
func NewCloseSessionTool(manager *SessionManager) *CloseSessionTool {
	return &CloseSessionTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *CloseSessionTool) Name() string {
	return "close_browser_session"
}

// Description returns the tool description.
func (t *CloseSessionTool) Description() string {
	return closeSessionDescription
}

// Schema returns the tool's JSON schema.
func (t *CloseSessionTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the browser session to close",
			},
		},
		[]string{"name"},
	)
}

// closeSessionInput defines the input parameters.
type closeSessionInput struct {
	XMLName xml.Name `xml:"arguments"`
	Name    string   `xml:"name"`
}

// Execute closes a browser session.
func (t *CloseSessionTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input closeSessionInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Name == "" {
		return "", nil, fmt.Errorf("session name is required")
	}

	if err := t.manager.CloseSession(input.Name); err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("Browser session %q closed. Its resources have been released and its page state is no longer valid.", input.Name), nil, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *CloseSessionTool) IsLoopBreaking() bool {
	return false
}

// ShouldShow returns whether this tool should be visible.
func (t *CloseSessionTool) ShouldShow() bool {
	return config.IsBrowserEnabled()
}
