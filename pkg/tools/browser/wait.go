package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/surf/pkg/agent/tools"
)

// WaitTool waits for an element to reach a given state.
type WaitTool struct {
	manager *SessionManager
}

// NewWaitTool creates a new wait tool.
func NewWaitTool(manager *SessionManager) *WaitTool {
	return &WaitTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *WaitTool) Name() string {
	return "browser_wait"
}

// Description returns the tool description.
func (t *WaitTool) Description() string {
	return waitDescription
}

// Schema returns the tool's JSON schema.
func (t *WaitTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Name of the browser session to use",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector of the element to wait for",
			},
			"state": map[string]interface{}{
				"type":        "string",
				"description": "State to wait for: 'visible' (default), 'hidden', 'attached', or 'detached'",
			},
			"timeout": map[string]interface{}{
				"type":        "number",
				"description": "Maximum time to wait in milliseconds (default: 30000)",
			},
		},
		[]string{"session", "selector"},
	)
}

// waitInput represents the parameters for waiting.
type waitInput struct {
	XMLName  xml.Name `xml:"arguments"`
	Session  string   `xml:"session"`
	Selector string   `xml:"selector"`
	State    string   `xml:"state"`
	Timeout  float64  `xml:"timeout"`
}

// Execute waits for an element.
func (t *WaitTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input waitInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Session == "" {
		return "", nil, fmt.Errorf("session name is required")
	}
	if input.Selector == "" {
		return "", nil, fmt.Errorf("selector is required")
	}

	state := input.State
	if state == "" {
		state = "visible"
	}
	switch state {
	case "visible", "hidden", "attached", "detached":
	default:
		return "", nil, fmt.Errorf("invalid state: %s (must be 'visible', 'hidden', 'attached', or 'detached')", state)
	}

	session, err := t.manager.GetSession(input.Session)
	if err != nil {
		return "", nil, err
	}

	opts := WaitOptions{
		Selector: input.Selector,
		State:    state,
		Timeout:  input.Timeout,
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if waitErr := session.Wait(opts); waitErr != nil {
		return "", nil, waitErr
	}

	result := fmt.Sprintf("Element %q reached state %q in session %q.", input.Selector, state, input.Session)
	return result, nil, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *WaitTool) IsLoopBreaking() bool {
	return false
}

// ShouldShow returns whether this tool should be visible.
func (t *WaitTool) ShouldShow() bool {
	return t.manager.HasSessions()
}
