package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/surf/pkg/agent/tools"
)

// FillTool fills form inputs on a page, targeted by CSS selector or by an
// element index from the most recent page state snapshot.
type FillTool struct {
	manager *SessionManager
}

// NewFillTool creates a new fill tool.
func NewFillTool(manager *SessionManager) *FillTool {
	return &FillTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *FillTool) Name() string {
	return "browser_fill"
}

// Description returns the tool description.
func (t *FillTool) Description() string {
	return fillDescription
}

// Schema returns the tool's JSON schema.
func (t *FillTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Name of the browser session to use",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector of the input to fill",
			},
			"index": map[string]interface{}{
				"type":        "integer",
				"description": "Index of the input from the most recent browser state (alternative to selector)",
			},
			"value": map[string]interface{}{
				"type":        "string",
				"description": "Value to fill into the input",
			},
			"timeout": map[string]interface{}{
				"type":        "number",
				"description": "Maximum time to wait for the element in milliseconds (default: 30000)",
			},
		},
		[]string{"session", "value"},
	)
}

// fillInput represents the parameters for filling.
type fillInput struct {
	XMLName  xml.Name `xml:"arguments"`
	Session  string   `xml:"session"`
	Selector string   `xml:"selector"`
	Index    int      `xml:"index"`
	Value    string   `xml:"value"`
	Timeout  float64  `xml:"timeout"`
}

// Execute fills an input element.
func (t *FillTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input fillInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Session == "" {
		return "", nil, fmt.Errorf("session name is required")
	}
	if input.Selector == "" && input.Index == 0 {
		return "", nil, fmt.Errorf("either selector or index is required")
	}

	session, err := t.manager.GetSession(input.Session)
	if err != nil {
		return "", nil, err
	}

	selector := input.Selector
	label := ""
	if selector == "" {
		element, resolveErr := session.ResolveElement(input.Index)
		if resolveErr != nil {
			return "", nil, resolveErr
		}
		selector = element.Selector
		label = element.Label
	}

	opts := FillOptions{
		Selector: selector,
		Value:    input.Value,
		Timeout:  input.Timeout,
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if fillErr := session.Fill(opts); fillErr != nil {
		return "", nil, fillErr
	}

	target := selector
	if label != "" {
		target = fmt.Sprintf("[%d] %q (%s)", input.Index, label, selector)
	}

	result := fmt.Sprintf(`Fill successful

- Target: %s
- Session: %s

Use refresh_browser_state to see the updated page before acting on element indices again.`,
		target,
		input.Session,
	)

	return result, nil, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *FillTool) IsLoopBreaking() bool {
	return false
}

// ShouldShow returns whether this tool should be visible.
func (t *FillTool) ShouldShow() bool {
	return t.manager.HasSessions()
}
