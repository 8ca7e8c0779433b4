package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/surf/pkg/agent/tools"
)

// ClickTool clicks elements on a page, targeted by CSS selector or by an
// element index from the most recent page state snapshot.
type ClickTool struct {
	manager *SessionManager
}

// NewClickTool creates a new click tool.
func NewClickTool(manager *SessionManager) *ClickTool {
	return &ClickTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *ClickTool) Name() string {
	return "browser_click"
}

// Description returns the tool description.
func (t *ClickTool) Description() string {
	return clickDescription
}

// Schema returns the tool's JSON schema.
func (t *ClickTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Name of the browser session to use",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector of the element to click",
			},
			"index": map[string]interface{}{
				"type":        "integer",
				"description": "Index of the element from the most recent browser state (alternative to selector)",
			},
			"button": map[string]interface{}{
				"type":        "string",
				"description": "Mouse button to use: 'left' (default), 'right', or 'middle'",
			},
			"click_count": map[string]interface{}{
				"type":        "integer",
				"description": "Number of clicks (1 for single, 2 for double; default: 1)",
			},
			"timeout": map[string]interface{}{
				"type":        "number",
				"description": "Maximum time to wait for the element in milliseconds (default: 30000)",
			},
		},
		[]string{"session"},
	)
}

// clickInput represents the parameters for clicking.
type clickInput struct {
	XMLName    xml.Name `xml:"arguments"`
	Session    string   `xml:"session"`
	Selector   string   `xml:"selector"`
	Index      int      `xml:"index"`
	Button     string   `xml:"button"`
	ClickCount int      `xml:"click_count"`
	Timeout    float64  `xml:"timeout"`
}

// Execute clicks an element.
func (t *ClickTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input clickInput
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

	if input.Button != "" {
		switch input.Button {
		case "left", "right", "middle":
		default:
			return "", nil, fmt.Errorf("invalid button: %s (must be 'left', 'right', or 'middle')", input.Button)
		}
	}

	opts := ClickOptions{
		Selector:   selector,
		Button:     input.Button,
		ClickCount: input.ClickCount,
		Timeout:    input.Timeout,
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if clickErr := session.Click(opts); clickErr != nil {
		return "", nil, clickErr
	}

	target := selector
	if label != "" {
		target = fmt.Sprintf("[%d] %q (%s)", input.Index, label, selector)
	}

	result := fmt.Sprintf(`Click successful

- Target: %s
- Current URL: %s
- Session: %s

The click may have changed the page. Use refresh_browser_state before acting on element indices again.`,
		target,
		session.CurrentURL,
		input.Session,
	)

	return result, nil, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *ClickTool) IsLoopBreaking() bool {
	return false
}

// ShouldShow returns whether this tool should be visible.
func (t *ClickTool) ShouldShow() bool {
	return t.manager.HasSessions()
}
