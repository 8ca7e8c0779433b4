package browser

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/surf/pkg/agent/tools"
)

// EvaluateTool executes JavaScript in a browser session.
type EvaluateTool struct {
	manager *SessionManager
}

// NewEvaluateTool creates a new evaluate tool.
func NewEvaluateTool(manager *SessionManager) *EvaluateTool {
	return &EvaluateTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *EvaluateTool) Name() string {
	return "browser_evaluate"
}

// Description returns the tool description.
func (t *EvaluateTool) Description() string {
	return evaluateDescription
}

// Schema returns the tool's JSON schema.
func (t *EvaluateTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Name of the browser session to use",
			},
			"code": map[string]interface{}{
				"type":        "string",
				"description": "JavaScript code to execute in the page context",
			},
		},
		[]string{"session", "code"},
	)
}

// evaluateInput represents the parameters for evaluation.
type evaluateInput struct {
	XMLName xml.Name `xml:"arguments"`
	Session string   `xml:"session"`
	Code    string   `xml:"code"`
}

// Execute runs the JavaScript code.
func (t *EvaluateTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input evaluateInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Session == "" {
		return "", nil, fmt.Errorf("session name is required")
	}
	if input.Code == "" {
		return "", nil, fmt.Errorf("code is required")
	}

	session, err := t.manager.GetSession(input.Session)
	if err != nil {
		return "", nil, err
	}

	result, err := session.Evaluate(input.Code)
	if err != nil {
		return "", nil, err
	}

	rendered := formatEvaluateResult(result)
	output := fmt.Sprintf("Code executed in session %q.\n\nResult:\n%s\n\nIf the code changed the page, use refresh_browser_state before targeting elements by index.", input.Session, rendered)
	return output, nil, nil
}

// formatEvaluateResult renders an evaluation result for the model.
// Playwright returns JSON-compatible values, so structured results get
// indented JSON and everything else falls back to %v.
func formatEvaluateResult(result interface{}) string {
	if result == nil {
		return "undefined"
	}
	if encoded, err := json.MarshalIndent(result, "", "  "); err == nil {
		return string(encoded)
	}
	return fmt.Sprintf("%v", result)
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *EvaluateTool) IsLoopBreaking() bool {
	return false
}

// ShouldShow returns whether this tool should be visible.
func (t *EvaluateTool) ShouldShow() bool {
	return t.manager.HasSessions()
}
