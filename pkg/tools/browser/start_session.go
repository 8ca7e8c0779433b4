package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/surf/pkg/agent/tools"
	"github.com/entrhq/surf/pkg/config"
)

// StartSessionTool creates a new browser session.
type StartSessionTool struct {
	manager *SessionManager
}

// NewStartSessionTool creates a new start session tool.
func NewStartSessionTool(manager *SessionManager) *StartSessionTool {
	return &StartSessionTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *StartSessionTool) Name() string {
	return "start_browser_session"
}

// Description returns the tool description.
func (t *StartSessionTool) Description() string {
	return startSessionDescription
}

// Schema returns the tool's JSON schema.
func (t *StartSessionTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Unique name for the browser session (e.g., 'research', 'app_test')",
			},
			"headless": map[string]interface{}{
				"type":        "boolean",
				"description": "Run browser in headless mode (no visible window). Defaults to the configured browser mode.",
			},
			"width": map[string]interface{}{
				"type":        "integer",
				"description": "Browser viewport width in pixels. Default: 1280",
			},
			"height": map[string]interface{}{
				"type":        "integer",
				"description": "Browser viewport height in pixels. Default: 720",
			},
		},
		[]string{"name"},
	)
}

// startSessionInput defines the input parameters for starting a session.
type startSessionInput struct {
	XMLName  xml.Name `xml:"arguments"`
	Name     string   `xml:"name"`
	Headless *bool    `xml:"headless"`
	Width    *int     `xml:"width"`
	Height   *int     `xml:"height"`
}

// Execute starts a new browser session.
func (t *StartSessionTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input startSessionInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Name == "" {
		return "", nil, fmt.Errorf("session name is required")
	}

	opts := t.buildSessionOptions(input)
	if err := validateViewport(opts.Viewport); err != nil {
		return "", nil, err
	}

	if err := t.manager.Initialize(); err != nil {
		return "", nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	session, err := t.manager.StartSession(input.Name, opts)
	if err != nil {
		return "", nil, fmt.Errorf("failed to start session: %w", err)
	}

	mode := "headed"
	if session.Headless {
		mode = "headless"
	}

	result := fmt.Sprintf(`Browser session started

Session Details:
- Name: %s
- Mode: %s
- Viewport: %dx%d

Use browser_navigate to load a page, then refresh_browser_state to bring it into your context.`,
		session.Name,
		mode,
		opts.Viewport.Width,
		opts.Viewport.Height,
	)

	return result, nil, nil
}

// buildSessionOptions merges tool arguments with configured defaults.
func (t *StartSessionTool) buildSessionOptions(input startSessionInput) SessionOptions {
	opts := SessionOptions{
		Headless: true,
		Viewport: &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
	}

	if browserCfg := config.GetBrowser(); browserCfg != nil {
		opts.Headless = browserCfg.IsHeadless()
	}
	if input.Headless != nil {
		opts.Headless = *input.Headless
	}
	if input.Width != nil {
		opts.Viewport.Width = *input.Width
	}
	if input.Height != nil {
		opts.Viewport.Height = *input.Height
	}

	return opts
}

// validateViewport checks viewport dimensions for sanity.
func validateViewport(v *Viewport) error {
	if v == nil {
		return nil
	}
	if v.Width < 320 || v.Width > 7680 {
		return fmt.Errorf("viewport width must be between 320 and 7680, got %d", v.Width)
	}
	if v.Height < 240 || v.Height > 4320 {
		return fmt.Errorf("viewport height must be between 240 and 4320, got %d", v.Height)
	}
	return nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *StartSessionTool) IsLoopBreaking() bool {
	return false
}

// ShouldShow returns whether this tool should be visible.
// Session management tools require browser automation to be enabled.
func (t *StartSessionTool) ShouldShow() bool {
	return config.IsBrowserEnabled()
}
