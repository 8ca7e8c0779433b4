package browser

import (
	"path/filepath"
	"testing"

	"github.com/entrhq/surf/pkg/config"
	"github.com/entrhq/surf/pkg/security/urlpolicy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestConfig initializes global config in a temp dir and restores the
// clean state when the test finishes.
func initTestConfig(t *testing.T) {
	t.Helper()
	config.ResetForTesting()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, config.Initialize(path))
	t.Cleanup(config.ResetForTesting)
}

func TestSessionToolVisibilityFollowsConfig(t *testing.T) {
	initTestConfig(t)
	manager := NewSessionManager()

	start := NewStartSessionTool(manager)
	list := NewListSessionsTool(manager)
	closeTool := NewCloseSessionTool(manager)

	// Browser automation is disabled by default
	assert.False(t, start.ShouldShow())
	assert.False(t, list.ShouldShow())
	assert.False(t, closeTool.ShouldShow())
	assert.False(t, ShouldShowBrowserTools())

	config.GetBrowser().SetEnabled(true)

	assert.True(t, start.ShouldShow())
	assert.True(t, list.ShouldShow())
	assert.True(t, closeTool.ShouldShow())
	assert.True(t, ShouldShowBrowserTools())
}

func TestInteractionToolVisibilityRequiresSessions(t *testing.T) {
	manager := NewSessionManager()

	interaction := []interface{ ShouldShow() bool }{
		NewNavigateTool(manager),
		NewClickTool(manager),
		NewFillTool(manager),
		NewWaitTool(manager),
		NewExtractContentTool(manager),
		NewSearchTool(manager),
		NewEvaluateTool(manager),
		NewRefreshStateTool(manager),
	}

	for _, tool := range interaction {
		assert.False(t, tool.ShouldShow())
	}
}

func TestAnalyzePageVisibilityRequiresProvider(t *testing.T) {
	manager := NewSessionManager()
	assert.False(t, NewAnalyzePageTool(manager, nil).ShouldShow())
}

func TestRegistryReturnsAllTools(t *testing.T) {
	initTestConfig(t)
	registry := NewToolRegistry(nil)
	all := registry.RegisterTools()

	require.Len(t, all, 12)

	names := make(map[string]bool, len(all))
	for _, tool := range all {
		assert.NotEmpty(t, tool.Name())
		assert.NotEmpty(t, tool.Description())
		assert.NotNil(t, tool.Schema())
		assert.False(t, names[tool.Name()], "duplicate tool name %s", tool.Name())
		names[tool.Name()] = true
	}

	for _, expected := range []string{
		"start_browser_session",
		"list_browser_sessions",
		"close_browser_session",
		"browser_navigate",
		"browser_click",
		"browser_fill",
		"browser_wait",
		"browser_extract_content",
		"browser_search",
		"browser_evaluate",
		"refresh_browser_state",
		"browser_analyze_page",
	} {
		assert.True(t, names[expected], "missing tool %s", expected)
	}
}

func TestRegistryAppliesConfig(t *testing.T) {
	initTestConfig(t)

	browser := config.GetBrowser()
	require.NoError(t, browser.SetData(map[string]interface{}{
		"max_sessions":       float64(2),
		"state_token_budget": float64(1500),
		"denied_urls":        []interface{}{"*://*.internal.example.com/*"},
	}))

	registry := NewToolRegistry(nil)
	manager := registry.Manager()

	assert.Equal(t, 1500, manager.StateTokenBudget())
	assert.Error(t, manager.ValidateURL("https://admin.internal.example.com/login"))
	assert.NoError(t, manager.ValidateURL("https://example.com"))
}

func TestRegistryBlocksNavigationOnBrokenPolicy(t *testing.T) {
	initTestConfig(t)

	// One valid deny pattern plus one that cannot compile
	require.NoError(t, config.GetBrowser().SetData(map[string]interface{}{
		"denied_urls": []interface{}{"https://internal.example.com*", "https://[invalid"},
	}))

	registry := NewToolRegistry(nil)
	manager := registry.Manager()

	// The broken policy must not widen access: everything is refused,
	// including URLs the valid pattern would have denied
	err := manager.ValidateURL("https://internal.example.com/secrets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "navigation is disabled")
	assert.Error(t, manager.ValidateURL("https://example.com"))

	// Installing a valid policy lifts the block
	policy, err := urlpolicy.New(nil, []string{"https://internal.example.com*"})
	require.NoError(t, err)
	manager.SetURLPolicy(policy)

	assert.Error(t, manager.ValidateURL("https://internal.example.com/secrets"))
	assert.NoError(t, manager.ValidateURL("https://example.com"))
}
