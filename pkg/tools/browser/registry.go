package browser

import (
	"fmt"

	"github.com/entrhq/surf/pkg/agent/tools"
	"github.com/entrhq/surf/pkg/config"
	"github.com/entrhq/surf/pkg/llm"
	"github.com/entrhq/surf/pkg/security/urlpolicy"
)

// ToolRegistry manages browser tool creation and registration.
type ToolRegistry struct {
	manager  *SessionManager
	provider llm.Provider
}

// NewToolRegistry creates a new browser tool registry with a shared
// session manager configured from the browser config section.
func NewToolRegistry(provider llm.Provider) *ToolRegistry {
	manager := NewSessionManager()
	applyConfig(manager)
	return &ToolRegistry{
		manager:  manager,
		provider: provider,
	}
}

// applyConfig pushes the browser config section's settings onto the manager.
func applyConfig(manager *SessionManager) {
	if !config.IsInitialized() {
		return
	}
	section := config.GetBrowser()
	if section == nil {
		return
	}
	manager.SetMaxSessions(section.GetMaxSessions())
	manager.SetIdleTimeout(section.GetIdleTimeout())
	manager.SetStateTokenBudget(section.GetStateTokenBudget())

	allowed, denied := section.GetURLPatterns()
	if len(allowed) == 0 && len(denied) == 0 {
		return
	}

	policy, err := urlpolicy.New(allowed, denied)
	if err != nil {
		// Fail closed: a policy that cannot be compiled must not
		// degrade into allow-all
		manager.BlockNavigation(fmt.Errorf("invalid URL policy in browser config: %w", err))
		return
	}
	manager.SetURLPolicy(policy)
}

// Manager returns the registry's session manager.
func (r *ToolRegistry) Manager() *SessionManager {
	return r.manager
}

// RegisterTools returns all browser tools for registration with the agent.
// Individual tools control their own visibility via ShouldShow.
func (r *ToolRegistry) RegisterTools() []tools.Tool {
	return []tools.Tool{
		NewStartSessionTool(r.manager),
		NewListSessionsTool(r.manager),
		NewCloseSessionTool(r.manager),
		NewNavigateTool(r.manager),
		NewClickTool(r.manager),
		NewFillTool(r.manager),
		NewWaitTool(r.manager),
		NewExtractContentTool(r.manager),
		NewSearchTool(r.manager),
		NewEvaluateTool(r.manager),
		NewRefreshStateTool(r.manager),
		NewAnalyzePageTool(r.manager, r.provider),
	}
}

// Shutdown closes all sessions and stops the playwright runtime.
func (r *ToolRegistry) Shutdown() error {
	return r.manager.Shutdown()
}

// ShouldShowBrowserTools returns whether browser tools should be visible
// based on the browser config section.
func ShouldShowBrowserTools() bool {
	return config.IsBrowserEnabled()
}
