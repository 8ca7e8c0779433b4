package browser

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/entrhq/surf/pkg/agent/tools"
	"github.com/entrhq/surf/pkg/config"
)

// ListSessionsTool lists all active browser sessions.
type ListSessionsTool struct {
	manager *SessionManager
}

// NewListSessionsTool creates a new list sessions tool.
func NewListSessionsTool(manager *SessionManager) *ListSessionsTool {
	return &ListSessionsTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *ListSessionsTool) Name() string {
	return "list_browser_sessions"
}

// Description returns the tool description.
func (t *ListSessionsTool) Description() string {
	return listSessionsDescription
}

// Schema returns the tool's JSON schema.
func (t *ListSessionsTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(nil, nil)
}

// Execute lists the active sessions.
func (t *ListSessionsTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	infos := t.manager.ListSessions()
	if len(infos) == 0 {
		return "No active browser sessions. Use start_browser_session to create one.", nil, nil
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Active browser sessions (%d):\n\n", len(infos))

	now := time.Now()
	for _, info := range infos {
		mode := "headed"
		if info.Headless {
			mode = "headless"
		}
		fmt.Fprintf(&b, "- %s (%s)\n  URL: %s\n  Idle: %s\n",
			info.Name,
			mode,
			info.CurrentURL,
			now.Sub(info.LastUsedAt).Round(time.Second),
		)
	}

	return b.String(), map[string]interface{}{"session_count": len(infos)}, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *ListSessionsTool) IsLoopBreaking() bool {
	return false
}

// ShouldShow returns whether this tool should be visible.
func (t *ListSessionsTool) ShouldShow() bool {
	return config.IsBrowserEnabled()
}
