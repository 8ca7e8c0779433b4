package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshStateToolDescription(t *testing.T) {
	t.Run("first line states what the tool does", func(t *testing.T) {
		lines := strings.Split(refreshStateToolDescription, "\n")
		require.NotEmpty(t, lines)
		assert.Equal(t,
			"CRITICAL TOOL - Updates the browser state in your conversation context to reflect the current page after navigation or interactions.",
			lines[0])
	})

	t.Run("contains required guidance sections", func(t *testing.T) {
		for _, section := range []string{"CRITICAL TOOL", "WHEN TO USE", "WHY IT'S CRITICAL"} {
			assert.Contains(t, refreshStateToolDescription, section)
		}
	})

	t.Run("stable across reads", func(t *testing.T) {
		first := refreshStateToolDescription
		second := refreshStateToolDescription
		assert.Equal(t, first, second)
	})

	t.Run("exposed unchanged through the tool", func(t *testing.T) {
		tool := NewRefreshStateTool(NewSessionManager())
		assert.Equal(t, refreshStateToolDescription, tool.Description())
		assert.Equal(t, tool.Description(), tool.Description())
	})
}

func TestToolDescriptionsNonEmpty(t *testing.T) {
	manager := NewSessionManager()
	all := []struct {
		name        string
		description string
	}{
		{"refresh_browser_state", NewRefreshStateTool(manager).Description()},
		{"start_browser_session", NewStartSessionTool(manager).Description()},
		{"list_browser_sessions", NewListSessionsTool(manager).Description()},
		{"close_browser_session", NewCloseSessionTool(manager).Description()},
		{"browser_navigate", NewNavigateTool(manager).Description()},
		{"browser_click", NewClickTool(manager).Description()},
		{"browser_fill", NewFillTool(manager).Description()},
		{"browser_wait", NewWaitTool(manager).Description()},
		{"browser_extract_content", NewExtractContentTool(manager).Description()},
		{"browser_analyze_page", NewAnalyzePageTool(manager, nil).Description()},
	}

	for _, tc := range all {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotEmpty(t, strings.TrimSpace(tc.description))
		})
	}
}
