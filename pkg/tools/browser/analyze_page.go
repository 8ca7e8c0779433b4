package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/surf/pkg/agent/tools"
	"github.com/entrhq/surf/pkg/llm"
	"github.com/entrhq/surf/pkg/types"
)

const analyzeSystemPrompt = `You are a page analysis assistant. You are given the text content of a web page and optionally a question about it. When a question is asked, answer it using only the provided content; if the content does not contain the answer, say so explicitly rather than guessing. When no question is asked, produce a concise analysis of the page: its type, purpose, main content areas, and sensible next actions. Quote relevant fragments where helpful.`

const defaultAnalysisQuestion = "Analyze this page: what kind of page is it, what is its purpose, what are its main content areas, and what actions would a user most likely take next?"

// AnalyzePageTool answers questions about the current page using an LLM.
type AnalyzePageTool struct {
	manager  *SessionManager
	provider llm.Provider
}

// NewAnalyzePageTool creates a new analyze page tool.
func NewAnalyzePageTool(manager *SessionManager, provider llm.Provider) *AnalyzePageTool {
	return &AnalyzePageTool{
		manager:  manager,
		provider: provider,
	}
}

// Name returns the tool name.
func (t *AnalyzePageTool) Name() string {
	return "browser_analyze_page"
}

// Description returns the tool description.
func (t *AnalyzePageTool) Description() string {
	return analyzePageDescription
}

// Schema returns the tool's JSON schema.
func (t *AnalyzePageTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Name of the browser session to use",
			},
			"question": map[string]interface{}{
				"type":        "string",
				"description": "Question to answer about the current page (omit for a general analysis)",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector to limit analysis to matching elements (optional)",
			},
		},
		[]string{"session"},
	)
}

// analyzeInput represents the parameters for page analysis.
type analyzeInput struct {
	XMLName  xml.Name `xml:"arguments"`
	Session  string   `xml:"session"`
	Question string   `xml:"question"`
	Selector string   `xml:"selector"`
}

// Execute analyzes the current page against a question.
func (t *AnalyzePageTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input analyzeInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Session == "" {
		return "", nil, fmt.Errorf("session name is required")
	}
	if input.Question == "" {
		input.Question = defaultAnalysisQuestion
	}
	if t.provider == nil {
		return "", nil, fmt.Errorf("no LLM provider configured for page analysis")
	}

	session, err := t.manager.GetSession(input.Session)
	if err != nil {
		return "", nil, err
	}

	content, err := session.ExtractContent(ExtractOptions{
		Format:   FormatText,
		Selector: input.Selector,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to extract page content: %w", err)
	}

	messages := []*types.Message{
		types.NewSystemMessage(analyzeSystemPrompt),
		types.NewUserMessage(fmt.Sprintf("Page URL: %s\n\nPage content:\n%s\n\nQuestion: %s",
			session.CurrentURL, content, input.Question)),
	}

	response, err := t.provider.Complete(ctx, messages)
	if err != nil {
		return "", nil, fmt.Errorf("page analysis failed: %w", err)
	}

	metadata := map[string]interface{}{
		"session": input.Session,
		"url":     session.CurrentURL,
		"model":   t.provider.GetModel(),
	}

	return response.Content, metadata, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *AnalyzePageTool) IsLoopBreaking() bool {
	return false
}

// ShouldShow returns whether this tool should be visible.
// Analysis requires both an active session and a configured provider.
func (t *AnalyzePageTool) ShouldShow() bool {
	return t.provider != nil && t.manager.HasSessions()
}
