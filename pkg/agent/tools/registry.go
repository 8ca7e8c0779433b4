package tools

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the tools available to an agent and resolves tool calls
// against them. Tools implementing ConditionalTool are filtered out of
// listings while their ShouldShow reports false, but remain invocable so
// an in-flight call does not fail when state changes underneath it.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds tools to the registry. Tool names must be unique.
func (r *Registry) Register(tools ...Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tool := range tools {
		name := tool.Name()
		if _, exists := r.tools[name]; exists {
			return fmt.Errorf("tool %q already registered", name)
		}
		r.tools[name] = tool
	}
	return nil
}

// Get returns the tool with the given name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// Visible returns the tools that should currently be offered to the model,
// sorted by name for stable prompt construction.
func (r *Registry) Visible() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visible := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		if conditional, ok := tool.(ConditionalTool); ok && !conditional.ShouldShow() {
			continue
		}
		visible = append(visible, tool)
	}

	sort.Slice(visible, func(i, j int) bool {
		return visible[i].Name() < visible[j].Name()
	})
	return visible
}

// Descriptions returns a name-to-description map of every visible tool.
func (r *Registry) Descriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, tool := range r.Visible() {
		descriptions[tool.Name()] = tool.Description()
	}
	return descriptions
}
