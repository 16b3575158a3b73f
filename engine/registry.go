package engine

import (
	"sync"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/becomeliminal/concierge/core"
)

// ToolRegistry is the dispatch table the agent loop matches tool-call
// requests against. Registration order is preserved so the tool schemas are
// presented to the model in a stable order.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]core.Tool
	order []string
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]core.Tool)}
}

// Register adds tools to the registry. Re-registering a name replaces the
// previous tool.
func (r *ToolRegistry) Register(tools ...core.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tool := range tools {
		name := tool.Definition().Name
		if _, exists := r.tools[name]; !exists {
			r.order = append(r.order, name)
		}
		r.tools[name] = tool
	}
}

// Get returns the tool registered under name.
func (r *ToolRegistry) Get(name string) (core.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns the registered tool names in registration order.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// ToAPITools converts the registered definitions to Anthropic tool params.
func (r *ToolRegistry) ToAPITools() []anthropic.ToolUnionParam {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]anthropic.ToolUnionParam, 0, len(r.order))
	for _, name := range r.order {
		def := r.tools[name].Definition()
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        def.Name,
			Description: anthropic.String(def.Description),
			InputSchema: toInputSchema(def.InputSchema),
		}})
	}
	return out
}

// toInputSchema maps a JSON Schema object (as built by the assistant
// package's schema helpers) onto the SDK's input schema param.
func toInputSchema(schema map[string]interface{}) anthropic.ToolInputSchemaParam {
	param := anthropic.ToolInputSchemaParam{}
	if schema == nil {
		return param
	}
	if props, ok := schema["properties"]; ok {
		param.Properties = props
	}
	if required, ok := schema["required"].([]string); ok {
		param.Required = required
	}
	return param
}
