package tool

import (
	"fmt"
	"sort"

	"github.com/mpresley/stategraph/pkg/stategraph/model"
	"github.com/mpresley/stategraph/pkg/stategraph/registry"
)

// Registry is a thread-safe name-to-tool index.
type Registry struct {
	tools *registry.Registry[string, *Tool]
}

// NewRegistry creates a Registry with the given tools.
// Panics on a duplicate name, since a model facing two tools with the same
// name cannot address either.
func NewRegistry(tools ...*Tool) *Registry {
	r := &Registry{tools: registry.New[string, *Tool]()}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds a tool. Panics on a duplicate name.
func (r *Registry) Register(t *Tool) {
	if added := r.tools.Register(t.Name(), t); !added {
		panic(fmt.Sprintf("tool: duplicate name %q", t.Name()))
	}
}

// Get returns the tool for a name and whether it exists.
func (r *Registry) Get(name string) (*Tool, bool) {
	return r.tools.Get(name)
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return r.tools.Len()
}

// Definitions returns model-facing definitions for all tools, sorted by
// name so the list sent to a provider is deterministic.
func (r *Registry) Definitions() []model.ToolDefinition {
	tools := r.tools.Values()
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })

	defs := make([]model.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, t.Definition())
	}
	return defs
}
