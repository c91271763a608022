// Package tool defines schema-validated callables a model may request, and
// the dispatcher that executes a batch of requested calls in order.
package tool

import (
	"context"
	"strings"

	"github.com/mpresley/stategraph/pkg/stategraph/model"
)

// Func is a tool implementation. It receives arguments that already passed
// schema validation; values use the JSON decoding types (string, float64,
// bool).
type Func func(ctx context.Context, args map[string]any) (any, error)

// Tool is a named, schema-validated callable. Immutable once constructed.
//
// The schema is a minimal JSON-Schema-like map:
//
//	map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	        "a": map[string]any{"type": "number", "description": "first operand"},
//	        "b": map[string]any{"type": "number", "description": "second operand"},
//	    },
//	    "required": []string{"a", "b"},
//	}
//
// Supported property types: string, number, integer, boolean.
type Tool struct {
	name        string
	description string
	schema      map[string]any
	fn          Func
}

// New constructs a Tool. Panics on an empty or whitespace name, or a nil
// function, since both are programmer errors caught at startup.
func New(name, description string, schema map[string]any, fn Func) *Tool {
	if strings.TrimSpace(name) == "" {
		panic("tool: name cannot be empty")
	}
	if fn == nil {
		panic("tool: function cannot be nil for " + name)
	}
	if schema == nil {
		schema = map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}
	}
	return &Tool{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
	}
}

// Name returns the unique tool name models use to request it.
func (t *Tool) Name() string { return t.name }

// Description returns the natural-language description exposed to models.
func (t *Tool) Description() string { return t.description }

// Schema returns the argument schema. Callers must not modify it.
func (t *Tool) Schema() map[string]any { return t.schema }

// Definition returns the tool as a model-facing definition.
func (t *Tool) Definition() model.ToolDefinition {
	return model.ToolDefinition{
		Name:        t.name,
		Description: t.description,
		Parameters:  t.schema,
	}
}

// Call validates args against the schema and invokes the function.
func (t *Tool) Call(ctx context.Context, args map[string]any) (any, error) {
	if err := validateArguments(t.name, args, t.schema); err != nil {
		return nil, err
	}
	return t.fn(ctx, args)
}
