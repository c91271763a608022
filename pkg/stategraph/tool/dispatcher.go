package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mpresley/stategraph/pkg/stategraph/model"
)

// ErrUnknownTool indicates a requested tool name is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// Dispatcher executes a batch of model-requested tool calls against a
// registry. It never decides loop termination: after a dispatch, control
// always returns to the node that requested it.
type Dispatcher struct {
	tools *Registry
}

// NewDispatcher creates a Dispatcher over the given registry.
func NewDispatcher(tools *Registry) *Dispatcher {
	return &Dispatcher{tools: tools}
}

// Dispatch executes each requested call in order and returns one tool-role
// message per call, tagged with the originating call ID so callers can
// correlate results by ID rather than position.
//
// The first failure aborts the batch: an unregistered name yields an error
// wrapping ErrUnknownTool, invalid arguments a *ArgumentError, and a tool
// function's own error is returned as-is.
func (d *Dispatcher) Dispatch(ctx context.Context, calls []model.ToolCall) ([]model.Message, error) {
	results := make([]model.Message, 0, len(calls))

	for _, call := range calls {
		t, exists := d.tools.Get(call.Name)
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
		}

		args := make(map[string]any)
		if len(call.Arguments) > 0 {
			if err := json.Unmarshal(call.Arguments, &args); err != nil {
				return nil, &ArgumentError{
					Tool:    call.Name,
					Message: fmt.Sprintf("arguments are not a JSON object: %v", err),
				}
			}
		}

		result, err := t.Call(ctx, args)
		if err != nil {
			return nil, err
		}

		content, err := encodeResult(result)
		if err != nil {
			return nil, fmt.Errorf("tool %s: encode result: %w", call.Name, err)
		}

		results = append(results, model.ToolResult(call.ID, call.Name, content))
	}

	return results, nil
}

// encodeResult renders a tool's return value as message content.
// Strings pass through unquoted; everything else is JSON.
func encodeResult(result any) (string, error) {
	if s, ok := result.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
