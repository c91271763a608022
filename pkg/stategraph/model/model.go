// Package model defines the conversation types and the client boundary for
// hosted chat models. Adapters live in the provider subpackages; the engine
// and the agent loop depend only on the interfaces here.
package model

import (
	"context"
	"encoding/json"
	"fmt"
)

// Role identifies the message sender.
type Role string

// Standard message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a conversation turn.
//
// An assistant message carrying ToolCalls is a request for tool execution;
// a tool message answers one such call and must echo its ToolCallID.
type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID and Name are set on tool-role messages only.
	ToolCallID string `json:"tool_call_id,omitempty"`
	Name       string `json:"name,omitempty"`
}

// ToolCall represents a tool invocation request from the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// System returns a system-role message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User returns a user-role message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant returns an assistant-role message.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolResult returns a tool-role message answering the given call.
func ToolResult(callID, name, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID, Name: name}
}

// ToolDefinition describes a tool the model may request.
// Parameters is a JSON-Schema-like map (type/properties/required).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Client is the single boundary to a hosted chat model. One call, one reply.
// The reply's ToolCalls may be empty; callers must check rather than assume.
type Client interface {
	Invoke(ctx context.Context, messages []Message) (Message, error)
}

// StructuredClient is an optional capability: a reply constrained to a JSON
// schema, decoded into a map.
type StructuredClient interface {
	Client
	InvokeStructured(ctx context.Context, messages []Message, schema ToolDefinition) (map[string]any, error)
}

// CallError wraps a failed provider call. The provider error is preserved
// for errors.Is/As; there is no implicit retry at this layer.
type CallError struct {
	Provider string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("model call to %s failed: %v", e.Provider, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
