// Package anthropic adapts the Anthropic Messages API to the model.Client
// boundary. Tool requests arrive as tool_use content blocks and are
// normalized onto the reply message.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/mpresley/stategraph/pkg/stategraph/model"
)

// Options configure the Anthropic client adapter.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string

	// Timeout bounds each call. Zero leaves cancellation to the caller's
	// context.
	Timeout time.Duration

	// Tools are advertised on every call.
	Tools []model.ToolDefinition
}

// Client wraps the Anthropic Messages API behind model.Client.
type Client struct {
	api  *anthropic.Client
	opts Options
}

var _ model.Client = (*Client)(nil)

// New creates a Client. Without WithAPIKey the SDK reads ANTHROPIC_API_KEY
// from the environment.
func New(optFns ...func(o *Options)) *Client {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	api := anthropic.NewClient(clientOpts...)

	return &Client{api: &api, opts: opts}
}

// NewFromAPI creates a Client from an existing SDK client.
func NewFromAPI(api *anthropic.Client, optFns ...func(o *Options)) *Client {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{api: api, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// WithModel sets the model id.
func WithModel(m anthropic.Model) func(o *Options) {
	return func(o *Options) { o.Model = m }
}

// WithAPIKey overrides the environment credential.
func WithAPIKey(key string) func(o *Options) {
	return func(o *Options) { o.APIKey = key }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) func(o *Options) {
	return func(o *Options) { o.Timeout = d }
}

// WithTools binds tool definitions to every call.
func WithTools(defs []model.ToolDefinition) func(o *Options) {
	return func(o *Options) { o.Tools = defs }
}

// Invoke sends the full message history and returns the assistant reply.
// Callers must treat the reply's ToolCalls as possibly empty.
func (c *Client) Invoke(ctx context.Context, messages []model.Message) (model.Message, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:       c.opts.Model,
		Messages:    buildMessages(messages),
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
	}

	if system := collectSystem(messages); len(system) > 0 {
		params.System = system
	}

	if len(c.opts.Tools) > 0 {
		params.Tools = buildTools(c.opts.Tools)
	}

	resp, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return model.Message{}, &model.CallError{Provider: "anthropic", Err: err}
	}

	return fromResponse(resp)
}

// collectSystem gathers system-role messages into system blocks; the
// Messages API takes them outside the turn list.
func collectSystem(messages []model.Message) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, m := range messages {
		if m.Role == model.RoleSystem && m.Content != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: m.Content})
		}
	}
	return blocks
}

// buildMessages converts the normalized history into API turns. Tool-role
// messages become tool_result blocks inside a user turn, which is where the
// Messages API expects them.
func buildMessages(messages []model.Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam

	for _, m := range messages {
		switch m.Role {
		case model.RoleSystem:
			continue
		case model.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case model.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				var input any
				if len(tc.Arguments) > 0 {
					if err := json.Unmarshal(tc.Arguments, &input); err != nil {
						input = string(tc.Arguments)
					}
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, input, tc.Name))
			}
			if len(blocks) > 0 {
				out = append(out, anthropic.NewAssistantMessage(blocks...))
			}
		case model.RoleTool:
			out = append(out, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false)))
		}
	}

	return out
}

func buildTools(defs []model.ToolDefinition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, len(defs))
	for i, def := range defs {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
		}
		if def.Parameters != nil {
			if properties, exists := def.Parameters["properties"]; exists {
				inputSchema.Properties = properties
			}
			inputSchema.Required = requiredNames(def.Parameters["required"])
		}
		tools[i] = anthropic.ToolUnionParamOfTool(inputSchema, def.Name)
	}
	return tools
}

func requiredNames(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		var names []string
		for _, r := range val {
			if s, ok := r.(string); ok {
				names = append(names, s)
			}
		}
		return names
	}
	return nil
}

// fromResponse flattens the reply's content blocks into a normalized
// assistant message: text blocks concatenate, tool_use blocks become
// ToolCalls.
func fromResponse(resp *anthropic.Message) (model.Message, error) {
	msg := model.Message{Role: model.RoleAssistant}
	var text strings.Builder

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.AsText().Text)
		case "tool_use":
			tu := block.AsToolUse()
			args, err := json.Marshal(tu.Input)
			if err != nil {
				return model.Message{}, &model.CallError{
					Provider: "anthropic",
					Err:      fmt.Errorf("encode tool_use input for %s: %w", tu.Name, err),
				}
			}
			msg.ToolCalls = append(msg.ToolCalls, model.ToolCall{
				ID:        tu.ID,
				Name:      tu.Name,
				Arguments: args,
			})
		}
	}

	msg.Content = text.String()
	return msg, nil
}
