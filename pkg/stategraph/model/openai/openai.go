// Package openai adapts the OpenAI Chat Completions API to the model.Client
// boundary. Non-streaming only: one call, one reply, tool calls surfaced on
// the reply message.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openai/openai-go"

	"github.com/mpresley/stategraph/pkg/stategraph/model"
)

// Options configure the OpenAI client adapter.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int64

	// Timeout bounds each call. Zero leaves cancellation to the caller's
	// context.
	Timeout time.Duration

	// Tools are advertised on every call. The reply may still carry no
	// tool calls.
	Tools []model.ToolDefinition
}

// Client wraps the OpenAI Chat Completions API behind model.Client.
// It also implements model.StructuredClient via the json_schema response
// format.
type Client struct {
	api  *openai.Client
	opts Options
}

var (
	_ model.Client           = (*Client)(nil)
	_ model.StructuredClient = (*Client)(nil)
)

// New creates a Client using the default SDK configuration, which reads
// OPENAI_API_KEY from the environment.
func New(optFns ...func(o *Options)) *Client {
	api := openai.NewClient()
	return NewFromAPI(&api, optFns...)
}

// NewFromAPI creates a Client from an existing SDK client.
func NewFromAPI(api *openai.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:       openai.ChatModelGPT4oMini,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{api: api, opts: opts}
}

// WithModel sets the model name.
func WithModel(name string) func(o *Options) {
	return func(o *Options) { o.Model = name }
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
	params := c.buildParams(messages)

	resp, err := c.complete(ctx, params)
	if err != nil {
		return model.Message{}, err
	}

	return fromChoice(resp.Choices[0]), nil
}

// InvokeStructured constrains the reply to the given schema via the
// json_schema response format and decodes it into a map.
func (c *Client) InvokeStructured(ctx context.Context, messages []model.Message, schema model.ToolDefinition) (map[string]any, error) {
	params := c.buildParams(messages)
	params.Tools = nil
	params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        schema.Name,
				Description: openai.String(schema.Description),
				Schema:      schema.Parameters,
				Strict:      openai.Bool(true),
			},
		},
	}

	resp, err := c.complete(ctx, params)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return nil, &model.CallError{
			Provider: "openai",
			Err:      fmt.Errorf("decode structured reply: %w", err),
		}
	}
	return out, nil
}

func (c *Client) complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, &model.CallError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &model.CallError{Provider: "openai", Err: fmt.Errorf("no choices returned")}
	}
	return resp, nil
}

// buildParams converts the message history and bound tools into request
// parameters.
func (c *Client) buildParams(messages []model.Message) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(messages),
		Model:               c.opts.Model,
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxTokens),
	}

	if len(c.opts.Tools) > 0 {
		tools := make([]openai.ChatCompletionToolParam, len(c.opts.Tools))
		for i, def := range c.opts.Tools {
			tools[i] = openai.ChatCompletionToolParam{
				Type: "function",
				Function: openai.FunctionDefinitionParam{
					Name:        def.Name,
					Description: openai.String(def.Description),
					Parameters:  def.Parameters,
				},
			}
		}
		params.Tools = tools
	}

	return params
}

func buildMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case model.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case model.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case model.RoleAssistant:
			if len(m.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(m.Content))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(m.ToolCalls))
			for i, tc := range m.ToolCalls {
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   tc.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: string(tc.Arguments),
					},
				}
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role:      "assistant",
					ToolCalls: toolCalls,
				},
			})
		case model.RoleTool:
			out = append(out, openai.ToolMessage(m.Content, m.ToolCallID))
		}
	}
	return out
}

// fromChoice converts the SDK reply into a normalized assistant message.
func fromChoice(choice openai.ChatCompletionChoice) model.Message {
	msg := model.Message{
		Role:    model.RoleAssistant,
		Content: choice.Message.Content,
	}
	for _, tc := range choice.Message.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, model.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return msg
}
