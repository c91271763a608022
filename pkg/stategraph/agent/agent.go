// Package agent provides the prebuilt two-node oscillation graph: an agent
// node invokes a chat model with the full message history, and a tools node
// dispatches whatever calls the reply requested. The loop runs until the
// model answers without tool calls.
package agent

import (
	"fmt"

	"github.com/mpresley/stategraph/pkg/stategraph"
	"github.com/mpresley/stategraph/pkg/stategraph/model"
	"github.com/mpresley/stategraph/pkg/stategraph/tool"
)

// StateMessages is the single state field: the conversation history, with
// an append reducer so every node contributes turns without overwriting.
const StateMessages = "messages"

const (
	nodeAgent = "agent"
	nodeTools = "tools"
)

// Options configure the agent loop.
type Options struct {
	// MaxTurns caps node executions per run. Zero means unbounded: a model
	// that always requests tools will loop until the context is cancelled.
	// Callers wanting a guardrail set this.
	MaxTurns int
}

// WithMaxTurns caps node executions per run.
func WithMaxTurns(n int) func(o *Options) {
	return func(o *Options) { o.MaxTurns = n }
}

// Agent is a compiled agent/tools graph bound to a model client and a tool
// registry. Safe for concurrent use; each Run gets its own state.
type Agent struct {
	graph *stategraph.CompiledGraph
	opts  Options
}

// Schema returns the message-history schema the agent graph runs over.
func Schema() *stategraph.Schema {
	return stategraph.NewSchema().
		Add(StateMessages, stategraph.Field{Reducer: stategraph.Append})
}

// New builds and compiles the agent graph. The client should already have
// the registry's tool definitions bound (provider adapters take them via
// WithTools); New cannot do the binding because tool advertisement is a
// client construction concern.
func New(client model.Client, tools *tool.Registry, optFns ...func(o *Options)) (*Agent, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	dispatcher := tool.NewDispatcher(tools)

	graph := stategraph.NewGraph(Schema()).
		AddNode(nodeAgent, invokeModel(client)).
		AddNode(nodeTools, dispatchTools(dispatcher)).
		AddConditionalEdge(nodeAgent, routeReply, nodeTools, stategraph.END).
		AddEdge(nodeTools, nodeAgent).
		SetEntry(nodeAgent)

	compiled, err := graph.Compile()
	if err != nil {
		return nil, err
	}

	return &Agent{graph: compiled, opts: opts}, nil
}

// Run executes the loop over the given starting messages and returns the
// full final history. Extra run options pass through to the engine.
func (a *Agent) Run(ctx stategraph.Context, messages []model.Message, opts ...stategraph.RunOption) ([]model.Message, error) {
	if a.opts.MaxTurns > 0 {
		opts = append([]stategraph.RunOption{stategraph.WithMaxSteps(a.opts.MaxTurns)}, opts...)
	}

	final, err := a.graph.Run(ctx, stategraph.State{StateMessages: toValues(messages)}, opts...)
	if err != nil {
		return nil, err
	}

	return MessagesFrom(final)
}

// Graph exposes the compiled graph, for callers composing it into a larger
// workflow.
func (a *Agent) Graph() *stategraph.CompiledGraph {
	return a.graph
}

// invokeModel returns the agent node: one model call over the full history,
// reply appended.
func invokeModel(client model.Client) stategraph.NodeFunc {
	return func(ctx stategraph.Context, state stategraph.State) (stategraph.State, error) {
		history, err := MessagesFrom(state)
		if err != nil {
			return nil, err
		}

		reply, err := client.Invoke(ctx, history)
		if err != nil {
			return nil, err
		}

		return stategraph.State{StateMessages: []any{reply}}, nil
	}
}

// dispatchTools returns the tools node: executes the last reply's requested
// calls and appends one result message per call.
func dispatchTools(d *tool.Dispatcher) stategraph.NodeFunc {
	return func(ctx stategraph.Context, state stategraph.State) (stategraph.State, error) {
		history, err := MessagesFrom(state)
		if err != nil {
			return nil, err
		}

		last := history[len(history)-1]
		results, err := d.Dispatch(ctx, last.ToolCalls)
		if err != nil {
			return nil, err
		}

		return stategraph.State{StateMessages: toValues(results)}, nil
	}
}

// routeReply sends tool-call replies to the tools node and plain replies to
// END. The dispatcher never terminates the loop; only this router does.
func routeReply(ctx stategraph.Context, state stategraph.State) string {
	history, err := MessagesFrom(state)
	if err != nil || len(history) == 0 {
		return stategraph.END
	}
	if len(history[len(history)-1].ToolCalls) > 0 {
		return nodeTools
	}
	return stategraph.END
}

// MessagesFrom extracts the typed message history from a state.
func MessagesFrom(state stategraph.State) ([]model.Message, error) {
	raw, _ := state[StateMessages].([]any)
	out := make([]model.Message, 0, len(raw))
	for i, v := range raw {
		msg, ok := v.(model.Message)
		if !ok {
			return nil, fmt.Errorf("agent: messages[%d] is %T, want model.Message", i, v)
		}
		out = append(out, msg)
	}
	return out, nil
}

// toValues widens a message slice for the append reducer.
func toValues(messages []model.Message) []any {
	out := make([]any, len(messages))
	for i, m := range messages {
		out[i] = m
	}
	return out
}
