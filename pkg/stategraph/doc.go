/*
Package stategraph provides a schema-driven state-graph execution engine.

# Overview

stategraph is a Go library for building and executing directed graphs where
nodes read a shared state, return partial updates, and edges (fixed or
conditional) define the flow. It is designed for orchestrating LLM agent
workflows: an agent node calls a model, a tool node dispatches the requested
tools, and a router oscillates between them until the model stops asking.

The library is inspired by LangGraph but built for Go with:
  - A closed, reducer-driven state schema (no silent key creation)
  - Compile-time validation of graph structure
  - Routers with declared destination sets, enforced at runtime
  - OpenTelemetry integration for observability

# State and Reducers

State is a field-to-value map governed by a Schema. Each field has a Reducer
that combines the current value with a node's partial update. Overwrite
replaces, Append accumulates into a sequence:

	schema := stategraph.NewSchema().
	    Add("messages", stategraph.Field{Reducer: stategraph.Append}).
	    Add("number", stategraph.Field{Reducer: stategraph.Overwrite})

A node returning a field not declared in the schema aborts the run with a
*SchemaError.

# Basic Usage

Create a graph with nodes and edges, then compile and run:

	func process(ctx stategraph.Context, s stategraph.State) (stategraph.State, error) {
	    return stategraph.State{"output": "processed: " + s["input"].(string)}, nil
	}

	func main() {
	    graph := stategraph.NewGraph(schema).
	        AddNode("process", process).
	        AddEdge("process", stategraph.END).
	        SetEntry("process")

	    compiled, err := graph.Compile()
	    if err != nil {
	        log.Fatal(err)
	    }

	    ctx := stategraph.NewContext(context.Background())
	    result, err := compiled.Run(ctx, stategraph.State{"input": "hello"})
	    if err != nil {
	        log.Fatal(err)
	    }
	    fmt.Println(result["output"]) // "processed: hello"
	}

# Conditional Branching

Conditional edges carry a router plus the set of destinations it may return:

	graph.AddConditionalEdge("check",
	    func(ctx stategraph.Context, s stategraph.State) string {
	        if s["number"].(int) <= 0 {
	            return stategraph.END
	        }
	        return "decrement"
	    },
	    "decrement", stategraph.END)

A router returning anything outside its declared set is a *RouteError, even
if the returned name happens to be a real node.

# Loops

Create loops by routing back to earlier nodes. There is no default step cap:
a run continues until a router reaches END or the context is cancelled. Use
WithMaxSteps to opt into a bound:

	result, err := compiled.Run(ctx, initial, stategraph.WithMaxSteps(100))

# Step Tracing

Record a JSON snapshot of the state after every step for debugging:

	store, err := trace.NewSQLiteStore("./trace.db")
	defer store.Close()

	result, err := compiled.Run(ctx, initial,
	    stategraph.WithStepTrace(store),
	    stategraph.WithRunID("run-123"))

The trace is a postmortem record. Runs never read from it.

# Observability

Enable logging, metrics, and tracing:

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	result, err := compiled.Run(ctx, initial,
	    stategraph.WithObservabilityLogger(logger),
	    stategraph.WithMetrics(true),
	    stategraph.WithTracing(true),
	    stategraph.WithRunID("run-123"))

Logs include structured fields: run_id, node_id, step, duration_ms.
OpenTelemetry metrics: stategraph.node.executions, stategraph.node.latency_ms, etc.
OpenTelemetry tracing: stategraph.run > stategraph.node.{id} spans.

# Error Handling

Errors include context about where the run failed:

	result, err := compiled.Run(ctx, initial)
	var schemaErr *stategraph.SchemaError
	if errors.As(err, &schemaErr) {
	    log.Printf("node %s wrote undeclared field %q", schemaErr.NodeID, schemaErr.Field)
	}

	var routeErr *stategraph.RouteError
	if errors.As(err, &routeErr) {
	    log.Printf("router at %s returned %q, declared %v",
	        routeErr.FromNode, routeErr.Returned, routeErr.Declared)
	}

Panics in nodes are recovered and converted to *PanicError with stack trace.

# Thread Safety

  - Graph is NOT safe for concurrent use during construction
  - CompiledGraph IS safe for concurrent use (immutable)
  - Context IS safe for concurrent use
  - trace.Store implementations are safe for concurrent use

# Subpackages

  - agent: prebuilt agent/tools oscillation graph over a model client
  - model: model client interface plus OpenAI and Anthropic implementations
  - tool: tool definitions, argument validation, and the dispatcher
  - search: web search client and its tool adapter
  - trace: step trace storage (memory, SQLite)
  - observability: logging, metrics, and tracing helpers
  - config: file- and environment-backed configuration
*/
package stategraph
