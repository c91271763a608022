package stategraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/mpresley/stategraph/pkg/stategraph/observability"
	"github.com/mpresley/stategraph/pkg/stategraph/trace"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Run executes the graph with the given initial partial state.
// Returns the final merged state and any error encountered.
//
// The initial state is merged into an empty state through the schema, so an
// undeclared field in it is a *SchemaError before any node runs. On success,
// Run returns the state after the step that routed to END. On error, it
// returns the state at the point of failure (useful for debugging), and the run
// itself is discarded, there is no partial-result recovery.
//
// Execution is single-threaded and cooperative: exactly one node is in
// flight at a time, and the engine waits for it (including any external
// model or search call it performs) before evaluating the next transition.
//
// Example:
//
//	ctx := stategraph.NewContext(context.Background())
//	final, err := compiled.Run(ctx, stategraph.State{"number": 57})
//	if err != nil {
//	    // final contains state at point of failure
//	}
func (cg *CompiledGraph) Run(ctx Context, initial State, opts ...RunOption) (result State, runErr error) {
	if ctx == nil {
		return initial, ErrNilContext
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.traceStore != nil && cfg.runID == "" {
		return initial, ErrRunIDRequired
	}

	runID := cfg.runID
	if runID == "" {
		runID = ctx.RunID()
	}

	startTime := time.Now()

	observability.LogRunStart(cfg.logger, runID)

	var execCtx context.Context = ctx
	var runSpan oteltrace.Span
	if cfg.tracingEnabled {
		execCtx, runSpan = cfg.spans.StartRunSpan(ctx, "stategraph", runID)
		defer func() {
			cfg.spans.EndSpanWithError(runSpan, runErr)
		}()
	}

	var steps int
	result, steps, runErr = cg.runLoop(execCtx, ctx, initial, &cfg)

	duration := time.Since(startTime)
	durationMs := float64(duration.Milliseconds())

	cfg.metrics.RecordGraphRun(ctx, runErr == nil, duration)

	if runErr != nil {
		observability.LogRunError(cfg.logger, runID, runErr, durationMs, lastNodeOf(runErr))
	} else {
		observability.LogRunComplete(cfg.logger, runID, durationMs, steps)
	}

	return result, runErr
}

// lastNodeOf extracts the failing node ID from a run error, if any.
func lastNodeOf(err error) string {
	var nodeErr *NodeError
	if errors.As(err, &nodeErr) {
		return nodeErr.NodeID
	}
	var maxErr *MaxStepsError
	if errors.As(err, &maxErr) {
		return maxErr.LastNodeID
	}
	var cancelErr *CancellationError
	if errors.As(err, &cancelErr) {
		return cancelErr.NodeID
	}
	var routeErr *RouteError
	if errors.As(err, &routeErr) {
		return routeErr.FromNode
	}
	return ""
}

// runLoop drives the START → … → END step machine.
// tracingCtx carries span context; sgCtx is the stategraph Context.
// Returns the final state, the completed step count, and any error.
func (cg *CompiledGraph) runLoop(tracingCtx context.Context, sgCtx Context, initial State, cfg *runConfig) (State, int, error) {
	// Seed the run: the caller's initial partial state goes through the
	// same merge path as node output, so its field set is validated.
	state, err := cg.schema.Merge(State{}, initial)
	if err != nil {
		return initial, 0, err
	}

	current := cg.entryPoint
	steps := 0

	for current != END {
		if cfg.maxSteps > 0 && steps >= cfg.maxSteps {
			return state, steps, &MaxStepsError{
				Max:        cfg.maxSteps,
				LastNodeID: current,
				State:      state,
			}
		}

		// Check for cancellation before executing the node.
		select {
		case <-sgCtx.Done():
			return state, steps, &CancellationError{
				NodeID: current,
				State:  state,
				Cause:  sgCtx.Err(),
			}
		default:
		}

		observability.LogNodeStart(cfg.logger, current)

		nodeTracingCtx := tracingCtx
		var nodeSpan oteltrace.Span
		if cfg.tracingEnabled {
			nodeTracingCtx, nodeSpan = cfg.spans.StartNodeSpan(tracingCtx, current)
		}

		nodeStart := time.Now()

		state, err = cg.executeStep(sgCtx, current, steps+1, state)

		nodeDuration := time.Since(nodeStart)
		nodeDurationMs := float64(nodeDuration.Milliseconds())

		cfg.metrics.RecordNodeExecution(nodeTracingCtx, current, nodeDuration, err)

		if cfg.tracingEnabled {
			cfg.spans.EndSpanWithError(nodeSpan, err)
		}

		if err != nil {
			observability.LogNodeError(cfg.logger, current, err)
			return state, steps, err
		}
		observability.LogNodeComplete(cfg.logger, current, nodeDurationMs)
		steps++

		next, err := cg.nextNode(sgCtx, state, current, steps)
		if err != nil {
			return state, steps, err
		}

		if cfg.traceStore != nil {
			cg.saveStepTrace(sgCtx, cfg, current, state, next)
		}

		current = next
	}

	return state, steps, nil
}

// saveStepTrace records a JSON snapshot of the merged state after a step.
// Failures are logged and skipped: a lost trace record must not fail a run
// that is otherwise healthy.
func (cg *CompiledGraph) saveStepTrace(ctx Context, cfg *runConfig, nodeID string, state State, next string) {
	stateBytes, err := json.Marshal(state)
	if err != nil {
		observability.LogStepTraceError(cfg.logger, nodeID, "serialize", err)
		return
	}

	cfg.sequence++
	rec := trace.Record{
		RunID:     cfg.runID,
		Seq:       cfg.sequence,
		NodeID:    nodeID,
		Next:      next,
		State:     stateBytes,
		Timestamp: time.Now().UTC(),
	}

	if err := cfg.traceStore.Save(rec); err != nil {
		observability.LogStepTraceError(cfg.logger, nodeID, "save", err)
		return
	}

	sizeBytes := len(stateBytes)
	observability.LogStepTrace(cfg.logger, nodeID, sizeBytes)
	cfg.metrics.RecordStepTrace(ctx, nodeID, int64(sizeBytes))
}

// executeStep runs a single node with panic recovery and merges its partial
// update. Returns the merged state; on failure the previous state is
// returned unchanged.
func (cg *CompiledGraph) executeStep(ctx Context, nodeID string, step int, state State) (result State, err error) {
	fn, exists := cg.getNode(nodeID)
	if !exists {
		// Unreachable if compilation succeeded.
		return state, &NodeError{
			NodeID: nodeID,
			Op:     "lookup",
			Err:    fmt.Errorf("node not found: %s", nodeID),
		}
	}

	nodeCtx := ctx
	if ec, ok := ctx.(*executionContext); ok {
		nodeCtx = ec.withNode(nodeID, step)
	}

	defer func() {
		if r := recover(); r != nil {
			result = state
			err = &PanicError{
				NodeID: nodeID,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()

	partial, err := fn(nodeCtx, state)
	if err != nil {
		return state, &NodeError{
			NodeID: nodeID,
			Op:     "execute",
			Err:    err,
		}
	}

	if partial == nil {
		return state, nil
	}

	merged, err := cg.schema.Merge(state, partial)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.NodeID = nodeID
		}
		// The pre-merge state is returned untouched: a schema violation
		// aborts the run without partially applying the update.
		return state, err
	}

	return merged, nil
}

// nextNode determines the next node to execute.
// Checks conditional edges first, then fixed edges.
func (cg *CompiledGraph) nextNode(ctx Context, state State, current string, step int) (string, error) {
	if ce, exists := cg.getConditionalEdge(current); exists {
		routerCtx := ctx
		if ec, ok := ctx.(*executionContext); ok {
			routerCtx = ec.withNode(current, step)
		}

		next := ce.router(routerCtx, state)

		// The router must pick from its declared destination set.
		for _, dest := range ce.destinations {
			if next == dest {
				return next, nil
			}
		}
		return "", &RouteError{
			FromNode: current,
			Returned: next,
			Declared: ce.destinations,
		}
	}

	edges := cg.getEdges(current)
	if len(edges) == 0 {
		// Unreachable if compilation succeeded.
		return "", &NodeError{
			NodeID: current,
			Op:     "routing",
			Err:    fmt.Errorf("no outgoing edge from node %s", current),
		}
	}

	// A fixed edge has a single destination; take the first one.
	return edges[0], nil
}
