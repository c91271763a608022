package stategraph

// Sentinel pseudo-node identifiers.
//
// START marks the invocation entry; it is implicit: SetEntry declares the
// single edge out of it. END is the terminal: routing to END stops the run
// and returns the current merged state.
const (
	START = "__start__"
	END   = "__end__"
)

// NodeFunc is the signature for all node functions.
// A node receives the execution context and the current merged state and
// returns a PARTIAL state update: only the fields it writes. The engine
// merges the partial via the schema's per-field reducers; writing a field
// the schema does not declare aborts the run with a *SchemaError.
//
// Nodes must not mutate the state they receive. Returning nil means
// "no update".
//
// Example:
//
//	func decrement(ctx stategraph.Context, s stategraph.State) (stategraph.State, error) {
//	    n := s["number"].(int) - 1
//	    return stategraph.State{"number": n, "history": []any{n}}, nil
//	}
type NodeFunc func(ctx Context, state State) (State, error)

// RouterFunc chooses the next node for a conditional edge.
// It is a pure function of the current merged state and must return a member
// of the destination set declared with AddConditionalEdge (node IDs or END).
// Any other return value fails the run with a *RouteError.
//
// Example:
//
//	func route(ctx stategraph.Context, s stategraph.State) string {
//	    if s["number"].(int) <= 0 {
//	        return stategraph.END
//	    }
//	    return "decrement"
//	}
type RouterFunc func(ctx Context, state State) string
