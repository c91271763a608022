package stategraph

import (
	"context"
)

// Shared schemas and helpers used across tests.

// counterSchema declares a single overwrite field.
func counterSchema() *Schema {
	return NewSchema().Add("value", Field{})
}

// countdownSchema matches the numeric threshold workflow: an overwritten
// number plus an append-only history.
func countdownSchema() *Schema {
	return NewSchema().
		Add("number", Field{}).
		Add("history", Field{Reducer: Append})
}

// trackingSchema carries a flag for routing plus an executed-node log.
func trackingSchema() *Schema {
	return NewSchema().
		Add("go_left", Field{}).
		Add("done", Field{}).
		Add("count", Field{}).
		Add("progress", Field{Reducer: Append})
}

// increment bumps the counter field.
func increment(ctx Context, s State) (State, error) {
	v, _ := s["value"].(int)
	return State{"value": v + 1}, nil
}

// passthrough returns no update.
func passthrough(ctx Context, s State) (State, error) {
	return nil, nil
}

// makeTrackingNode creates a node that records its execution.
func makeTrackingNode(name string, tracker *[]string) NodeFunc {
	return func(ctx Context, s State) (State, error) {
		*tracker = append(*tracker, name)
		return State{"progress": []any{name}}, nil
	}
}

// makeFailingNode creates a node that returns the given error.
func makeFailingNode(err error) NodeFunc {
	return func(ctx Context, s State) (State, error) {
		return nil, err
	}
}

// makePanicNode creates a node that panics with the given value.
func makePanicNode(value any) NodeFunc {
	return func(ctx Context, s State) (State, error) {
		panic(value)
	}
}

// testCtx creates a simple test context.
func testCtx() Context {
	return NewContext(context.Background())
}

// intHistory converts an appended history field into []int for assertions.
func intHistory(s State) []int {
	raw, _ := s["history"].([]any)
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		if n, ok := v.(int); ok {
			out = append(out, n)
		}
	}
	return out
}
