package stategraph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph building and compilation.
var (
	// ErrNoEntryPoint indicates SetEntry() was not called before Compile().
	ErrNoEntryPoint = errors.New("entry point not set")

	// ErrEntryNotFound indicates the entry point references a non-existent node.
	ErrEntryNotFound = errors.New("entry point node not found")

	// ErrNodeNotFound indicates an edge references a non-existent node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNoPathToEnd indicates no path exists from the entry point to END.
	ErrNoPathToEnd = errors.New("no path to END from entry")

	// ErrNoSchema indicates the graph was built without a state schema.
	ErrNoSchema = errors.New("state schema not set")
)

// Sentinel errors for execution.
var (
	// ErrMaxSteps indicates the run exceeded the opt-in step limit.
	ErrMaxSteps = errors.New("exceeded maximum steps")

	// ErrNilContext indicates Run() was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrSchemaViolation indicates a partial update wrote an undeclared field.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrRoutingViolation indicates a router returned a destination outside
	// its declared set.
	ErrRoutingViolation = errors.New("routing violation")
)

// SchemaError reports a write to a field the graph's schema does not declare.
// It is fatal: the invocation unwinds and the previously merged state is
// discarded, never partially updated.
type SchemaError struct {
	// Field is the undeclared field name.
	Field string
	// NodeID is the node whose partial update carried the field.
	// Empty when the violation came from the initial state.
	NodeID string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("schema violation: undeclared field %q in initial state", e.Field)
	}
	return fmt.Sprintf("schema violation: node %s wrote undeclared field %q", e.NodeID, e.Field)
}

// Unwrap returns ErrSchemaViolation for errors.Is support.
func (e *SchemaError) Unwrap() error {
	return ErrSchemaViolation
}

// RouteError reports a router that returned a value outside its declared
// destination set (including the empty string). Fatal.
type RouteError struct {
	// FromNode is the node with the conditional edge.
	FromNode string
	// Returned is the value the router returned.
	Returned string
	// Declared is the destination set the edge was built with.
	Declared []string
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	return fmt.Sprintf("router from %s returned %q, not in declared destinations %v",
		e.FromNode, e.Returned, e.Declared)
}

// Unwrap returns ErrRoutingViolation for errors.Is support.
func (e *RouteError) Unwrap() error {
	return ErrRoutingViolation
}

// NodeError wraps an error with node context.
// It provides information about which node failed and what operation was
// attempted.
type NodeError struct {
	// NodeID is the identifier of the node that failed.
	NodeID string
	// Op is the operation that failed (e.g., "execute").
	Op string
	// Err is the underlying error from the node.
	Err error
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %s: %v", e.NodeID, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *NodeError) Unwrap() error {
	return e.Err
}

// PanicError captures panic information from node execution.
// It includes the stack trace for debugging.
type PanicError struct {
	// NodeID is the identifier of the node that panicked.
	NodeID string
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("node %s panicked: %v", e.NodeID, e.Value)
}

// CancellationError captures the state when execution was cancelled.
// It preserves the state at the point of cancellation for inspection.
type CancellationError struct {
	// NodeID is the node that was about to execute.
	NodeID string
	// State is the merged state at cancellation.
	State State
	// Cause is the underlying cancellation cause.
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled before node %s: %v", e.NodeID, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}

// MaxStepsError provides context when the opt-in step limit is exceeded.
// No limit is enforced unless WithMaxSteps was given: a graph whose router
// never reaches END runs until the context is cancelled.
type MaxStepsError struct {
	// Max is the configured step limit.
	Max int
	// LastNodeID is the node that would have executed next.
	LastNodeID string
	// State is the merged state at termination.
	State State
}

// Error implements the error interface.
func (e *MaxStepsError) Error() string {
	return fmt.Sprintf("exceeded maximum steps (%d) at node %s", e.Max, e.LastNodeID)
}

// Unwrap returns ErrMaxSteps for errors.Is support.
func (e *MaxStepsError) Unwrap() error {
	return ErrMaxSteps
}
