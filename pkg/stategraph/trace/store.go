// Package trace provides opt-in step-trace recording for graph runs.
//
// A trace is an append-only record of a run: one entry per executed step,
// carrying the node ID, the chosen next node, and a JSON snapshot of the
// merged state. Traces exist for debugging and inspection of finished or
// failed runs. The engine never reads them back, and they are not a
// resume or persistence mechanism for live graph state.
package trace

import (
	"errors"
	"time"
)

// Record is one executed step of a run.
type Record struct {
	// RunID identifies the run the step belongs to.
	RunID string
	// Seq is the 1-based step sequence within the run.
	Seq int
	// NodeID is the node that executed.
	NodeID string
	// Next is the destination chosen after the step (a node ID or the END
	// sentinel).
	Next string
	// State is the JSON snapshot of the merged state after the step.
	State []byte
	// Timestamp is when the step was recorded (UTC).
	Timestamp time.Time
}

// Store records step traces. Implementations must be safe for concurrent use.
type Store interface {
	// Save appends one step record. Records for a run are expected to
	// arrive with strictly increasing Seq.
	Save(rec Record) error

	// List returns all records for a run ordered by Seq.
	// Returns an empty slice (not an error) if the run has no records.
	List(runID string) ([]Record, error)

	// DeleteRun removes all records for a run.
	// Returns nil if the run has no records.
	DeleteRun(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for trace stores.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("trace store closed")
)
