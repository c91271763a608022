package stategraph

import (
	"errors"
	"log/slog"

	"github.com/mpresley/stategraph/pkg/stategraph/observability"
	"github.com/mpresley/stategraph/pkg/stategraph/trace"
)

// ErrRunIDRequired indicates step tracing was enabled without a run ID.
var ErrRunIDRequired = errors.New("run ID required for step tracing")

// runConfig holds configuration for graph execution.
type runConfig struct {
	// maxSteps caps node executions per run; 0 means unbounded.
	// Termination belongs to routers: without a cap a run continues until
	// a router reaches END or the context is cancelled.
	maxSteps int

	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool

	traceStore trace.Store
	runID      string
	sequence   int
}

// defaultRunConfig returns the default execution configuration.
func defaultRunConfig() runConfig {
	return runConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// RunOption configures execution behavior.
type RunOption func(*runConfig)

// WithMaxSteps sets an opt-in cap on node executions per run.
// There is NO default cap: without this option a run continues until a
// router reaches END (or the context is cancelled). If the cap is exceeded,
// Run returns a *MaxStepsError.
//
// Example:
//
//	result, err := compiled.Run(ctx, initial, stategraph.WithMaxSteps(100))
func WithMaxSteps(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.maxSteps = n
		}
	}
}

// WithObservabilityLogger enables structured run/step logging to the given
// logger. Without it, only the per-node Context logger is active.
func WithObservabilityLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics recording via the global meter
// provider.
func WithMetrics(enabled bool) RunOption {
	return func(c *runConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry spans (stategraph.run with a child span
// per node) via the global tracer provider.
func WithTracing(enabled bool) RunOption {
	return func(c *runConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithRunID sets the run identifier used for step tracing and observability.
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		c.runID = id
	}
}

// WithStepTrace enables recording a JSON snapshot of the merged state after
// every successful step to the given store. Requires WithRunID. The trace is
// a debugging record of a finished or failed run, not a resume
// mechanism; runs never read from it.
func WithStepTrace(store trace.Store) RunOption {
	return func(c *runConfig) {
		c.traceStore = store
	}
}
