package benchmarks

import (
	"context"
	"testing"

	"github.com/mpresley/stategraph/pkg/stategraph"
)

// BenchmarkRun_Linear_5 runs a 5-node linear graph.
func BenchmarkRun_Linear_5(b *testing.B) {
	compiled := mustCompile(buildLinearGraph(5))
	ctx := stategraph.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, stategraph.State{})
	}
}

// BenchmarkRun_Linear_10 runs a 10-node linear graph.
func BenchmarkRun_Linear_10(b *testing.B) {
	compiled := mustCompile(buildLinearGraph(10))
	ctx := stategraph.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, stategraph.State{})
	}
}

// BenchmarkRun_Linear_100 runs a 100-node linear graph.
func BenchmarkRun_Linear_100(b *testing.B) {
	compiled := mustCompile(buildLinearGraph(100))
	ctx := stategraph.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, stategraph.State{})
	}
}

// BenchmarkRun_Branching runs a graph with a conditional edge.
func BenchmarkRun_Branching(b *testing.B) {
	compiled := mustCompile(buildBranchingGraph())
	ctx := stategraph.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, stategraph.State{"value": i})
	}
}

// BenchmarkRun_Loop_10 runs a looping graph (10 iterations).
func BenchmarkRun_Loop_10(b *testing.B) {
	compiled := mustCompile(buildLoopGraph(10))
	ctx := stategraph.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, stategraph.State{"value": 0})
	}
}

// BenchmarkRun_AppendReducer runs a loop that appends to a history field.
func BenchmarkRun_AppendReducer(b *testing.B) {
	schema := stategraph.NewSchema().
		Add("value", stategraph.Field{}).
		Add("history", stategraph.Field{Reducer: stategraph.Append})

	step := func(ctx stategraph.Context, s stategraph.State) (stategraph.State, error) {
		v, _ := s["value"].(int)
		return stategraph.State{"value": v + 1, "history": []any{v + 1}}, nil
	}
	router := func(ctx stategraph.Context, s stategraph.State) string {
		if v, _ := s["value"].(int); v < 10 {
			return "step"
		}
		return stategraph.END
	}

	compiled := mustCompile(stategraph.NewGraph(schema).
		AddNode("step", step).
		AddConditionalEdge("step", router, "step", stategraph.END).
		SetEntry("step"))

	ctx := stategraph.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, stategraph.State{"value": 0})
	}
}

// BenchmarkContextCreation measures context creation overhead.
func BenchmarkContextCreation(b *testing.B) {
	for i := 0; i < b.N; i++ {
		stategraph.NewContext(context.Background())
	}
}
