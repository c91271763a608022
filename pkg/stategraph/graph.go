package stategraph

import (
	"fmt"
	"strings"
	"sync"
)

// conditionalEdge is a conditional transition: a router plus the declared
// set of legal destinations (node IDs or END) it may return.
type conditionalEdge struct {
	router       RouterFunc
	destinations []string
}

// Graph is a mutable builder for creating execution graphs.
// Use NewGraph with a state schema, then chain AddNode, AddEdge,
// AddConditionalEdge, and SetEntry calls to define the workflow.
//
// Graph is NOT thread-safe during building. Use a single goroutine to
// construct the graph, then call Compile() to create an immutable
// CompiledGraph that can be safely shared.
//
// Example:
//
//	schema := stategraph.NewSchema().
//	    Add("number", stategraph.Field{}).
//	    Add("history", stategraph.Field{Reducer: stategraph.Append})
//
//	graph := stategraph.NewGraph(schema).
//	    AddNode("decrement", decrement).
//	    AddConditionalEdge("decrement", route, "decrement", stategraph.END).
//	    SetEntry("decrement")
//
//	compiled, err := graph.Compile()
type Graph struct {
	mu               sync.RWMutex
	schema           *Schema
	nodes            map[string]NodeFunc
	edges            map[string][]string
	conditionalEdges map[string]conditionalEdge
	entryPoint       string
}

// NewGraph creates a new graph builder over the given state schema.
// The schema fixes the closed field set for every invocation of the
// compiled graph.
func NewGraph(schema *Schema) *Graph {
	return &Graph{
		schema:           schema,
		nodes:            make(map[string]NodeFunc),
		edges:            make(map[string][]string),
		conditionalEdges: make(map[string]conditionalEdge),
	}
}

// AddNode adds a named node to the graph.
// Returns the graph for method chaining.
//
// Panics if:
//   - id is empty
//   - id is a reserved sentinel ("END", "__end__", "START", "__start__",
//     case-insensitive)
//   - id contains whitespace (space, tab, newline)
//   - fn is nil
//   - id already exists in the graph
func (g *Graph) AddNode(id string, fn NodeFunc) *Graph {
	if id == "" {
		panic("stategraph: node ID cannot be empty")
	}

	idLower := strings.ToLower(id)
	if idLower == "end" || idLower == "__end__" || idLower == "start" || idLower == "__start__" {
		panic("stategraph: node ID cannot be a reserved sentinel")
	}

	if strings.ContainsAny(id, " \t\n\r") {
		panic("stategraph: node ID cannot contain whitespace")
	}

	if fn == nil {
		panic("stategraph: node function cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[id]; exists {
		panic(fmt.Sprintf("stategraph: duplicate node ID: %s", id))
	}

	g.nodes[id] = fn
	return g
}

// AddEdge adds an unconditional edge from one node to another.
// The target can be a node ID or stategraph.END.
// Returns the graph for method chaining.
//
// Edge validation happens at Compile() time, not here.
// This allows edges to be added in any order.
func (g *Graph) AddEdge(from, to string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.edges[from] = append(g.edges[from], to)
	return g
}

// AddConditionalEdge adds a conditional edge where a RouterFunc chooses the
// next node at runtime from a DECLARED set of destinations. The destinations
// enumerate every value the router may legally return (node IDs or END);
// a return outside the set is a *RouteError at run time.
// Returns the graph for method chaining.
//
// A node can have either a fixed edge or a conditional edge, not both.
// If both are present, the conditional edge takes precedence.
//
// Panics if router is nil or destinations is empty; destination existence
// is validated at Compile() time.
func (g *Graph) AddConditionalEdge(from string, router RouterFunc, destinations ...string) *Graph {
	if router == nil {
		panic("stategraph: router function cannot be nil")
	}
	if len(destinations) == 0 {
		panic("stategraph: conditional edge needs at least one destination")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	dests := make([]string, len(destinations))
	copy(dests, destinations)
	g.conditionalEdges[from] = conditionalEdge{router: router, destinations: dests}
	return g
}

// SetEntry designates the entry point node, the single edge out of START.
// This must be called before Compile().
// Returns the graph for method chaining.
//
// Entry point validation happens at Compile() time.
func (g *Graph) SetEntry(id string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.entryPoint = id
	return g
}
