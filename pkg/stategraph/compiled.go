package stategraph

// CompiledGraph is an immutable, executable graph.
// It is created by calling Compile() on a Graph builder.
//
// CompiledGraph is thread-safe and can be used concurrently for multiple
// Run() calls; each run gets its own state instance and no state is shared
// across invocations. The graph structure cannot be modified after
// compilation.
//
// Use the introspection methods (NodeIDs, Destinations, etc.) to examine
// the graph structure for debugging or visualization.
type CompiledGraph struct {
	schema           *Schema
	nodes            map[string]NodeFunc
	edges            map[string][]string
	conditionalEdges map[string]conditionalEdge
	entryPoint       string

	// Pre-computed for efficient lookup
	predecessors  map[string][]string
	isConditional map[string]bool
}

// Schema returns the state schema the graph was built with.
func (cg *CompiledGraph) Schema() *Schema {
	return cg.schema
}

// EntryPoint returns the entry node ID.
func (cg *CompiledGraph) EntryPoint() string {
	return cg.entryPoint
}

// NodeIDs returns all node identifiers in the graph.
// The order is not guaranteed.
func (cg *CompiledGraph) NodeIDs() []string {
	ids := make([]string, 0, len(cg.nodes))
	for id := range cg.nodes {
		ids = append(ids, id)
	}
	return ids
}

// HasNode checks if a node exists in the graph.
func (cg *CompiledGraph) HasNode(id string) bool {
	_, exists := cg.nodes[id]
	return exists
}

// Destinations returns the node IDs reachable from the given node: the fixed
// edge targets, or the declared destination set for a conditional edge.
// Returns nil for END or unknown nodes.
func (cg *CompiledGraph) Destinations(id string) []string {
	if id == END {
		return nil
	}
	if ce, ok := cg.conditionalEdges[id]; ok {
		out := make([]string, len(ce.destinations))
		copy(out, ce.destinations)
		return out
	}
	return cg.edges[id]
}

// Predecessors returns the node IDs that have fixed edges to the given node.
// Returns nil for the entry node or unknown nodes.
func (cg *CompiledGraph) Predecessors(id string) []string {
	return cg.predecessors[id]
}

// IsConditional returns true if the node has a conditional edge.
func (cg *CompiledGraph) IsConditional(id string) bool {
	return cg.isConditional[id]
}

// getNode returns the node function for the given ID.
// Used internally by the executor.
func (cg *CompiledGraph) getNode(id string) (NodeFunc, bool) {
	fn, exists := cg.nodes[id]
	return fn, exists
}

// getConditionalEdge returns the conditional edge for the given node.
// Used internally by the executor.
func (cg *CompiledGraph) getConditionalEdge(id string) (conditionalEdge, bool) {
	ce, exists := cg.conditionalEdges[id]
	return ce, exists
}

// getEdges returns the fixed edge targets for the given node.
// Used internally by the executor.
func (cg *CompiledGraph) getEdges(id string) []string {
	return cg.edges[id]
}
