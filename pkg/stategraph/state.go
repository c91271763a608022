package stategraph

import (
	"fmt"
	"sort"
)

// State is the mapping of named fields flowing through a graph invocation.
// A State returned by a node is a partial update; the State a node receives
// is the full merged state. Treat received states as read-only.
type State map[string]any

// Clone returns a shallow copy of the state.
// Field values are shared; reducers never mutate them in place.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Reducer merges a partial value into the current value of a single field.
// The current value is nil when the field has never been written.
type Reducer func(current, update any) any

// Overwrite is the default reducer: the partial value replaces the current
// one (last write wins).
func Overwrite(_, update any) any {
	return update
}

// Append concatenates the update sequence onto the current sequence,
// preserving encounter order with no deduplication. Both values are
// normalized to []any; a non-slice value is treated as a single element.
// The current slice is never mutated; a fresh slice is returned so merged
// states stay independent of their predecessors.
func Append(current, update any) any {
	cur := toSlice(current)
	upd := toSlice(update)
	out := make([]any, 0, len(cur)+len(upd))
	out = append(out, cur...)
	out = append(out, upd...)
	return out
}

// toSlice normalizes a field value for Append.
func toSlice(v any) []any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		return val
	default:
		return []any{val}
	}
}

// Field declares one state field. The zero value uses the Overwrite reducer.
type Field struct {
	// Reducer merges partial writes into the field. Nil means Overwrite.
	Reducer Reducer
}

// Schema is the closed set of fields a graph's state may hold, fixed at
// construction time. Nodes may only write declared fields; an undeclared
// key in a partial update is a *SchemaError.
//
// Schema is not safe for concurrent mutation; build it fully before
// compiling a graph.
type Schema struct {
	fields map[string]Field
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{fields: make(map[string]Field)}
}

// Add declares a field and returns the schema for chaining.
// Panics on an empty name or a duplicate declaration, mirroring the graph
// builder's handling of programmer errors.
func (sc *Schema) Add(name string, f Field) *Schema {
	if name == "" {
		panic("stategraph: field name cannot be empty")
	}
	if _, exists := sc.fields[name]; exists {
		panic(fmt.Sprintf("stategraph: duplicate field: %s", name))
	}
	sc.fields[name] = f
	return sc
}

// Has reports whether the field is declared.
func (sc *Schema) Has(name string) bool {
	_, ok := sc.fields[name]
	return ok
}

// FieldNames returns the declared field names in sorted order.
func (sc *Schema) FieldNames() []string {
	names := make([]string, 0, len(sc.fields))
	for name := range sc.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge combines a partial update into the current state and returns a NEW
// state; neither input is mutated. Each key in partial is merged with its
// declared reducer (Overwrite unless the field opted into another).
// An undeclared key fails with *SchemaError and current is left untouched.
//
// Merge is a pure function: merging the same overwrite partial twice yields
// the same result as merging it once, and appending [a] then [b] equals
// appending [a, b].
func (sc *Schema) Merge(current, partial State) (State, error) {
	for key := range partial {
		if !sc.Has(key) {
			return nil, &SchemaError{Field: key}
		}
	}

	merged := current.Clone()
	for key, update := range partial {
		reducer := sc.fields[key].Reducer
		if reducer == nil {
			reducer = Overwrite
		}
		merged[key] = reducer(current[key], update)
	}
	return merged, nil
}
