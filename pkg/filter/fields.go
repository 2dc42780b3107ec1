package filter

import "fmt"

// Row identifies the collection elements a value was reached through, keyed
// by collection path. Values of scalar fields carry an empty row.
type Row map[string]int

// merge returns the union of r and other, or false when both name a
// different element of the same collection.
func (r Row) merge(other Row) (Row, bool) {
	if len(other) == 0 {
		return r, true
	}
	out := make(Row, len(r)+len(other))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range other {
		if prev, ok := out[k]; ok && prev != v {
			return nil, false
		}
		out[k] = v
	}
	return out, true
}

// Value is one value found at a field path.
type Value struct {
	Text string
	Row  Row
}

// Fields is a registry of dotted field paths for T. An accessor returns every
// value at the path; collection segments contribute one value per element.
type Fields[T any] map[string]func(T) []Value

// Has reports whether path is a registered field.
func (f Fields[T]) Has(path string) bool {
	_, ok := f[path]
	return ok
}

// Compile checks conds against the registry and returns a predicate that
// holds when every active condition matches a value of its field and all the
// matched values belong to the same element of every collection they share.
// Two conditions on contact_persons therefore have to match one contact
// person, the way a single joined row does in SQL.
func (f Fields[T]) Compile(conds []Condition) (func(T) bool, error) {
	type check struct {
		get   func(T) []Value
		match Match
		want  string
	}
	checks := make([]check, 0, len(conds))
	for _, c := range conds {
		if !c.Active() {
			continue
		}
		get, ok := f[c.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, c.Field)
		}
		match, err := Matchers.Resolve(c.Type)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check{get: get, match: match, want: c.Text()})
	}
	return func(item T) bool {
		candidates := make([][]Row, 0, len(checks))
		for _, ch := range checks {
			var rows []Row
			for _, v := range ch.get(item) {
				if ch.match(v.Text, ch.want) {
					rows = append(rows, v.Row)
				}
			}
			if len(rows) == 0 {
				return false
			}
			candidates = append(candidates, rows)
		}
		return consistent(candidates, Row{})
	}, nil
}

// consistent reports whether one row can be picked from each candidate list
// without two picks disagreeing on an element.
func consistent(candidates [][]Row, acc Row) bool {
	if len(candidates) == 0 {
		return true
	}
	for _, r := range candidates[0] {
		if merged, ok := acc.merge(r); ok && consistent(candidates[1:], merged) {
			return true
		}
	}
	return false
}

// Apply returns the items that satisfy every active condition, preserving order.
func Apply[T any](items []T, fields Fields[T], conds []Condition) ([]T, error) {
	pred, err := fields.Compile(conds)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// One wraps a single value for accessors over scalar fields.
func One(v string) []Value { return []Value{{Text: v}} }

// Each builds an accessor over the collection named path: get runs on every
// element returned by elems and its values are tagged with the element index.
// Nested collections use nested Each calls with their full path.
func Each[T, E any](path string, elems func(T) []E, get func(E) []Value) func(T) []Value {
	return func(item T) []Value {
		var out []Value
		for i, e := range elems(item) {
			for _, v := range get(e) {
				row := make(Row, len(v.Row)+1)
				for k, idx := range v.Row {
					row[k] = idx
				}
				row[path] = i
				out = append(out, Value{Text: v.Text, Row: row})
			}
		}
		return out
	}
}
