// Package tree defines the generic configuration tree that the merge
// engine operates on: scalars, ordered arrays, and string-keyed objects,
// as produced by parsing JSON, YAML, or TOML documents.
package tree

import "sort"

// Node is a single value in a configuration tree. The set of
// implementations is closed: Null, Bool, Number, String, Array, Object.
type Node interface {
	node()
}

// Null is an explicit null value (distinct from an absent key).
type Null struct{}

// Bool is a boolean scalar.
type Bool bool

// Number is a numeric scalar. All numeric input types are normalized to
// float64 at the conversion boundary.
type Number float64

// String is a string scalar.
type String string

// Array is an ordered list of values.
type Array []Node

// Object is a mapping from string key to value. Keys are raw document
// keys and may contain any characters, including '.' and '['.
type Object map[string]Node

func (Null) node()   {}
func (Bool) node()   {}
func (Number) node() {}
func (String) node() {}
func (Array) node()  {}
func (Object) node() {}

// Keys returns the object's keys in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of n sharing no mutable structure with it.
// Clone(nil) returns nil.
func Clone(n Node) Node {
	switch v := n.(type) {
	case nil:
		return nil
	case Array:
		out := make(Array, len(v))
		for i, e := range v {
			out[i] = Clone(e)
		}
		return out
	case Object:
		out := make(Object, len(v))
		for k, e := range v {
			out[k] = Clone(e)
		}
		return out
	default:
		// Scalars are immutable values.
		return v
	}
}

// IsLeaf reports whether n is a leaf for change-reporting purposes.
// Arrays and scalars are leaves; only objects are interior nodes.
func IsLeaf(n Node) bool {
	_, isObj := n.(Object)
	return !isObj
}
