// Package document models a parsed OpenAPI document as a tagged variant tree.
// The tree mirrors JSON/YAML structure (objects with string keys, ordered
// arrays, scalars) and is immutable once built. All navigation goes through
// safe accessors that report absence instead of panicking, so a degenerate or
// partially populated document still grades to a complete result.
package document

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind identifies the variant held by a Node.
type Kind int

const (
	// KindNull is an absent or explicit-null value.
	KindNull Kind = iota
	// KindScalar is a string, number, or boolean leaf.
	KindScalar
	// KindObject is a string-keyed map with preserved key order.
	KindObject
	// KindArray is an ordered sequence.
	KindArray
)

// Node is one vertex of the document tree.
type Node struct {
	kind   Kind
	fields map[string]*Node
	keys   []string
	items  []*Node
	scalar any
}

// Null is the shared null node returned for absent values.
var Null = &Node{kind: KindNull}

// FromYAML parses YAML (or JSON, which YAML subsumes) into a Node tree.
func FromYAML(data []byte) (*Node, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return FromAny(raw), nil
}

// FromAny converts a decoded YAML/JSON value into a Node tree.
// Unknown container key types are stringified; unconvertible values
// become scalars.
func FromAny(v any) *Node {
	switch val := v.(type) {
	case nil:
		return Null
	case map[string]any:
		n := &Node{kind: KindObject, fields: make(map[string]*Node, len(val))}
		for k, item := range val {
			n.keys = append(n.keys, k)
			n.fields[k] = FromAny(item)
		}
		return n
	case map[any]any:
		n := &Node{kind: KindObject, fields: make(map[string]*Node, len(val))}
		for k, item := range val {
			key := fmt.Sprint(k)
			n.keys = append(n.keys, key)
			n.fields[key] = FromAny(item)
		}
		return n
	case []any:
		n := &Node{kind: KindArray, items: make([]*Node, 0, len(val))}
		for _, item := range val {
			n.items = append(n.items, FromAny(item))
		}
		return n
	default:
		return &Node{kind: KindScalar, scalar: val}
	}
}

// Object builds an object node from alternating key/value pairs.
// Intended for tests and seed data.
func Object(pairs ...any) *Node {
	n := &Node{kind: KindObject, fields: map[string]*Node{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		key := fmt.Sprint(pairs[i])
		n.keys = append(n.keys, key)
		if child, ok := pairs[i+1].(*Node); ok {
			n.fields[key] = child
		} else {
			n.fields[key] = FromAny(pairs[i+1])
		}
	}
	return n
}

// Array builds an array node.
func Array(items ...any) *Node {
	n := &Node{kind: KindArray}
	for _, item := range items {
		if child, ok := item.(*Node); ok {
			n.items = append(n.items, child)
		} else {
			n.items = append(n.items, FromAny(item))
		}
	}
	return n
}

// Kind returns the variant tag.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

// IsNull reports whether the node is absent or null.
func (n *Node) IsNull() bool { return n.Kind() == KindNull }

// IsObject reports whether the node is an object.
func (n *Node) IsObject() bool { return n.Kind() == KindObject }

// IsArray reports whether the node is an array.
func (n *Node) IsArray() bool { return n.Kind() == KindArray }

// Field returns the named child of an object node.
// Absence (wrong kind, missing key) yields (Null, false).
func (n *Node) Field(key string) (*Node, bool) {
	if n == nil || n.kind != KindObject {
		return Null, false
	}
	child, ok := n.fields[key]
	if !ok || child == nil {
		return Null, false
	}
	return child, true
}

// At walks a chain of object keys, returning Null on the first miss.
func (n *Node) At(path ...string) *Node {
	cur := n
	for _, key := range path {
		next, ok := cur.Field(key)
		if !ok {
			return Null
		}
		cur = next
	}
	if cur == nil {
		return Null
	}
	return cur
}

// Index returns the i-th element of an array node.
func (n *Node) Index(i int) (*Node, bool) {
	if n == nil || n.kind != KindArray || i < 0 || i >= len(n.items) {
		return Null, false
	}
	return n.items[i], true
}

// Len returns the element count for arrays and the key count for objects.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindArray:
		return len(n.items)
	case KindObject:
		return len(n.keys)
	default:
		return 0
	}
}

// Keys returns object keys in source order. Nil for non-objects.
func (n *Node) Keys() []string {
	if n.Kind() != KindObject {
		return nil
	}
	return n.keys
}

// Items returns array elements in order. Nil for non-arrays.
func (n *Node) Items() []*Node {
	if n.Kind() != KindArray {
		return nil
	}
	return n.items
}

// Str returns the scalar as a string.
// Non-string scalars report absence rather than converting.
func (n *Node) Str() (string, bool) {
	if n.Kind() != KindScalar {
		return "", false
	}
	s, ok := n.scalar.(string)
	return s, ok
}

// StrOr returns the string value or a default.
func (n *Node) StrOr(def string) string {
	if s, ok := n.Str(); ok {
		return s
	}
	return def
}

// Bool returns the scalar as a bool.
func (n *Node) Bool() (bool, bool) {
	if n.Kind() != KindScalar {
		return false, false
	}
	b, ok := n.scalar.(bool)
	return b, ok
}

// Float returns the scalar as a float64, converting integer scalars.
func (n *Node) Float() (float64, bool) {
	if n.Kind() != KindScalar {
		return 0, false
	}
	switch v := n.scalar.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Interface reconstructs the plain Go value for serialization.
// Object key order is preserved via map iteration being rebuilt from keys.
func (n *Node) Interface() any {
	switch n.Kind() {
	case KindNull:
		return nil
	case KindScalar:
		return n.scalar
	case KindArray:
		out := make([]any, 0, len(n.items))
		for _, item := range n.items {
			out = append(out, item.Interface())
		}
		return out
	default:
		out := make(map[string]any, len(n.keys))
		for _, k := range n.keys {
			out[k] = n.fields[k].Interface()
		}
		return out
	}
}
