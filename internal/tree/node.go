// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tree defines the labeled tree shared by every format's internal
// representation, and a registry-driven engine that transforms such trees
// into arbitrary values (strings, other trees, serializable objects).
package tree

import "reflect"

// Node is a tagged tree entity. Children are nested nodes or Text leaves.
// A node exclusively owns its children: trees are acyclic and never share
// subtrees.
type Node interface {
	// Kind returns the tag identifying the node, e.g. "Header" or "root".
	Kind() string

	// Children returns the ordered children of the node.
	Children() []Node
}

// Root is the kind of the single top-level node of every document tree.
const Root = "root"

// Text is an opaque leaf scalar holding plain text.
type Text string

// Kind returns the empty string: leaves carry no tag.
func (Text) Kind() string { return "" }

// Children returns nil.
func (Text) Children() []Node { return nil }

// IsLeaf reports whether n is a Text leaf.
func IsLeaf(n Node) bool {
	_, ok := n.(Text)
	return ok
}

// Attrs maps attribute names to values for untyped elements.
type Attrs map[string]any

// Element is an untyped labeled node. Formats that do not need a typed
// vocabulary build their trees from elements, and the default fold of a
// Transformer[Node] produces them.
type Element struct {
	Name  string
	Attrs Attrs
	Items []Node
}

// NewElement returns an element with the given name and children.
func NewElement(name string, children ...Node) *Element {
	return &Element{Name: name, Items: children}
}

func (e *Element) Kind() string     { return e.Name }
func (e *Element) Children() []Node { return e.Items }

// Attr returns the attribute value and whether it is set.
func (e *Element) Attr(name string) (any, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// SetAttr sets an attribute, allocating the map on first use.
func (e *Element) SetAttr(name string, value any) {
	if e.Attrs == nil {
		e.Attrs = make(Attrs)
	}
	e.Attrs[name] = value
}

// Walk visits n and its descendants in pre-order, siblings left to right.
// Returning false from fn skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n, leaves included.
func Count(n Node) int {
	total := 0
	Walk(n, func(Node) bool {
		total++
		return true
	})
	return total
}

// Equal reports whether a and b are structurally equal: same concrete types,
// same attributes, same children in the same order.
func Equal(a, b Node) bool {
	return reflect.DeepEqual(a, b)
}
