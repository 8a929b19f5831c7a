// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHandler is returned when a node kind has neither a specific
	// handler nor a generic fallback, or a leaf cannot be converted.
	ErrNoHandler = errors.New("no handler registered")

	// ErrEmptyStep is returned when a handler yields neither a final value
	// nor a list of children to descend into.
	ErrEmptyStep = errors.New("handler returned an empty step")

	// ErrNoFold is returned when the default fold cannot build a value of
	// the transformer's result type.
	ErrNoFold = errors.New("no fold for result type")
)

// Step is what a handler returns: either a final value for the node, or the
// children the engine should transform before folding.
type Step[T any] struct {
	value    T
	children []Node
	state    stepState
}

type stepState int

const (
	stepEmpty stepState = iota
	stepDone
	stepDescend
)

// Done returns a step carrying the final value for the node.
func Done[T any](v T) Step[T] {
	return Step[T]{value: v, state: stepDone}
}

// Descend returns a step asking the engine to transform children and fold
// the results into the node's value.
func Descend[T any](children ...Node) Step[T] {
	return Step[T]{children: children, state: stepDescend}
}

// Handler transforms a node into a Step.
type Handler[T any] func(n Node) (Step[T], error)

// LeafHandler transforms a Text leaf.
type LeafHandler[T any] func(t Text) (T, error)

// FoldFunc combines the transformed children of n into n's value.
type FoldFunc[T any] func(children []T, n Node) (T, error)

// Transformer is a recursive, registry-driven tree transformer. Handlers are
// keyed by node kind; kinds without a specific handler go to the fallback
// registered with HandleNode.
//
// Folding is post-order: a node's children are always transformed before the
// node's fold runs, siblings left to right, and each node exactly once.
type Transformer[T any] struct {
	handlers map[string]Handler[T]
	fallback Handler[T]
	leaf     LeafHandler[T]
	fold     FoldFunc[T]
}

// NewTransformer returns a transformer with identity leaf handling and the
// structure-preserving default fold.
func NewTransformer[T any]() *Transformer[T] {
	return &Transformer[T]{
		handlers: make(map[string]Handler[T]),
		leaf:     identityLeaf[T],
		fold:     defaultFold[T],
	}
}

// Handle registers h for nodes of the given kind, replacing any previous one.
func (t *Transformer[T]) Handle(kind string, h Handler[T]) {
	t.handlers[kind] = h
}

// HandleNode registers the generic fallback handler.
func (t *Transformer[T]) HandleNode(h Handler[T]) {
	t.fallback = h
}

// HandleLeaf registers the Text leaf handler.
func (t *Transformer[T]) HandleLeaf(h LeafHandler[T]) {
	t.leaf = h
}

// SetFold replaces the fold step.
func (t *Transformer[T]) SetFold(f FoldFunc[T]) {
	t.fold = f
}

// Handles reports whether a specific handler is registered for kind.
func (t *Transformer[T]) Handles(kind string) bool {
	_, ok := t.handlers[kind]
	return ok
}

// Transform transforms n and, as needed, its descendants.
func (t *Transformer[T]) Transform(n Node) (T, error) {
	var zero T
	if leaf, ok := n.(Text); ok {
		return t.leaf(leaf)
	}
	if n == nil {
		return zero, fmt.Errorf("%w: nil node", ErrNoHandler)
	}

	h, ok := t.handlers[n.Kind()]
	if !ok {
		h = t.fallback
	}
	if h == nil {
		return zero, fmt.Errorf("%w: kind %q", ErrNoHandler, n.Kind())
	}

	step, err := h(n)
	if err != nil {
		return zero, err
	}
	switch step.state {
	case stepDone:
		return step.value, nil
	case stepDescend:
		results, err := t.transformAll(step.children)
		if err != nil {
			return zero, err
		}
		return t.fold(results, n)
	default:
		return zero, fmt.Errorf("%w: kind %q", ErrEmptyStep, n.Kind())
	}
}

// TransformChildren transforms each child of n, left to right.
func (t *Transformer[T]) TransformChildren(n Node) ([]T, error) {
	return t.transformAll(n.Children())
}

// Inner transforms the children of n and folds them into a single value.
// Handlers use it to render a node's contents before decorating them.
func (t *Transformer[T]) Inner(n Node) (T, error) {
	results, err := t.TransformChildren(n)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.fold(results, n)
}

func (t *Transformer[T]) transformAll(children []Node) ([]T, error) {
	results := make([]T, 0, len(children))
	for _, c := range children {
		v, err := t.Transform(c)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}

func identityLeaf[T any](x Text) (T, error) {
	if v, ok := any(x).(T); ok {
		return v, nil
	}
	if v, ok := any(string(x)).(T); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: leaf %q", ErrNoHandler, string(x))
}

// defaultFold keeps the structure: a Transformer[Node] rebuilds the node as
// an Element with the transformed children, a Transformer[any] returns the
// children slice itself.
func defaultFold[T any](children []T, n Node) (T, error) {
	var zero T
	if _, ok := any(&zero).(*Node); ok {
		e := &Element{Name: n.Kind()}
		if src, ok := n.(*Element); ok && len(src.Attrs) > 0 {
			e.Attrs = make(Attrs, len(src.Attrs))
			for k, v := range src.Attrs {
				e.Attrs[k] = v
			}
		}
		for _, c := range children {
			if nd, ok := any(c).(Node); ok {
				e.Items = append(e.Items, nd)
			}
		}
		return any(Node(e)).(T), nil
	}
	if _, ok := any(&zero).(*any); ok {
		items := make([]any, len(children))
		for i, c := range children {
			items[i] = c
		}
		return any(items).(T), nil
	}
	return zero, fmt.Errorf("%w: %T", ErrNoFold, zero)
}
