// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ast

import (
	"fmt"

	"github.com/pdiddy/podoc/internal/tree"
)

// NestingError reports an inline node holding a block child.
type NestingError struct {
	Parent string
	Child  string
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("inline node %s cannot contain block node %s", e.Parent, e.Child)
}

func (e *NestingError) Unwrap() error { return ErrNesting }

// Check verifies the nesting invariant for n and its direct children. Readers
// call it on every node right after building it.
func Check(n tree.Node) error {
	if n == nil || !IsInline(n.Kind()) {
		return nil
	}
	for _, c := range n.Children() {
		if IsBlock(c.Kind()) {
			return &NestingError{Parent: n.Kind(), Child: c.Kind()}
		}
	}
	return nil
}

// Validate checks the whole tree rooted at n: every node must belong to the
// vocabulary and satisfy the nesting invariant.
func Validate(n tree.Node) error {
	var err error
	tree.Walk(n, func(c tree.Node) bool {
		if err != nil {
			return false
		}
		if tree.IsLeaf(c) {
			return true
		}
		if _, ok := c.(Node); !ok {
			err = fmt.Errorf("%w: %s", ErrUnsupported, c.Kind())
			return false
		}
		err = Check(c)
		return err == nil
	})
	return err
}

// Normalize returns a copy of the tree with presentation-only attributes
// cleared, adjacent text leaves merged, empty text leaves dropped and empty
// child lists set to nil. Documents that differ only in those respects
// normalize to equal trees.
func Normalize(doc *Document) (*Document, error) {
	tr := tree.NewTransformer[tree.Node]()
	tr.HandleNode(func(n tree.Node) (tree.Step[tree.Node], error) {
		if _, ok := n.(*LineBreak); ok {
			return tree.Done[tree.Node](&LineBreak{}), nil
		}
		if _, ok := n.(Node); !ok {
			return tree.Step[tree.Node]{}, fmt.Errorf("%w: %s", ErrUnsupported, n.Kind())
		}
		return tree.Descend[tree.Node](n.Children()...), nil
	})
	tr.SetFold(func(children []tree.Node, n tree.Node) (tree.Node, error) {
		c := shallowCopy(n.(Node))
		if bl, ok := c.(*BulletList); ok {
			bl.BulletChar = ""
		}
		c.setChildren(MergeText(children))
		return c, nil
	})

	out, err := tr.Transform(doc)
	if err != nil {
		return nil, err
	}
	return out.(*Document), nil
}

// MergeText joins runs of adjacent text leaves and drops empty ones. It
// returns nil when nothing is left.
func MergeText(items []tree.Node) []tree.Node {
	if len(items) == 0 {
		return nil
	}
	out := make([]tree.Node, 0, len(items))
	for _, it := range items {
		if t, ok := it.(tree.Text); ok && t == "" {
			continue
		}
		if t, ok := it.(tree.Text); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(tree.Text); ok {
				out[len(out)-1] = prev + t
				continue
			}
		}
		out = append(out, it)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
