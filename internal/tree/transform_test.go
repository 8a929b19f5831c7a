// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Element {
	header := NewElement("Header", Text("Title"))
	header.SetAttr("level", 2)
	return NewElement(Root,
		header,
		NewElement("Para", Text("hello "), NewElement("Emph", Text("world"))),
		NewElement("Para", Text("bye")),
	)
}

func descendAll[T any](n Node) (Step[T], error) {
	return Descend[T](n.Children()...), nil
}

func TestTransform_IdentityPreservesStructure(t *testing.T) {
	src := sampleTree()

	tr := NewTransformer[Node]()
	tr.HandleNode(descendAll[Node])

	got, err := tr.Transform(src)
	require.NoError(t, err)
	assert.True(t, Equal(src, got), "identity transform changed the tree")

	// The result is a copy, not the same tree.
	assert.NotSame(t, src, got)
}

func TestTransform_FoldWithParentSeparator(t *testing.T) {
	tr := NewTransformer[string]()
	tr.HandleNode(descendAll[string])
	tr.SetFold(func(children []string, n Node) (string, error) {
		sep := ""
		if n.Kind() == Root {
			sep = "\n\n"
		}
		return strings.Join(children, sep), nil
	})
	tr.Handle("Emph", func(n Node) (Step[string], error) {
		inner, err := tr.Inner(n)
		if err != nil {
			return Step[string]{}, err
		}
		return Done("*" + inner + "*"), nil
	})

	got, err := tr.Transform(sampleTree())
	require.NoError(t, err)
	assert.Equal(t, "Title\n\nhello *world*\n\nbye", got)
}

func TestTransform_PostOrderLeftToRight(t *testing.T) {
	var order []string

	tr := NewTransformer[any]()
	tr.HandleNode(descendAll[any])
	tr.HandleLeaf(func(x Text) (any, error) {
		order = append(order, string(x))
		return string(x), nil
	})
	tr.SetFold(func(children []any, n Node) (any, error) {
		order = append(order, n.Kind())
		return children, nil
	})

	_, err := tr.Transform(sampleTree())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Title", "Header",
		"hello ", "world", "Emph", "Para",
		"bye", "Para",
		Root,
	}, order)
}

func TestTransform_DefaultFoldForAny(t *testing.T) {
	tr := NewTransformer[any]()
	tr.HandleNode(descendAll[any])

	got, err := tr.Transform(NewElement("Para", Text("a"), Text("b")))
	require.NoError(t, err)
	assert.Equal(t, []any{Text("a"), Text("b")}, got)
}

func TestTransform_DoneShortCircuits(t *testing.T) {
	visited := 0
	tr := NewTransformer[string]()
	tr.HandleNode(descendAll[string])
	tr.HandleLeaf(func(x Text) (string, error) {
		visited++
		return string(x), nil
	})
	tr.SetFold(func(children []string, _ Node) (string, error) {
		return strings.Join(children, ""), nil
	})
	tr.Handle("Para", func(Node) (Step[string], error) {
		return Done("<para>"), nil
	})

	got, err := tr.Transform(sampleTree())
	require.NoError(t, err)
	assert.Equal(t, "Title<para><para>", got)
	assert.Equal(t, 1, visited, "only the header text should reach the leaf handler")
}

func TestTransform_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Transformer[string])
		wantErr error
	}{
		{
			name:    "no handler and no fallback",
			setup:   func(*Transformer[string]) {},
			wantErr: ErrNoHandler,
		},
		{
			name: "handler returns empty step",
			setup: func(tr *Transformer[string]) {
				tr.HandleNode(func(Node) (Step[string], error) {
					return Step[string]{}, nil
				})
			},
			wantErr: ErrEmptyStep,
		},
		{
			name: "default fold cannot build strings",
			setup: func(tr *Transformer[string]) {
				tr.HandleNode(descendAll[string])
			},
			wantErr: ErrNoFold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransformer[string]()
			tt.setup(tr)
			_, err := tr.Transform(sampleTree())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransform_LeafIdentity(t *testing.T) {
	s, err := NewTransformer[string]().Transform(Text("plain"))
	require.NoError(t, err)
	assert.Equal(t, "plain", s)

	n, err := NewTransformer[Node]().Transform(Text("plain"))
	require.NoError(t, err)
	assert.Equal(t, Text("plain"), n)

	_, err = NewTransformer[int]().Transform(Text("plain"))
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestWalkAndCount(t *testing.T) {
	var kinds []string
	Walk(sampleTree(), func(n Node) bool {
		if !IsLeaf(n) {
			kinds = append(kinds, n.Kind())
		}
		return n.Kind() != "Para"
	})
	assert.Equal(t, []string{Root, "Header", "Para", "Para"}, kinds)
	assert.Equal(t, 9, Count(sampleTree()))
}
