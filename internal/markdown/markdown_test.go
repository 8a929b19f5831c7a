// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/podoc/internal/ast"
	"github.com/pdiddy/podoc/internal/tree"
)

type nodes = []tree.Node

func plain(s string) *ast.Plain { return &ast.Plain{Items: nodes{tree.Text(s)}} }
func para(s string) *ast.Para   { return &ast.Para{Items: nodes{tree.Text(s)}} }
func item(blocks ...tree.Node) *ast.ListItem {
	return &ast.ListItem{Items: blocks}
}

func TestWrite_OrderedListNumbering(t *testing.T) {
	doc := ast.NewDocument(&ast.OrderedList{Start: 3, Items: nodes{
		item(plain("a")),
		item(plain("b")),
		item(plain("c")),
	}})

	got, err := Write(doc)
	require.NoError(t, err)
	assert.Equal(t, "3. a\n4. b\n5. c\n", got)
}

func TestWrite_NestedContinuationIndent(t *testing.T) {
	doc := ast.NewDocument(&ast.BulletList{Items: nodes{
		item(
			plain("parent"),
			&ast.OrderedList{Start: 9, Delimiter: ")", Items: nodes{
				item(&ast.Plain{Items: nodes{tree.Text("child"), &ast.LineBreak{}, tree.Text("continued")}}),
				item(plain("next")),
			}},
		),
	}})

	got, err := Write(doc)
	require.NoError(t, err)
	want := "- parent\n" +
		"  9) child\n" +
		"     continued\n" +
		"  10) next\n"
	assert.Equal(t, want, got)
}

func TestWrite_Blocks(t *testing.T) {
	tests := []struct {
		name  string
		block tree.Node
		want  string
	}{
		{
			name:  "header",
			block: &ast.Header{Level: 2, Items: nodes{tree.Text("Section")}},
			want:  "## Section\n",
		},
		{
			name:  "code block",
			block: ast.NewCodeBlock("go", "x := 1"),
			want:  "```go\nx := 1\n```\n",
		},
		{
			name:  "block quote",
			block: &ast.BlockQuote{Items: nodes{para("one"), para("two")}},
			want:  "> one\n>\n> two\n",
		},
		{
			name: "loose list",
			block: &ast.BulletList{BulletChar: "*", Items: nodes{
				item(para("first"), para("more")),
				item(para("second")),
			}},
			want: "* first\n\n  more\n\n* second\n",
		},
		{
			name: "inlines",
			block: &ast.Para{Items: nodes{
				tree.Text("a "),
				&ast.Emph{Items: nodes{tree.Text("b")}},
				tree.Text(" "),
				&ast.Strong{Items: nodes{tree.Text("c")}},
				tree.Text(" "),
				ast.NewCode("d"),
				tree.Text(" "),
				&ast.Link{URL: "https://e.org", Items: nodes{tree.Text("e")}},
				tree.Text(" "),
				&ast.Image{URL: "f.png", Items: nodes{tree.Text("f")}},
			}},
			want: "a *b* **c** `d` [e](https://e.org) ![f](f.png)\n",
		},
		{
			name:  "code with backtick",
			block: &ast.Plain{Items: nodes{ast.NewCode("a`b")}},
			want:  "`` a`b ``\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Write(ast.NewDocument(tt.block))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite_Unsupported(t *testing.T) {
	_, err := Write(ast.NewDocument(tree.NewElement("Table")))
	assert.ErrorIs(t, err, ast.ErrUnsupported)
}

func TestWrite_Empty(t *testing.T) {
	got, err := Write(ast.NewDocument())
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestRead(t *testing.T) {
	src := "# Title\n\nSome *emph* and **strong** `code` [link](https://x.org).\n"

	doc, err := Read(src)
	require.NoError(t, err)

	want := ast.NewDocument(
		&ast.Header{Level: 1, Items: nodes{tree.Text("Title")}},
		&ast.Para{Items: nodes{
			tree.Text("Some "),
			&ast.Emph{Items: nodes{tree.Text("emph")}},
			tree.Text(" and "),
			&ast.Strong{Items: nodes{tree.Text("strong")}},
			tree.Text(" "),
			ast.NewCode("code"),
			tree.Text(" "),
			&ast.Link{URL: "https://x.org", Items: nodes{tree.Text("link")}},
			tree.Text("."),
		}},
	)
	assert.Equal(t, want, doc)
}

func TestRead_Lists(t *testing.T) {
	doc, err := Read("3. a\n4. b\n5. c\n")
	require.NoError(t, err)

	want := ast.NewDocument(&ast.OrderedList{Start: 3, Delimiter: ".", Items: nodes{
		item(plain("a")),
		item(plain("b")),
		item(plain("c")),
	}})
	assert.Equal(t, want, doc)
}

func TestRead_SoftBreak(t *testing.T) {
	doc, err := Read("line one\nline two\n")
	require.NoError(t, err)

	want := ast.NewDocument(&ast.Para{Items: nodes{
		tree.Text("line one"), &ast.LineBreak{}, tree.Text("line two"),
	}})
	assert.Equal(t, want, doc)
}

func TestRead_CodeBlock(t *testing.T) {
	doc, err := Read("```python\nprint(1)\n```\n")
	require.NoError(t, err)
	assert.Equal(t, ast.NewDocument(ast.NewCodeBlock("python", "print(1)\n")), doc)
}

func TestRead_Unsupported(t *testing.T) {
	for _, src := range []string{"a\n\n---\n", "<div>\nhtml\n</div>\n"} {
		_, err := Read(src)
		assert.ErrorIs(t, err, ast.ErrUnsupported, src)
	}
}

func TestRoundTrip(t *testing.T) {
	src := "# Title\n\n" +
		"Hello *world* and **bold**.\n\n" +
		"- one\n" +
		"- two\n" +
		"  1. nested\n" +
		"  2. more\n\n" +
		"> quoted\n\n" +
		"```go\nx := 1\n```\n"

	doc, err := Read(src)
	require.NoError(t, err)
	require.NoError(t, ast.Validate(doc))

	got, err := Write(doc)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestRoundTrip_ThroughInterchange(t *testing.T) {
	doc, err := Read("Some *text*\nwith [a link](u).\n\n1. a\n2. b\n")
	require.NoError(t, err)

	v, err := ast.Encode(doc)
	require.NoError(t, err)
	back, err := ast.Decode(v)
	require.NoError(t, err)

	want, err := ast.Normalize(doc)
	require.NoError(t, err)
	assert.Equal(t, want, back)
}
