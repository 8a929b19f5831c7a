// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/podoc/internal/ast"
	"github.com/pdiddy/podoc/internal/tree"
)

// Writer renders an AST as markdown.
type Writer struct {
	t *tree.Transformer[string]
}

// NewWriter returns a writer handling every kind of the AST vocabulary.
func NewWriter() *Writer {
	w := &Writer{t: tree.NewTransformer[string]()}
	w.t.HandleNode(func(n tree.Node) (tree.Step[string], error) {
		return tree.Step[string]{}, fmt.Errorf("%w: cannot write %q as markdown", ast.ErrUnsupported, n.Kind())
	})
	w.t.SetFold(w.fold)
	for _, kind := range []string{ast.KindRoot, ast.KindPlain, ast.KindPara, ast.KindListItem} {
		w.t.Handle(kind, w.contents)
	}
	w.t.Handle(ast.KindHeader, w.header)
	w.t.Handle(ast.KindCodeBlock, w.codeBlock)
	w.t.Handle(ast.KindBlockQuote, w.blockQuote)
	w.t.Handle(ast.KindBulletList, w.bulletList)
	w.t.Handle(ast.KindOrderedList, w.orderedList)
	w.t.Handle(ast.KindEmph, w.wrap("*"))
	w.t.Handle(ast.KindStrong, w.wrap("**"))
	w.t.Handle(ast.KindCode, w.code)
	w.t.Handle(ast.KindLink, w.target(""))
	w.t.Handle(ast.KindImage, w.target("!"))
	w.t.Handle(ast.KindLineBreak, func(tree.Node) (tree.Step[string], error) {
		return tree.Done("\n"), nil
	})
	return w
}

// Write renders doc. The result ends with a newline unless the document is
// empty.
func (w *Writer) Write(doc *ast.Document) (string, error) {
	if doc == nil {
		return "", nil
	}
	out, err := w.t.Transform(doc)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}

// Write renders doc with a fresh Writer.
func Write(doc *ast.Document) (string, error) {
	return NewWriter().Write(doc)
}

// fold joins rendered children: blocks are separated by a blank line, the
// blocks of a tight list item by a newline, inlines by nothing.
func (w *Writer) fold(children []string, n tree.Node) (string, error) {
	switch n.Kind() {
	case ast.KindRoot, ast.KindBlockQuote:
		return strings.Join(children, "\n\n"), nil
	case ast.KindListItem:
		if tight(n) {
			return strings.Join(children, "\n"), nil
		}
		return strings.Join(children, "\n\n"), nil
	}
	return strings.Join(children, ""), nil
}

// tight reports whether a list item (or every item of a list) holds no
// paragraphs.
func tight(n tree.Node) bool {
	for _, c := range n.Children() {
		switch c.Kind() {
		case ast.KindPara:
			return false
		case ast.KindListItem:
			if !tight(c) {
				return false
			}
		}
	}
	return true
}

func (w *Writer) contents(n tree.Node) (tree.Step[string], error) {
	return tree.Descend[string](n.Children()...), nil
}

func (w *Writer) header(n tree.Node) (tree.Step[string], error) {
	inner, err := w.t.Inner(n)
	if err != nil {
		return tree.Step[string]{}, err
	}
	level := min(max(n.(*ast.Header).Level, 1), 6)
	return tree.Done(strings.Repeat("#", level) + " " + inner), nil
}

func (w *Writer) codeBlock(n tree.Node) (tree.Step[string], error) {
	code, err := w.t.Inner(n)
	if err != nil {
		return tree.Step[string]{}, err
	}
	if code != "" && !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	return tree.Done(fence + n.(*ast.CodeBlock).Lang + "\n" + code + fence), nil
}

func (w *Writer) blockQuote(n tree.Node) (tree.Step[string], error) {
	inner, err := w.t.Inner(n)
	if err != nil {
		return tree.Step[string]{}, err
	}
	lines := strings.Split(inner, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return tree.Done(strings.Join(lines, "\n")), nil
}

func (w *Writer) bulletList(n tree.Node) (tree.Step[string], error) {
	marker := n.(*ast.BulletList).BulletChar
	if marker == "" {
		marker = "-"
	}
	return w.list(n, func(int) string { return marker })
}

func (w *Writer) orderedList(n tree.Node) (tree.Step[string], error) {
	ol := n.(*ast.OrderedList)
	delim := ol.Delimiter
	if delim == "" {
		delim = "."
	}
	return w.list(n, func(i int) string { return strconv.Itoa(ol.Start+i) + delim })
}

// list renders the items of n, each behind its marker, with continuation
// lines indented to the column where the item's text starts.
func (w *Writer) list(n tree.Node, marker func(i int) string) (tree.Step[string], error) {
	items, err := w.t.TransformChildren(n)
	if err != nil {
		return tree.Step[string]{}, err
	}
	out := make([]string, len(items))
	for i, item := range items {
		m := marker(i) + " "
		indent := strings.Repeat(" ", len(m))
		lines := strings.Split(item, "\n")
		for j, line := range lines {
			switch {
			case j == 0:
				lines[j] = m + line
			case line != "":
				lines[j] = indent + line
			}
		}
		out[i] = strings.Join(lines, "\n")
	}
	sep := "\n"
	if !tight(n) {
		sep = "\n\n"
	}
	return tree.Done(strings.Join(out, sep)), nil
}

func (w *Writer) wrap(delim string) tree.Handler[string] {
	return func(n tree.Node) (tree.Step[string], error) {
		inner, err := w.t.Inner(n)
		if err != nil {
			return tree.Step[string]{}, err
		}
		return tree.Done(delim + inner + delim), nil
	}
}

func (w *Writer) code(n tree.Node) (tree.Step[string], error) {
	code, err := w.t.Inner(n)
	if err != nil {
		return tree.Step[string]{}, err
	}
	ticks := "`"
	for strings.Contains(code, ticks) {
		ticks += "`"
	}
	if len(ticks) > 1 {
		return tree.Done(ticks + " " + code + " " + ticks), nil
	}
	return tree.Done(ticks + code + ticks), nil
}

func (w *Writer) target(prefix string) tree.Handler[string] {
	return func(n tree.Node) (tree.Step[string], error) {
		inner, err := w.t.Inner(n)
		if err != nil {
			return tree.Step[string]{}, err
		}
		var url string
		switch n := n.(type) {
		case *ast.Link:
			url = n.URL
		case *ast.Image:
			url = n.URL
		}
		return tree.Done(prefix + "[" + inner + "](" + url + ")"), nil
	}
}
