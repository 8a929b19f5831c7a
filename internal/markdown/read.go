// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown reads CommonMark text into the document AST and writes the
// AST back out as markdown.
package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/pdiddy/podoc/internal/ast"
	"github.com/pdiddy/podoc/internal/tree"
)

// kindBreak tags the synthetic node inserted after a text segment that ends
// with a soft or hard line break.
const kindBreak = "Break"

// cmNode adapts a goldmark node to tree.Node so the reader can run as a
// tree.Transformer over the parse tree.
type cmNode struct {
	n   gast.Node
	src []byte
}

func (c *cmNode) Kind() string {
	if c.n == nil {
		return kindBreak
	}
	return c.n.Kind().String()
}

func (c *cmNode) Children() []tree.Node {
	if c.n == nil {
		return nil
	}
	var out []tree.Node
	for ch := c.n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		out = append(out, &cmNode{n: ch, src: c.src})
		if t, ok := ch.(*gast.Text); ok && (t.SoftLineBreak() || t.HardLineBreak()) {
			out = append(out, &cmNode{src: c.src})
		}
	}
	return out
}

// Reader turns markdown source into an AST.
type Reader struct {
	md goldmark.Markdown
	t  *tree.Transformer[tree.Node]
}

// NewReader returns a reader for plain CommonMark.
func NewReader() *Reader {
	r := &Reader{md: goldmark.New(), t: tree.NewTransformer[tree.Node]()}
	r.t.HandleNode(func(n tree.Node) (tree.Step[tree.Node], error) {
		return tree.Step[tree.Node]{}, fmt.Errorf("%w: markdown %s", ast.ErrUnsupported, n.Kind())
	})
	r.t.Handle(gast.KindDocument.String(), r.document)
	r.t.Handle(gast.KindParagraph.String(), r.para)
	r.t.Handle(gast.KindTextBlock.String(), r.plain)
	r.t.Handle(gast.KindHeading.String(), r.heading)
	r.t.Handle(gast.KindCodeBlock.String(), r.codeBlock)
	r.t.Handle(gast.KindFencedCodeBlock.String(), r.codeBlock)
	r.t.Handle(gast.KindBlockquote.String(), r.blockQuote)
	r.t.Handle(gast.KindList.String(), r.list)
	r.t.Handle(gast.KindListItem.String(), r.listItem)
	r.t.Handle(gast.KindText.String(), r.text)
	r.t.Handle(gast.KindString.String(), r.text)
	r.t.Handle(gast.KindEmphasis.String(), r.emphasis)
	r.t.Handle(gast.KindCodeSpan.String(), r.codeSpan)
	r.t.Handle(gast.KindLink.String(), r.link)
	r.t.Handle(gast.KindImage.String(), r.image)
	r.t.Handle(gast.KindAutoLink.String(), r.autoLink)
	r.t.Handle(kindBreak, func(tree.Node) (tree.Step[tree.Node], error) {
		return tree.Done[tree.Node](&ast.LineBreak{}), nil
	})
	return r
}

// Read parses markdown into an AST. Constructs without an AST counterpart
// (thematic breaks, raw HTML, ...) fail with ast.ErrUnsupported.
func (r *Reader) Read(source string) (*ast.Document, error) {
	src := []byte(source)
	root := r.md.Parser().Parse(text.NewReader(src))
	doc, err := r.t.Transform(&cmNode{n: root, src: src})
	if err != nil {
		return nil, err
	}
	return doc.(*ast.Document), nil
}

// Read parses markdown with a fresh Reader.
func Read(source string) (*ast.Document, error) {
	return NewReader().Read(source)
}

// inner transforms the children of n and merges adjacent text.
func (r *Reader) inner(n tree.Node) ([]tree.Node, error) {
	items, err := r.t.TransformChildren(n)
	if err != nil {
		return nil, err
	}
	return ast.MergeText(items), nil
}

// finish checks the nesting invariant on a freshly built node.
func finish(n ast.Node) (tree.Step[tree.Node], error) {
	if err := ast.Check(n); err != nil {
		return tree.Step[tree.Node]{}, err
	}
	return tree.Done[tree.Node](n), nil
}

// inlines is inner for block-level text containers, which never end in a
// line break.
func (r *Reader) inlines(n tree.Node) ([]tree.Node, error) {
	items, err := r.inner(n)
	if err != nil {
		return nil, err
	}
	for len(items) > 0 {
		if _, ok := items[len(items)-1].(*ast.LineBreak); !ok {
			break
		}
		items = items[:len(items)-1]
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

func (r *Reader) document(n tree.Node) (tree.Step[tree.Node], error) {
	blocks, err := r.inner(n)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	return tree.Done[tree.Node](ast.NewDocument(blocks...)), nil
}

func (r *Reader) para(n tree.Node) (tree.Step[tree.Node], error) {
	items, err := r.inlines(n)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	return finish(&ast.Para{Items: items})
}

func (r *Reader) plain(n tree.Node) (tree.Step[tree.Node], error) {
	items, err := r.inlines(n)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	return finish(&ast.Plain{Items: items})
}

func (r *Reader) heading(n tree.Node) (tree.Step[tree.Node], error) {
	items, err := r.inlines(n)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	h := n.(*cmNode).n.(*gast.Heading)
	return finish(&ast.Header{Level: h.Level, Items: items})
}

func (r *Reader) codeBlock(n tree.Node) (tree.Step[tree.Node], error) {
	c := n.(*cmNode)
	var b strings.Builder
	lines := c.n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	var lang string
	if fenced, ok := c.n.(*gast.FencedCodeBlock); ok {
		lang = string(fenced.Language(c.src))
	}
	return finish(ast.NewCodeBlock(lang, b.String()))
}

func (r *Reader) blockQuote(n tree.Node) (tree.Step[tree.Node], error) {
	items, err := r.inner(n)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	return finish(&ast.BlockQuote{Items: items})
}

func (r *Reader) list(n tree.Node) (tree.Step[tree.Node], error) {
	items, err := r.inner(n)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	l := n.(*cmNode).n.(*gast.List)
	if l.IsOrdered() {
		return finish(&ast.OrderedList{Start: l.Start, Delimiter: string(l.Marker), Items: items})
	}
	return finish(&ast.BulletList{BulletChar: string(l.Marker), Items: items})
}

func (r *Reader) listItem(n tree.Node) (tree.Step[tree.Node], error) {
	items, err := r.inner(n)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	return finish(&ast.ListItem{Items: items})
}

func (r *Reader) text(n tree.Node) (tree.Step[tree.Node], error) {
	c := n.(*cmNode)
	switch t := c.n.(type) {
	case *gast.Text:
		v := t.Segment.Value(c.src)
		if !t.IsRaw() {
			v = util.UnescapePunctuations(v)
		}
		return tree.Done[tree.Node](tree.Text(v)), nil
	case *gast.String:
		return tree.Done[tree.Node](tree.Text(t.Value)), nil
	}
	return tree.Step[tree.Node]{}, fmt.Errorf("%w: markdown %s", ast.ErrUnsupported, n.Kind())
}

func (r *Reader) emphasis(n tree.Node) (tree.Step[tree.Node], error) {
	items, err := r.inner(n)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	if n.(*cmNode).n.(*gast.Emphasis).Level >= 2 {
		return finish(&ast.Strong{Items: items})
	}
	return finish(&ast.Emph{Items: items})
}

// codeSpan joins the raw segments of an inline code span. Line endings inside
// a span read as spaces.
func (r *Reader) codeSpan(n tree.Node) (tree.Step[tree.Node], error) {
	c := n.(*cmNode)
	var b strings.Builder
	for ch := c.n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch t := ch.(type) {
		case *gast.Text:
			b.Write(t.Segment.Value(c.src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gast.String:
			b.Write(t.Value)
		}
	}
	return finish(ast.NewCode(b.String()))
}

func (r *Reader) link(n tree.Node) (tree.Step[tree.Node], error) {
	items, err := r.inner(n)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	l := n.(*cmNode).n.(*gast.Link)
	return finish(&ast.Link{URL: string(l.Destination), Items: items})
}

func (r *Reader) image(n tree.Node) (tree.Step[tree.Node], error) {
	items, err := r.inner(n)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	img := n.(*cmNode).n.(*gast.Image)
	return finish(&ast.Image{URL: string(img.Destination), Items: items})
}

func (r *Reader) autoLink(n tree.Node) (tree.Step[tree.Node], error) {
	c := n.(*cmNode)
	l := c.n.(*gast.AutoLink)
	label := string(l.Label(c.src))
	return finish(&ast.Link{URL: string(l.URL(c.src)), Items: []tree.Node{tree.Text(label)}})
}
