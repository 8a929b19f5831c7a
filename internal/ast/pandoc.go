// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/podoc/internal/tree"
)

// Interchange values are the generic Go values produced by unmarshalling JSON
// into an any: []any, map[string]any, string and numbers. Tagged objects use
// Pandoc's keys: "t" for the type and "c" for the contents.
const (
	keyType     = "t"
	keyContents = "c"
	keyMeta     = "unMeta"

	keyAPIVersion = "pandoc-api-version"
	keyAPIMeta    = "meta"
	keyAPIBlocks  = "blocks"
)

// Pandoc list attribute names for the default style and delimiter.
const (
	defaultStyle = "DefaultStyle"
	defaultDelim = "DefaultDelim"
)

var delimNames = map[string]string{
	"":  defaultDelim,
	".": "Period",
	")": "OneParen",
}

// EncodeOption configures Encode.
type EncodeOption func(*encoder)

// WithAPIVersion makes Encode emit the object envelope used by pandoc 1.18
// and later ({"pandoc-api-version", "meta", "blocks"}) instead of the
// two-element array, with links and images in their three-element form.
func WithAPIVersion(version ...int) EncodeOption {
	return func(e *encoder) {
		e.apiVersion = make([]any, len(version))
		for i, v := range version {
			e.apiVersion[i] = v
		}
	}
}

// Encode converts doc into its interchange value. By default the result is
// the two-element envelope [{"unMeta": {}}, [blocks...]]. Node kinds outside
// the vocabulary are rejected with ErrUnsupported.
func Encode(doc *Document, opts ...EncodeOption) (any, error) {
	if doc == nil {
		doc = &Document{}
	}
	e := newEncoder()
	for _, opt := range opts {
		opt(e)
	}
	blocks, err := e.t.TransformChildren(doc)
	if err != nil {
		return nil, err
	}
	if e.apiVersion != nil {
		return map[string]any{
			keyAPIVersion: e.apiVersion,
			keyAPIMeta:    map[string]any{},
			keyAPIBlocks:  blocks,
		}, nil
	}
	return []any{map[string]any{keyMeta: map[string]any{}}, blocks}, nil
}

type encoder struct {
	t          *tree.Transformer[any]
	apiVersion []any
}

func newEncoder() *encoder {
	e := &encoder{t: tree.NewTransformer[any]()}
	e.t.HandleLeaf(func(x tree.Text) (any, error) {
		return object("Str", string(x)), nil
	})
	e.t.HandleNode(e.node)
	e.t.Handle(KindHeader, e.header)
	e.t.Handle(KindCodeBlock, e.codeBlock)
	e.t.Handle(KindBulletList, e.bulletList)
	e.t.Handle(KindOrderedList, e.orderedList)
	e.t.Handle(KindCode, e.code)
	e.t.Handle(KindLink, e.target)
	e.t.Handle(KindImage, e.target)
	e.t.Handle(KindLineBreak, func(n tree.Node) (tree.Step[any], error) {
		return tree.Done[any](object(KindLineBreak, []any{})), nil
	})
	return e
}

func object(t string, c any) map[string]any {
	return map[string]any{keyType: t, keyContents: c}
}

func emptyAttr(classes ...string) []any {
	cls := make([]any, len(classes))
	for i, c := range classes {
		cls[i] = c
	}
	return []any{"", cls, []any{}}
}

// node encodes the kinds whose contents are just their children.
func (e *encoder) node(n tree.Node) (tree.Step[any], error) {
	if _, ok := n.(Node); !ok || n.Kind() == KindRoot {
		return tree.Step[any]{}, fmt.Errorf("%w: cannot encode %q", ErrUnsupported, n.Kind())
	}
	inner, err := e.t.TransformChildren(n)
	if err != nil {
		return tree.Step[any]{}, err
	}
	return tree.Done[any](object(n.Kind(), inner)), nil
}

func (e *encoder) header(n tree.Node) (tree.Step[any], error) {
	inner, err := e.t.TransformChildren(n)
	if err != nil {
		return tree.Step[any]{}, err
	}
	h := n.(*Header)
	return tree.Done[any](object(KindHeader, []any{h.Level, emptyAttr(), inner})), nil
}

func (e *encoder) codeBlock(n tree.Node) (tree.Step[any], error) {
	text, err := plainText(n)
	if err != nil {
		return tree.Step[any]{}, err
	}
	var attr []any
	if lang := n.(*CodeBlock).Lang; lang != "" {
		attr = emptyAttr(lang)
	} else {
		attr = emptyAttr()
	}
	return tree.Done[any](object(KindCodeBlock, []any{attr, text})), nil
}

func (e *encoder) code(n tree.Node) (tree.Step[any], error) {
	text, err := plainText(n)
	if err != nil {
		return tree.Step[any]{}, err
	}
	return tree.Done[any](object(KindCode, []any{emptyAttr(), text})), nil
}

// items encodes list items as Pandoc's list of block lists.
func (e *encoder) items(n tree.Node) ([]any, error) {
	out := make([]any, 0, len(n.Children()))
	for _, c := range n.Children() {
		item, ok := c.(*ListItem)
		if !ok {
			return nil, fmt.Errorf("%w: %s item is a %s, not a ListItem", ErrBadShape, n.Kind(), c.Kind())
		}
		blocks, err := e.t.TransformChildren(item)
		if err != nil {
			return nil, err
		}
		out = append(out, blocks)
	}
	return out, nil
}

func (e *encoder) bulletList(n tree.Node) (tree.Step[any], error) {
	items, err := e.items(n)
	if err != nil {
		return tree.Step[any]{}, err
	}
	return tree.Done[any](object(KindBulletList, items)), nil
}

func (e *encoder) orderedList(n tree.Node) (tree.Step[any], error) {
	items, err := e.items(n)
	if err != nil {
		return tree.Step[any]{}, err
	}
	ol := n.(*OrderedList)
	style := ol.Style
	if style == "" {
		style = defaultStyle
	}
	delim, ok := delimNames[ol.Delimiter]
	if !ok {
		return tree.Step[any]{}, fmt.Errorf("%w: ordered list delimiter %q", ErrUnsupported, ol.Delimiter)
	}
	attrs := []any{ol.Start, object(style, []any{}), object(delim, []any{})}
	return tree.Done[any](object(KindOrderedList, []any{attrs, items})), nil
}

// target encodes links and images.
func (e *encoder) target(n tree.Node) (tree.Step[any], error) {
	inner, err := e.t.TransformChildren(n)
	if err != nil {
		return tree.Step[any]{}, err
	}
	var url string
	switch n := n.(type) {
	case *Link:
		url = n.URL
	case *Image:
		url = n.URL
	}
	contents := []any{inner, []any{url, ""}}
	if e.apiVersion != nil {
		contents = append([]any{emptyAttr()}, contents...)
	}
	return tree.Done[any](object(n.Kind(), contents)), nil
}

// plainText concatenates the text children of a code node.
func plainText(n tree.Node) (string, error) {
	var b strings.Builder
	for _, c := range n.Children() {
		t, ok := c.(tree.Text)
		if !ok {
			return "", fmt.Errorf("%w: %s may only contain text, found %s", ErrBadShape, n.Kind(), c.Kind())
		}
		b.WriteString(string(t))
	}
	return b.String(), nil
}

// Decode converts an interchange value back into a document. It accepts the
// two-element envelope produced by Encode and the object envelope written by
// current pandoc releases.
func Decode(v any) (*Document, error) {
	blocks, err := envelope(v)
	if err != nil {
		return nil, err
	}
	d := newDecoder()
	root, err := d.t.Transform(&value{t: KindRoot, c: blocks})
	if err != nil {
		return nil, err
	}
	return root.(*Document), nil
}

func envelope(v any) ([]any, error) {
	switch v := v.(type) {
	case []any:
		if len(v) != 2 {
			return nil, fmt.Errorf("%w: expected 2 elements, got %d", ErrEnvelope, len(v))
		}
		meta, ok := v[0].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: first element is not a metadata object", ErrEnvelope)
		}
		if _, ok := meta[keyMeta]; !ok {
			return nil, fmt.Errorf("%w: metadata object has no %q key", ErrEnvelope, keyMeta)
		}
		blocks, ok := v[1].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: second element is not a block list", ErrEnvelope)
		}
		return blocks, nil
	case map[string]any:
		raw, ok := v[keyAPIBlocks]
		if !ok {
			return nil, fmt.Errorf("%w: object has no %q key", ErrEnvelope, keyAPIBlocks)
		}
		blocks, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a list", ErrEnvelope, keyAPIBlocks)
		}
		return blocks, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %T", ErrEnvelope, v)
	}
}

// value wraps one tagged interchange object during decoding. The handler for
// its type builds node with its attributes; the fold attaches the children.
type value struct {
	t    string
	c    any
	node parent
}

func (v *value) Kind() string          { return v.t }
func (v *value) Children() []tree.Node { return nil }

type decoder struct {
	t *tree.Transformer[tree.Node]
}

func newDecoder() *decoder {
	d := &decoder{t: tree.NewTransformer[tree.Node]()}
	d.t.HandleNode(func(n tree.Node) (tree.Step[tree.Node], error) {
		return tree.Step[tree.Node]{}, fmt.Errorf("%w: cannot decode %q", ErrUnsupported, n.Kind())
	})
	for _, kind := range []string{KindRoot, KindPlain, KindPara, KindBlockQuote, KindListItem, KindEmph, KindStrong} {
		d.t.Handle(kind, d.generic)
	}
	d.t.Handle("Str", d.str)
	d.t.Handle("Space", func(tree.Node) (tree.Step[tree.Node], error) {
		return tree.Done[tree.Node](tree.Text(" ")), nil
	})
	d.t.Handle("SoftBreak", d.lineBreak)
	d.t.Handle(KindLineBreak, d.lineBreak)
	d.t.Handle(KindHeader, d.header)
	d.t.Handle(KindCodeBlock, d.codeBlock)
	d.t.Handle(KindCode, d.code)
	d.t.Handle(KindBulletList, d.bulletList)
	d.t.Handle(KindOrderedList, d.orderedList)
	d.t.Handle(KindLink, d.target)
	d.t.Handle(KindImage, d.target)
	d.t.SetFold(d.fold)
	return d
}

func (d *decoder) fold(children []tree.Node, n tree.Node) (tree.Node, error) {
	v := n.(*value)
	v.node.setChildren(MergeText(children))
	if err := Check(v.node); err != nil {
		return nil, err
	}
	return v.node, nil
}

func newNode(kind string) parent {
	switch kind {
	case KindRoot:
		return &Document{}
	case KindPlain:
		return &Plain{}
	case KindPara:
		return &Para{}
	case KindBlockQuote:
		return &BlockQuote{}
	case KindListItem:
		return &ListItem{}
	case KindEmph:
		return &Emph{}
	case KindStrong:
		return &Strong{}
	}
	return nil
}

// wrap turns raw contents into nodes: strings become text leaves, tagged
// objects become values still to decode.
func wrap(items []any) ([]tree.Node, error) {
	nodes := make([]tree.Node, 0, len(items))
	for _, it := range items {
		switch it := it.(type) {
		case string:
			if it != "" {
				nodes = append(nodes, tree.Text(it))
			}
		case map[string]any:
			t, ok := it[keyType].(string)
			if !ok || t == KindRoot {
				return nil, fmt.Errorf("%w: object without a valid %q key", ErrBadShape, keyType)
			}
			nodes = append(nodes, &value{t: t, c: it[keyContents]})
		default:
			return nil, fmt.Errorf("%w: unexpected %T in contents", ErrBadShape, it)
		}
	}
	return nodes, nil
}

func (d *decoder) generic(n tree.Node) (tree.Step[tree.Node], error) {
	v := n.(*value)
	items, err := list(v.t, v.c)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	v.node = newNode(v.t)
	return descend(items)
}

func descend(items []any) (tree.Step[tree.Node], error) {
	children, err := wrap(items)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	return tree.Descend[tree.Node](children...), nil
}

func (d *decoder) str(n tree.Node) (tree.Step[tree.Node], error) {
	v := n.(*value)
	s, ok := v.c.(string)
	if !ok {
		return tree.Step[tree.Node]{}, fmt.Errorf("%w: Str contents must be a string", ErrBadShape)
	}
	return tree.Done[tree.Node](tree.Text(s)), nil
}

func (d *decoder) lineBreak(tree.Node) (tree.Step[tree.Node], error) {
	return tree.Done[tree.Node](&LineBreak{}), nil
}

func (d *decoder) header(n tree.Node) (tree.Step[tree.Node], error) {
	v := n.(*value)
	c, err := tuple(v.t, v.c, 3)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	level, err := toInt(c[0])
	if err != nil {
		return tree.Step[tree.Node]{}, fmt.Errorf("header level: %w", err)
	}
	items, err := list(v.t, c[2])
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	v.node = &Header{Level: level}
	return descend(items)
}

func (d *decoder) codeBlock(n tree.Node) (tree.Step[tree.Node], error) {
	v := n.(*value)
	c, err := tuple(v.t, v.c, 2)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	lang, err := firstClass(c[0])
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	v.node = &CodeBlock{Lang: lang}
	return descend(literal(c[1]))
}

func (d *decoder) code(n tree.Node) (tree.Step[tree.Node], error) {
	v := n.(*value)
	c, err := tuple(v.t, v.c, 2)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	v.node = &Code{}
	return descend(literal(c[1]))
}

// literal returns the contents of a code node: Pandoc stores a string, older
// podoc files a list of Str objects.
func literal(raw any) []any {
	if items, ok := raw.([]any); ok {
		return items
	}
	return []any{raw}
}

// listItems turns Pandoc's list of block lists into ListItem values.
func listItems(kind string, raw any) ([]tree.Node, error) {
	items, err := list(kind, raw)
	if err != nil {
		return nil, err
	}
	nodes := make([]tree.Node, 0, len(items))
	for _, it := range items {
		switch it := it.(type) {
		case []any:
			nodes = append(nodes, &value{t: KindListItem, c: it})
		case map[string]any:
			// Older podoc files carry explicit ListItem objects.
			if it[keyType] != KindListItem {
				return nil, fmt.Errorf("%w: %s item of type %v", ErrBadShape, kind, it[keyType])
			}
			nodes = append(nodes, &value{t: KindListItem, c: it[keyContents]})
		default:
			return nil, fmt.Errorf("%w: %s item is a %T", ErrBadShape, kind, it)
		}
	}
	return nodes, nil
}

func (d *decoder) bulletList(n tree.Node) (tree.Step[tree.Node], error) {
	v := n.(*value)
	items, err := listItems(v.t, v.c)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	v.node = &BulletList{}
	return tree.Descend[tree.Node](items...), nil
}

func (d *decoder) orderedList(n tree.Node) (tree.Step[tree.Node], error) {
	v := n.(*value)
	c, err := tuple(v.t, v.c, 2)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	attrs, err := tuple(v.t, c[0], 3)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	start, err := toInt(attrs[0])
	if err != nil {
		return tree.Step[tree.Node]{}, fmt.Errorf("list start: %w", err)
	}
	style, err := tagOf(attrs[1])
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	if style == defaultStyle {
		style = ""
	}
	delimName, err := tagOf(attrs[2])
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	delim, ok := delimiterFor(delimName)
	if !ok {
		return tree.Step[tree.Node]{}, fmt.Errorf("%w: list delimiter %q", ErrUnsupported, delimName)
	}
	items, err := listItems(v.t, c[1])
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	v.node = &OrderedList{Start: start, Style: style, Delimiter: delim}
	return tree.Descend[tree.Node](items...), nil
}

func delimiterFor(name string) (string, bool) {
	for delim, n := range delimNames {
		if n == name {
			return delim, true
		}
	}
	return "", false
}

// target decodes links and images in both the two-element form
// [inlines, [url, title]] and the attributed form [attr, inlines, [url, title]].
func (d *decoder) target(n tree.Node) (tree.Step[tree.Node], error) {
	v := n.(*value)
	c, err := list(v.t, v.c)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	if len(c) == 3 {
		c = c[1:]
	}
	if len(c) != 2 {
		return tree.Step[tree.Node]{}, fmt.Errorf("%w: %s needs 2 or 3 elements, got %d", ErrBadShape, v.t, len(c))
	}
	items, err := list(v.t, c[0])
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	dest, err := tuple(v.t, c[1], 2)
	if err != nil {
		return tree.Step[tree.Node]{}, err
	}
	url, ok := dest[0].(string)
	if !ok {
		return tree.Step[tree.Node]{}, fmt.Errorf("%w: %s url is a %T", ErrBadShape, v.t, dest[0])
	}
	if v.t == KindImage {
		v.node = &Image{URL: url}
	} else {
		v.node = &Link{URL: url}
	}
	return descend(items)
}

func list(kind string, raw any) ([]any, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s contents must be a list, got %T", ErrBadShape, kind, raw)
	}
	return items, nil
}

func tuple(kind string, raw any, n int) ([]any, error) {
	items, err := list(kind, raw)
	if err != nil {
		return nil, err
	}
	if len(items) != n {
		return nil, fmt.Errorf("%w: %s needs %d elements, got %d", ErrBadShape, kind, n, len(items))
	}
	return items, nil
}

// firstClass returns the first class of a Pandoc attribute triple
// [identifier, classes, key-values], or "" when there is none.
func firstClass(raw any) (string, error) {
	attr, err := tuple("attributes", raw, 3)
	if err != nil {
		return "", err
	}
	classes, err := list("classes", attr[1])
	if err != nil {
		return "", err
	}
	if len(classes) == 0 {
		return "", nil
	}
	lang, ok := classes[0].(string)
	if !ok {
		return "", fmt.Errorf("%w: class is a %T", ErrBadShape, classes[0])
	}
	return lang, nil
}

func tagOf(raw any) (string, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: expected a tagged object, got %T", ErrBadShape, raw)
	}
	t, ok := obj[keyType].(string)
	if !ok {
		return "", fmt.Errorf("%w: tagged object without %q", ErrBadShape, keyType)
	}
	return t, nil
}

func toInt(raw any) (int, error) {
	switch n := raw.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrBadShape, n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadShape, err)
		}
		return int(i), nil
	}
	return 0, fmt.Errorf("%w: expected a number, got %T", ErrBadShape, raw)
}

// MarshalJSON encodes doc as indented interchange JSON with a trailing
// newline, the on-disk form of the "ast" language.
func MarshalJSON(doc *Document, opts ...EncodeOption) ([]byte, error) {
	v, err := Encode(doc, opts...)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling interchange JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// UnmarshalJSON decodes interchange JSON into a document.
func UnmarshalJSON(data []byte) (*Document, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parsing interchange JSON: %w", err)
	}
	return Decode(v)
}
