// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ast

import "github.com/pdiddy/podoc/internal/tree"

// Node is implemented only by the types of this package, which keeps the
// vocabulary closed.
type Node interface {
	tree.Node
	astNode()
}

// parent is implemented by every node that owns children.
type parent interface {
	Node
	setChildren(items []tree.Node)
}

// Document is the root of an AST. Its children are the top-level blocks.
type Document struct {
	Blocks []tree.Node
}

// Plain is a block of inlines without paragraph semantics (tight list items).
type Plain struct {
	Items []tree.Node
}

// Para is a paragraph.
type Para struct {
	Items []tree.Node
}

// Header is a section heading of the given level (1-6).
type Header struct {
	Level int
	Items []tree.Node
}

// CodeBlock is a literal block; its only child is the code text.
type CodeBlock struct {
	Lang  string
	Items []tree.Node
}

// BlockQuote is a quoted sequence of blocks.
type BlockQuote struct {
	Items []tree.Node
}

// BulletList is an unordered list of ListItems. BulletChar is a rendering
// hint ("-", "*" or "+"); the interchange format has no slot for it.
type BulletList struct {
	BulletChar string
	Items      []tree.Node
}

// OrderedList is a numbered list of ListItems. Style is a Pandoc list number
// style such as "Decimal" (empty for the default), Delimiter is "." or ")"
// (empty for the default).
type OrderedList struct {
	Start     int
	Style     string
	Delimiter string
	Items     []tree.Node
}

// ListItem holds the blocks of one list entry.
type ListItem struct {
	Items []tree.Node
}

// Emph is emphasized text.
type Emph struct {
	Items []tree.Node
}

// Strong is strongly emphasized text.
type Strong struct {
	Items []tree.Node
}

// Code is an inline code span; its only child is the code text.
type Code struct {
	Items []tree.Node
}

// Link is a hyperlink to URL.
type Link struct {
	URL   string
	Items []tree.Node
}

// Image is an image at URL; its children are the alt text.
type Image struct {
	URL   string
	Items []tree.Node
}

// LineBreak is a line break inside inline content.
type LineBreak struct{}

func (*Document) Kind() string    { return KindRoot }
func (*Plain) Kind() string       { return KindPlain }
func (*Para) Kind() string        { return KindPara }
func (*Header) Kind() string      { return KindHeader }
func (*CodeBlock) Kind() string   { return KindCodeBlock }
func (*BlockQuote) Kind() string  { return KindBlockQuote }
func (*BulletList) Kind() string  { return KindBulletList }
func (*OrderedList) Kind() string { return KindOrderedList }
func (*ListItem) Kind() string    { return KindListItem }
func (*Emph) Kind() string        { return KindEmph }
func (*Strong) Kind() string      { return KindStrong }
func (*Code) Kind() string        { return KindCode }
func (*Link) Kind() string        { return KindLink }
func (*Image) Kind() string       { return KindImage }
func (*LineBreak) Kind() string   { return KindLineBreak }

func (n *Document) Children() []tree.Node    { return n.Blocks }
func (n *Plain) Children() []tree.Node       { return n.Items }
func (n *Para) Children() []tree.Node        { return n.Items }
func (n *Header) Children() []tree.Node      { return n.Items }
func (n *CodeBlock) Children() []tree.Node   { return n.Items }
func (n *BlockQuote) Children() []tree.Node  { return n.Items }
func (n *BulletList) Children() []tree.Node  { return n.Items }
func (n *OrderedList) Children() []tree.Node { return n.Items }
func (n *ListItem) Children() []tree.Node    { return n.Items }
func (n *Emph) Children() []tree.Node        { return n.Items }
func (n *Strong) Children() []tree.Node      { return n.Items }
func (n *Code) Children() []tree.Node        { return n.Items }
func (n *Link) Children() []tree.Node        { return n.Items }
func (n *Image) Children() []tree.Node       { return n.Items }
func (*LineBreak) Children() []tree.Node     { return nil }

func (n *Document) setChildren(c []tree.Node)    { n.Blocks = c }
func (n *Plain) setChildren(c []tree.Node)       { n.Items = c }
func (n *Para) setChildren(c []tree.Node)        { n.Items = c }
func (n *Header) setChildren(c []tree.Node)      { n.Items = c }
func (n *CodeBlock) setChildren(c []tree.Node)   { n.Items = c }
func (n *BlockQuote) setChildren(c []tree.Node)  { n.Items = c }
func (n *BulletList) setChildren(c []tree.Node)  { n.Items = c }
func (n *OrderedList) setChildren(c []tree.Node) { n.Items = c }
func (n *ListItem) setChildren(c []tree.Node)    { n.Items = c }
func (n *Emph) setChildren(c []tree.Node)        { n.Items = c }
func (n *Strong) setChildren(c []tree.Node)      { n.Items = c }
func (n *Code) setChildren(c []tree.Node)        { n.Items = c }
func (n *Link) setChildren(c []tree.Node)        { n.Items = c }
func (n *Image) setChildren(c []tree.Node)       { n.Items = c }

func (*Document) astNode()    {}
func (*Plain) astNode()       {}
func (*Para) astNode()        {}
func (*Header) astNode()      {}
func (*CodeBlock) astNode()   {}
func (*BlockQuote) astNode()  {}
func (*BulletList) astNode()  {}
func (*OrderedList) astNode() {}
func (*ListItem) astNode()    {}
func (*Emph) astNode()        {}
func (*Strong) astNode()      {}
func (*Code) astNode()        {}
func (*Link) astNode()        {}
func (*Image) astNode()       {}
func (*LineBreak) astNode()   {}

// NewDocument returns a document holding the given blocks.
func NewDocument(blocks ...tree.Node) *Document {
	return &Document{Blocks: blocks}
}

// NewEmph builds an Emph node, rejecting block children.
func NewEmph(items ...tree.Node) (*Emph, error) {
	return checked(&Emph{Items: items})
}

// NewStrong builds a Strong node, rejecting block children.
func NewStrong(items ...tree.Node) (*Strong, error) {
	return checked(&Strong{Items: items})
}

// NewLink builds a Link node, rejecting block children.
func NewLink(url string, items ...tree.Node) (*Link, error) {
	return checked(&Link{URL: url, Items: items})
}

// NewImage builds an Image node, rejecting block children.
func NewImage(url string, items ...tree.Node) (*Image, error) {
	return checked(&Image{URL: url, Items: items})
}

func checked[N Node](n N) (N, error) {
	if err := Check(n); err != nil {
		var zero N
		return zero, err
	}
	return n, nil
}

// NewCode builds an inline code span.
func NewCode(text string) *Code {
	return &Code{Items: []tree.Node{tree.Text(text)}}
}

// NewCodeBlock builds a code block.
func NewCodeBlock(lang, text string) *CodeBlock {
	return &CodeBlock{Lang: lang, Items: []tree.Node{tree.Text(text)}}
}

// shallowCopy returns a copy of n with the same attributes and no children.
func shallowCopy(n Node) parent {
	switch n := n.(type) {
	case *Document:
		return &Document{}
	case *Plain:
		return &Plain{}
	case *Para:
		return &Para{}
	case *Header:
		return &Header{Level: n.Level}
	case *CodeBlock:
		return &CodeBlock{Lang: n.Lang}
	case *BlockQuote:
		return &BlockQuote{}
	case *BulletList:
		return &BulletList{BulletChar: n.BulletChar}
	case *OrderedList:
		return &OrderedList{Start: n.Start, Style: n.Style, Delimiter: n.Delimiter}
	case *ListItem:
		return &ListItem{}
	case *Emph:
		return &Emph{}
	case *Strong:
		return &Strong{}
	case *Code:
		return &Code{}
	case *Link:
		return &Link{URL: n.URL}
	case *Image:
		return &Image{URL: n.URL}
	}
	return nil
}
