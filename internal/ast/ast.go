// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ast defines the document AST: a fixed vocabulary of block and
// inline node kinds, each carrying only the attributes valid for it, plus the
// mapping to and from the Pandoc JSON interchange format.
package ast

import (
	"errors"

	"github.com/pdiddy/podoc/internal/tree"
)

// Node kinds. The names follow Pandoc's constructors so that encoding to the
// interchange format is a direct mapping.
const (
	KindRoot        = tree.Root
	KindPlain       = "Plain"
	KindPara        = "Para"
	KindHeader      = "Header"
	KindCodeBlock   = "CodeBlock"
	KindBlockQuote  = "BlockQuote"
	KindBulletList  = "BulletList"
	KindOrderedList = "OrderedList"
	KindListItem    = "ListItem"
	KindEmph        = "Emph"
	KindStrong      = "Strong"
	KindCode        = "Code"
	KindLink        = "Link"
	KindImage       = "Image"
	KindLineBreak   = "LineBreak"
)

var blockKinds = map[string]bool{
	KindPlain:       true,
	KindPara:        true,
	KindHeader:      true,
	KindCodeBlock:   true,
	KindBlockQuote:  true,
	KindBulletList:  true,
	KindOrderedList: true,
}

var inlineKinds = map[string]bool{
	KindEmph:   true,
	KindStrong: true,
	KindCode:   true,
	KindLink:   true,
	KindImage:  true,
}

// IsBlock reports whether kind is a block kind.
func IsBlock(kind string) bool { return blockKinds[kind] }

// IsInline reports whether kind is an inline kind. ListItem and LineBreak are
// neither block nor inline.
func IsInline(kind string) bool { return inlineKinds[kind] }

var (
	// ErrUnsupported is returned for node kinds outside the vocabulary.
	ErrUnsupported = errors.New("unsupported node kind")

	// ErrNesting is returned when an inline node contains a block.
	ErrNesting = errors.New("block inside inline node")

	// ErrEnvelope is returned for interchange documents without the
	// [metadata, blocks] envelope.
	ErrEnvelope = errors.New("invalid interchange envelope")

	// ErrBadShape is returned when a tagged object's contents do not have
	// the shape its type requires.
	ErrBadShape = errors.New("invalid contents shape")
)
