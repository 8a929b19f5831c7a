// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package formats provides the plugins that attach podoc's languages to a
// convert.Builder: the interchange AST (.json), its YAML rendition (.yaml),
// markdown (.md), and the formats handled by the external pandoc binary.
package formats

import (
	"errors"
	"fmt"

	"github.com/pdiddy/podoc/internal/ast"
	"github.com/pdiddy/podoc/internal/convert"
	"github.com/pdiddy/podoc/internal/logger"
	"github.com/pdiddy/podoc/internal/pandoc"
	"github.com/pdiddy/podoc/pkg/types"
)

// Language names registered by this package.
const (
	LangAST      = convert.AliasTarget
	LangYAML     = "yaml"
	LangMarkdown = "markdown"
)

var (
	// ErrUnexpectedValue is returned when a conversion receives a value of
	// the wrong Go type for its source language.
	ErrUnexpectedValue = errors.New("unexpected value type")

	// ErrASTMissing is returned when a plugin that converts through the AST
	// is attached before the AST language.
	ErrASTMissing = errors.New("ast language not registered")
)

// pluginFunc adapts a function to convert.Plugin.
type pluginFunc struct {
	name   string
	attach func(b *convert.Builder) error
}

func (p pluginFunc) Name() string                    { return p.name }
func (p pluginFunc) Attach(b *convert.Builder) error { return p.attach(b) }

// Plugins returns the plugins enabled by cfg, AST first. The pandoc bridge
// is included only when it is enabled and its binary answers; otherwise the
// skip is logged.
func Plugins(cfg types.Config, log *logger.Logger) []convert.Plugin {
	if log == nil {
		log = logger.Discard()
	}
	plugins := []convert.Plugin{AST(), YAML(), Markdown()}
	if !cfg.Pandoc.Enabled {
		log.PluginSkipped("pandoc", "disabled in configuration")
		return plugins
	}
	runner, err := pandoc.Detect(cfg.Pandoc.Binary)
	if err != nil {
		log.PluginSkipped("pandoc", err.Error())
		return plugins
	}
	formats := cfg.Pandoc.Formats
	if len(formats) == 0 {
		formats = types.DefaultPandocFormats()
	}
	return append(plugins, Pandoc(runner, formats))
}

// document asserts that v is an AST document.
func document(v any) (*ast.Document, error) {
	doc, ok := v.(*ast.Document)
	if !ok || doc == nil {
		return nil, fmt.Errorf("%w: want *ast.Document, got %T", ErrUnexpectedValue, v)
	}
	return doc, nil
}

// text asserts that v is a string.
func text(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: want string, got %T", ErrUnexpectedValue, v)
	}
	return s, nil
}

func requireAST(b *convert.Builder) error {
	if !b.HasLanguage(LangAST) {
		return ErrASTMissing
	}
	return nil
}
