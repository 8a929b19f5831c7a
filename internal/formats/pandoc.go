// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/podoc/internal/ast"
	"github.com/pdiddy/podoc/internal/convert"
	"github.com/pdiddy/podoc/pkg/types"
)

// ErrBinaryFormat is returned when a binary pandoc format is used without a
// file on the other side, e.g. converted to text in memory.
var ErrBinaryFormat = errors.New("binary format needs a file")

// Converter is the part of pandoc.Runner the bridge uses.
type Converter interface {
	ToJSON(from string, input []byte) ([]byte, error)
	FileToJSON(from, path string) ([]byte, error)
	FromJSON(to string, input []byte) ([]byte, error)
	FromJSONToFile(to string, input []byte, output string) error
}

// File is the value of a binary pandoc language: the path of a document
// pandoc reads or wrote itself.
type File struct {
	Path string
}

// Pandoc registers every format with an edge to and from the AST, piping
// interchange JSON through pc. Formats whose name is already registered are
// skipped so that native languages win.
func Pandoc(pc Converter, formats []types.PandocFormat) convert.Plugin {
	return pluginFunc{name: "pandoc", attach: func(b *convert.Builder) error {
		if err := requireAST(b); err != nil {
			return err
		}
		for _, f := range formats {
			if b.HasLanguage(f.Name) {
				b.Logger().PluginSkipped("pandoc "+f.Name, "language already registered")
				continue
			}
			if err := attachFormat(b, pc, f); err != nil {
				return err
			}
		}
		return nil
	}}
}

func attachFormat(b *convert.Builder, pc Converter, f types.PandocFormat) error {
	lang := convert.Language{Name: f.Name, Ext: f.Ext}
	if f.Binary {
		lang.Load = func(_ *convert.Context, path string) (any, error) {
			return File{Path: path}, nil
		}
		lang.Dump = func(_ *convert.Context, v any, path string, _ bool) error {
			if file, ok := v.(File); ok && file.Path == path {
				return nil
			}
			return fmt.Errorf("%w: %s can only be written by pandoc", ErrBinaryFormat, f.Name)
		}
		lang.Loads = func(string) (any, error) {
			return nil, fmt.Errorf("%w: cannot parse %s from text", ErrBinaryFormat, f.Name)
		}
		lang.Dumps = func(any) (string, error) {
			return "", fmt.Errorf("%w: cannot serialize %s as text", ErrBinaryFormat, f.Name)
		}
	}
	if err := b.RegisterLanguage(lang); err != nil {
		return err
	}
	if err := b.RegisterConversion(f.Name, LangAST, fromPandoc(pc, f)); err != nil {
		return err
	}
	return b.RegisterConversion(LangAST, f.Name, toPandoc(pc, f))
}

func fromPandoc(pc Converter, f types.PandocFormat) convert.Func {
	return func(_ *convert.Context, v any) (any, error) {
		var (
			data []byte
			err  error
		)
		switch v := v.(type) {
		case File:
			data, err = pc.FileToJSON(f.Name, v.Path)
		case string:
			data, err = pc.ToJSON(f.Name, []byte(v))
		default:
			return nil, fmt.Errorf("%w: want string or formats.File, got %T", ErrUnexpectedValue, v)
		}
		if err != nil {
			return nil, err
		}
		return ast.UnmarshalJSON(data)
	}
}

// toPandoc writes binary formats straight to the context's output and marks
// it written; text formats come back as a string.
func toPandoc(pc Converter, f types.PandocFormat) convert.Func {
	return func(ctx *convert.Context, v any) (any, error) {
		doc, err := document(v)
		if err != nil {
			return nil, err
		}
		data, err := ast.MarshalJSON(doc)
		if err != nil {
			return nil, err
		}
		if !f.Binary {
			out, err := pc.FromJSON(f.Name, data)
			if err != nil {
				return nil, err
			}
			return string(out), nil
		}
		if ctx == nil || ctx.Output() == "" {
			return nil, fmt.Errorf("%w: %s needs an output path", ErrBinaryFormat, f.Name)
		}
		if err := os.MkdirAll(filepath.Dir(ctx.Output()), 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		if err := pc.FromJSONToFile(f.Name, data, ctx.Output()); err != nil {
			return nil, err
		}
		ctx.MarkOutputWritten()
		return File{Path: ctx.Output()}, nil
	}
}
