// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Run passes v through every conversion of ctx's chain: for each pair the
// pre-filter, the function and the post-filter, in that order.
func (r *Registry) Run(ctx *Context, v any) (any, error) {
	for i := 0; i+1 < len(ctx.chain); i++ {
		p := Pair{Source: ctx.chain[i], Target: ctx.chain[i+1]}
		c, ok := r.convs[p]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoConversion, p)
		}
		var err error
		for _, f := range []Func{c.PreFilter, c.Func, c.PostFilter} {
			if f == nil {
				continue
			}
			if v, err = f(ctx, v); err != nil {
				return nil, fmt.Errorf("converting %s: %w", p, err)
			}
		}
	}
	return v, nil
}

// ConvertText converts an in-memory value of the source language. When
// opts.Output is set the result is also written there.
func (r *Registry) ConvertText(v any, opts Options) (any, error) {
	ctx, err := r.NewContext("", opts)
	if err != nil {
		return nil, err
	}
	return r.execute(ctx, v, false, false)
}

// ConvertFile loads path, converts it and writes the result to the output
// path when there is one.
func (r *Registry) ConvertFile(path string, opts Options) (any, error) {
	ctx, err := r.NewContext(path, opts)
	if err != nil {
		return nil, err
	}
	return r.execute(ctx, ctx.path, true, false)
}

// ConvertFiles converts each file with the same options. With a single
// opts.Output every file after the first is appended to it.
func (r *Registry) ConvertFiles(paths []string, opts Options) ([]any, error) {
	out := make([]any, 0, len(paths))
	for i, path := range paths {
		ctx, err := r.NewContext(path, opts)
		if err != nil {
			return out, err
		}
		v, err := r.execute(ctx, ctx.path, true, i > 0)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// execute loads the input when it is a path, runs the chain and dumps the
// result unless a conversion already wrote it.
func (r *Registry) execute(ctx *Context, input any, isPath, appendMode bool) (any, error) {
	v := input
	if isPath {
		loaded, err := r.Load(ctx, ctx.path, ctx.source)
		if err != nil {
			r.log.ConversionError(ctx.path, ctx.chain, err)
			return nil, err
		}
		v = loaded
	}

	v, err := r.Run(ctx, v)
	if err != nil {
		r.log.ConversionError(ctx.path, ctx.chain, err)
		return nil, err
	}

	if ctx.output != "" && !ctx.outputWritten {
		if err := os.MkdirAll(filepath.Dir(ctx.output), 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		if err := r.Dump(ctx, v, ctx.output, ctx.target, appendMode); err != nil {
			r.log.ConversionError(ctx.path, ctx.chain, err)
			return nil, err
		}
	}
	if ctx.path != "" {
		r.log.FileConverted(ctx.path, ctx.output, ctx.chain)
	}
	return v, nil
}

// Load reads path with the Load function of lang, or of the language owning
// the file's extension when lang is empty.
func (r *Registry) Load(ctx *Context, path, lang string) (any, error) {
	l, err := r.languageFor(path, lang)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, path)
}

// Dump writes v to path with the Dump function of lang, or of the language
// owning the file's extension when lang is empty.
func (r *Registry) Dump(ctx *Context, v any, path, lang string, appendMode bool) error {
	l, err := r.languageFor(path, lang)
	if err != nil {
		return err
	}
	return l.Dump(ctx, v, path, appendMode)
}

// Loads parses s as lang.
func (r *Registry) Loads(s, lang string) (any, error) {
	l, err := r.Language(lang)
	if err != nil {
		return nil, err
	}
	return l.Loads(s)
}

// Dumps serializes v as lang.
func (r *Registry) Dumps(v any, lang string) (string, error) {
	l, err := r.Language(lang)
	if err != nil {
		return "", err
	}
	return l.Dumps(v)
}

func (r *Registry) languageFor(path, lang string) (Language, error) {
	if lang == "" {
		var err error
		if lang, err = r.LanguageForExt(filepath.Ext(path)); err != nil {
			return Language{}, err
		}
	}
	return r.Language(lang)
}

// Equal compares two values of lang after its EqualFilter. A mismatch is
// reported as ErrNotEqual with a line diff of the serialized values.
func (r *Registry) Equal(a, b any, lang string) error {
	l, err := r.Language(lang)
	if err != nil {
		return err
	}
	if l.EqualFilter != nil {
		if a, err = l.EqualFilter(a); err != nil {
			return fmt.Errorf("filtering first value: %w", err)
		}
		if b, err = l.EqualFilter(b); err != nil {
			return fmt.Errorf("filtering second value: %w", err)
		}
	}
	if reflect.DeepEqual(a, b) {
		return nil
	}
	return fmt.Errorf("%w:\n%s", ErrNotEqual, lineDiff(r.display(a, l), r.display(b, l)))
}

func (r *Registry) display(v any, l Language) string {
	if s, err := l.Dumps(v); err == nil {
		return s
	}
	return fmt.Sprintf("%#v\n", v)
}

// lineDiff renders a line-level diff of a and b with "-", "+" and " "
// prefixes.
func lineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(strings.TrimSuffix(line, "\n"))
			out.WriteByte('\n')
		}
	}
	return out.String()
}
