// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert routes documents between registered languages. Languages
// and conversion functions are collected by a Builder (usually through
// plugins) into an immutable Registry, which finds the shortest chain of
// conversions from a source language to a target language and runs it.
package convert

import (
	"errors"
	"fmt"
	"os"
)

// AliasJSON is accepted wherever a language name is expected and stands for
// AliasTarget, matching pandoc's name for its interchange format.
const (
	AliasJSON   = "json"
	AliasTarget = "ast"
)

var (
	// ErrUnknownLanguage is returned for a language name nobody registered.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrUnknownExt is returned for a file extension no language claims.
	ErrUnknownExt = errors.New("unknown file extension")

	// ErrNoConversion is returned when a chain contains a pair with no
	// registered conversion.
	ErrNoConversion = errors.New("no conversion registered")

	// ErrBadChain is returned for an explicit chain shorter than two
	// languages.
	ErrBadChain = errors.New("language chain needs at least two languages")

	// ErrDuplicateExt is returned when two languages claim one extension.
	ErrDuplicateExt = errors.New("file extension already registered")

	// ErrInvalidExt is returned for an extension without a leading dot.
	ErrInvalidExt = errors.New("file extension must start with a dot")

	// ErrInvalidLanguage is returned for a language without a name.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrInvalidConversion is returned for a conversion without endpoints
	// or function.
	ErrInvalidConversion = errors.New("invalid conversion")

	// ErrNoTarget is returned when the target can be neither read from the
	// options nor inferred from the output path.
	ErrNoTarget = errors.New("no target language")

	// ErrNoSource is returned when the source can be neither read from the
	// options nor inferred from the input path.
	ErrNoSource = errors.New("no source language")

	// ErrInputMissing is returned when the input file does not exist.
	ErrInputMissing = errors.New("input file does not exist")

	// ErrNoRoute is wrapped by RouteError.
	ErrNoRoute = errors.New("no conversion route")

	// ErrNotText is returned by the default text codecs for non-string
	// values.
	ErrNotText = errors.New("value is not text")

	// ErrNotEqual is returned by Registry.Equal.
	ErrNotEqual = errors.New("documents differ")
)

// RouteError reports that no chain of conversions leads from Source to
// Target.
type RouteError struct {
	Source string
	Target string
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("no conversion route from %q to %q", e.Source, e.Target)
}

func (e *RouteError) Unwrap() error { return ErrNoRoute }

// Func converts a value of one language into a value of another. Every
// conversion, pre-filter and post-filter has this signature; functions that
// do not need the context ignore it.
type Func func(ctx *Context, v any) (any, error)

// Pair is a directed conversion edge.
type Pair struct {
	Source string
	Target string
}

func (p Pair) String() string { return p.Source + " -> " + p.Target }

// Conversion is the function registered for a Pair plus its optional
// filters.
type Conversion struct {
	Func       Func
	PreFilter  Func
	PostFilter Func
}

// ConversionOption configures a Conversion at registration.
type ConversionOption func(*Conversion)

// WithPreFilter runs f on the value before the conversion function.
func WithPreFilter(f Func) ConversionOption {
	return func(c *Conversion) { c.PreFilter = f }
}

// WithPostFilter runs f on the value after the conversion function.
func WithPostFilter(f Func) ConversionOption {
	return func(c *Conversion) { c.PostFilter = f }
}

// Language describes a registered language. Only Name is required; the
// registry fills in text defaults for the codecs left nil.
type Language struct {
	// Name identifies the language, e.g. "markdown".
	Name string

	// Ext is the file extension including the leading dot. Empty means
	// the language has no file form.
	Ext string

	// Load reads a file into a value. Defaults to reading text and
	// applying Loads.
	Load func(ctx *Context, path string) (any, error)

	// Dump writes a value to a file, appending when appendMode is set.
	// Defaults to applying Dumps and writing text.
	Dump func(ctx *Context, v any, path string, appendMode bool) error

	// Loads parses a string into a value. Defaults to the identity.
	Loads func(s string) (any, error)

	// Dumps serializes a value to a string. Defaults to the identity on
	// strings.
	Dumps func(v any) (string, error)

	// EqualFilter maps a value to the form compared by Registry.Equal.
	EqualFilter func(v any) (any, error)
}

// withDefaults returns a copy of l with nil codecs replaced by text
// defaults.
func (l Language) withDefaults() Language {
	if l.Loads == nil {
		l.Loads = loadsText
	}
	if l.Dumps == nil {
		l.Dumps = dumpsText
	}
	if l.Load == nil {
		loads := l.Loads
		l.Load = func(_ *Context, path string) (any, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			return loads(string(data))
		}
	}
	if l.Dump == nil {
		dumps := l.Dumps
		l.Dump = func(_ *Context, v any, path string, appendMode bool) error {
			s, err := dumps(v)
			if err != nil {
				return err
			}
			return writeText(path, s, appendMode)
		}
	}
	return l
}

func loadsText(s string) (any, error) { return s, nil }

func dumpsText(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: got %T", ErrNotText, v)
	}
	return s, nil
}

// writeText creates or truncates path, or appends to it in append mode.
func writeText(path, s string, appendMode bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.WriteString(s); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// canonical resolves the json alias.
func canonical(lang string) string {
	if lang == AliasJSON {
		return AliasTarget
	}
	return lang
}
