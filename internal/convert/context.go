// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Options are the caller's choices for one conversion. Every field is
// optional; NewContext infers what it can and reports what it cannot.
type Options struct {
	Source    string
	Target    string
	Chain     []string
	Output    string
	OutputDir string
}

// Context describes one conversion run. It is fully resolved by NewContext
// and read-only afterwards, except for the output-written flag that a
// conversion sets when it writes Output itself.
type Context struct {
	path      string
	source    string
	target    string
	chain     []string
	output    string
	outputDir string
	runID     string

	outputWritten bool
}

// Path returns the absolute input path, or "" for in-memory input.
func (c *Context) Path() string { return c.path }

// Source returns the source language.
func (c *Context) Source() string { return c.source }

// Target returns the target language.
func (c *Context) Target() string { return c.target }

// Chain returns a copy of the resolved language chain.
func (c *Context) Chain() []string { return append([]string(nil), c.chain...) }

// Output returns the absolute output path, or "" when nothing is written.
func (c *Context) Output() string { return c.output }

// OutputDir returns the absolute output directory, if one was given.
func (c *Context) OutputDir() string { return c.outputDir }

// RunID identifies the run in logs and the journal.
func (c *Context) RunID() string { return c.runID }

// MarkOutputWritten records that a conversion already wrote Output, so the
// target language's Dump is skipped.
func (c *Context) MarkOutputWritten() { c.outputWritten = true }

// OutputWritten reports whether MarkOutputWritten was called.
func (c *Context) OutputWritten() bool { return c.outputWritten }

// NewContext resolves opts for the input at path ("" for in-memory input):
// the source and target (from the chain, the options, or the file
// extensions), the chain (by FindPath unless given), and the output path
// (from OutputDir and the target's extension). The output directory is
// created when needed.
func (r *Registry) NewContext(path string, opts Options) (*Context, error) {
	c := &Context{
		source: canonical(opts.Source),
		target: canonical(opts.Target),
		runID:  uuid.NewString(),
	}

	if opts.Chain != nil {
		if len(opts.Chain) < 2 {
			return nil, fmt.Errorf("%w: got %v", ErrBadChain, opts.Chain)
		}
		c.chain = make([]string, len(opts.Chain))
		for i, lang := range opts.Chain {
			c.chain[i] = canonical(lang)
		}
		c.source = c.chain[0]
		c.target = c.chain[len(c.chain)-1]
	}

	var err error
	if c.path, err = absPath(path); err != nil {
		return nil, err
	}
	if c.output, err = absPath(opts.Output); err != nil {
		return nil, err
	}
	if c.outputDir, err = absPath(opts.OutputDir); err != nil {
		return nil, err
	}

	if c.target == "" && c.output != "" {
		if c.target, err = r.LanguageForExt(filepath.Ext(c.output)); err != nil {
			return nil, fmt.Errorf("inferring target from %s: %w", c.output, err)
		}
	}
	if c.target == "" {
		return nil, ErrNoTarget
	}

	if c.path != "" {
		if _, err := os.Stat(c.path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrInputMissing, c.path)
			}
			return nil, fmt.Errorf("checking input %s: %w", c.path, err)
		}
		if c.source == "" {
			if c.source, err = r.LanguageForExt(filepath.Ext(c.path)); err != nil {
				return nil, fmt.Errorf("inferring source from %s: %w", c.path, err)
			}
		}
	}
	if c.source == "" {
		return nil, ErrNoSource
	}

	if c.chain == nil {
		if c.chain, err = r.FindPath(c.source, c.target); err != nil {
			return nil, err
		}
	}

	if c.path != "" && c.outputDir != "" {
		ext, err := r.FileExt(c.target)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory %s: %w", c.outputDir, err)
		}
		base := strings.TrimSuffix(filepath.Base(c.path), filepath.Ext(c.path))
		c.output = filepath.Join(c.outputDir, base+ext)
	}
	return c, nil
}

func absPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	return abs, nil
}
