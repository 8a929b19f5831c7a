// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"

	"github.com/pdiddy/podoc/internal/logger"
)

// Plugin attaches languages and conversions to a Builder.
type Plugin interface {
	Name() string
	Attach(b *Builder) error
}

// Builder collects registrations. It is not safe for concurrent use; Build
// freezes the result into a Registry.
type Builder struct {
	log   *logger.Logger
	langs map[string]Language
	exts  map[string]string
	convs map[Pair]Conversion
	order []Pair
}

// NewBuilder returns an empty builder logging to log.
func NewBuilder(log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Discard()
	}
	return &Builder{
		log:   log,
		langs: make(map[string]Language),
		exts:  make(map[string]string),
		convs: make(map[Pair]Conversion),
	}
}

// RegisterLanguage adds a language. Registering a name twice keeps the first
// registration and logs a warning. An extension must start with a dot and
// belong to a single language.
func (b *Builder) RegisterLanguage(lang Language) error {
	if strings.TrimSpace(lang.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidLanguage)
	}
	if _, ok := b.langs[lang.Name]; ok {
		b.log.Duplicate("language", lang.Name)
		return nil
	}
	if lang.Ext != "" {
		if !strings.HasPrefix(lang.Ext, ".") || len(lang.Ext) < 2 {
			return fmt.Errorf("%w: %q for language %s", ErrInvalidExt, lang.Ext, lang.Name)
		}
		if owner, ok := b.exts[lang.Ext]; ok {
			return fmt.Errorf("%w: %s is used by %s, cannot register it for %s",
				ErrDuplicateExt, lang.Ext, owner, lang.Name)
		}
		b.exts[lang.Ext] = lang.Name
	}
	b.langs[lang.Name] = lang.withDefaults()
	b.log.LanguageRegistered(lang.Name, lang.Ext)
	return nil
}

// RegisterConversion adds the edge source -> target. Registering a pair
// twice keeps the first registration and logs a warning. Edges are kept in
// registration order, which breaks ties between equally short routes.
func (b *Builder) RegisterConversion(source, target string, fn Func, opts ...ConversionOption) error {
	if source == "" || target == "" {
		return fmt.Errorf("%w: source and target are required", ErrInvalidConversion)
	}
	if fn == nil {
		return fmt.Errorf("%w: %s -> %s has no function", ErrInvalidConversion, source, target)
	}
	p := Pair{Source: source, Target: target}
	if _, ok := b.convs[p]; ok {
		b.log.Duplicate("conversion", p.String())
		return nil
	}
	c := Conversion{Func: fn}
	for _, opt := range opts {
		opt(&c)
	}
	b.convs[p] = c
	b.order = append(b.order, p)
	b.log.ConversionRegistered(source, target)
	return nil
}

// Logger returns the builder's logger, for plugins that report what they
// skip.
func (b *Builder) Logger() *logger.Logger { return b.log }

// HasLanguage reports whether name is registered.
func (b *Builder) HasLanguage(name string) bool {
	_, ok := b.langs[name]
	return ok
}

// Attach runs each plugin against the builder, stopping at the first
// failure.
func (b *Builder) Attach(plugins ...Plugin) error {
	for _, p := range plugins {
		if err := p.Attach(b); err != nil {
			return fmt.Errorf("attaching plugin %s: %w", p.Name(), err)
		}
		b.log.PluginAttached(p.Name())
	}
	return nil
}

// Build returns a Registry holding a snapshot of the registrations.
func (b *Builder) Build() *Registry {
	r := &Registry{
		log:   b.log,
		langs: make(map[string]Language, len(b.langs)),
		exts:  make(map[string]string, len(b.exts)),
		convs: make(map[Pair]Conversion, len(b.convs)),
		order: append([]Pair(nil), b.order...),
		graph: make(map[string][]string),
	}
	for k, v := range b.langs {
		r.langs[k] = v
	}
	for k, v := range b.exts {
		r.exts[k] = v
	}
	for k, v := range b.convs {
		r.convs[k] = v
	}
	for _, p := range r.order {
		r.graph[p.Source] = append(r.graph[p.Source], p.Target)
	}
	return r
}

// Registry is the read-only set of languages and conversions. It is safe
// for concurrent reads.
type Registry struct {
	log   *logger.Logger
	langs map[string]Language
	exts  map[string]string
	convs map[Pair]Conversion
	order []Pair
	graph map[string][]string
}

// New attaches plugins to a fresh Builder and builds the Registry.
func New(log *logger.Logger, plugins ...Plugin) (*Registry, error) {
	b := NewBuilder(log)
	if err := b.Attach(plugins...); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *logger.Logger { return r.log }
