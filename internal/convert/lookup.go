// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Languages returns the registered language names, sorted.
func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.langs))
	for name := range r.langs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FileExtensions returns the registered file extensions, sorted.
func (r *Registry) FileExtensions() []string {
	out := make([]string, 0, len(r.exts))
	for ext := range r.exts {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ConversionPairs returns the registered edges sorted by source, then
// target.
func (r *Registry) ConversionPairs() []Pair {
	out := append([]Pair(nil), r.order...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// Language returns the record registered under name.
func (r *Registry) Language(name string) (Language, error) {
	l, ok := r.langs[canonical(name)]
	if !ok {
		return Language{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
	return l, nil
}

// LanguageForExt returns the language owning the extension ext.
func (r *Registry) LanguageForExt(ext string) (string, error) {
	name, ok := r.exts[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownExt, ext)
	}
	return name, nil
}

// FileExt returns the file extension of lang, which may be empty.
func (r *Registry) FileExt(lang string) (string, error) {
	l, err := r.Language(lang)
	if err != nil {
		return "", err
	}
	return l.Ext, nil
}

// FilesInDir lists the regular files of dir (not recursing, skipping hidden
// files) whose extension belongs to lang, or every file when lang is empty.
// Paths are absolute and sorted.
func (r *Registry) FilesInDir(dir, lang string) ([]string, error) {
	var ext string
	if lang != "" {
		var err error
		if ext, err = r.FileExt(lang); err != nil {
			return nil, err
		}
	}
	abs, err := absPath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		if ext != "" && filepath.Ext(name) != ext {
			continue
		}
		out = append(out, filepath.Join(abs, name))
	}
	sort.Strings(out)
	return out, nil
}
