// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package formats

import (
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/podoc/internal/ast"
	"github.com/pdiddy/podoc/internal/convert"
)

// YAML registers the YAML rendition of the interchange value. Its values are
// the generic interchange structure (maps, lists and scalars) that
// ast.Encode produces and ast.Decode accepts.
func YAML() convert.Plugin {
	return pluginFunc{name: LangYAML, attach: func(b *convert.Builder) error {
		if err := requireAST(b); err != nil {
			return err
		}
		if err := b.RegisterLanguage(convert.Language{
			Name:        LangYAML,
			Ext:         ".yaml",
			Loads:       loadsYAML,
			Dumps:       dumpsYAML,
			EqualFilter: normalizeYAML,
		}); err != nil {
			return err
		}
		if err := b.RegisterConversion(LangAST, LangYAML, astToYAML); err != nil {
			return err
		}
		return b.RegisterConversion(LangYAML, LangAST, yamlToAST)
	}}
}

func astToYAML(_ *convert.Context, v any) (any, error) {
	doc, err := document(v)
	if err != nil {
		return nil, err
	}
	return ast.Encode(doc)
}

func yamlToAST(_ *convert.Context, v any) (any, error) {
	return ast.Decode(v)
}

func loadsYAML(s string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return v, nil
}

func dumpsYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return string(data), nil
}

// normalizeYAML compares interchange values through the AST so that numeric
// types and envelope variants do not matter.
func normalizeYAML(v any) (any, error) {
	doc, err := ast.Decode(v)
	if err != nil {
		return nil, err
	}
	if doc, err = ast.Normalize(doc); err != nil {
		return nil, err
	}
	return ast.Encode(doc)
}
