// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package formats

import (
	"github.com/pdiddy/podoc/internal/ast"
	"github.com/pdiddy/podoc/internal/convert"
)

// AST registers the interchange language. Its values are *ast.Document and
// its files are indented interchange JSON.
func AST() convert.Plugin {
	return pluginFunc{name: LangAST, attach: func(b *convert.Builder) error {
		return b.RegisterLanguage(convert.Language{
			Name:        LangAST,
			Ext:         ".json",
			Loads:       loadsAST,
			Dumps:       dumpsAST,
			EqualFilter: normalizeAST,
		})
	}}
}

func loadsAST(s string) (any, error) {
	return ast.UnmarshalJSON([]byte(s))
}

func dumpsAST(v any) (string, error) {
	doc, err := document(v)
	if err != nil {
		return "", err
	}
	data, err := ast.MarshalJSON(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func normalizeAST(v any) (any, error) {
	doc, err := document(v)
	if err != nil {
		return nil, err
	}
	return ast.Normalize(doc)
}
