// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package formats

import (
	"strings"

	"github.com/pdiddy/podoc/internal/convert"
	"github.com/pdiddy/podoc/internal/markdown"
)

// Markdown registers markdown with a reader to the AST and a writer from
// it. Its values are strings.
func Markdown() convert.Plugin {
	r := markdown.NewReader()
	w := markdown.NewWriter()
	return pluginFunc{name: LangMarkdown, attach: func(b *convert.Builder) error {
		if err := requireAST(b); err != nil {
			return err
		}
		if err := b.RegisterLanguage(convert.Language{
			Name: LangMarkdown,
			Ext:  ".md",
			EqualFilter: func(v any) (any, error) {
				s, err := text(v)
				if err != nil {
					return nil, err
				}
				return strings.TrimSpace(s), nil
			},
		}); err != nil {
			return err
		}
		err := b.RegisterConversion(LangMarkdown, LangAST, func(_ *convert.Context, v any) (any, error) {
			s, err := text(v)
			if err != nil {
				return nil, err
			}
			return r.Read(s)
		})
		if err != nil {
			return err
		}
		return b.RegisterConversion(LangAST, LangMarkdown, func(_ *convert.Context, v any) (any, error) {
			doc, err := document(v)
			if err != nil {
				return nil, err
			}
			return w.Write(doc)
		})
	}}
}
