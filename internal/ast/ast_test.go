// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/podoc/internal/tree"
)

type nodes = []tree.Node

func text(s string) tree.Text { return tree.Text(s) }

// fullDocument uses every kind of the vocabulary.
func fullDocument() *Document {
	return &Document{Blocks: nodes{
		&Header{Level: 1, Items: nodes{text("Title")}},
		&Para{Items: nodes{
			text("Some "),
			&Emph{Items: nodes{text("emphasis")}},
			text(" and "),
			&Strong{Items: nodes{text("strong "), &Emph{Items: nodes{text("nested")}}}},
			text(", "),
			&Code{Items: nodes{text("x := 1")}},
			&LineBreak{},
			&Link{URL: "https://example.com", Items: nodes{text("a link")}},
			text(" "),
			&Image{URL: "img.png", Items: nodes{text("alt")}},
		}},
		&CodeBlock{Lang: "go", Items: nodes{text("fmt.Println(\"hi\")\n")}},
		&CodeBlock{Items: nodes{text("no language")}},
		&BlockQuote{Items: nodes{&Para{Items: nodes{text("quoted")}}}},
		&BulletList{Items: nodes{
			&ListItem{Items: nodes{&Plain{Items: nodes{text("one")}}}},
			&ListItem{Items: nodes{
				&Plain{Items: nodes{text("two")}},
				&OrderedList{Start: 3, Style: "Decimal", Delimiter: ")", Items: nodes{
					&ListItem{Items: nodes{&Plain{Items: nodes{text("nested")}}}},
				}},
			}},
		}},
		&OrderedList{Start: 1, Delimiter: ".", Items: nodes{
			&ListItem{Items: nodes{&Para{Items: nodes{text("first")}}}},
			&ListItem{Items: nodes{&Para{Items: nodes{text("second")}}}},
		}},
		&Plain{Items: nodes{text("trailing")}},
	}}
}

func TestRoundTrip(t *testing.T) {
	doc := fullDocument()
	require.NoError(t, Validate(doc))

	v, err := Encode(doc)
	require.NoError(t, err)
	got, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestRoundTrip_JSON(t *testing.T) {
	doc := fullDocument()

	data, err := MarshalJSON(doc)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	got, err := UnmarshalJSON(data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestRoundTrip_APIVersion(t *testing.T) {
	doc := fullDocument()

	v, err := Encode(doc, WithAPIVersion(1, 23, 1))
	require.NoError(t, err)
	obj, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{1, 23, 1}, obj["pandoc-api-version"])

	got, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestEncode_Shapes(t *testing.T) {
	str := func(s string) map[string]any { return map[string]any{"t": "Str", "c": s} }
	attr := func(classes ...any) []any {
		if classes == nil {
			classes = []any{}
		}
		return []any{"", classes, []any{}}
	}

	tests := []struct {
		name  string
		block tree.Node
		want  map[string]any
	}{
		{
			name:  "header",
			block: &Header{Level: 2, Items: nodes{text("Hi")}},
			want:  map[string]any{"t": "Header", "c": []any{2, attr(), []any{str("Hi")}}},
		},
		{
			name:  "code block",
			block: &CodeBlock{Lang: "python", Items: nodes{text("pass")}},
			want:  map[string]any{"t": "CodeBlock", "c": []any{attr("python"), "pass"}},
		},
		{
			name: "ordered list",
			block: &OrderedList{Start: 3, Style: "Decimal", Delimiter: ".", Items: nodes{
				&ListItem{Items: nodes{&Plain{Items: nodes{text("a")}}}},
			}},
			want: map[string]any{"t": "OrderedList", "c": []any{
				[]any{3, map[string]any{"t": "Decimal", "c": []any{}}, map[string]any{"t": "Period", "c": []any{}}},
				[]any{[]any{map[string]any{"t": "Plain", "c": []any{str("a")}}}},
			}},
		},
		{
			name: "link",
			block: &Para{Items: nodes{
				&Link{URL: "https://podoc.dev", Items: nodes{text("site")}},
			}},
			want: map[string]any{"t": "Para", "c": []any{
				map[string]any{"t": "Link", "c": []any{[]any{str("site")}, []any{"https://podoc.dev", ""}}},
			}},
		},
		{
			name:  "inline code",
			block: &Plain{Items: nodes{NewCode("x")}},
			want: map[string]any{"t": "Plain", "c": []any{
				map[string]any{"t": "Code", "c": []any{attr(), "x"}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Encode(NewDocument(tt.block))
			require.NoError(t, err)
			env := v.([]any)
			require.Len(t, env, 2)
			assert.Equal(t, map[string]any{"unMeta": map[string]any{}}, env[0])
			assert.Equal(t, []any{tt.want}, env[1])
		})
	}
}

func TestEncode_Unsupported(t *testing.T) {
	doc := NewDocument(&Para{Items: nodes{tree.NewElement("Table")}})
	_, err := Encode(doc)
	assert.ErrorIs(t, err, ErrUnsupported)

	doc = NewDocument(&OrderedList{Delimiter: ":"})
	_, err = Encode(doc)
	assert.ErrorIs(t, err, ErrUnsupported)

	doc = NewDocument(&BulletList{Items: nodes{&Para{}}})
	_, err = Encode(doc)
	assert.ErrorIs(t, err, ErrBadShape)
}

func TestDecode_PandocOutput(t *testing.T) {
	// As written by `pandoc -t json` for "Hello [world](https://example.com)\nnext\n\n- a".
	data := []byte(`{
		"pandoc-api-version": [1, 23, 1],
		"meta": {},
		"blocks": [
			{"t": "Para", "c": [
				{"t": "Str", "c": "Hello"},
				{"t": "Space"},
				{"t": "Link", "c": [["", [], []], [{"t": "Str", "c": "world"}], ["https://example.com", ""]]},
				{"t": "SoftBreak"},
				{"t": "Str", "c": "next"}
			]},
			{"t": "BulletList", "c": [[{"t": "Plain", "c": [{"t": "Str", "c": "a"}]}]]}
		]
	}`)

	got, err := UnmarshalJSON(data)
	require.NoError(t, err)

	want := NewDocument(
		&Para{Items: nodes{
			text("Hello "),
			&Link{URL: "https://example.com", Items: nodes{text("world")}},
			&LineBreak{},
			text("next"),
		}},
		&BulletList{Items: nodes{&ListItem{Items: nodes{&Plain{Items: nodes{text("a")}}}}}},
	)
	assert.Equal(t, want, got)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantErr error
	}{
		{name: "not a document", input: "hello", wantErr: ErrEnvelope},
		{name: "one element", input: []any{map[string]any{"unMeta": map[string]any{}}}, wantErr: ErrEnvelope},
		{name: "no metadata marker", input: []any{map[string]any{"meta": 1}, []any{}}, wantErr: ErrEnvelope},
		{name: "blocks not a list", input: []any{map[string]any{"unMeta": map[string]any{}}, "x"}, wantErr: ErrEnvelope},
		{name: "object without blocks", input: map[string]any{"meta": map[string]any{}}, wantErr: ErrEnvelope},
		{
			name:    "unknown kind",
			input:   []any{map[string]any{"unMeta": map[string]any{}}, []any{map[string]any{"t": "Table", "c": []any{}}}},
			wantErr: ErrUnsupported,
		},
		{
			name:    "header without level",
			input:   []any{map[string]any{"unMeta": map[string]any{}}, []any{map[string]any{"t": "Header", "c": []any{}}}},
			wantErr: ErrBadShape,
		},
		{
			name: "block inside inline",
			input: []any{map[string]any{"unMeta": map[string]any{}}, []any{
				map[string]any{"t": "Para", "c": []any{
					map[string]any{"t": "Emph", "c": []any{map[string]any{"t": "Para", "c": []any{}}}},
				}},
			}},
			wantErr: ErrNesting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecode_EmptyDocument(t *testing.T) {
	doc, err := Decode([]any{map[string]any{"unMeta": map[string]any{}}, []any{}})
	require.NoError(t, err)
	assert.Empty(t, doc.Children())
}

func TestCheck_InlineWithBlockChild(t *testing.T) {
	_, err := NewEmph(&Header{Level: 1, Items: nodes{text("no")}})
	require.Error(t, err)

	var nerr *NestingError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, KindEmph, nerr.Parent)
	assert.Equal(t, KindHeader, nerr.Child)
	assert.ErrorIs(t, err, ErrNesting)

	_, err = NewLink("u", &Para{})
	assert.ErrorIs(t, err, ErrNesting)

	emph, err := NewEmph(text("fine"), &LineBreak{})
	require.NoError(t, err)
	assert.Len(t, emph.Children(), 2)
}

func TestValidate(t *testing.T) {
	deep := NewDocument(&Para{Items: nodes{
		&Strong{Items: nodes{&Emph{Items: nodes{&BlockQuote{}}}}},
	}})
	assert.ErrorIs(t, Validate(deep), ErrNesting)

	foreign := NewDocument(tree.NewElement("Div"))
	assert.ErrorIs(t, Validate(foreign), ErrUnsupported)

	// ListItem is unclassified, so blocks inside it are fine.
	ok := NewDocument(&BulletList{Items: nodes{&ListItem{Items: nodes{&Para{}, &CodeBlock{}}}}})
	assert.NoError(t, Validate(ok))
}

func TestClassification(t *testing.T) {
	for _, k := range []string{KindPlain, KindPara, KindHeader, KindCodeBlock, KindBlockQuote, KindBulletList, KindOrderedList} {
		assert.True(t, IsBlock(k), k)
		assert.False(t, IsInline(k), k)
	}
	for _, k := range []string{KindEmph, KindStrong, KindCode, KindLink, KindImage} {
		assert.True(t, IsInline(k), k)
		assert.False(t, IsBlock(k), k)
	}
	for _, k := range []string{KindRoot, KindListItem, KindLineBreak} {
		assert.False(t, IsBlock(k) || IsInline(k), k)
	}
}

func TestNormalize(t *testing.T) {
	doc := NewDocument(
		&BulletList{BulletChar: "-", Items: nodes{
			&ListItem{Items: nodes{&Plain{Items: nodes{text("a"), text(""), text("b")}}}},
		}},
		&Para{Items: nodes{}},
	)

	got, err := Normalize(doc)
	require.NoError(t, err)

	want := NewDocument(
		&BulletList{Items: nodes{
			&ListItem{Items: nodes{&Plain{Items: nodes{text("ab")}}}},
		}},
		&Para{},
	)
	assert.Equal(t, want, got)

	// The input is left untouched.
	assert.Equal(t, "-", doc.Blocks[0].(*BulletList).BulletChar)
}
