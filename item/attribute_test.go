package item

import (
	"go/ast"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDirective(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"//go:generate go run .", true},
		{"//nolint:unused", true},
		{"//unstable:api feature:\"x\"", true},
		{"//line foo.go:10", true},
		{"//export Foo", true},
		{"// go:generate", false},
		{"// Note: something", false},
		{"//Go:generate", false},
		{"//go:", false},
		{"//", false},
		{"/* go:embed */", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDirective(tt.text))
		})
	}
}

func TestAttributesFromComments(t *testing.T) {
	doc := &ast.CommentGroup{List: []*ast.Comment{
		{Text: "// Thing does a thing."},
		{Text: "//"},
		{Text: "//nolint:gocritic"},
	}}
	assert.Equal(t, []Attribute{
		DocAttr("Thing does a thing."),
		DocAttr(""),
		DirectiveAttr("nolint:gocritic"),
	}, AttributesFromComments(doc))
	assert.Nil(t, AttributesFromComments(nil))

	block := &ast.CommentGroup{List: []*ast.Comment{{Text: "/*\n  Block doc.\n  Second line.\n*/"}}}
	assert.Equal(t, []Attribute{DocAttr("Block doc."), DocAttr("Second line.")}, AttributesFromComments(block))
}

func TestWriteAttributesOrdersDirectivesLast(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, writeAttributes(&sb, []Attribute{
		DirectiveAttr("nolint:unused"),
		DocAttr("First."),
		DocAttr("multi\n\nline"),
	}))
	assert.Equal(t, "// First.\n// multi\n//\n// line\n//nolint:unused\n", sb.String())
}

func TestLintTable(t *testing.T) {
	table := DefaultLintTable()
	assert.Equal(t, []Lint{LintUnusedImport}, table.Lookup(Import))
	for _, k := range Kinds() {
		if k == Import {
			continue
		}
		assert.Equal(t, []Lint{LintUnused}, table.Lookup(k), k.String())
	}

	got := table.Lookup(Func)
	got[0] = "changed"
	assert.Equal(t, []Lint{LintUnused}, table.Lookup(Func), "Lookup returns a copy")
}

func TestNolintDirective(t *testing.T) {
	attr, ok := NolintDirective([]Lint{LintUnused, "deadcode"})
	require.True(t, ok)
	assert.Equal(t, DirectiveAttr("nolint:unused,deadcode"), attr)

	_, ok = NolintDirective(nil)
	assert.False(t, ok)
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("macro")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Kind(0).String())
}
