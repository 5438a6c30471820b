package unstable

import (
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecordell/unstablegen/item"
)

const source = `package p

import cfg "example.com/config"

type Alias = map[string]int

type Color int

type Config struct {
	Name string
	size int
}

// RiskyFunction does something really risky!
func RiskyFunction() {}

var (
	Shared = 1
	other  = 2
)

type Runner interface{ Run() error }

const MaxSize = 1024

var Default = 3

type Loader = cfg.Loader
`

func parse(t *testing.T, src string) []*item.Item {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "p.go", src, parser.ParseComments)
	require.NoError(t, err)
	var items []*item.Item
	for _, decl := range f.Decls {
		if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
			continue
		}
		it, err := item.FromDecl(fset, f, decl)
		require.NoError(t, err)
		items = append(items, it)
	}
	return items
}

func find(t *testing.T, items []*item.Item, kind item.Kind) *item.Item {
	t.Helper()
	for _, it := range items {
		if it.Kind() == kind {
			return it
		}
	}
	t.Fatalf("no %s item", kind)
	return nil
}

func TestExpandPublicAllKinds(t *testing.T) {
	cfg := Config{Feature: "risky"}
	for _, kind := range item.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			it := find(t, parse(t, source), kind)
			name := it.Name()

			variants := Expand(cfg, it)
			require.Len(t, variants, 2)

			visible, hidden := variants[0], variants[1]
			assert.False(t, visible.Hidden())
			assert.True(t, hidden.Hidden())
			assert.Equal(t, name, visible.Item.Name())
			assert.True(t, visible.Item.IsPublic())
			assert.False(t, hidden.Item.IsPublic())

			for _, enabled := range []bool{true, false} {
				ok := func(tag string) bool { return enabled && tag == "unstable_risky" }
				assert.NotEqual(t, visible.Constraint.Eval(ok), hidden.Constraint.Eval(ok),
					"exactly one variant must be built (tag set: %v)", enabled)
			}

			attrs := visible.Item.Attributes()
			assert.Equal(t, item.DocAttr(Availability(cfg)), attrs[len(attrs)-1])
			hattrs := hidden.Item.Attributes()
			assert.Equal(t, item.DocAttr(Availability(cfg)), hattrs[len(hattrs)-2])
			assert.Equal(t, item.Directive, hattrs[len(hattrs)-1].Kind)
		})
	}
}

func TestExpandNonPublicIsIdentity(t *testing.T) {
	items := parse(t, `package p

// helper is internal.
func helper() {}

type config struct{ Name string }

const (
	a = 1
	b = 2
)

var _ = 3
`)
	for _, it := range items {
		before := it.String()
		variants := Expand(Config{Feature: "x", Issue: "#1"}, it)
		require.Len(t, variants, 1, it.Name())
		assert.Nil(t, variants[0].Constraint)
		assert.Same(t, it, variants[0].Item)
		assert.Equal(t, before, variants[0].Item.String(), "no availability note on non-public items")
	}
}

func TestExpandFunction(t *testing.T) {
	it := find(t, parse(t, source), item.Func)
	variants := Expand(Config{Feature: "function"}, it)
	require.Len(t, variants, 2)

	assert.Equal(t, "unstable_function", variants[0].Constraint.String())
	assert.Equal(t, "!unstable_function", variants[1].Constraint.String())

	visible, hidden := variants[0].Item.String(), variants[1].Item.String()
	assert.Contains(t, visible, "func RiskyFunction() {}")
	assert.NotContains(t, visible, "nolint")
	assert.Contains(t, hidden, "//nolint:unused\nfunc riskyFunction() {}")

	body := func(s string) string { return s[strings.Index(s, "() {"):] }
	assert.Equal(t, body(visible), body(hidden))
}

func TestExpandStructLowersFields(t *testing.T) {
	it := find(t, parse(t, source), item.Struct)
	variants := Expand(Config{}, it)
	require.Len(t, variants, 2)

	hidden := variants[1].Item.String()
	assert.Contains(t, hidden, "type config struct")
	assert.Contains(t, hidden, "name string")
	assert.Contains(t, hidden, "size int")
	assert.Contains(t, variants[0].Item.String(), "Name string")
}

func TestExpandImportLint(t *testing.T) {
	it := find(t, parse(t, source), item.Import)
	variants := Expand(Config{}, it)
	require.Len(t, variants, 2)
	hidden := variants[1].Item.String()
	assert.Contains(t, hidden, "//nolint:unusedimport\ntype loader = cfg.Loader")
}

func TestExpandModuleKeepsMembers(t *testing.T) {
	it := find(t, parse(t, source), item.Module)
	variants := Expand(Config{}, it)
	require.Len(t, variants, 2)
	assert.Equal(t, item.Package, variants[1].Item.Visibility())
	assert.Equal(t, "Shared, other", variants[1].Item.Name())
	assert.Contains(t, variants[1].Item.String(), "//nolint:unused\nvar (")
}

func TestExpandDoesNotDeduplicateAvailability(t *testing.T) {
	it := find(t, parse(t, source), item.Func)
	cfg := Config{Feature: "function"}
	it.AppendAttribute(item.DocAttr(Availability(cfg)))

	variants := Expand(cfg, it)
	var notes int
	for _, a := range variants[0].Item.Attributes() {
		if a == item.DocAttr(Availability(cfg)) {
			notes++
		}
	}
	assert.Equal(t, 2, notes)
}

func TestExpandOptions(t *testing.T) {
	table := item.LintTable{Default: []item.Lint{"unused", "deadcode"}}
	it := find(t, parse(t, source), item.Const)
	variants := Expand(Config{}, it, WithLints(table), WithHiddenVisibility(item.Private))
	require.Len(t, variants, 2)
	assert.Equal(t, "_", variants[1].Item.Name())
	assert.Contains(t, variants[1].Item.String(), "//nolint:unused,deadcode")

	it = find(t, parse(t, source), item.Static)
	variants = Expand(Config{}, it, WithLints(item.LintTable{}))
	assert.NotContains(t, variants[1].Item.String(), "nolint", "an empty allowance set adds no directive")
}

func TestAvailability(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		feature string
		tag     string
		issue   string
	}{
		{"catch-all", Config{}, "`unstable`", "`unstable`", ""},
		{"named", Config{Feature: "risky-function"}, "`unstable-risky-function`", "`unstable_risky_function`", ""},
		{"issue", Config{Feature: "risky-function", Issue: "#123"}, "`unstable-risky-function`", "`unstable_risky_function`", "\nThe tracking issue is: `#123`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Availability(tt.cfg)
			assert.True(t, strings.HasPrefix(doc, "\n# Availability\n\nThis API is marked as unstable"))
			assert.Contains(t, doc, "when the "+tt.feature+" feature is enabled (build tag "+tt.tag+")")
			assert.Contains(t, doc, "This comes with no stability guarantees, and could be changed or removed at any time.")
			if tt.issue == "" {
				assert.NotContains(t, doc, "tracking issue")
				return
			}
			assert.True(t, strings.HasSuffix(doc, tt.issue))
		})
	}
}

func TestConfig(t *testing.T) {
	assert.Equal(t, "unstable", Config{}.FeatureName())
	assert.Equal(t, "unstable", Config{}.BuildTag())
	assert.Equal(t, "unstable-risky-function", Config{Feature: "risky-function"}.FeatureName())
	assert.Equal(t, "unstable_risky_function", Config{Feature: "risky-function"}.BuildTag())

	assert.NoError(t, Config{Feature: "v1.2_beta-3"}.Validate())
	assert.Error(t, Config{Feature: "has space"}.Validate())
	assert.Error(t, Config{Feature: "bang!"}.Validate())

	tag := &constraint.TagExpr{Tag: Config{Feature: "a.b"}.BuildTag()}
	assert.Equal(t, "unstable_a.b", tag.String())
}
