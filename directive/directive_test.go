package directive

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/ecordell/unstablegen/diag"
	"github.com/ecordell/unstablegen/unstable"
)

func TestParse(t *testing.T) {
	pos := token.Position{Filename: "a.go", Line: 3, Column: 1}
	tests := []struct {
		name    string
		text    string
		want    unstable.Config
		wantErr string
		wantCol int
	}{
		{name: "bare", text: "//unstable:api"},
		{name: "trailing space", text: "//unstable:api  "},
		{name: "feature", text: `//unstable:api feature:"risky-function"`, want: unstable.Config{Feature: "risky-function"}},
		{name: "feature and issue", text: `//unstable:api feature:"risky-function" issue:"#123"`, want: unstable.Config{Feature: "risky-function", Issue: "#123"}},
		{name: "issue only", text: `//unstable:api issue:"https://example.com/1"`, want: unstable.Config{Issue: "https://example.com/1"}},
		{name: "unknown directive", text: "//unstable:experimental", wantErr: `unknown directive "unstable:experimental"`},
		{name: "glued name", text: "//unstable:apix", wantErr: `unknown directive "unstable:apix"`},
		{name: "unknown key", text: `//unstable:api owner:"me"`, wantErr: `unknown argument "owner"`, wantCol: 16},
		{name: "duplicate key", text: `//unstable:api feature:"a" feature:"b"`, wantErr: `duplicate argument "feature"`},
		{name: "unquoted", text: `//unstable:api feature:risky`, wantErr: "malformed arguments", wantCol: 16},
		{name: "empty feature", text: `//unstable:api feature:""`, wantErr: "feature must not be empty"},
		{name: "empty issue", text: `//unstable:api issue:""`, wantErr: "issue must not be empty"},
		{name: "issue with commas", text: `//unstable:api issue:"https://example.com/q?ids=1,2,3"`, want: unstable.Config{Issue: "https://example.com/q?ids=1,2,3"}},
		{name: "feature options", text: `//unstable:api issue:"#1" feature:"x,y"`, wantErr: "not options after a comma", wantCol: 27},
		{name: "invalid feature", text: `//unstable:api feature:"a b"`, wantErr: "invalid character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(pos, tt.text)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var d *diag.Diagnostic
			require.True(t, errors.As(err, &d))
			assert.Equal(t, diag.Config, d.Code)
			assert.Equal(t, diag.SevError, d.Severity)
			assert.Equal(t, 3, d.Pos.Line)
			if tt.wantCol != 0 {
				assert.Equal(t, tt.wantCol, d.Pos.Column)
			}
		})
	}
}

func docOf(t *testing.T, src string) (*token.FileSet, *ast.CommentGroup) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "a.go", src, parser.ParseComments)
	require.NoError(t, err)
	require.NotEmpty(t, f.Decls)
	return fset, f.Decls[0].(*ast.FuncDecl).Doc
}

func TestExtract(t *testing.T) {
	fset, doc := docOf(t, `package p

// F is risky.
//
//unstable:api feature:"f"
func F() {}
`)
	require.True(t, Has(doc))

	dir, rest, err := Extract(fset, doc)
	require.NoError(t, err)
	require.NotNil(t, dir)
	assert.Equal(t, unstable.Config{Feature: "f"}, dir.Config)
	assert.Equal(t, 5, dir.Pos.Line)

	require.NotNil(t, rest)
	require.Len(t, rest.List, 2)
	assert.Equal(t, "// F is risky.", rest.List[0].Text)
	assert.False(t, Has(rest))
}

func TestExtractOnlyDirective(t *testing.T) {
	fset, doc := docOf(t, "package p\n\n//unstable:api\nfunc F() {}\n")
	dir, rest, err := Extract(fset, doc)
	require.NoError(t, err)
	require.NotNil(t, dir)
	assert.Equal(t, unstable.Config{}, dir.Config)
	assert.Nil(t, rest)
}

func TestExtractNone(t *testing.T) {
	fset, doc := docOf(t, "package p\n\n// F is fine.\nfunc F() {}\n")
	dir, rest, err := Extract(fset, doc)
	require.NoError(t, err)
	assert.Nil(t, dir)
	assert.Same(t, doc, rest)

	dir, rest, err = Extract(fset, nil)
	require.NoError(t, err)
	assert.Nil(t, dir)
	assert.Nil(t, rest)
}

func TestExtractErrors(t *testing.T) {
	fset, doc := docOf(t, `package p

//unstable:api
//unstable:api feature:"b"
//unstable:nope
func F() {}
`)
	dir, _, err := Extract(fset, doc)
	require.Error(t, err)
	assert.Nil(t, dir)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "a.go:4:1: unstable: duplicate //unstable:api directive")
	assert.Contains(t, errs[1].Error(), `a.go:5:1: unstable: unknown directive "unstable:nope"`)
}
