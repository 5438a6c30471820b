package item

import (
	"go/ast"
	"go/token"
	"path"
	"strings"

	"github.com/ecordell/unstablegen/diag"
)

// ImportResolver maps the names a file imports packages under to their
// import paths.
type ImportResolver struct {
	pkgToPath map[string]string
}

// NewImportResolver creates an ImportResolver from a file's imports. Blank
// and dot imports introduce no name and are skipped.
func NewImportResolver(file *ast.File) *ImportResolver {
	resolver := &ImportResolver{pkgToPath: make(map[string]string)}
	if file == nil {
		return resolver
	}
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)

		var pkgName string
		if imp.Name != nil {
			pkgName = imp.Name.Name
		} else {
			pkgName = AssumedPackageName(importPath)
		}
		if pkgName == "_" || pkgName == "." {
			continue
		}
		resolver.pkgToPath[pkgName] = importPath
	}
	return resolver
}

// Resolve returns the import path for a package name.
func (r *ImportResolver) Resolve(pkgName string) (string, bool) {
	p, ok := r.pkgToPath[pkgName]
	return p, ok
}

// AssumedPackageName guesses the package name for an import path the way
// goimports does: the last element, without a major version suffix, a
// gopkg.in version or a go- prefix.
func AssumedPackageName(importPath string) string {
	base := path.Base(importPath)
	if isMajorVersion(base) {
		if dir := path.Dir(importPath); dir != "." {
			base = path.Base(dir)
		}
	}
	if i := strings.Index(base, ".v"); i > 0 && isDigits(base[i+2:]) {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexAny(base, ".-"); i > 0 {
		base = base[:i]
	}
	return base
}

func isMajorVersion(s string) bool {
	return len(s) > 1 && s[0] == 'v' && isDigits(s[1:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FromDecl classifies decl into one of the supported kinds and builds an
// Item from it. The declaration's doc comment is detached and becomes the
// item's attributes. file supplies the comments and imports of the source
// file decl belongs to.
//
// Declarations outside the supported set produce an Unsupported diagnostic.
func FromDecl(fset *token.FileSet, file *ast.File, decl ast.Decl) (*Item, error) {
	kind, err := Classify(fset, NewImportResolver(file), decl)
	if err != nil {
		return nil, err
	}

	var doc *ast.CommentGroup
	switch d := decl.(type) {
	case *ast.FuncDecl:
		doc, d.Doc = d.Doc, nil
	case *ast.GenDecl:
		doc, d.Doc = d.Doc, nil
		if !d.Lparen.IsValid() && doc == nil {
			// A single spec may carry its own doc when the parser attached it
			// there rather than to the declaration.
			doc = detachSpecDoc(d.Specs[0])
		}
	}

	var comments []*ast.CommentGroup
	if file != nil {
		comments = commentsWithin(decl, file.Comments)
	}
	it := &Item{
		kind:     kind,
		attrs:    AttributesFromComments(doc),
		decl:     decl,
		fset:     fset,
		comments: comments,
	}
	if kind == Module {
		it.groupVis = widest(it.Names())
	}
	return it, nil
}

// Classify returns the kind of decl.
func Classify(fset *token.FileSet, imports *ImportResolver, decl ast.Decl) (Kind, error) {
	pos := fset.Position(decl.Pos())
	switch d := decl.(type) {
	case *ast.FuncDecl:
		return Func, nil
	case *ast.GenDecl:
		if d.Tok == token.IMPORT {
			return 0, diag.Errorf(pos, diag.Unsupported, "unsupported item kind: import declarations are file scoped; re-export the item with an alias instead")
		}
		if d.Lparen.IsValid() {
			return Module, nil
		}
		if len(d.Specs) != 1 {
			return 0, diag.Errorf(pos, diag.Unsupported, "unsupported item kind: empty %s declaration", d.Tok)
		}
		switch spec := d.Specs[0].(type) {
		case *ast.TypeSpec:
			return classifyType(spec, imports), nil
		case *ast.ValueSpec:
			if len(spec.Names) == 1 && len(spec.Values) == 1 && spec.Type == nil && isReexport(spec.Values[0], imports) {
				return Import, nil
			}
			if d.Tok == token.CONST {
				return Const, nil
			}
			return Static, nil
		}
	}
	return 0, diag.Errorf(pos, diag.Unsupported, "unsupported item kind %T", decl)
}

func classifyType(spec *ast.TypeSpec, imports *ImportResolver) Kind {
	if spec.Assign.IsValid() {
		if spec.TypeParams == nil && isReexport(spec.Type, imports) {
			return Import
		}
		return TypeAlias
	}
	switch spec.Type.(type) {
	case *ast.StructType:
		return Struct
	case *ast.InterfaceType:
		return Trait
	default:
		return Enum
	}
}

// isReexport reports whether expr is exactly pkg.Name for an imported pkg.
func isReexport(expr ast.Expr, imports *ImportResolver) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	_, ok = imports.Resolve(pkg.Name)
	return ok
}

func detachSpecDoc(spec ast.Spec) *ast.CommentGroup {
	var doc *ast.CommentGroup
	switch s := spec.(type) {
	case *ast.TypeSpec:
		doc, s.Doc = s.Doc, nil
	case *ast.ValueSpec:
		doc, s.Doc = s.Doc, nil
	}
	return doc
}
