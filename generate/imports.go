package generate

import (
	"go/ast"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/ecordell/unstablegen/diag"
	"github.com/ecordell/unstablegen/item"
)

// importName returns the name an import is referred to by in code, or "_"
// and "." for blank and dot imports.
func importName(imp *ast.ImportSpec) string {
	if imp.Name != nil {
		return imp.Name.Name
	}
	return item.AssumedPackageName(importPath(imp))
}

func importPath(imp *ast.ImportSpec) string {
	p, err := strconv.Unquote(imp.Path.Value)
	if err != nil {
		return imp.Path.Value
	}
	return p
}

// usesName reports whether node refers to an unresolved identifier name as
// the left side of a selector, which is how a package reference looks
// before type checking.
func usesName(node ast.Node, name string) bool {
	found := false
	ast.Inspect(node, func(n ast.Node) bool {
		if found {
			return false
		}
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok && id.Name == name && id.Obj == nil {
			found = true
			return false
		}
		return true
	})
	return found
}

// checkImports reports the imports of an annotated source that cannot be
// copied into generated files.
func checkImports(fset *token.FileSet, f *ast.File) diag.List {
	var diags diag.List
	for _, imp := range f.Imports {
		pos := fset.Position(imp.Pos())
		path := importPath(imp)
		switch {
		case path == "C":
			diags.Add(diag.Errorf(pos, diag.Import, "cgo is not supported in annotated sources"))
		case imp.Name != nil && imp.Name.Name == ".":
			diags.Add(diag.Errorf(pos, diag.Import, "dot import of %q is not supported; import it by name", path))
		case imp.Name == nil && !usesName(f, item.AssumedPackageName(path)):
			diags.Add(diag.Errorf(pos, diag.Import,
				"cannot infer the package name of %q; import it with an explicit name", path))
		}
	}
	return diags
}

// pruneImports deletes the imports f does not use. Blank imports are kept.
// A group left with a single import loses its parentheses.
func pruneImports(fset *token.FileSet, f *ast.File) {
	for _, imp := range append([]*ast.ImportSpec(nil), f.Imports...) {
		name := importName(imp)
		if name == "_" || usesName(f, name) {
			continue
		}
		var explicit string
		if imp.Name != nil {
			explicit = imp.Name.Name
		}
		astutil.DeleteNamedImport(fset, f, explicit, importPath(imp))
	}
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.IMPORT || len(gd.Specs) != 1 {
			continue
		}
		spec := gd.Specs[0].(*ast.ImportSpec)
		gd.Lparen, gd.Rparen = token.NoPos, token.NoPos
		// same line as the keyword, or the printer breaks the line
		if spec.Name != nil {
			spec.Name.NamePos = gd.TokPos
		}
		spec.Path.ValuePos = gd.TokPos
		spec.EndPos = token.NoPos
	}
}
