package generate

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/dave/jennifer/jen"

	"github.com/ecordell/unstablegen/item"
)

// aliasShim declares the hidden name of an expanded item in the build where
// the feature is on, pointing at the visible declaration. It returns nil for
// items the hidden name cannot be aliased for: methods, generic functions,
// variables, groups and declarations with several names.
func aliasShim(visible, hidden *item.Item, lints []item.Lint) *jen.Statement {
	var stmt *jen.Statement
	switch visible.Kind() {
	case item.TypeAlias, item.Enum, item.Struct, item.Trait, item.Import:
		vd, ok := visible.Decl().(*ast.GenDecl)
		if !ok {
			return nil
		}
		ts, ok := vd.Specs[0].(*ast.TypeSpec)
		if !ok {
			if vd.Tok != token.CONST {
				return nil
			}
			return constShim(visible, hidden, lints)
		}
		stmt = jen.Type().Id(hidden.Name())
		if ts.TypeParams != nil {
			stmt.TypesFunc(func(g *jen.Group) {
				for _, field := range ts.TypeParams.List {
					for _, name := range field.Names {
						g.Id(name.Name).Id(types.ExprString(field.Type))
					}
				}
			})
		}
		stmt.Op("=").Id(ts.Name.Name)
		if ts.TypeParams != nil {
			stmt.TypesFunc(func(g *jen.Group) {
				for _, field := range ts.TypeParams.List {
					for _, name := range field.Names {
						g.Id(name.Name)
					}
				}
			})
		}
	case item.Const:
		return constShim(visible, hidden, lints)
	case item.Func:
		fd := visible.Decl().(*ast.FuncDecl)
		if fd.Recv != nil || fd.Type.TypeParams != nil {
			return nil
		}
		stmt = jen.Var().Id(hidden.Name()).Op("=").Id(fd.Name.Name)
	default:
		return nil
	}
	return withNolint(stmt, lints)
}

func constShim(visible, hidden *item.Item, lints []item.Lint) *jen.Statement {
	if len(visible.Names()) != 1 || visible.Name() == "_" {
		return nil
	}
	return withNolint(jen.Const().Id(hidden.Name()).Op("=").Id(visible.Name()), lints)
}

func withNolint(stmt *jen.Statement, lints []item.Lint) *jen.Statement {
	attr, ok := item.NolintDirective(lints)
	if !ok {
		return stmt
	}
	return jen.Comment("//" + attr.Text).Line().Add(stmt)
}
