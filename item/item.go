// Package item is a uniform view over the declaration shapes unstablegen can
// rewrite.
//
// An Item is a tagged union: a Kind plus the parsed declaration it describes.
// Every operation is a single function switching on the kind, so the
// expansion engine can treat a struct, a function or a re-export the same way.
//
// The declaration's doc comment is detached when the Item is built and kept as
// an ordered list of attributes; Go has no attribute syntax, so documentation
// lines and `//tool:directive` lines play that role.
package item

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"io"
	"sort"
	"strings"
)

// Item is one declaration together with its attributes.
type Item struct {
	kind     Kind
	attrs    []Attribute
	decl     ast.Decl
	fset     *token.FileSet
	comments []*ast.CommentGroup

	// groupVis is the visibility recorded for a Module. Declaration groups
	// have no qualifier of their own in Go, so it lives here.
	groupVis Visibility
}

// Kind returns the item's kind.
func (it *Item) Kind() Kind {
	return it.kind
}

// Decl returns the underlying declaration. Its doc comment is always nil;
// documentation lives in Attributes.
func (it *Item) Decl() ast.Decl {
	return it.decl
}

// FileSet returns the file set positions in Decl refer to.
func (it *Item) FileSet() *token.FileSet {
	return it.fset
}

// Pos returns the position of the declaration.
func (it *Item) Pos() token.Position {
	return it.fset.Position(it.decl.Pos())
}

// Attributes returns the attribute list. The slice must not be modified.
func (it *Item) Attributes() []Attribute {
	return it.attrs
}

// AppendAttribute appends one attribute.
func (it *Item) AppendAttribute(a Attribute) {
	it.attrs = append(it.attrs, a)
}

// Name returns the declared name, or the comma separated names for value
// declarations and groups.
func (it *Item) Name() string {
	return strings.Join(it.Names(), ", ")
}

// Names returns every name the item declares, in source order.
func (it *Item) Names() []string {
	switch it.kind {
	case Func:
		return []string{it.funcDecl().Name.Name}
	case TypeAlias, Enum, Struct, Trait:
		return []string{it.typeSpec().Name.Name}
	case Const, Static:
		return identNames(it.valueSpec().Names)
	case Import:
		if ts, ok := it.genDecl().Specs[0].(*ast.TypeSpec); ok {
			return []string{ts.Name.Name}
		}
		return identNames(it.valueSpec().Names)
	case Module:
		var names []string
		for _, spec := range it.genDecl().Specs {
			names = append(names, specNames(spec)...)
		}
		return names
	}
	panic(fmt.Sprintf("item: unsupported kind %d", it.kind))
}

// Receiver returns the receiver type name of a method, or "" for anything
// else.
func (it *Item) Receiver() string {
	if it.kind != Func {
		return ""
	}
	fd := it.funcDecl()
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	return ReceiverBase(fd.Recv.List[0].Type)
}

// Visibility returns the item's visibility. Value declarations with several
// names take the widest of them.
func (it *Item) Visibility() Visibility {
	switch it.kind {
	case Module:
		return it.groupVis
	case Func, TypeAlias, Enum, Struct, Trait, Const, Static, Import:
		return widest(it.Names())
	}
	panic(fmt.Sprintf("item: unsupported kind %d", it.kind))
}

// IsPublic reports whether the item is exported. Package and private items
// both count as not public.
func (it *Item) IsPublic() bool {
	return it.Visibility() == Public
}

// SetVisibility renames the declaration to visibility v. For structs every
// exported field is lowered to v as well, since a field must not outlive the
// type that holds it; unexported and embedded fields keep their names.
// Modules only record v: members of a group are never rewritten.
func (it *Item) SetVisibility(v Visibility) {
	switch it.kind {
	case Func:
		fd := it.funcDecl()
		fd.Name.Name = Rename(fd.Name.Name, v)
	case Struct:
		ts := it.typeSpec()
		if st, ok := ts.Type.(*ast.StructType); ok && st.Fields != nil {
			for _, field := range st.Fields.List {
				for _, name := range field.Names {
					if VisibilityOf(name.Name) == Public {
						name.Name = Rename(name.Name, v)
					}
				}
			}
		}
		ts.Name.Name = Rename(ts.Name.Name, v)
	case TypeAlias, Enum, Trait:
		ts := it.typeSpec()
		ts.Name.Name = Rename(ts.Name.Name, v)
	case Const, Static:
		renameIdents(it.valueSpec().Names, v)
	case Import:
		switch spec := it.genDecl().Specs[0].(type) {
		case *ast.TypeSpec:
			spec.Name.Name = Rename(spec.Name.Name, v)
		case *ast.ValueSpec:
			renameIdents(spec.Names, v)
		}
	case Module:
		it.groupVis = v
	default:
		panic(fmt.Sprintf("item: unsupported kind %d", it.kind))
	}
}

// Field is a struct field as it is referred to in selectors.
type Field struct {
	Name string
	Pos  token.Position
}

// Fields lists a struct's fields in declaration order. Embedded fields are
// listed under their type name and blank fields are left out. Items of other
// kinds have none.
func (it *Item) Fields() []Field {
	if it.kind != Struct {
		return nil
	}
	st, ok := it.typeSpec().Type.(*ast.StructType)
	if !ok || st.Fields == nil {
		return nil
	}
	var fields []Field
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			typ := field.Type
			if star, ok := typ.(*ast.StarExpr); ok {
				typ = star.X
			}
			if sel, ok := typ.(*ast.SelectorExpr); ok {
				typ = sel.Sel
			}
			if name := ReceiverBase(typ); name != "" {
				fields = append(fields, Field{Name: name, Pos: it.fset.Position(field.Pos())})
			}
			continue
		}
		for _, name := range field.Names {
			if name.Name != "_" {
				fields = append(fields, Field{Name: name.Name, Pos: it.fset.Position(name.Pos())})
			}
		}
	}
	return fields
}

// AllowedLints returns the lints to suppress on the hidden copy of this
// item, using the default table.
func (it *Item) AllowedLints() []Lint {
	return DefaultLintTable().Lookup(it.kind)
}

// Clone returns a deep copy. The declaration is printed and parsed again
// into a fresh file set, so nothing is shared with the original.
func (it *Item) Clone() *Item {
	var buf bytes.Buffer
	buf.WriteString("package p\n\n")
	if err := it.printDecl(&buf); err != nil {
		panic(fmt.Sprintf("item: printing %s: %v", it.Name(), err))
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, it.Pos().Filename, buf.Bytes(), parser.ParseComments)
	if err != nil || len(f.Decls) != 1 {
		panic(fmt.Sprintf("item: reparsing %s: %v", it.Name(), err))
	}
	return &Item{
		kind:     it.kind,
		attrs:    append([]Attribute(nil), it.attrs...),
		decl:     f.Decls[0],
		fset:     fset,
		comments: f.Comments,
		groupVis: it.groupVis,
	}
}

// WriteTo prints the attributes followed by the declaration.
func (it *Item) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := writeAttributes(&buf, it.attrs); err != nil {
		return 0, err
	}
	if err := it.printDecl(&buf); err != nil {
		return 0, err
	}
	buf.WriteString("\n")
	return buf.WriteTo(w)
}

// String returns the printed item.
func (it *Item) String() string {
	var sb strings.Builder
	if _, err := it.WriteTo(&sb); err != nil {
		return fmt.Sprintf("<%s: %v>", it.Name(), err)
	}
	return sb.String()
}

func (it *Item) printDecl(w io.Writer) error {
	cfg := printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}
	return cfg.Fprint(w, it.fset, &printer.CommentedNode{Node: it.decl, Comments: it.comments})
}

func (it *Item) funcDecl() *ast.FuncDecl {
	return it.decl.(*ast.FuncDecl)
}

func (it *Item) genDecl() *ast.GenDecl {
	return it.decl.(*ast.GenDecl)
}

func (it *Item) typeSpec() *ast.TypeSpec {
	return it.genDecl().Specs[0].(*ast.TypeSpec)
}

func (it *Item) valueSpec() *ast.ValueSpec {
	return it.genDecl().Specs[0].(*ast.ValueSpec)
}

// commentsWithin returns the comment groups that belong to decl, excluding
// its doc comment.
func commentsWithin(decl ast.Decl, all []*ast.CommentGroup) []*ast.CommentGroup {
	beg, end := decl.Pos(), decl.End()
	owned := map[*ast.CommentGroup]bool{}
	ast.Inspect(decl, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.ValueSpec:
			owned[n.Comment] = true
		case *ast.TypeSpec:
			owned[n.Comment] = true
		case *ast.Field:
			owned[n.Comment] = true
		}
		return true
	})
	var out []*ast.CommentGroup
	for _, c := range all {
		if (c.Pos() >= beg && c.End() <= end) || owned[c] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pos() < out[j].Pos() })
	return out
}

func identNames(idents []*ast.Ident) []string {
	names := make([]string, 0, len(idents))
	for _, id := range idents {
		names = append(names, id.Name)
	}
	return names
}

func specNames(spec ast.Spec) []string {
	switch s := spec.(type) {
	case *ast.TypeSpec:
		return []string{s.Name.Name}
	case *ast.ValueSpec:
		return identNames(s.Names)
	}
	return nil
}

func renameIdents(idents []*ast.Ident, v Visibility) {
	for _, id := range idents {
		if id.Name == "_" {
			continue
		}
		id.Name = Rename(id.Name, v)
	}
}

func widest(names []string) Visibility {
	vis := Private
	for _, name := range names {
		if v := VisibilityOf(name); v > vis {
			vis = v
		}
	}
	return vis
}

// ReceiverBase returns the type name of a method receiver expression,
// without pointer, type arguments or parentheses.
func ReceiverBase(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return ReceiverBase(t.X)
	case *ast.IndexExpr:
		return ReceiverBase(t.X)
	case *ast.IndexListExpr:
		return ReceiverBase(t.X)
	case *ast.ParenExpr:
		return ReceiverBase(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}
