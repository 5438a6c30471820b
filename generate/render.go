package generate

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// render produces the formatted source of o. The header and package clause
// come from jennifer; imports, declarations and shims follow as text and
// the whole file is parsed once more to drop the imports it does not use.
func (res *fileResult) render(o *output) ([]byte, error) {
	f := jen.NewFile(res.pkg)
	if o.constraint != nil {
		f.HeaderComment("//go:build " + o.constraint.String())
	}
	f.HeaderComment(generatedMarker)
	if o.base && res.doc != nil {
		f.PackageComment(commentText(res.doc))
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering header of %s: %w", o.path, err)
	}

	if specs := res.importSpecs(o.base); len(specs) > 0 {
		buf.WriteString("\nimport (\n")
		for _, spec := range specs {
			buf.WriteString("\t")
			buf.WriteString(spec)
			buf.WriteString("\n")
		}
		buf.WriteString(")\n")
	}
	for _, decl := range o.decls {
		buf.WriteString("\n")
		buf.Write(decl)
		if !bytes.HasSuffix(decl, []byte("\n")) {
			buf.WriteString("\n")
		}
	}
	for _, shim := range o.shims {
		fmt.Fprintf(&buf, "\n%#v\n", shim)
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, o.path, buf.Bytes(), parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("generated code for %s does not parse: %w", o.path, err)
	}
	pruneImports(fset, file)

	var out bytes.Buffer
	if err := format.Node(&out, fset, file); err != nil {
		return nil, fmt.Errorf("formatting %s: %w", o.path, err)
	}
	formatted, err := imports.Process(o.path, out.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting imports of %s: %w", o.path, err)
	}
	return formatted, nil
}

// importSpecs returns the source imports as they should appear in an
// output. Blank imports only go to the base output so their side effects
// are not tied to a feature.
func (res *fileResult) importSpecs(base bool) []string {
	var specs []string
	for _, imp := range res.imports {
		name := importName(imp)
		if name == "_" && !base {
			continue
		}
		if imp.Name != nil {
			specs = append(specs, imp.Name.Name+" "+imp.Path.Value)
			continue
		}
		specs = append(specs, imp.Path.Value)
	}
	return specs
}

// hasBlankImports reports whether the source carries side effect imports.
func (res *fileResult) hasBlankImports() bool {
	for _, imp := range res.imports {
		if imp.Name != nil && imp.Name.Name == "_" {
			return true
		}
	}
	return false
}

// commentText returns a comment group as raw comment lines, which
// jennifer writes through unchanged.
func commentText(cg *ast.CommentGroup) string {
	lines := make([]string, 0, len(cg.List))
	for _, c := range cg.List {
		lines = append(lines, c.Text)
	}
	return strings.Join(lines, "\n")
}
