package generate

import (
	"bytes"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/printer"
	"go/token"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"

	"github.com/ecordell/unstablegen/diag"
	"github.com/ecordell/unstablegen/directive"
	"github.com/ecordell/unstablegen/item"
	"github.com/ecordell/unstablegen/unstable"
)

// output is one generated file under construction.
type output struct {
	path       string
	constraint constraint.Expr
	base       bool
	decls      [][]byte
	shims      []*jen.Statement
}

func (o *output) empty() bool {
	return len(o.decls) == 0 && len(o.shims) == 0
}

// declName is a package-level name introduced by a source file, scoped to
// its package clause and, for methods, its receiver.
type declName struct {
	pkg      string
	receiver string
	name     string
}

// hiddenDecl records a name that exists only because an item was hidden.
type hiddenDecl struct {
	declName
	visible string
	pos     token.Position
}

// fileResult is everything one annotated source contributes to its
// directory.
type fileResult struct {
	source  sourceFile
	pkg     string
	doc     *ast.CommentGroup
	imports []*ast.ImportSpec
	fset    *token.FileSet

	outputs  []*output
	declared []declName
	hidden   []hiddenDecl
	fields   []hiddenDecl
	entries  []Entry
	tags     map[string]tagUse
	diags    diag.List
}

type tagUse struct {
	feature string
	pos     token.Position
}

// fileOptions are the per-run settings processFile needs.
type fileOptions struct {
	lints   item.LintTable
	aliases bool
}

func (o fileOptions) expanderOptions() []unstable.ExpanderOption {
	return []unstable.ExpanderOption{
		unstable.WithLints(o.lints),
		unstable.WithHiddenVisibility(item.Package),
	}
}

// processFile parses one annotated source and expands every annotated
// declaration in it. Problems are reported in the result's diagnostics.
func processFile(src sourceFile, opts fileOptions) *fileResult {
	res := &fileResult{source: src, fset: token.NewFileSet(), tags: map[string]tagUse{}}
	log := Logger().With(zap.String("file", src.path))

	f, err := parser.ParseFile(res.fset, src.path, nil, parser.ParseComments)
	if err != nil {
		res.diags.Add(diag.Errorf(token.Position{Filename: src.path}, diag.Source, "parse: %v", err))
		return res
	}
	res.pkg = f.Name.Name
	res.doc = f.Doc
	res.imports = f.Imports
	res.diags = append(res.diags, checkImports(res.fset, f)...)

	paths := newOutputPaths(src.path)
	base := &output{path: paths.base(), constraint: src.extra, base: true}
	res.outputs = append(res.outputs, base)
	byPath := map[string]*output{}
	outputFor := func(path string, expr constraint.Expr) *output {
		if o, ok := byPath[path]; ok {
			return o
		}
		o := &output{path: path, constraint: and(src.extra, expr)}
		byPath[path] = o
		res.outputs = append(res.outputs, o)
		return o
	}

	// directives that were consumed or reported; the rest are stray
	handled := map[*ast.Comment]bool{}

	for _, decl := range f.Decls {
		doc := declDoc(decl)
		if gd, ok := decl.(*ast.GenDecl); ok && gd.Lparen.IsValid() {
			res.checkGroupSpecs(gd, handled)
		}
		markDirectives(doc, handled)

		dir, rest, err := directive.Extract(res.fset, doc)
		if err != nil {
			res.addErr(err)
			continue
		}
		if dir == nil {
			if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
				continue
			}
			var buf bytes.Buffer
			cfg := printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}
			if err := cfg.Fprint(&buf, res.fset, &printer.CommentedNode{Node: decl, Comments: f.Comments}); err != nil {
				res.diags.Add(diag.Errorf(res.fset.Position(decl.Pos()), diag.Source, "printing declaration: %v", err))
				continue
			}
			base.decls = append(base.decls, buf.Bytes())
			res.declared = append(res.declared, declNames(res.pkg, decl)...)
			continue
		}

		setDeclDoc(decl, rest)
		it, err := item.FromDecl(res.fset, f, decl)
		if err != nil {
			res.addErr(err)
			continue
		}

		variants := unstable.Expand(dir.Config, it, opts.expanderOptions()...)
		if len(variants) == 1 {
			log.Debug("passing through non-public item", zap.String("item", it.Name()), zap.Stringer("kind", it.Kind()))
			if err := appendItem(base, variants[0].Item); err != nil {
				res.addErr(err)
				continue
			}
			res.declared = append(res.declared, declNames(res.pkg, decl)...)
			continue
		}

		tag := dir.Config.BuildTag()
		if prev, ok := res.tags[tag]; ok && prev.feature != dir.Config.FeatureName() {
			res.diags.Add(diag.Errorf(dir.Pos, diag.Collision,
				"unstable: features %q and %q both map to build tag %q (first used at %s)",
				prev.feature, dir.Config.FeatureName(), tag, prev.pos))
			continue
		}
		res.tags[tag] = tagUse{feature: dir.Config.FeatureName(), pos: dir.Pos}

		visible, hidden := variants[0].Item, variants[1].Item
		on := outputFor(paths.enabled(tag), variants[0].Constraint)
		off := outputFor(paths.disabled(tag), variants[1].Constraint)
		if err := appendItem(on, visible); err != nil {
			res.addErr(err)
			continue
		}
		if err := appendItem(off, hidden); err != nil {
			res.addErr(err)
			continue
		}
		res.recordExpansion(dir, visible, hidden)

		if opts.aliases {
			if shim := aliasShim(visible, hidden, opts.lints.Lookup(visible.Kind())); shim != nil {
				on.shims = append(on.shims, shim)
			}
		}
		log.Debug("expanded item",
			zap.String("item", visible.Name()),
			zap.Stringer("kind", visible.Kind()),
			zap.String("tag", tag))
	}

	for _, cg := range f.Comments {
		for _, c := range cg.List {
			if directive.Is(c) && !handled[c] {
				res.diags.Add(diag.Warnf(res.fset.Position(c.Slash), diag.Unsupported,
					"unstable: directive is not attached to a top-level declaration and has no effect"))
			}
		}
	}
	return res
}

// checkGroupSpecs reports directives on the members of a declaration group.
// A group is expanded as a whole, so its members cannot be split across
// build tags.
func (res *fileResult) checkGroupSpecs(gd *ast.GenDecl, handled map[*ast.Comment]bool) {
	for _, spec := range gd.Specs {
		var doc *ast.CommentGroup
		switch s := spec.(type) {
		case *ast.TypeSpec:
			doc = s.Doc
		case *ast.ValueSpec:
			doc = s.Doc
		}
		if !directive.Has(doc) {
			continue
		}
		for _, c := range doc.List {
			if directive.Is(c) {
				handled[c] = true
				res.diags.Add(diag.Errorf(res.fset.Position(c.Slash), diag.Unsupported,
					"unstable: %s on a member of a %s group; annotate the whole group or move the declaration out of it",
					directive.API, gd.Tok))
			}
		}
	}
}

func (res *fileResult) recordExpansion(dir *directive.Directive, visible, hidden *item.Item) {
	for i, name := range hidden.Names() {
		vis := visible.Names()[i]
		if name == vis || name == "_" {
			continue
		}
		res.hidden = append(res.hidden, hiddenDecl{
			declName: declName{pkg: res.pkg, receiver: visible.Receiver(), name: name},
			visible:  vis,
			pos:      visible.Pos(),
		})
	}
	for _, name := range visible.Names() {
		res.declared = append(res.declared, declName{pkg: res.pkg, receiver: visible.Receiver(), name: name})
	}
	res.recordFields(visible, hidden)
	res.entries = append(res.entries, Entry{
		Feature:  dir.Config.FeatureName(),
		Tag:      dir.Config.BuildTag(),
		Issue:    dir.Config.Issue,
		Kind:     visible.Kind().String(),
		Name:     visible.Name(),
		Receiver: visible.Receiver(),
		Hidden:   hidden.Name(),
		Pos:      visible.Pos().String(),
		File:     res.source.path,
		line:     visible.Pos().Line,
	})
}

// recordFields checks the fields a hidden struct had to lower. A lowered
// field must not land on a name the struct already has; whether it lands on
// a method is only known once the whole package is read.
func (res *fileResult) recordFields(visible, hidden *item.Item) {
	visFields, hidFields := visible.Fields(), hidden.Fields()
	seen := map[string]int{}
	for _, f := range hidFields {
		seen[f.Name]++
	}
	for i, f := range hidFields {
		vis := visFields[i]
		if f.Name == vis.Name {
			continue
		}
		if seen[f.Name] > 1 {
			res.diags.Add(diag.Errorf(vis.Pos, diag.Collision,
				"unstable: field %s of %s becomes %s when hidden, which %s already declares",
				vis.Name, visible.Name(), f.Name, visible.Name()))
			continue
		}
		res.fields = append(res.fields, hiddenDecl{
			declName: declName{pkg: res.pkg, receiver: hidden.Name(), name: f.Name},
			visible:  visible.Name() + "." + vis.Name,
			pos:      vis.Pos,
		})
	}
}

func (res *fileResult) addErr(err error) {
	for _, d := range asDiagnostics(err) {
		res.diags.Add(d)
	}
}

func appendItem(o *output, it *item.Item) error {
	var buf bytes.Buffer
	if _, err := it.WriteTo(&buf); err != nil {
		return diag.Errorf(it.Pos(), diag.Source, "printing %s: %v", it.Name(), err)
	}
	o.decls = append(o.decls, buf.Bytes())
	return nil
}

func declDoc(decl ast.Decl) *ast.CommentGroup {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		return d.Doc
	case *ast.GenDecl:
		if d.Doc == nil && !d.Lparen.IsValid() && len(d.Specs) == 1 {
			switch s := d.Specs[0].(type) {
			case *ast.TypeSpec:
				return s.Doc
			case *ast.ValueSpec:
				return s.Doc
			}
		}
		return d.Doc
	}
	return nil
}

func setDeclDoc(decl ast.Decl, doc *ast.CommentGroup) {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		d.Doc = doc
	case *ast.GenDecl:
		if d.Doc == nil && !d.Lparen.IsValid() && len(d.Specs) == 1 {
			switch s := d.Specs[0].(type) {
			case *ast.TypeSpec:
				s.Doc = doc
				return
			case *ast.ValueSpec:
				s.Doc = doc
				return
			}
		}
		d.Doc = doc
	}
}

func markDirectives(doc *ast.CommentGroup, handled map[*ast.Comment]bool) {
	if doc == nil {
		return
	}
	for _, c := range doc.List {
		if directive.Is(c) {
			handled[c] = true
		}
	}
}

// declNames lists the package-level names decl introduces.
func declNames(pkg string, decl ast.Decl) []declName {
	var names []declName
	switch d := decl.(type) {
	case *ast.FuncDecl:
		var recv string
		if d.Recv != nil && len(d.Recv.List) > 0 {
			recv = item.ReceiverBase(d.Recv.List[0].Type)
		}
		if d.Recv == nil && d.Name.Name == "init" {
			return nil
		}
		names = append(names, declName{pkg: pkg, receiver: recv, name: d.Name.Name})
	case *ast.GenDecl:
		if d.Tok == token.IMPORT {
			return nil
		}
		for _, spec := range d.Specs {
			switch s := spec.(type) {
			case *ast.TypeSpec:
				names = append(names, declName{pkg: pkg, name: s.Name.Name})
			case *ast.ValueSpec:
				for _, id := range s.Names {
					if id.Name != "_" {
						names = append(names, declName{pkg: pkg, name: id.Name})
					}
				}
			}
		}
	}
	return names
}
