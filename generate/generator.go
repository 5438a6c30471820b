// Package generate runs the unstable expansion over annotated Go source
// files and writes the per-build-tag outputs next to them.
//
// A source file opts in with the source build tag (by default
// `//go:build unstablegen`) so that it is never compiled itself. For
// risky.go the generator writes
//
//	risky_gen.go                        everything not gated by a feature
//	risky_unstable_x_gen.go             //go:build unstable_x
//	risky_unstable_x_off_gen.go         //go:build !unstable_x
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"runtime"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ecordell/unstablegen/config"
	"github.com/ecordell/unstablegen/diag"
)

// Generator expands the annotated sources of one or more directories.
type Generator struct {
	cfg *config.Config
}

// New creates a Generator. A nil cfg uses config.Default.
func New(cfg *config.Config) *Generator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Generator{cfg: cfg}
}

// File is one file the generator wrote, or would write in a dry run.
type File struct {
	Path    string
	Content []byte
}

// Result summarises a run.
type Result struct {
	Files    []File
	Removed  []string
	Entries  []Entry
	Warnings diag.List
}

// Features returns the expanded items grouped by feature.
func (r *Result) Features() []Feature {
	return Features(r.Entries)
}

// Run processes every directory in dirs. Diagnostics are returned as a
// multierr combination of *diag.Diagnostic values; directories that
// produced any are left untouched while the others are still written.
func (g *Generator) Run(ctx context.Context, dirs ...string) (*Result, error) {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	res := &Result{}
	var errs error
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		dr, err := g.runDir(ctx, dir)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		res.Files = append(res.Files, dr.Files...)
		res.Removed = append(res.Removed, dr.Removed...)
		res.Entries = append(res.Entries, dr.Entries...)
		res.Warnings = append(res.Warnings, dr.Warnings...)
	}
	res.Warnings.Sort()
	return res, errs
}

func (g *Generator) runDir(ctx context.Context, dir string) (*Result, error) {
	log := Logger().With(zap.String("dir", dir))

	pd, err := scanDir(dir, g.cfg.SourceTag)
	if err != nil {
		return nil, err
	}
	if len(pd.sources) == 0 {
		log.Debug("no annotated sources")
		return &Result{}, nil
	}

	opts := fileOptions{lints: g.cfg.Lints.Table(), aliases: g.cfg.InternalAliases}
	results := make([]*fileResult, len(pd.sources))

	eg, ctx := errgroup.WithContext(ctx)
	jobs := g.cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	eg.SetLimit(jobs)
	for i, src := range pd.sources {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.Debug("processing source", zap.String("file", src.path))
			results[i] = processFile(src, opts)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var diags diag.List
	for _, r := range results {
		diags = append(diags, r.diags...)
	}
	others, err := otherNames(pd.others)
	if err != nil {
		return nil, err
	}
	diags = append(diags, checkCollisions(results, others)...)

	files := map[string][]byte{}
	var order []string
	if !diags.HasErrors() {
		for _, r := range results {
			for _, o := range r.outputs {
				if o.empty() && !(o.base && (r.doc != nil || r.hasBlankImports())) {
					continue
				}
				content, err := r.render(o)
				if err != nil {
					diags.Add(diag.Errorf(token.Position{Filename: r.source.path}, diag.Source, "%v", err))
					continue
				}
				files[o.path] = content
				order = append(order, o.path)
			}
		}
	}
	diags.Sort()
	if err := diags.Err(); err != nil {
		log.Debug("not writing directory with errors", zap.Int("diagnostics", len(diags)))
		return nil, err
	}

	res := &Result{}
	for _, d := range diags {
		res.Warnings.Add(d)
	}
	for _, r := range results {
		res.Entries = append(res.Entries, r.entries...)
	}
	for _, path := range order {
		res.Files = append(res.Files, File{Path: path, Content: files[path]})
	}
	for _, path := range pd.generated {
		if _, ok := files[path]; !ok {
			res.Removed = append(res.Removed, path)
		}
	}
	sort.Strings(res.Removed)

	if g.cfg.DryRun {
		log.Info("dry run", zap.Int("files", len(res.Files)), zap.Int("stale", len(res.Removed)))
		return res, nil
	}
	if err := writeFiles(res.Files); err != nil {
		return nil, err
	}
	for _, path := range res.Removed {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("removing stale %s: %w", path, err)
		}
		log.Info("removed stale file", zap.String("path", path))
	}
	return res, nil
}

// writeFiles writes each file, skipping those whose content is unchanged.
func writeFiles(files []File) error {
	for _, f := range files {
		if old, err := os.ReadFile(f.Path); err == nil && bytes.Equal(old, f.Content) {
			Logger().Debug("unchanged", zap.String("path", f.Path))
			continue
		}
		if err := os.WriteFile(f.Path, f.Content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.Path, err)
		}
		Logger().Info("wrote", zap.String("path", f.Path))
	}
	return nil
}

// otherNames collects the package-level names of the directory's ordinary
// files.
func otherNames(paths []string) ([]declName, error) {
	var names []declName
	for _, path := range paths {
		fset := token.NewFileSet()
		f, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		for _, decl := range f.Decls {
			names = append(names, declNames(f.Name.Name, decl)...)
		}
	}
	return names, nil
}

// checkCollisions reports hidden names that clash with any other name of
// their package, and build tags claimed by two different features.
func checkCollisions(results []*fileResult, others []declName) diag.List {
	var diags diag.List
	count := map[declName]int{}
	for _, n := range others {
		count[n]++
	}
	tags := map[string]tagUse{}
	for _, r := range results {
		for _, n := range r.declared {
			count[n]++
		}
		for _, h := range r.hidden {
			count[h.declName]++
		}
		for tag, use := range r.tags {
			if prev, ok := tags[tag]; ok && prev.feature != use.feature {
				diags.Add(diag.Errorf(use.pos, diag.Collision,
					"unstable: features %q and %q both map to build tag %q (first used at %s)",
					prev.feature, use.feature, tag, prev.pos))
				continue
			}
			tags[tag] = use
		}
	}
	for _, r := range results {
		for _, h := range r.hidden {
			if count[h.declName] < 2 {
				continue
			}
			what := h.name
			if h.receiver != "" {
				what = h.receiver + "." + h.name
			}
			diags.Add(diag.Errorf(h.pos, diag.Collision,
				"unstable: hidden name %s of %s is already declared in package %s", what, h.visible, h.pkg))
		}
		for _, f := range r.fields {
			if count[f.declName] == 0 {
				continue
			}
			diags.Add(diag.Errorf(f.pos, diag.Collision,
				"unstable: field %s becomes %s.%s when hidden, which is already declared in package %s",
				f.visible, f.receiver, f.name, f.pkg))
		}
	}
	return diags
}

// asDiagnostics splits a combined error into diagnostics.
func asDiagnostics(err error) []*diag.Diagnostic {
	var out []*diag.Diagnostic
	for _, e := range multierr.Errors(err) {
		var d *diag.Diagnostic
		if errors.As(e, &d) {
			out = append(out, d)
			continue
		}
		out = append(out, diag.Errorf(token.Position{}, diag.Source, "%v", e))
	}
	return out
}
