package generate

import (
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// generatedMarker identifies files this tool wrote.
const generatedMarker = "Code generated by unstablegen. DO NOT EDIT."

// sourceFile is an annotated source file: one whose build constraint
// requires the source tag.
type sourceFile struct {
	path string
	// extra is what remains of the file's build constraint once the source
	// tag is removed, together with any GOOS and GOARCH its name implies.
	// Outputs end in _gen, so the name no longer carries those. Nil when the
	// source tag was the whole constraint.
	extra constraint.Expr
}

// packageDir is one directory's worth of Go files, split into annotated
// sources, output of a previous run and everything else.
type packageDir struct {
	dir       string
	sources   []sourceFile
	generated []string
	others    []string
}

// scanDir classifies the Go files in dir by reading their headers only.
func scanDir(dir, sourceTag string) (*packageDir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	pd := &packageDir{dir: dir}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		fset := token.NewFileSet()
		f, err := parser.ParseFile(fset, path, nil, parser.PackageClauseOnly|parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		if isOwnOutput(f) {
			pd.generated = append(pd.generated, path)
			continue
		}
		expr, err := buildConstraint(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if expr != nil {
			if extra, ok := withoutTag(expr, sourceTag); ok {
				pd.sources = append(pd.sources, sourceFile{path: path, extra: withFileNameTags(e.Name(), extra)})
				continue
			}
		}
		pd.others = append(pd.others, path)
	}
	sort.Slice(pd.sources, func(i, j int) bool { return pd.sources[i].path < pd.sources[j].path })
	return pd, nil
}

func isOwnOutput(f *ast.File) bool {
	if !ast.IsGenerated(f) {
		return false
	}
	for _, cg := range f.Comments {
		if cg.Pos() > f.Package {
			break
		}
		for _, c := range cg.List {
			if strings.Contains(c.Text, generatedMarker) {
				return true
			}
		}
	}
	return false
}

// buildConstraint returns the //go:build expression of f, or nil.
func buildConstraint(f *ast.File) (constraint.Expr, error) {
	for _, cg := range f.Comments {
		if cg.Pos() > f.Package {
			break
		}
		for _, c := range cg.List {
			if constraint.IsGoBuild(c.Text) {
				return constraint.Parse(c.Text)
			}
		}
	}
	return nil, nil
}

// withoutTag removes tag from expr. It succeeds only when expr requires tag:
// expr is the tag itself or a conjunction containing it.
func withoutTag(expr constraint.Expr, tag string) (constraint.Expr, bool) {
	switch e := expr.(type) {
	case *constraint.TagExpr:
		if e.Tag == tag {
			return nil, true
		}
	case *constraint.AndExpr:
		if rest, ok := withoutTag(e.X, tag); ok {
			return and(rest, e.Y), true
		}
		if rest, ok := withoutTag(e.Y, tag); ok {
			return and(e.X, rest), true
		}
	}
	return nil, false
}

// fileNameTags returns the GOOS and GOARCH a file name restricts the file
// to, following the *_GOOS, *_GOARCH and *_GOOS_GOARCH conventions of go
// build. The part before the first underscore never counts.
func fileNameTags(name string) []string {
	name = strings.TrimSuffix(name, ".go")
	i := strings.Index(name, "_")
	if i < 0 {
		return nil
	}
	parts := strings.Split(name[i:], "_")
	if n := len(parts); n > 0 && parts[n-1] == "test" {
		parts = parts[:n-1]
	}
	n := len(parts)
	if n >= 2 && knownOS[parts[n-2]] && knownArch[parts[n-1]] {
		return []string{parts[n-2], parts[n-1]}
	}
	if n >= 1 && (knownOS[parts[n-1]] || knownArch[parts[n-1]]) {
		return []string{parts[n-1]}
	}
	return nil
}

// withFileNameTags adds the file name's GOOS and GOARCH to extra unless
// extra already requires them.
func withFileNameTags(name string, extra constraint.Expr) constraint.Expr {
	var implied constraint.Expr
	for _, tag := range fileNameTags(name) {
		if extra != nil {
			if _, ok := withoutTag(extra, tag); ok {
				continue
			}
		}
		implied = and(implied, &constraint.TagExpr{Tag: tag})
	}
	return and(implied, extra)
}

// and joins two optional constraints.
func and(x, y constraint.Expr) constraint.Expr {
	switch {
	case x == nil:
		return y
	case y == nil:
		return x
	}
	return &constraint.AndExpr{X: x, Y: y}
}

// outputPaths returns where the outputs of a source file go.
type outputPaths struct {
	stem, suffix string
}

func newOutputPaths(sourcePath string) outputPaths {
	stem := strings.TrimSuffix(sourcePath, ".go")
	suffix := ".go"
	if strings.HasSuffix(stem, "_test") {
		stem = strings.TrimSuffix(stem, "_test")
		suffix = "_test.go"
	}
	return outputPaths{stem: stem, suffix: suffix}
}

func (p outputPaths) base() string {
	return p.stem + "_gen" + p.suffix
}

func (p outputPaths) enabled(tag string) string {
	return p.stem + "_" + tag + "_gen" + p.suffix
}

func (p outputPaths) disabled(tag string) string {
	return p.stem + "_" + tag + "_off_gen" + p.suffix
}

// knownOS and knownArch are the values go build recognises in file names.
var knownOS = map[string]bool{
	"aix": true, "android": true, "darwin": true, "dragonfly": true,
	"freebsd": true, "hurd": true, "illumos": true, "ios": true,
	"js": true, "linux": true, "nacl": true, "netbsd": true,
	"openbsd": true, "plan9": true, "solaris": true, "wasip1": true,
	"windows": true, "zos": true,
}

var knownArch = map[string]bool{
	"386": true, "amd64": true, "amd64p32": true, "arm": true,
	"armbe": true, "arm64": true, "arm64be": true, "loong64": true,
	"mips": true, "mipsle": true, "mips64": true, "mips64le": true,
	"mips64p32": true, "mips64p32le": true, "ppc": true, "ppc64": true,
	"ppc64le": true, "riscv": true, "riscv64": true, "s390": true,
	"s390x": true, "sparc": true, "sparc64": true, "wasm": true,
}
