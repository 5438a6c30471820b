package item

import "strings"

// Lint names a linter whose findings are suppressed on the hidden copy of
// an unstable item.
type Lint string

const (
	// LintUnused covers unused declarations.
	LintUnused Lint = "unused"
	// LintUnusedImport covers re-exports that nothing refers to.
	LintUnusedImport Lint = "unusedimport"
)

// LintTable maps kinds to their lint allowance sets. Kinds missing from the
// table fall back to the default entry.
type LintTable struct {
	Default []Lint
	ByKind  map[Kind][]Lint
}

// DefaultLintTable suppresses unused-import findings on re-exports and
// unused-declaration findings on everything else.
func DefaultLintTable() LintTable {
	return LintTable{
		Default: []Lint{LintUnused},
		ByKind: map[Kind][]Lint{
			Import: {LintUnusedImport},
		},
	}
}

// Lookup returns the allowance set for k.
func (t LintTable) Lookup(k Kind) []Lint {
	if lints, ok := t.ByKind[k]; ok {
		return append([]Lint(nil), lints...)
	}
	return append([]Lint(nil), t.Default...)
}

// NolintDirective returns the directive attribute suppressing lints, or
// false when there is nothing to suppress.
func NolintDirective(lints []Lint) (Attribute, bool) {
	if len(lints) == 0 {
		return Attribute{}, false
	}
	names := make([]string, 0, len(lints))
	for _, l := range lints {
		names = append(names, string(l))
	}
	return DirectiveAttr("nolint:" + strings.Join(names, ",")), true
}
