package item

import (
	"go/ast"
	"go/token"
	"go/types"
	"unicode"
)

// Visibility is the accessibility of a declared name.
type Visibility uint8

const (
	// Private names cannot be referenced at all: the blank identifier.
	Private Visibility = iota
	// Package names are visible inside the defining package only.
	Package
	// Public names are exported.
	Public
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Package:
		return "package"
	case Public:
		return "public"
	}
	return "unknown"
}

// VisibilityOf reports the visibility implied by an identifier.
func VisibilityOf(name string) Visibility {
	switch {
	case name == "_":
		return Private
	case ast.IsExported(name):
		return Public
	default:
		return Package
	}
}

// Rename returns name spelled with visibility v. Names already at v are
// returned unchanged, so Rename is idempotent.
func Rename(name string, v Visibility) string {
	if VisibilityOf(name) == v {
		return name
	}
	switch v {
	case Private:
		return "_"
	case Public:
		if name == "_" {
			return name
		}
		return toTitle(name)
	case Package:
		if name == "_" {
			return name
		}
		lowered := unexport(name)
		if reserved(lowered) {
			lowered += "_"
		}
		return lowered
	}
	return name
}

// unexport lowers the leading upper-case run of s, keeping the last letter
// of an acronym that starts the next word: HTTPClient becomes httpClient.
func unexport(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	switch {
	case n <= 1:
		n = 1
	case n < len(r) && string(r[n:]) == "s":
		// plural acronym: IDs
	case n < len(r) && unicode.IsLetter(r[n]):
		n--
	}
	for i := 0; i < n; i++ {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

// toTitle capitalizes the first letter of a string.
func toTitle(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// reserved reports names that cannot be used for an ordinary package-level
// declaration without changing the meaning of the package.
func reserved(name string) bool {
	if token.IsKeyword(name) {
		return true
	}
	if name == "init" || name == "main" {
		return true
	}
	return types.Universe.Lookup(name) != nil
}
