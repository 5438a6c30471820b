package item

// Kind is one of the closed set of declaration shapes an Item can take.
type Kind uint8

const (
	// TypeAlias is `type A = B`.
	TypeAlias Kind = iota + 1
	// Enum is a defined type that is neither a struct nor an interface,
	// which is how Go spells the type of an enumeration (`type Color int`).
	Enum
	// Struct is `type S struct{...}`.
	Struct
	// Func is a function or method declaration.
	Func
	// Module is a parenthesized declaration group: `const (...)`,
	// `var (...)` or `type (...)`. Members are never rewritten.
	Module
	// Trait is `type I interface{...}`.
	Trait
	// Const is a single `const` declaration.
	Const
	// Static is a single package-level `var` declaration.
	Static
	// Import is a re-export of another package's item:
	// `type T = pkg.T`, `var F = pkg.F` or `const C = pkg.C`.
	Import
)

var kindNames = map[Kind]string{
	TypeAlias: "type-alias",
	Enum:      "enum",
	Struct:    "struct",
	Func:      "func",
	Module:    "module",
	Trait:     "trait",
	Const:     "const",
	Static:    "static",
	Import:    "import",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{TypeAlias, Enum, Struct, Func, Module, Trait, Const, Static, Import}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}
