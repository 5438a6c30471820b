package unstable

import (
	"fmt"
	"go/build/constraint"

	"github.com/ecordell/unstablegen/item"
)

// Item is the capability set the expansion needs. *item.Item satisfies it.
type Item[T any] interface {
	Attributes() []item.Attribute
	AppendAttribute(item.Attribute)
	Visibility() item.Visibility
	SetVisibility(item.Visibility)
	IsPublic() bool
	AllowedLints() []item.Lint
	Kind() item.Kind
	Clone() T
}

// Variant is one generated copy of an item together with the build
// constraint it is compiled under. A nil Constraint means unconditional.
type Variant[T any] struct {
	Constraint constraint.Expr
	Item       T
}

// Hidden reports whether v is the copy compiled when the feature is off.
func (v Variant[T]) Hidden() bool {
	_, ok := v.Constraint.(*constraint.NotExpr)
	return ok
}

// Availability returns the documentation appended to unstable items.
func Availability(cfg Config) string {
	doc := fmt.Sprintf("\n"+
		"# Availability\n"+
		"\n"+
		"This API is marked as unstable and is only available when the `%s` feature is enabled "+
		"(build tag `%s`). This comes with no stability guarantees, and could be changed or "+
		"removed at any time.",
		cfg.FeatureName(), cfg.BuildTag())
	if cfg.Issue != "" {
		doc += fmt.Sprintf("\nThe tracking issue is: `%s`", cfg.Issue)
	}
	return doc
}

// Expand rewrites it according to cfg.
//
// A non-public item is returned as a single unconditional variant, exactly as
// it came in. A public item gains an availability section in its
// documentation and is returned twice: as is, constrained on the feature's
// build tag, and as a clone with narrowed visibility and suppressed lints,
// constrained on the negation of the tag.
func Expand[T Item[T]](cfg Config, it T, opts ...ExpanderOption) []Variant[T] {
	e := NewExpanderWithOptions(opts...)

	if !it.IsPublic() {
		return []Variant[T]{{Item: it}}
	}

	it.AppendAttribute(item.DocAttr(Availability(cfg)))

	hidden := it.Clone()
	hidden.SetVisibility(e.HiddenVisibility)
	lints := it.AllowedLints()
	if e.Lints != nil {
		lints = e.Lints.Lookup(it.Kind())
	}
	if nolint, ok := item.NolintDirective(lints); ok {
		hidden.AppendAttribute(nolint)
	}

	tag := &constraint.TagExpr{Tag: cfg.BuildTag()}
	return []Variant[T]{
		{Constraint: tag, Item: it},
		{Constraint: &constraint.NotExpr{X: tag}, Item: hidden},
	}
}
