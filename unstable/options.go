package unstable

import "github.com/ecordell/unstablegen/item"

// Expander carries the settings Expand applies to every item.
type Expander struct {
	// HiddenVisibility is the visibility of the copy compiled when the
	// feature is off.
	HiddenVisibility item.Visibility

	// Lints overrides the default lint allowance table when set.
	Lints *item.LintTable
}

type ExpanderOption func(e *Expander)

// NewExpanderWithOptions creates a new Expander with the passed in options set
func NewExpanderWithOptions(opts ...ExpanderOption) *Expander {
	e := &Expander{HiddenVisibility: item.Package}
	for _, o := range opts {
		o(e)
	}
	return e
}

// WithHiddenVisibility returns an option that can set HiddenVisibility on an Expander
func WithHiddenVisibility(v item.Visibility) ExpanderOption {
	return func(e *Expander) {
		e.HiddenVisibility = v
	}
}

// WithLints returns an option that can set Lints on an Expander
func WithLints(table item.LintTable) ExpanderOption {
	return func(e *Expander) {
		e.Lints = &table
	}
}
