// Package unstable expands items annotated as unstable API into two variants
// guarded by complementary build constraints.
//
// A public item is emitted unchanged, plus an availability note in its
// documentation, when the feature's build tag is set:
//
//	//go:build unstable_risky_function
//
//	// RiskyFunction does something really risky!
//	//
//	// # Availability
//	//
//	// This API is marked as unstable and is only available when the
//	// `unstable-risky-function` feature is enabled ...
//	func RiskyFunction() {}
//
// Without the tag, the same item is emitted with package visibility so that
// code inside the package keeps compiling while downstream users cannot
// reach it:
//
//	//go:build !unstable_risky_function
//
//	// RiskyFunction does something really risky!
//	// ...
//	//nolint:unused
//	func riskyFunction() {}
//
// Items that are not public are passed through untouched. Children of
// container items (declaration groups, interface methods) are never
// rewritten.
package unstable
