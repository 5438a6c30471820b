// Package example gates a small API behind the unstable-shout feature.
//
// risky.go is the annotated source; the *_gen.go files next to it are
// regenerated with
//
//	go generate ./example
//
// Importers see Shout only when they build with -tags unstable_shout.
// Announce uses the package level name shout, which exists in both builds.
package example

//go:generate go run github.com/ecordell/unstablegen .
