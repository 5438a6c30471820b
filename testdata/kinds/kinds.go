//go:build unstablegen

// Package kinds gates one declaration of every supported shape.
package kinds

import (
	"io"
	"strings"
)

// Pair is a shorthand for a two-element array.
//unstable:api feature:"shapes"
type Pair = [2]int

// Color is an enumeration.
//unstable:api feature:"shapes"
type Color int

// Options configures a walk.
//unstable:api feature:"shapes"
type Options struct {
	Depth  int
	follow bool
}

// Walk visits every node down to depth.
//unstable:api feature:"shapes" issue:"https://example.com/issues/7"
func Walk(depth int) int {
	return depth
}

// Known colors.
//unstable:api feature:"shapes"
const (
	Red = iota
	Green
)

// Visitor is called for every node.
//unstable:api feature:"shapes"
type Visitor interface {
	Visit(n int) error
}

// MaxDepth bounds Walk.
//unstable:api feature:"shapes"
const MaxDepth = 64

// Verbose turns on logging.
//unstable:api feature:"shapes"
var Verbose = false

// Reader is re-exported for callers of Walk.
//unstable:api feature:"shapes"
type Reader = io.Reader

// Upper is re-exported too.
//unstable:api feature:"shapes"
var Upper = strings.ToUpper
