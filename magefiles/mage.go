//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

// Default target runs tests
var Default = Test.All

// CI builds the binary, then runs every check against it
func CI() error {
	fmt.Println("Running CI checks...")
	mg.SerialDeps(Build.Binary, Gen.Verify)
	mg.Deps(Test.All, Lint.All)
	return nil
}
