//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Test mg.Namespace

// Unit runs all unit tests
func (Test) Unit() error {
	fmt.Println("Running unit tests...")
	return sh.RunV("go", "test", "-v", "./...")
}

// Coverage runs tests with coverage report
func (Test) Coverage() error {
	fmt.Println("Running tests with coverage...")
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Example tests the example package with and without its feature enabled
func (Test) Example() error {
	fmt.Println("Testing example without unstable features...")
	if err := sh.RunV("go", "test", "./example"); err != nil {
		return err
	}
	fmt.Println("Testing example with unstable_shout...")
	return sh.RunV("go", "test", "-tags", "unstable_shout", "./example")
}

// All runs all tests and checks
func (Test) All() error {
	mg.Deps(Test.Unit, Test.Example)
	return nil
}
