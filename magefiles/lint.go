//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Lint mg.Namespace

// Go runs golangci-lint on the codebase
func (Lint) Go() error {
	fmt.Println("Running golangci-lint...")
	return sh.RunV("golangci-lint", "run", "--timeout=5m", "./...")
}

// Format checks if code is properly formatted
func (Lint) Format() error {
	fmt.Println("Checking code formatting...")
	out, err := sh.Output("gofmt", "-l", "-s", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Example vets the example package on both sides of its feature tag, since
// each build sees a different half of the generated files
func (Lint) Example() error {
	fmt.Println("Vetting example without unstable features...")
	if err := sh.RunV("go", "vet", "./example"); err != nil {
		return err
	}
	fmt.Println("Vetting example with unstable_shout...")
	return sh.RunV("go", "vet", "-tags", "unstable_shout", "./example")
}

// All runs all linting checks
func (Lint) All() error {
	mg.Deps(Lint.Go, Lint.Format, Lint.Example)
	return nil
}
