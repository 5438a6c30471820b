//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Gen mg.Namespace

// Example regenerates the example package's unstable API
func (Gen) Example() error {
	fmt.Println("Regenerating example unstable API...")
	return sh.RunV("go", "generate", "./example")
}

// Features lists the unstable features of the example package
func (Gen) Features() error {
	return sh.RunV("go", "run", ".", "features", "./example")
}

// Verify regenerates examples and checks if files changed
func (Gen) Verify() error {
	fmt.Println("Verifying generated files are up to date...")
	mg.Deps(Gen.Example)

	// Check if git shows any changes
	out, err := sh.Output("git", "status", "--porcelain", "example/")
	if err != nil {
		return err
	}

	if out != "" {
		return fmt.Errorf("generated files are out of date, run 'mage gen:example'")
	}

	fmt.Println("Generated files are up to date!")
	return nil
}
