//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the shade style demo in a window.
func (Run) Demo() error {
	mg.Deps(Build.All)
	fmt.Println("Run demo...")
	if _, err := executeCmd("go", withArgs("run", "main.go"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the demo with the configuration file at path, e.g. a null backend one.
func (Run) Config(path string) error {
	mg.Deps(Build.All)
	if _, err := executeCmd("go", withArgs("run", "main.go", "-config", path), withStream()); err != nil {
		return err
	}
	return nil
}
