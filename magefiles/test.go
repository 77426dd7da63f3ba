//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs the unit tests of every package.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs the unit tests with the race detector.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}

// Runs the tests that need no window or GL driver.
func (Test) Headless() error {
	_, err := executeCmd("go", withArgs("test",
		"./engine/containers/...",
		"./engine/core/...",
		"./engine/math/...",
		"./engine/assets/...",
		"./engine/systems/...",
		"./engine/renderer",
		"./engine/renderer/metadata/...",
		"./engine/renderer/shadestyle/...",
		"./engine/renderer/glsl/...",
		"./engine/renderer/nullgl/...",
	), withStream())
	return err
}
