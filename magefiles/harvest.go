//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Harvest builds the CLI and runs a harvest for today.
func Harvest() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "run")
}

// DryRun builds the CLI and lists today's candidates without mutating anything.
func DryRun() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "scan")
}
