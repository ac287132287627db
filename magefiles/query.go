//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Query builds the CLI and runs it against PubMed, printing a table.
// Example: mage query "crispr[Title] AND 2023[dp]"
func Query(query string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), query, "--format", "table")
}

// Registry builds the CLI and prints the built-in indicator registry.
func Registry() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "registry")
}
