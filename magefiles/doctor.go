//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Doctor builds the CLI and reports which external tools are installed.
func Doctor() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "doctor")
}

const demoDoc = `---
title: Marktex Demo
---

# Marktex Demo

A tiny document exercising the full pipeline.

` + "```mermaid" + `
graph TD
    md[Markdown] --> tex[LaTeX]
    tex --> pdf[PDF]
` + "```" + `
`

// Demo seeds a demo repository under demo/ and builds the sample document
// through the real toolchain. Requires pandoc, the mermaid filter, and
// latexmk on PATH.
func Demo() error {
	mg.Deps(Build)
	for _, dir := range outputDirs {
		if err := os.MkdirAll(filepath.Join("demo", dir), 0o755); err != nil {
			return fmt.Errorf("creating demo/%s: %w", dir, err)
		}
	}
	src := filepath.Join("demo", "notes", "sample.md")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(src), err)
	}
	if err := os.WriteFile(src, []byte(demoDoc), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", src, err)
	}
	bin, err := filepath.Abs(filepath.Join(binDir, binName))
	if err != nil {
		return err
	}
	return sh.RunV(bin, "build", "--repo-root", "demo", src)
}
