// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements Markdown conversion through pandoc.
// Implements: docs/ARCHITECTURE § Conversion (R1-R4).
package convert

import (
	"fmt"
	"os"

	"github.com/pdiddy/marktex/internal/toolchain"
)

// Converter turns a Markdown source into LaTeX or PDF. The production
// implementation shells out to pandoc; tests substitute fakes.
type Converter interface {
	// ToTeX converts src into a standalone LaTeX document at dst.
	ToTeX(src, dst string, mermaid bool) error

	// ToPDF converts src straight to a PDF at dst, skipping the TEX stage.
	ToPDF(src, dst string, mermaid bool) error
}

// Pandoc is the production Converter.
type Pandoc struct {
	tool   toolchain.Tool
	filter toolchain.Tool
	exec   toolchain.Executor
}

// NewPandoc wires a Converter to the configured pandoc and filter binaries.
func NewPandoc(set toolchain.Set, exec toolchain.Executor) *Pandoc {
	return &Pandoc{tool: set.Pandoc, filter: set.MermaidFilter, exec: exec}
}

func (p *Pandoc) ToTeX(src, dst string, mermaid bool) error {
	args := []string{src, "--from=markdown", "--to=latex", "--standalone"}
	args = p.withFilter(args, mermaid)
	return p.run(dst, append(args, "-o", dst))
}

func (p *Pandoc) ToPDF(src, dst string, mermaid bool) error {
	args := p.withFilter([]string{src, "--from=markdown"}, mermaid)
	return p.run(dst, append(args, "-o", dst))
}

// withFilter routes conversion through the mermaid filter only when the
// source actually contains mermaid fences; the filter spawns mmdc per
// diagram and is wasted work otherwise.
func (p *Pandoc) withFilter(args []string, mermaid bool) []string {
	if mermaid {
		args = append(args, "--filter", p.filter.Bin)
	}
	return args
}

// run executes pandoc in the caller's working directory, where the mermaid
// filter drops its rendered images. A clean exit without the expected output
// file still counts as a tool failure.
func (p *Pandoc) run(dst string, args []string) error {
	_, stderr, err := p.exec.Capture("", p.tool.Bin, args...)
	if err != nil {
		return toolchain.NewRunError(p.tool, stderr, err)
	}
	if _, err := os.Stat(dst); err != nil {
		return toolchain.NewRunError(p.tool, stderr, fmt.Errorf("produced no output at %s", dst))
	}
	return nil
}
