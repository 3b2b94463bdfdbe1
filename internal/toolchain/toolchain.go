// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolchain describes and runs the external binaries the build
// pipeline shells out to: pandoc, the pandoc-mermaid filter, latexmk, and
// mmdc.
// Implements: docs/ARCHITECTURE § Toolchain (R1-R5).
package toolchain

import (
	"strings"

	"github.com/pdiddy/marktex/pkg/types"
)

// Default binary names.
const (
	binPandoc        = "pandoc"
	binMermaidFilter = "pandoc-mermaid"
	binLatexmk       = "latexmk"
	binMmdc          = "mmdc"
)

// Tool describes one external binary: how to find it, what it is for, and
// how to install it when missing.
type Tool struct {
	Name string // stable descriptor name
	Bin  string // binary name or path override from config
	Role string // one-line purpose, shown by the doctor report
	Hint string // install remediation, shown when missing

	// versionArgs probe the tool's version for the doctor report. Left nil
	// for bare pandoc filters, which would block reading stdin.
	versionArgs []string
}

// Set holds the toolchain descriptors after config overrides.
type Set struct {
	Pandoc        Tool
	MermaidFilter Tool
	Latexmk       Tool
	Mmdc          Tool
}

// NewSet builds the descriptor set, substituting configured binary
// overrides for the default names.
func NewSet(cfg types.ToolsConfig) Set {
	return Set{
		Pandoc: Tool{
			Name:        binPandoc,
			Bin:         override(cfg.Pandoc, binPandoc),
			Role:        "Markdown conversion",
			Hint:        "sudo apt-get install pandoc",
			versionArgs: []string{"--version"},
		},
		MermaidFilter: Tool{
			Name: binMermaidFilter,
			Bin:  override(cfg.MermaidFilter, binMermaidFilter),
			Role: "mermaid diagram filter for pandoc",
			Hint: "uv tool install --from pandoc-mermaid-filter pandoc-mermaid-filter",
		},
		Latexmk: Tool{
			Name:        binLatexmk,
			Bin:         override(cfg.Latexmk, binLatexmk),
			Role:        "LaTeX to PDF compilation",
			Hint:        "sudo apt-get install texlive-full",
			versionArgs: []string{"--version"},
		},
		Mmdc: Tool{
			Name:        binMmdc,
			Bin:         override(cfg.Mmdc, binMmdc),
			Role:        "mermaid diagram rendering, invoked by the filter",
			Hint:        "npm install -g @mermaid-js/mermaid-cli",
			versionArgs: []string{"--version"},
		},
	}
}

func override(configured, fallback string) string {
	if configured != "" {
		return configured
	}
	return fallback
}

// All returns the descriptors in report order.
func (s Set) All() []Tool {
	return []Tool{s.Pandoc, s.MermaidFilter, s.Latexmk, s.Mmdc}
}

// Status reports one tool's availability.
type Status struct {
	Tool    Tool
	Path    string // resolved path, empty when missing
	Version string // first line of version output, best effort
	Err     error
}

// OK reports whether the tool was found on PATH.
func (s Status) OK() bool { return s.Err == nil }

// Check resolves a single tool and, where safe, probes its version.
func Check(exec Executor, tool Tool) Status {
	st := Status{Tool: tool}
	path, err := exec.LookPath(tool.Bin)
	if err != nil {
		st.Err = err
		return st
	}
	st.Path = path
	if tool.versionArgs != nil {
		// Version output goes to stdout for every tool here; failures
		// leave the field empty rather than flagging the tool missing.
		if out, _, err := exec.Capture("", tool.Bin, tool.versionArgs...); err == nil {
			st.Version = firstLine(out)
		}
	}
	return st
}

// CheckAll resolves every tool in the set.
func CheckAll(exec Executor, set Set) []Status {
	tools := set.All()
	statuses := make([]Status, 0, len(tools))
	for _, tool := range tools {
		statuses = append(statuses, Check(exec, tool))
	}
	return statuses
}

// Missing filters statuses down to the tools that were not found.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, st := range statuses {
		if !st.OK() {
			missing = append(missing, st)
		}
	}
	return missing
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
