// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// Mode selects which artifacts a build produces.
// Per docs/ARCHITECTURE § Build Pipeline (R1-R3).
type Mode string

const (
	// ModeBoth converts Markdown to LaTeX, compiles the LaTeX to PDF, and
	// keeps both artifacts. This is the default.
	ModeBoth Mode = "both"

	// ModePDFOnly converts Markdown straight to PDF, skipping the LaTeX
	// intermediate.
	ModePDFOnly Mode = "pdf-only"

	// ModeTEXOnly converts Markdown to LaTeX and stops before compilation.
	ModeTEXOnly Mode = "tex-only"
)

// WantsPDF reports whether the mode produces a PDF artifact.
func (m Mode) WantsPDF() bool { return m == ModeBoth || m == ModePDFOnly }

// WantsTEX reports whether the mode produces a LaTeX artifact.
func (m Mode) WantsTEX() bool { return m == ModeBoth || m == ModeTEXOnly }

// ParseMode maps the two exclusive CLI flags onto a Mode. Setting both flags
// is an error; setting neither selects ModeBoth.
func ParseMode(pdfOnly, texOnly bool) (Mode, error) {
	switch {
	case pdfOnly && texOnly:
		return "", fmt.Errorf("--pdf-only and --tex-only are mutually exclusive")
	case pdfOnly:
		return ModePDFOnly, nil
	case texOnly:
		return ModeTEXOnly, nil
	default:
		return ModeBoth, nil
	}
}

// BuildStatus indicates the outcome of one file's build.
type BuildStatus string

const (
	BuildDone   BuildStatus = "built"
	BuildFailed BuildStatus = "failed"
)

// BuildRecord captures one attempted build for the journal.
type BuildRecord struct {
	Source   string      `json:"source" yaml:"source"`
	Title    string      `json:"title,omitempty" yaml:"title,omitempty"`
	RepoRoot string      `json:"repo_root,omitempty" yaml:"repo_root,omitempty"`
	Mode     Mode        `json:"mode" yaml:"mode"`
	Status   BuildStatus `json:"status" yaml:"status"`
	PDFPath  string      `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`
	TEXPath  string      `json:"tex_path,omitempty" yaml:"tex_path,omitempty"`

	// Detail holds failure diagnostics, empty on success.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`

	Duration time.Duration `json:"duration" yaml:"duration"`

	// CreatedAt is assigned by the journal when the record lands.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
