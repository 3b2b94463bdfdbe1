// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source classifies and inspects build inputs.
// Implements: docs/ARCHITECTURE § Source Inspection (R1-R5).
package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"go.yaml.in/yaml/v3"
)

// ErrTeXPlanned marks .tex input: accepted on the CLI surface, not built yet.
var ErrTeXPlanned = errors.New("building from .tex sources is planned but not implemented")

// ErrUnsupportedType marks input that is neither Markdown nor TeX.
var ErrUnsupportedType = errors.New("unsupported source type")

// CheckSupported classifies path by extension. Markdown passes, .tex reports
// ErrTeXPlanned, and everything else wraps ErrUnsupportedType.
func CheckSupported(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return nil
	case ".tex":
		return ErrTeXPlanned
	default:
		return fmt.Errorf("%w: %q (expected .md)", ErrUnsupportedType, filepath.Ext(path))
	}
}

// Doc holds what a build needs to know about a Markdown source before any
// tool runs.
type Doc struct {
	// Title comes from the YAML frontmatter title field, falling back to
	// the first heading and then to the file name stem.
	Title string

	// MermaidFences counts ```mermaid code blocks. A non-zero count means
	// conversion must route through the mermaid filter.
	MermaidFences int
}

// Inspect reads a Markdown source and extracts its Doc. Binary content is
// rejected before parsing.
func Inspect(path string) (Doc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Doc{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(raw) > 0 && !isText(mimetype.Detect(raw)) {
		return Doc{}, fmt.Errorf("%s: binary content (%s), not a Markdown source", path, mimetype.Detect(raw))
	}

	doc := Doc{}
	meta, body := splitFrontmatter(raw)
	if len(meta) > 0 {
		var fm struct {
			Title string `yaml:"title"`
		}
		// Malformed frontmatter is not fatal; pandoc gets to complain later.
		if err := yaml.Unmarshal(meta, &fm); err == nil {
			doc.Title = strings.TrimSpace(fm.Title)
		}
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))
	var firstHeading string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if firstHeading == "" {
				firstHeading = strings.TrimSpace(string(node.Text(body)))
			}
		case *ast.FencedCodeBlock:
			if string(node.Language(body)) == "mermaid" {
				doc.MermaidFences++
			}
		}
		return ast.WalkContinue, nil
	})

	if doc.Title == "" {
		doc.Title = firstHeading
	}
	if doc.Title == "" {
		base := filepath.Base(path)
		doc.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return doc, nil
}

// isText walks the detection hierarchy: every textual type roots at
// text/plain.
func isText(m *mimetype.MIME) bool {
	for t := m; t != nil; t = t.Parent() {
		if t.Is("text/plain") {
			return true
		}
	}
	return false
}

// splitFrontmatter separates a leading YAML frontmatter block from the body.
// The block must open with "---" on the first line and close with "---" or
// "...". Without one, meta is nil and body is the whole input.
func splitFrontmatter(src []byte) (meta, body []byte) {
	const delim = "---"
	lines := bytes.SplitAfter(src, []byte("\n"))
	if len(lines) == 0 || strings.TrimRight(string(lines[0]), "\r\n") != delim {
		return nil, src
	}
	offset := len(lines[0])
	for _, line := range lines[1:] {
		trimmed := strings.TrimRight(string(line), "\r\n")
		if trimmed == delim || trimmed == "..." {
			return src[len(lines[0]):offset], src[offset+len(line):]
		}
		offset += len(line)
	}
	return nil, src
}
