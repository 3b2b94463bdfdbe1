// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compile implements LaTeX to PDF compilation through latexmk.
// Implements: docs/ARCHITECTURE § Compilation (R1-R4).
package compile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/marktex/internal/toolchain"
)

// Compiler produces a PDF from a LaTeX document.
type Compiler interface {
	Compile(texPath, pdfPath string) error
}

// Latexmk is the production Compiler. Every compilation runs in a private
// scratch directory so aux files never pollute the output tree.
type Latexmk struct {
	tool toolchain.Tool
	exec toolchain.Executor

	// AssetDir names a directory of rendered diagram images to stage into
	// the scratch directory before compiling. Relative paths resolve
	// against the working directory, where the mermaid filter writes
	// mermaid-images.
	AssetDir string
}

// NewLatexmk wires a Compiler to the configured latexmk binary.
func NewLatexmk(set toolchain.Set, exec toolchain.Executor) *Latexmk {
	return &Latexmk{tool: set.Latexmk, exec: exec, AssetDir: "mermaid-images"}
}

func (l *Latexmk) Compile(texPath, pdfPath string) error {
	scratch, err := os.MkdirTemp("", "marktex-compile-*")
	if err != nil {
		return fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	texName := filepath.Base(texPath)
	if err := copyFile(texPath, filepath.Join(scratch, texName)); err != nil {
		return fmt.Errorf("staging %s: %w", texName, err)
	}
	if err := l.stageAssets(scratch); err != nil {
		return err
	}

	args := []string{"-xelatex", "-interaction=nonstopmode", "-output-directory=" + scratch, texName}
	_, stderr, err := l.exec.Capture(scratch, l.tool.Bin, args...)
	if err != nil {
		return toolchain.NewRunError(l.tool, stderr, err)
	}

	// A clean exit without the PDF still counts as a tool failure.
	produced := filepath.Join(scratch, strings.TrimSuffix(texName, filepath.Ext(texName))+".pdf")
	if _, err := os.Stat(produced); err != nil {
		return toolchain.NewRunError(l.tool, stderr, errors.New("produced no PDF"))
	}
	if err := moveFile(produced, pdfPath); err != nil {
		return fmt.Errorf("collecting PDF: %w", err)
	}
	return nil
}

// stageAssets copies the diagram image directory into the scratch dir when
// it exists, so relative \includegraphics paths keep resolving.
func (l *Latexmk) stageAssets(scratch string) error {
	if l.AssetDir == "" {
		return nil
	}
	info, err := os.Stat(l.AssetDir)
	if err != nil || !info.IsDir() {
		return nil
	}
	dst := filepath.Join(scratch, filepath.Base(l.AssetDir))
	if err := copyTree(l.AssetDir, dst); err != nil {
		return fmt.Errorf("staging %s: %w", l.AssetDir, err)
	}
	return nil
}

// moveFile renames, falling back to copy-and-remove: the scratch directory
// usually lives on a different filesystem than the output tree.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}
