// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mirror resolves where generated artifacts land. Under a repository
// root that means the mirrored PDF/ and TEX/ trees plus the flat recent/
// folder; without one, outputs sit beside the source.
// Implements: docs/ARCHITECTURE § Output Layout (R1-R7).
package mirror

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Mirror folder names under the repository root.
const (
	PDFDir    = "PDF"
	TEXDir    = "TEX"
	RecentDir = "recent"
)

const gitMarker = ".git"

// Resolver computes OutputSets. The zero value auto-discovers the repository
// root and strips no source-root prefixes.
type Resolver struct {
	// ExplicitRoot pins the repository root instead of discovering it. It
	// must be a directory that contains the source file.
	ExplicitRoot string

	// SourceRoots lists nested documentation roots, relative to the
	// repository root, whose prefix is stripped from the mirrored path.
	// With "docs" listed, docs/work/alpha.md mirrors to PDF/work/alpha.pdf.
	SourceRoots []string
}

// OutputSet holds the destination paths for one source file. Both primary
// paths are always computed; the output mode decides which get produced.
type OutputSet struct {
	// Source is the absolute path of the input file.
	Source string

	// RepoRoot is the repository root, or empty in simple mode.
	RepoRoot string

	// PDF and TEX are the primary artifact paths.
	PDF string
	TEX string

	// Recent is the recent/ directory under RepoRoot, or empty in simple mode.
	Recent string
}

// Mirrored reports whether the set uses the mirrored folder convention.
func (s OutputSet) Mirrored() bool { return s.RepoRoot != "" }

// RecentPath returns the flat recent/ destination for an artifact: its base
// name only, regardless of how deeply the primary path nests. Empty in
// simple mode.
func (s OutputSet) RecentPath(artifact string) string {
	if s.Recent == "" {
		return ""
	}
	return filepath.Join(s.Recent, filepath.Base(artifact))
}

// Resolve computes the OutputSet for sourcePath. It fails when the source is
// missing, unreadable, or not a regular file, and when an explicit root does
// not contain it. A missing repository root is not an error: the set
// degrades to simple mode with outputs beside the source.
func (r Resolver) Resolve(sourcePath string) (OutputSet, error) {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return OutputSet{}, fmt.Errorf("resolving %s: %w", sourcePath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return OutputSet{}, err
	}
	if !info.Mode().IsRegular() {
		return OutputSet{}, fmt.Errorf("not a regular file: %s", abs)
	}
	// Readable means openable, not merely present.
	f, err := os.Open(abs)
	if err != nil {
		return OutputSet{}, fmt.Errorf("opening %s: %w", abs, err)
	}
	f.Close()

	root, err := r.root(abs)
	if err != nil {
		return OutputSet{}, err
	}

	set := OutputSet{Source: abs, RepoRoot: root}
	if root == "" {
		stem := strings.TrimSuffix(abs, filepath.Ext(abs))
		set.PDF = stem + ".pdf"
		set.TEX = stem + ".tex"
		return set, nil
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return OutputSet{}, fmt.Errorf("source %s is outside repository root %s", abs, root)
	}
	rel = r.stripAnchors(rel)
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))

	set.PDF = filepath.Join(root, PDFDir, stem+".pdf")
	set.TEX = filepath.Join(root, TEXDir, stem+".tex")
	set.Recent = filepath.Join(root, RecentDir)
	return set, nil
}

// root returns the repository root for abs, or "" when none applies.
func (r Resolver) root(abs string) (string, error) {
	if r.ExplicitRoot == "" {
		return FindRoot(filepath.Dir(abs)), nil
	}
	root, err := filepath.Abs(r.ExplicitRoot)
	if err != nil {
		return "", fmt.Errorf("resolving repository root %s: %w", r.ExplicitRoot, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("repository root is not a directory: %s", root)
	}
	return root, nil
}

// stripAnchors removes a leading mirror-folder component, so a source living
// under PDF/, TEX/, or recent/ cannot nest another mirror level, and then one
// configured source-root prefix.
func (r Resolver) stripAnchors(rel string) string {
	slash := filepath.ToSlash(rel)
	if i := strings.IndexByte(slash, '/'); i > 0 {
		switch slash[:i] {
		case PDFDir, TEXDir, RecentDir:
			slash = slash[i+1:]
		}
	}
	for _, root := range r.SourceRoots {
		prefix := strings.Trim(filepath.ToSlash(root), "/") + "/"
		if prefix != "/" && strings.HasPrefix(slash, prefix) && len(slash) > len(prefix) {
			slash = slash[len(prefix):]
			break
		}
	}
	return filepath.FromSlash(slash)
}

// FindRoot walks upward from dir looking for the repository root: first the
// nearest ancestor holding both a PDF/ and a TEX/ directory, then the
// nearest holding a .git marker. Returns "" when neither exists.
func FindRoot(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	if root := ascend(abs, hasMirrorDirs); root != "" {
		return root
	}
	return ascend(abs, hasGitMarker)
}

// ascend walks from dir to the filesystem root, returning the first
// directory the marker predicate accepts.
func ascend(dir string, marker func(string) bool) string {
	for {
		if marker(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func hasMirrorDirs(dir string) bool {
	return isDir(filepath.Join(dir, PDFDir)) && isDir(filepath.Join(dir, TEXDir))
}

// hasGitMarker accepts both directories and files: linked worktrees and
// submodules use a .git file.
func hasGitMarker(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, gitMarker))
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// EnsureDirs creates the parent directories of both primary artifacts and,
// in mirrored mode, the recent/ directory. Idempotent.
func (s OutputSet) EnsureDirs() error {
	dirs := []string{filepath.Dir(s.PDF), filepath.Dir(s.TEX)}
	if s.Recent != "" {
		dirs = append(dirs, s.Recent)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// CopyToRecent copies an existing artifact into recent/ under its base name,
// overwriting any prior file of that name. It is a no-op in simple mode and
// when the artifact does not exist. Returns the destination path, or ""
// when nothing was copied.
func (s OutputSet) CopyToRecent(artifact string) (string, error) {
	dst := s.RecentPath(artifact)
	if dst == "" {
		return "", nil
	}
	if _, err := os.Stat(artifact); err != nil {
		return "", nil
	}
	if err := os.MkdirAll(s.Recent, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", s.Recent, err)
	}
	if err := copyFile(artifact, dst); err != nil {
		return "", fmt.Errorf("copying %s to recent: %w", filepath.Base(artifact), err)
	}
	return dst, nil
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
