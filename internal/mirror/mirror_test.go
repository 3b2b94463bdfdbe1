// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mirror

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func writeFile(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("# doc\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindRoot(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, base string)
		start string
		want  string // relative to base; "" means no root
	}{
		{
			name:  "mirror pair at top",
			setup: func(t *testing.T, base string) { mkdirs(t, base, "PDF", "TEX", "a/b") },
			start: "a/b",
			want:  ".",
		},
		{
			name:  "nearest mirror pair wins",
			setup: func(t *testing.T, base string) { mkdirs(t, base, "PDF", "TEX", "sub/PDF", "sub/TEX", "sub/deep") },
			start: "sub/deep",
			want:  "sub",
		},
		{
			name:  "git marker fallback",
			setup: func(t *testing.T, base string) { mkdirs(t, base, ".git", "a/b") },
			start: "a/b",
			want:  ".",
		},
		{
			name: "git file accepted",
			setup: func(t *testing.T, base string) {
				mkdirs(t, base, "a")
				writeFile(t, filepath.Join(base, ".git"))
			},
			start: "a",
			want:  ".",
		},
		{
			name:  "mirror pair beats nearer git marker",
			setup: func(t *testing.T, base string) { mkdirs(t, base, "PDF", "TEX", "repo/.git", "repo/docs") },
			start: "repo/docs",
			want:  ".",
		},
		{
			name:  "lone PDF dir is not a marker",
			setup: func(t *testing.T, base string) { mkdirs(t, base, "PDF", "a") },
			start: "a",
			want:  "",
		},
		{
			name:  "no marker anywhere",
			setup: func(t *testing.T, base string) { mkdirs(t, base, "a/b/c") },
			start: "a/b/c",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			tt.setup(t, base)
			got := FindRoot(filepath.Join(base, tt.start))
			want := ""
			if tt.want != "" {
				want = filepath.Join(base, tt.want)
			}
			if got != want {
				t.Errorf("FindRoot() = %q, want %q", got, want)
			}
		})
	}
}

func TestResolveMirrored(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base, "PDF", "TEX")
	src := writeFile(t, filepath.Join(base, "work", "proposals", "alpha.md"))

	set, err := Resolver{}.Resolve(src)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !set.Mirrored() {
		t.Fatal("expected mirrored set")
	}
	if set.RepoRoot != base {
		t.Errorf("RepoRoot = %q, want %q", set.RepoRoot, base)
	}
	if want := filepath.Join(base, "PDF", "work", "proposals", "alpha.pdf"); set.PDF != want {
		t.Errorf("PDF = %q, want %q", set.PDF, want)
	}
	if want := filepath.Join(base, "TEX", "work", "proposals", "alpha.tex"); set.TEX != want {
		t.Errorf("TEX = %q, want %q", set.TEX, want)
	}
	if want := filepath.Join(base, "recent"); set.Recent != want {
		t.Errorf("Recent = %q, want %q", set.Recent, want)
	}

	// Same input, same answer.
	again, err := Resolver{}.Resolve(src)
	if err != nil {
		t.Fatalf("second Resolve() error: %v", err)
	}
	if again != set {
		t.Errorf("Resolve() not stable: %+v vs %+v", again, set)
	}
}

func TestResolveSourceRoots(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base, "docs/PDF", "docs/TEX")
	src := writeFile(t, filepath.Join(base, "docs", "work", "proposals", "alpha.md"))

	// The docs/ tree is itself the repository root here, so the source-root
	// prefix has already been consumed by root discovery.
	set, err := Resolver{}.Resolve(src)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if want := filepath.Join(base, "docs", "PDF", "work", "proposals", "alpha.pdf"); set.PDF != want {
		t.Errorf("PDF = %q, want %q", set.PDF, want)
	}

	// With the outer repo as root, a configured source root strips the
	// leading docs/ component instead.
	mkdirs(t, base, "PDF", "TEX")
	set, err = Resolver{ExplicitRoot: base, SourceRoots: []string{"docs"}}.Resolve(src)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if want := filepath.Join(base, "PDF", "work", "proposals", "alpha.pdf"); set.PDF != want {
		t.Errorf("PDF = %q, want %q", set.PDF, want)
	}
	if want := filepath.Join(base, "TEX", "work", "proposals", "alpha.tex"); set.TEX != want {
		t.Errorf("TEX = %q, want %q", set.TEX, want)
	}
}

func TestResolveStripsMirrorHead(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base, "PDF", "TEX")

	tests := []struct{ src, wantPDF string }{
		{"TEX/report.md", "PDF/report.pdf"},
		{"PDF/notes/x.md", "PDF/notes/x.pdf"},
		{"recent/y.md", "PDF/y.pdf"},
	}
	for _, tt := range tests {
		src := writeFile(t, filepath.Join(base, filepath.FromSlash(tt.src)))
		set, err := Resolver{}.Resolve(src)
		if err != nil {
			t.Fatalf("Resolve(%s) error: %v", tt.src, err)
		}
		if want := filepath.Join(base, filepath.FromSlash(tt.wantPDF)); set.PDF != want {
			t.Errorf("Resolve(%s).PDF = %q, want %q", tt.src, set.PDF, want)
		}
	}
}

func TestResolveSimpleMode(t *testing.T) {
	base := t.TempDir()
	src := writeFile(t, filepath.Join(base, "notes.md"))

	set, err := Resolver{}.Resolve(src)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if set.Mirrored() {
		t.Fatal("expected simple mode")
	}
	if want := filepath.Join(base, "notes.pdf"); set.PDF != want {
		t.Errorf("PDF = %q, want %q", set.PDF, want)
	}
	if want := filepath.Join(base, "notes.tex"); set.TEX != want {
		t.Errorf("TEX = %q, want %q", set.TEX, want)
	}
	if set.Recent != "" {
		t.Errorf("Recent = %q, want empty", set.Recent)
	}
	if got := set.RecentPath(set.PDF); got != "" {
		t.Errorf("RecentPath() = %q, want empty", got)
	}
}

func TestResolveExplicitRoot(t *testing.T) {
	base := t.TempDir()
	src := writeFile(t, filepath.Join(base, "repo", "guide.md"))

	set, err := Resolver{ExplicitRoot: filepath.Join(base, "repo")}.Resolve(src)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if want := filepath.Join(base, "repo", "PDF", "guide.pdf"); set.PDF != want {
		t.Errorf("PDF = %q, want %q", set.PDF, want)
	}

	// A root that does not contain the source is a hard error.
	other := filepath.Join(base, "elsewhere")
	mkdirs(t, base, "elsewhere")
	if _, err := (Resolver{ExplicitRoot: other}).Resolve(src); err == nil {
		t.Error("expected error for source outside explicit root")
	} else if !strings.Contains(err.Error(), "outside repository root") {
		t.Errorf("unexpected error: %v", err)
	}

	// So is a root that is not a directory.
	if _, err := (Resolver{ExplicitRoot: src}).Resolve(src); err == nil {
		t.Error("expected error for file as explicit root")
	}
}

func TestResolveRejectsBadSources(t *testing.T) {
	base := t.TempDir()

	if _, err := (Resolver{}).Resolve(filepath.Join(base, "missing.md")); err == nil {
		t.Error("expected error for missing source")
	}

	mkdirs(t, base, "dir.md")
	if _, err := (Resolver{}).Resolve(filepath.Join(base, "dir.md")); err == nil {
		t.Error("expected error for directory source")
	}
}

func TestEnsureDirsIdempotent(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base, "PDF", "TEX")
	src := writeFile(t, filepath.Join(base, "a", "b", "deep.md"))

	set, err := Resolver{}.Resolve(src)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := set.EnsureDirs(); err != nil {
			t.Fatalf("EnsureDirs() pass %d: %v", i+1, err)
		}
	}
	for _, dir := range []string{filepath.Dir(set.PDF), filepath.Dir(set.TEX), set.Recent} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("missing output dir %s", dir)
		}
	}
}

func TestCopyToRecent(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base, "PDF", "TEX")
	src := writeFile(t, filepath.Join(base, "work", "alpha.md"))

	set, err := Resolver{}.Resolve(src)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if err := set.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(set.PDF, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst, err := set.CopyToRecent(set.PDF)
	if err != nil {
		t.Fatalf("CopyToRecent() error: %v", err)
	}
	if want := filepath.Join(base, "recent", "alpha.pdf"); dst != want {
		t.Errorf("destination = %q, want %q", dst, want)
	}

	// Overwrites on repeat, keeps the flat name.
	if err := os.WriteFile(set.PDF, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := set.CopyToRecent(set.PDF); err != nil {
		t.Fatalf("second CopyToRecent() error: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "v2" {
		t.Errorf("recent copy = %q, want %q", data, "v2")
	}

	// Missing artifact is skipped without error.
	if dst, err := set.CopyToRecent(filepath.Join(base, "PDF", "ghost.pdf")); err != nil || dst != "" {
		t.Errorf("CopyToRecent(missing) = (%q, %v), want no-op", dst, err)
	}

	// Simple mode has no recent folder.
	simple := OutputSet{Source: src, PDF: set.PDF, TEX: set.TEX}
	if dst, err := simple.CopyToRecent(set.PDF); err != nil || dst != "" {
		t.Errorf("simple CopyToRecent() = (%q, %v), want no-op", dst, err)
	}
}
