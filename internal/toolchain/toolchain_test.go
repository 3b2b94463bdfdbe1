// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolchain

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/pdiddy/marktex/pkg/types"
)

type captureResult struct {
	stdout string
	stderr string
	err    error
}

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool          // binary -> whether LookPath succeeds
	captures      map[string]captureResult // "bin arg1 arg2" -> result
	calls         []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Capture(dir, name string, args ...string) (string, string, error) {
	key := name + " " + strings.Join(args, " ")
	m.calls = append(m.calls, key)
	res, ok := m.captures[key]
	if !ok {
		return "", "", errors.New("unexpected command: " + key)
	}
	return res.stdout, res.stderr, res.err
}

func TestNewSetDefaults(t *testing.T) {
	set := NewSet(types.ToolsConfig{})
	wantBins := map[string]string{
		set.Pandoc.Bin:        "pandoc",
		set.MermaidFilter.Bin: "pandoc-mermaid",
		set.Latexmk.Bin:       "latexmk",
		set.Mmdc.Bin:          "mmdc",
	}
	for got, want := range wantBins {
		if got != want {
			t.Errorf("default bin = %q, want %q", got, want)
		}
	}
	for _, tool := range set.All() {
		if tool.Hint == "" {
			t.Errorf("tool %s has no install hint", tool.Name)
		}
	}
}

func TestNewSetOverrides(t *testing.T) {
	set := NewSet(types.ToolsConfig{
		Pandoc:  "/opt/pandoc/bin/pandoc",
		Latexmk: "latexmk-dev",
	})
	if set.Pandoc.Bin != "/opt/pandoc/bin/pandoc" {
		t.Errorf("Pandoc.Bin = %q, want override", set.Pandoc.Bin)
	}
	if set.Latexmk.Bin != "latexmk-dev" {
		t.Errorf("Latexmk.Bin = %q, want override", set.Latexmk.Bin)
	}
	if set.Mmdc.Bin != "mmdc" {
		t.Errorf("Mmdc.Bin = %q, want default", set.Mmdc.Bin)
	}
	// The descriptor name stays stable even when the binary moves.
	if set.Pandoc.Name != "pandoc" {
		t.Errorf("Pandoc.Name = %q, want %q", set.Pandoc.Name, "pandoc")
	}
}

func TestCheck(t *testing.T) {
	set := NewSet(types.ToolsConfig{})

	t.Run("found with version", func(t *testing.T) {
		exec := &mockExecutor{
			availableBins: map[string]bool{"pandoc": true},
			captures: map[string]captureResult{
				"pandoc --version": {stdout: "pandoc 3.1.11\nCompiled with ...\n"},
			},
		}
		st := Check(exec, set.Pandoc)
		if !st.OK() {
			t.Fatalf("unexpected error: %v", st.Err)
		}
		if st.Path != "/usr/bin/pandoc" {
			t.Errorf("Path = %q", st.Path)
		}
		if st.Version != "pandoc 3.1.11" {
			t.Errorf("Version = %q, want first line only", st.Version)
		}
	})

	t.Run("filter is never version-probed", func(t *testing.T) {
		exec := &mockExecutor{availableBins: map[string]bool{"pandoc-mermaid": true}}
		st := Check(exec, set.MermaidFilter)
		if !st.OK() {
			t.Fatalf("unexpected error: %v", st.Err)
		}
		if len(exec.calls) != 0 {
			t.Errorf("filter probe ran commands: %v", exec.calls)
		}
	})

	t.Run("version probe failure is not fatal", func(t *testing.T) {
		exec := &mockExecutor{
			availableBins: map[string]bool{"latexmk": true},
			captures:      map[string]captureResult{},
		}
		st := Check(exec, set.Latexmk)
		if !st.OK() {
			t.Fatalf("unexpected error: %v", st.Err)
		}
		if st.Version != "" {
			t.Errorf("Version = %q, want empty", st.Version)
		}
	})

	t.Run("missing tool", func(t *testing.T) {
		exec := &mockExecutor{}
		st := Check(exec, set.Mmdc)
		if st.OK() {
			t.Fatal("expected missing tool")
		}
		if st.Path != "" {
			t.Errorf("Path = %q, want empty", st.Path)
		}
	})
}

func TestCheckAllAndMissing(t *testing.T) {
	set := NewSet(types.ToolsConfig{})
	exec := &mockExecutor{
		availableBins: map[string]bool{"pandoc": true, "latexmk": true},
		captures: map[string]captureResult{
			"pandoc --version":  {stdout: "pandoc 3.1.11"},
			"latexmk --version": {stdout: "Latexmk, John Collins, 4.83"},
		},
	}
	statuses := CheckAll(exec, set)
	if len(statuses) != 4 {
		t.Fatalf("got %d statuses, want 4", len(statuses))
	}
	missing := Missing(statuses)
	if len(missing) != 2 {
		t.Fatalf("got %d missing, want 2", len(missing))
	}
	names := []string{missing[0].Tool.Name, missing[1].Tool.Name}
	if names[0] != "pandoc-mermaid" || names[1] != "mmdc" {
		t.Errorf("missing = %v", names)
	}
}

func TestNewRunError(t *testing.T) {
	set := NewSet(types.ToolsConfig{})

	notFound := &exec.Error{Name: "pandoc-mermaid", Err: exec.ErrNotFound}
	re := NewRunError(set.MermaidFilter, "", notFound)
	if re.Hint == "" {
		t.Error("expected install hint for missing binary")
	}
	if !strings.Contains(re.Error(), "install via: uv tool install") {
		t.Errorf("Error() = %q", re.Error())
	}
	if !errors.Is(re, exec.ErrNotFound) {
		t.Error("RunError should unwrap to exec.ErrNotFound")
	}

	failed := NewRunError(set.Latexmk, "! LaTeX Error: File `missing.sty' not found.\n", errors.New("exit status 12"))
	if failed.Hint != "" {
		t.Errorf("Hint = %q, want empty for a tool that ran", failed.Hint)
	}
	if !strings.Contains(failed.Error(), "latexmk") {
		t.Errorf("Error() = %q", failed.Error())
	}
	if !strings.Contains(failed.Diagnostics(), "missing.sty") {
		t.Errorf("Diagnostics() = %q", failed.Diagnostics())
	}
}
