// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolchain

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Executor abstracts subprocess execution for testing.
type Executor interface {
	// LookPath resolves a binary name against PATH.
	LookPath(file string) (string, error)

	// Capture runs a command with dir as its working directory ("" keeps
	// the caller's) and returns what it wrote to stdout and stderr.
	Capture(dir, name string, args ...string) (stdout, stderr string, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Capture(dir, name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	return out.String(), errOut.String(), err
}

var defaultExec = &osExecutor{}

// System returns the production Executor.
func System() Executor { return defaultExec }

// RunError reports an external tool invocation that failed. Tool failures
// mark the affected file as failed without aborting the rest of a batch.
type RunError struct {
	Tool   string // descriptor name, e.g. "pandoc"
	Hint   string // install remediation, set when the binary was missing
	Stderr string // what the tool wrote before exiting, empty when missing
	Err    error
}

// NewRunError classifies a subprocess failure, attaching the tool's install
// hint when the binary itself could not be found.
func NewRunError(tool Tool, stderr string, err error) *RunError {
	re := &RunError{Tool: tool.Name, Stderr: stderr, Err: err}
	if errors.Is(err, exec.ErrNotFound) {
		re.Hint = tool.Hint
		re.Stderr = ""
	}
	return re
}

func (e *RunError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s not found (install via: %s)", e.Tool, e.Hint)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Diagnostics returns the captured stderr, trimmed, for display under a
// failure line. Empty when the tool never ran.
func (e *RunError) Diagnostics() string {
	return strings.TrimSpace(e.Stderr)
}
