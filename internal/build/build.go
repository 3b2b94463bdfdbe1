// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package build orchestrates the pipeline: resolve output paths, convert
// through pandoc, compile through latexmk, verify, and fan copies into
// recent/.
// Implements: docs/ARCHITECTURE § Build Pipeline (R1-R7).
package build

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/marktex/internal/compile"
	"github.com/pdiddy/marktex/internal/convert"
	"github.com/pdiddy/marktex/internal/mirror"
	"github.com/pdiddy/marktex/internal/source"
	"github.com/pdiddy/marktex/internal/toolchain"
	"github.com/pdiddy/marktex/pkg/types"
)

// Recorder receives the outcome of every attempted build. The journal
// implements it; a nil Recorder drops the records.
type Recorder interface {
	Record(rec types.BuildRecord) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(types.BuildRecord) error

func (f RecorderFunc) Record(rec types.BuildRecord) error { return f(rec) }

// Pipeline builds artifacts for Markdown sources. Construct with New.
type Pipeline struct {
	Resolver  mirror.Resolver
	Converter convert.Converter
	Compiler  compile.Compiler
	Mode      types.Mode
	Out       io.Writer

	// Recorder is optional; set it to journal build outcomes.
	Recorder Recorder

	pageCount func(string) (int, error)
}

// New assembles a Pipeline with the production PDF verifier.
func New(res mirror.Resolver, conv convert.Converter, comp compile.Compiler, mode types.Mode, out io.Writer) *Pipeline {
	return &Pipeline{
		Resolver:  res,
		Converter: conv,
		Compiler:  comp,
		Mode:      mode,
		Out:       out,
		pageCount: pdfapi.PageCountFile,
	}
}

// BuildFile runs the pipeline for one source, printing artifact status lines
// to the pipeline writer. The returned error is reserved for path problems,
// which abort the whole invocation; tool failures are printed, recorded, and
// reported through the status instead.
func (p *Pipeline) BuildFile(path string) (types.BuildStatus, error) {
	start := time.Now()
	fmt.Fprintf(p.Out, "building: %s\n", path)

	if err := source.CheckSupported(path); err != nil {
		return p.fail(types.BuildRecord{Source: path, Mode: p.Mode}, err, start), nil
	}

	set, err := p.Resolver.Resolve(path)
	if err != nil {
		return types.BuildFailed, err
	}

	rec := types.BuildRecord{
		Source:   set.Source,
		RepoRoot: set.RepoRoot,
		Mode:     p.Mode,
		PDFPath:  set.PDF,
		TEXPath:  set.TEX,
	}

	doc, err := source.Inspect(set.Source)
	if err != nil {
		return p.fail(rec, err, start), nil
	}
	rec.Title = doc.Title

	if err := set.EnsureDirs(); err != nil {
		return types.BuildFailed, err
	}

	if err := p.produce(set, doc); err != nil {
		return p.fail(rec, err, start), nil
	}

	rec.Status = types.BuildDone
	p.record(rec, start)
	return types.BuildDone, nil
}

// produce runs the mode-specific tool sequence. In the default mode the PDF
// comes from compiling the generated TEX; pdf-only skips the TEX stage and
// lets pandoc produce the PDF directly.
func (p *Pipeline) produce(set mirror.OutputSet, doc source.Doc) error {
	mermaid := doc.MermaidFences > 0

	switch p.Mode {
	case types.ModePDFOnly:
		if err := p.Converter.ToPDF(set.Source, set.PDF, mermaid); err != nil {
			return err
		}
		p.reportPDF(set.PDF)
		p.toRecent(set, set.PDF)

	case types.ModeTEXOnly:
		if err := p.Converter.ToTeX(set.Source, set.TEX, mermaid); err != nil {
			return err
		}
		fmt.Fprintf(p.Out, "tex: %s\n", set.TEX)
		p.toRecent(set, set.TEX)

	default:
		if err := p.Converter.ToTeX(set.Source, set.TEX, mermaid); err != nil {
			return err
		}
		fmt.Fprintf(p.Out, "tex: %s\n", set.TEX)
		if err := p.Compiler.Compile(set.TEX, set.PDF); err != nil {
			return err
		}
		p.reportPDF(set.PDF)
		p.toRecent(set, set.TEX)
		p.toRecent(set, set.PDF)
	}
	return nil
}

// reportPDF prints the pdf status line with the verified page count. A PDF
// that cannot be counted is reported but does not fail the build.
func (p *Pipeline) reportPDF(path string) {
	count, err := p.pageCount(path)
	switch {
	case err != nil:
		fmt.Fprintf(p.Out, "pdf: %s\n", path)
		fmt.Fprintf(p.Out, "warn: could not verify PDF (%v)\n", err)
	case count == 0:
		fmt.Fprintf(p.Out, "pdf: %s\n", path)
		fmt.Fprintf(p.Out, "warn: PDF has no pages\n")
	default:
		fmt.Fprintf(p.Out, "pdf: %s (%d pages)\n", path, count)
	}
}

func (p *Pipeline) toRecent(set mirror.OutputSet, artifact string) {
	dst, err := set.CopyToRecent(artifact)
	if err != nil {
		fmt.Fprintf(p.Out, "warn: %v\n", err)
		return
	}
	if dst != "" {
		fmt.Fprintf(p.Out, "recent: %s\n", filepath.Base(dst))
	}
}

func (p *Pipeline) fail(rec types.BuildRecord, err error, start time.Time) types.BuildStatus {
	fmt.Fprintf(p.Out, "failed:  %s (%v)\n", filepath.Base(rec.Source), err)
	rec.Detail = err.Error()
	var re *toolchain.RunError
	if errors.As(err, &re) && re.Diagnostics() != "" {
		fmt.Fprintln(p.Out, re.Diagnostics())
		rec.Detail = re.Diagnostics()
	}
	rec.Status = types.BuildFailed
	p.record(rec, start)
	return types.BuildFailed
}

func (p *Pipeline) record(rec types.BuildRecord, start time.Time) {
	if p.Recorder == nil {
		return
	}
	rec.Duration = time.Since(start)
	if err := p.Recorder.Record(rec); err != nil {
		fmt.Fprintf(p.Out, "warn: journal: %v\n", err)
	}
}
