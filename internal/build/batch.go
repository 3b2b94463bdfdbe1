package build

import (
	"fmt"

	"github.com/pdiddy/marktex/pkg/types"
)

// BatchResult holds the outcome of a batch build run.
type BatchResult struct {
	Built  int
	Failed int
}

// Total returns the total number of sources processed.
func (r BatchResult) Total() int {
	return r.Built + r.Failed
}

// HasFailures reports whether any sources failed to build.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// BuildBatch builds every path in order. Tool failures mark the affected
// file failed and the batch continues; a path problem aborts the run with
// the partial result.
func (p *Pipeline) BuildBatch(paths []string) (BatchResult, error) {
	var result BatchResult
	for _, path := range paths {
		status, err := p.BuildFile(path)
		if err != nil {
			return result, err
		}
		switch status {
		case types.BuildDone:
			result.Built++
		case types.BuildFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(p.Out, "\nBatch summary: %d built, %d failed (total: %d)\n",
		result.Built, result.Failed, result.Total())
	return result, nil
}
