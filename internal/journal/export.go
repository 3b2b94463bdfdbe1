// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// ExportYAML writes matching build records to w as a YAML list. It supports
// the same filters as Query, defaulting to the full history.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, opts QueryOptions) error {
	if opts.Limit <= 0 {
		opts.Limit = exportLimit
	}
	recs, err := s.Query(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	data, err := yaml.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes matching build records to w as indented JSON. It
// supports the same filters as Query, defaulting to the full history.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, opts QueryOptions) error {
	if opts.Limit <= 0 {
		opts.Limit = exportLimit
	}
	recs, err := s.Query(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
