// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/podoc/pkg/types"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ErrFormat is returned for an export format other than yaml or json.
var ErrFormat = errors.New("unknown export format")

// ExportEntry is one record as written by an export.
type ExportEntry struct {
	RunID     string   `json:"run_id" yaml:"run_id"`
	Path      string   `json:"path" yaml:"path"`
	Output    string   `json:"output,omitempty" yaml:"output,omitempty"`
	Chain     []string `json:"chain" yaml:"chain"`
	Status    string   `json:"status" yaml:"status"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
	Duration  string   `json:"duration" yaml:"duration"`
	CreatedAt string   `json:"created_at" yaml:"created_at"`
}

const exportLimit = 100000

// Export writes the records matching opts to w in format.
func (s *Store) Export(ctx context.Context, w io.Writer, format string, opts QueryOptions) error {
	switch format {
	case FormatYAML:
		return s.ExportYAML(ctx, w, opts)
	case FormatJSON:
		return s.ExportJSON(ctx, w, opts)
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrFormat, format, FormatYAML, FormatJSON)
	}
}

// ExportYAML writes the records matching opts to w as a YAML list.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the records matching opts to w as an indented JSON
// array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	records, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(records))
	for i, r := range records {
		entries[i] = entryFor(r)
	}
	return entries, nil
}

func entryFor(r types.ConversionRecord) ExportEntry {
	return ExportEntry{
		RunID:     r.RunID,
		Path:      r.Path,
		Output:    r.Output,
		Chain:     r.Chain,
		Status:    string(r.Status),
		Error:     r.Error,
		Duration:  r.Duration.String(),
		CreatedAt: r.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
