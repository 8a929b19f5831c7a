// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/podoc/pkg/types"
)

// Recorder stores the outcome of each file of a batch, e.g. in the
// conversion journal.
type Recorder interface {
	Record(rec types.ConversionRecord) error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch converts each file independently with opts, printing
// per-file status to w and handing every outcome to rec when it is not nil.
// A failing file does not stop the batch.
func (r *Registry) ConvertBatch(paths []string, opts Options, rec Recorder, w io.Writer) BatchResult {
	var result BatchResult
	start := time.Now()
	for _, path := range paths {
		record := r.convertOne(path, opts)
		base := filepath.Base(path)
		switch record.Status {
		case types.ConversionDone:
			result.Converted++
			fmt.Fprintf(w, "converted: %s -> %s\n", base, displayOutput(record.Output))
		case types.ConversionFailed:
			result.Failed++
			fmt.Fprintf(w, "failed:    %s (%s)\n", base, record.Error)
		}
		if rec != nil {
			if err := rec.Record(record); err != nil {
				r.log.Warn("recording conversion", "path", path, "error", err)
			}
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	r.log.BatchCompleted(result.Converted, result.Failed, time.Since(start))
	return result
}

func (r *Registry) convertOne(path string, opts Options) types.ConversionRecord {
	start := time.Now()
	rec := types.ConversionRecord{
		RunID:  uuid.NewString(),
		Path:   path,
		Status: types.ConversionDone,
	}
	ctx, err := r.NewContext(path, opts)
	if err == nil {
		rec.RunID, rec.Path, rec.Output, rec.Chain = ctx.runID, ctx.path, ctx.output, ctx.Chain()
		_, err = r.execute(ctx, ctx.path, true, false)
	}
	if err != nil {
		rec.Status, rec.Error = types.ConversionFailed, err.Error()
	}
	rec.Duration = time.Since(start)
	rec.CreatedAt = time.Now().UTC()
	return rec
}

func displayOutput(output string) string {
	if output == "" {
		return "(no output)"
	}
	return filepath.Base(output)
}
