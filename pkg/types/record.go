// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines data structures shared by the podoc packages and
// the CLI: configuration and conversion records.
package types

import "time"

// ConversionStatus indicates the outcome of converting one file.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// ConversionRecord is one journal entry: a file conversion and its outcome.
type ConversionRecord struct {
	// RunID identifies the conversion run (a UUID).
	RunID string `json:"run_id" yaml:"run_id"`

	// Path is the absolute input path.
	Path string `json:"path" yaml:"path"`

	// Output is the absolute output path, empty when nothing was written.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Chain lists the languages the document went through, source first.
	Chain []string `json:"chain" yaml:"chain"`

	// Status is the outcome.
	Status ConversionStatus `json:"status" yaml:"status"`

	// Error holds the failure message for failed conversions.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Duration is how long the conversion took.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// CreatedAt is when the conversion finished.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Source returns the first language of the chain.
func (r ConversionRecord) Source() string {
	if len(r.Chain) == 0 {
		return ""
	}
	return r.Chain[0]
}

// Target returns the last language of the chain.
func (r ConversionRecord) Target() string {
	if len(r.Chain) == 0 {
		return ""
	}
	return r.Chain[len(r.Chain)-1]
}
