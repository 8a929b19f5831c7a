// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/podoc/pkg/types"
)

// QueryOptions filters journal listings. Zero values match everything.
type QueryOptions struct {
	// Path matches the input path exactly.
	Path string

	// Status filters by outcome.
	Status types.ConversionStatus

	// Target filters by target language.
	Target string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// List returns matching records, most recent first.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]types.ConversionRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT run_id, path, output, chain, status, error, duration_ns, created_at
		FROM conversions
		WHERE 1=1`)

	if opts.Path != "" {
		qb.WriteString(` AND path = ?`)
		args = append(args, opts.Path)
	}
	if opts.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, string(opts.Status))
	}
	if opts.Target != "" {
		qb.WriteString(` AND target = ?`)
		args = append(args, opts.Target)
	}

	qb.WriteString(` ORDER BY created_at DESC, rowid DESC LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var records []types.ConversionRecord
	for rows.Next() {
		var (
			rec       types.ConversionRecord
			output    sql.NullString
			chainJSON string
			status    string
			errMsg    sql.NullString
			duration  sql.NullInt64
			createdAt string
		)
		if err := rows.Scan(
			&rec.RunID, &rec.Path, &output, &chainJSON, &status,
			&errMsg, &duration, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		rec.Output = output.String
		rec.Status = types.ConversionStatus(status)
		rec.Error = errMsg.String
		rec.Duration = time.Duration(duration.Int64)
		if err := json.Unmarshal([]byte(chainJSON), &rec.Chain); err != nil {
			return nil, fmt.Errorf("decoding chain of %s: %w", rec.RunID, err)
		}
		if rec.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
			return nil, fmt.Errorf("decoding time of %s: %w", rec.RunID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Summary counts journal records by outcome.
type Summary struct {
	Converted int `json:"converted" yaml:"converted"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Total returns the number of records counted.
func (s Summary) Total() int {
	return s.Converted + s.Failed
}

// Summarize counts every record in the journal by status.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, count(*) FROM conversions GROUP BY status`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarizing journal: %w", err)
	}
	defer rows.Close()

	var sum Summary
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return Summary{}, fmt.Errorf("scanning row: %w", err)
		}
		switch types.ConversionStatus(status) {
		case types.ConversionDone:
			sum.Converted = n
		case types.ConversionFailed:
			sum.Failed = n
		}
	}
	return sum, rows.Err()
}
