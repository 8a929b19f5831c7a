// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/podoc/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) *Store {
	t.Helper()
	cfg := types.JournalConfig{
		Enabled:    true,
		Path:       filepath.Join(t.TempDir(), "state", "journal.db"),
		MaxResults: 20,
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func record(id, path string, status types.ConversionStatus, minute int, chain ...string) types.ConversionRecord {
	rec := types.ConversionRecord{
		RunID:     id,
		Path:      path,
		Chain:     chain,
		Status:    status,
		Duration:  1500 * time.Microsecond,
		CreatedAt: baseTime.Add(time.Duration(minute) * time.Minute),
	}
	if status == types.ConversionFailed {
		rec.Error = "input file does not exist: " + path
	} else {
		rec.Output = path + ".out"
	}
	return rec
}

func seed(t *testing.T, store *Store) {
	t.Helper()
	records := []types.ConversionRecord{
		record("run-1", "/docs/a.md", types.ConversionDone, 1, "markdown", "ast"),
		record("run-2", "/docs/b.md", types.ConversionDone, 2, "markdown", "ast", "yaml"),
		record("run-3", "/docs/c.md", types.ConversionFailed, 3),
		record("run-4", "/docs/a.md", types.ConversionDone, 4, "markdown", "ast", "html"),
	}
	for _, rec := range records {
		if err := store.Insert(context.Background(), rec); err != nil {
			t.Fatal(err)
		}
	}
}

func runIDs(records []types.ConversionRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.RunID
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- store tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store := testSetup(t)

	var count int
	err := store.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'conversions'`,
	).Scan(&count)
	if err != nil {
		t.Fatalf("checking table: %v", err)
	}
	if count == 0 {
		t.Error("table conversions does not exist")
	}
}

func TestNewStoreCreatesDBFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "journal.db")
	store, err := NewStore(types.JournalConfig{Enabled: true, Path: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file not created at %s", dbPath)
	}
	if store.maxResults != defaultMaxResults {
		t.Errorf("maxResults = %d, want %d", store.maxResults, defaultMaxResults)
	}
}

func TestOpenDisabled(t *testing.T) {
	_, err := Open(types.JournalConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("got %v, want ErrDisabled", err)
	}
}

func TestInsertAndList(t *testing.T) {
	store := testSetup(t)
	want := record("run-1", "/docs/a.md", types.ConversionDone, 0, "markdown", "ast", "yaml")
	if err := store.Record(want); err != nil {
		t.Fatal(err)
	}

	got, err := store.List(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	r := got[0]
	if r.RunID != want.RunID || r.Path != want.Path || r.Output != want.Output {
		t.Errorf("got %+v, want %+v", r, want)
	}
	if !equalStrings(r.Chain, want.Chain) {
		t.Errorf("chain = %v, want %v", r.Chain, want.Chain)
	}
	if r.Status != types.ConversionDone {
		t.Errorf("status = %q, want %q", r.Status, types.ConversionDone)
	}
	if r.Duration != want.Duration {
		t.Errorf("duration = %v, want %v", r.Duration, want.Duration)
	}
	if !r.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("created_at = %v, want %v", r.CreatedAt, want.CreatedAt)
	}
}

func TestInsertReplacesRunID(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	first := record("run-1", "/docs/a.md", types.ConversionFailed, 0)
	second := record("run-1", "/docs/a.md", types.ConversionDone, 1, "markdown", "ast")
	for _, rec := range []types.ConversionRecord{first, second} {
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.List(ctx, QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Status != types.ConversionDone {
		t.Errorf("got %+v, want a single converted record", got)
	}
}

func TestInsertRequiresRunID(t *testing.T) {
	store := testSetup(t)
	if err := store.Insert(context.Background(), types.ConversionRecord{Path: "/x.md"}); err == nil {
		t.Error("expected error for empty run id")
	}
}

// --- query tests ---

func TestList(t *testing.T) {
	store := testSetup(t)
	seed(t, store)

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{name: "all, newest first", opts: QueryOptions{}, want: []string{"run-4", "run-3", "run-2", "run-1"}},
		{name: "by path", opts: QueryOptions{Path: "/docs/a.md"}, want: []string{"run-4", "run-1"}},
		{name: "by status", opts: QueryOptions{Status: types.ConversionFailed}, want: []string{"run-3"}},
		{name: "by target", opts: QueryOptions{Target: "yaml"}, want: []string{"run-2"}},
		{name: "max results", opts: QueryOptions{MaxResults: 2}, want: []string{"run-4", "run-3"}},
		{name: "no match", opts: QueryOptions{Target: "docx"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(context.Background(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if ids := runIDs(got); !equalStrings(ids, tt.want) {
				t.Errorf("got %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestListFailedRecord(t *testing.T) {
	store := testSetup(t)
	seed(t, store)

	got, err := store.List(context.Background(), QueryOptions{Status: types.ConversionFailed})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].Error == "" {
		t.Error("failed record lost its error message")
	}
	if got[0].Output != "" {
		t.Errorf("failed record has output %q", got[0].Output)
	}
	if len(got[0].Chain) != 0 {
		t.Errorf("failed record has chain %v", got[0].Chain)
	}
}

func TestSummarize(t *testing.T) {
	store := testSetup(t)
	seed(t, store)

	sum, err := store.Summarize(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Converted != 3 || sum.Failed != 1 || sum.Total() != 4 {
		t.Errorf("got %+v, want 3 converted and 1 failed", sum)
	}
}

// --- export tests ---

func TestExportYAML(t *testing.T) {
	store := testSetup(t)
	seed(t, store)

	var buf bytes.Buffer
	if err := store.ExportYAML(context.Background(), &buf, QueryOptions{}); err != nil {
		t.Fatal(err)
	}

	var entries []ExportEntry
	if err := yaml.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	if entries[0].RunID != "run-4" || entries[0].Duration != "1.5ms" {
		t.Errorf("first entry = %+v", entries[0])
	}
}

func TestExportJSON(t *testing.T) {
	store := testSetup(t)
	seed(t, store)

	var buf bytes.Buffer
	if err := store.ExportJSON(context.Background(), &buf, QueryOptions{Path: "/docs/a.md"}); err != nil {
		t.Fatal(err)
	}

	var entries []ExportEntry
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Path != "/docs/a.md" {
			t.Errorf("entry %s has path %s", e.RunID, e.Path)
		}
	}
}

func TestExportUnknownFormat(t *testing.T) {
	store := testSetup(t)

	var buf bytes.Buffer
	err := store.Export(context.Background(), &buf, "toml", QueryOptions{})
	if !errors.Is(err, ErrFormat) {
		t.Errorf("got %v, want ErrFormat", err)
	}
	if err := store.Export(context.Background(), &buf, FormatJSON, QueryOptions{}); err != nil {
		t.Errorf("json export: %v", err)
	}
}
