// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal persists one record per file conversion in a SQLite
// database, so that past runs can be listed and exported.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/podoc/pkg/types"
)

const (
	defaultPath       = ".podoc/journal.db"
	defaultMaxResults = 20

	// timeFormat has fixed width so that stored times sort as text.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrDisabled is returned by Open when the journal is turned off.
var ErrDisabled = errors.New("journal disabled")

// Store manages the journal SQLite database.
type Store struct {
	db         *sql.DB
	path       string
	maxResults int
}

// Open returns the store configured by cfg, or ErrDisabled when the journal
// is turned off.
func Open(cfg types.JournalConfig) (*Store, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	return NewStore(cfg)
}

// NewStore opens or creates the journal database at cfg.Path and creates
// the schema if it does not exist.
func NewStore(cfg types.JournalConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, path: path, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			path TEXT NOT NULL,
			output TEXT,
			chain TEXT NOT NULL,
			source TEXT,
			target TEXT,
			status TEXT NOT NULL,
			error TEXT,
			duration_ns INTEGER,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_path ON conversions(path)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_status ON conversions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_target ON conversions(target)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Insert stores rec. A record whose run ID is already present replaces the
// earlier one.
func (s *Store) Insert(ctx context.Context, rec types.ConversionRecord) error {
	if rec.RunID == "" {
		return fmt.Errorf("inserting %s: empty run id", rec.Path)
	}
	chainJSON, err := json.Marshal(rec.Chain)
	if err != nil {
		return fmt.Errorf("encoding chain: %w", err)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO conversions
			(run_id, path, output, chain, source, target, status, error, duration_ns, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Path, rec.Output, string(chainJSON), rec.Source(), rec.Target(),
		string(rec.Status), rec.Error, int64(rec.Duration),
		createdAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting conversion %s: %w", rec.RunID, err)
	}
	return nil
}

// Record stores rec without a caller context. It lets the store serve as
// the recorder of a batch conversion.
func (s *Store) Record(rec types.ConversionRecord) error {
	return s.Insert(context.Background(), rec)
}
