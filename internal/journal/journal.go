// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal persists build history in a SQLite database.
// Implements: docs/ARCHITECTURE § Build Journal (R1-R5).
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/marktex/pkg/types"
)

const (
	dbFile       = "journal.db"
	stateDir     = ".marktex"
	defaultLimit = 20

	// maxDetailLen keeps pathological latexmk logs from bloating the
	// journal.
	maxDetailLen = 4096
)

// Store manages the build journal database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			title TEXT,
			repo_root TEXT,
			mode TEXT NOT NULL,
			status TEXT NOT NULL,
			pdf_path TEXT,
			tex_path TEXT,
			detail TEXT,
			duration_ms INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_source ON builds(source)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_status ON builds(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// DefaultPath returns where the journal lives: the configured path resolved
// against the repository root when relative, falling back to
// .marktex/journal.db under the root, or under the working directory in
// simple mode.
func DefaultPath(cfg types.JournalConfig, repoRoot string) string {
	path := cfg.Path
	if path == "" {
		path = filepath.Join(stateDir, dbFile)
	}
	if filepath.IsAbs(path) {
		return path
	}
	if repoRoot != "" {
		return filepath.Join(repoRoot, path)
	}
	return path
}

// Record appends one build outcome.
func (s *Store) Record(ctx context.Context, rec types.BuildRecord) error {
	detail := rec.Detail
	if len(detail) > maxDetailLen {
		detail = detail[:maxDetailLen]
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (source, title, repo_root, mode, status, pdf_path, tex_path, detail, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Source, rec.Title, rec.RepoRoot, string(rec.Mode), string(rec.Status),
		rec.PDFPath, rec.TEXPath, detail, rec.Duration.Milliseconds(),
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording build: %w", err)
	}
	return nil
}

// QueryOptions filters journal listings. The zero value returns the most
// recent builds.
type QueryOptions struct {
	// Source filters by substring match on the source path.
	Source string

	// Status filters by build outcome.
	Status types.BuildStatus

	// Limit caps the result count. Zero uses the default.
	Limit int
}

// Query returns matching build records, newest first.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]types.BuildRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT source, title, repo_root, mode, status, pdf_path, tex_path, detail, duration_ms, created_at
		FROM builds WHERE 1=1`)

	if opts.Source != "" {
		qb.WriteString(` AND source LIKE ?`)
		args = append(args, "%"+opts.Source+"%")
	}
	if opts.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, string(opts.Status))
	}

	qb.WriteString(` ORDER BY id DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var recs []types.BuildRecord
	for rows.Next() {
		var (
			rec        types.BuildRecord
			mode       string
			status     string
			durationMS int64
			createdAt  string
		)
		if err := rows.Scan(
			&rec.Source, &rec.Title, &rec.RepoRoot, &mode, &status,
			&rec.PDFPath, &rec.TEXPath, &rec.Detail, &durationMS, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rec.Mode = types.Mode(mode)
		rec.Status = types.BuildStatus(status)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
