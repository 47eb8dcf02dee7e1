// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history journals conversion and merge results in a local SQLite
// database so earlier runs can be reviewed.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Kind distinguishes journal entries.
type Kind string

const (
	KindConvert Kind = "convert"
	KindMerge   Kind = "merge"
)

const defaultLimit = 50

// Entry is one journaled result.
type Entry struct {
	ID        int64     `json:"id" yaml:"id"`
	BatchID   string    `json:"batch_id" yaml:"batch_id"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Input     string    `json:"input" yaml:"input"`
	Format    string    `json:"format" yaml:"format"`
	OK        bool      `json:"ok" yaml:"ok"`
	Outputs   []string  `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Store manages the journal database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal at path and creates its schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
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
		`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			input TEXT NOT NULL,
			format TEXT,
			ok INTEGER NOT NULL,
			outputs TEXT,
			error TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_batch ON entries(batch_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends entries in a single transaction. A zero CreatedAt is set
// to the current time.
func (s *Store) Record(ctx context.Context, entries ...Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (batch_id, kind, input, format, ok, outputs, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range entries {
		created := e.CreatedAt
		if created.IsZero() {
			created = now
		}
		if _, err := stmt.ExecContext(ctx,
			e.BatchID, string(e.Kind), e.Input, e.Format, e.OK,
			strings.Join(e.Outputs, "\n"), e.Error,
			created.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("inserting entry for %s: %w", e.Input, err)
		}
	}
	return tx.Commit()
}

// Query selects journal entries.
type Query struct {
	// Limit caps the number of entries (default 50).
	Limit int
	// FailedOnly keeps failed entries only.
	FailedOnly bool
	// BatchID keeps entries of one batch.
	BatchID string
}

// Recent returns matching entries, newest first.
func (s *Store) Recent(ctx context.Context, q Query) ([]Entry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var where []string
	var args []any
	if q.FailedOnly {
		where = append(where, "ok = 0")
	}
	if q.BatchID != "" {
		where = append(where, "batch_id = ?")
		args = append(args, q.BatchID)
	}

	query := `SELECT id, batch_id, kind, input, format, ok, outputs, error, created_at FROM entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                      Entry
			kind, outputs, created string
			format, errMsg         sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.BatchID, &kind, &e.Input, &format, &e.OK, &outputs, &errMsg, &created); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Kind = Kind(kind)
		e.Format = format.String
		e.Error = errMsg.String
		if outputs != "" {
			e.Outputs = strings.Split(outputs, "\n")
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
