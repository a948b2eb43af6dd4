package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens the journal at dbPath. Use ":memory:" for an
// in-memory journal.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection: an in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		posts INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS permalinks (
		build_id TEXT NOT NULL REFERENCES builds(id),
		source TEXT NOT NULL,
		kind TEXT NOT NULL,
		path TEXT NOT NULL,
		href TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		categories TEXT,
		PRIMARY KEY (build_id, source)
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores b and entries in one transaction.
func (s *SQLiteStore) Record(ctx context.Context, b Build, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO builds (id, started_at, finished_at, outcome, posts) VALUES (?, ?, ?, ?, ?)",
		b.ID, b.StartedAt.UnixNano(), b.FinishedAt.UnixNano(), b.Outcome, b.Posts,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO permalinks (build_id, source, kind, path, href, fingerprint, categories) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		categories, err := json.Marshal(e.Categories)
		if err != nil {
			return fmt.Errorf("marshal categories: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, b.ID, e.Source, e.Kind, e.Path, e.Href, e.Fingerprint, string(categories)); err != nil {
			return fmt.Errorf("insert permalink %s: %w", e.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Latest returns the most recently started build.
func (s *SQLiteStore) Latest(ctx context.Context) (Build, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b Build
	var started, finished int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, started_at, finished_at, outcome, posts FROM builds ORDER BY started_at DESC, rowid DESC LIMIT 1",
	).Scan(&b.ID, &started, &finished, &b.Outcome, &b.Posts)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, false, nil
	}
	if err != nil {
		return Build{}, false, fmt.Errorf("query latest build: %w", err)
	}
	b.StartedAt = time.Unix(0, started)
	b.FinishedAt = time.Unix(0, finished)
	return b, true, nil
}

// Entries returns the entries of buildID ordered by source.
func (s *SQLiteStore) Entries(ctx context.Context, buildID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT source, kind, path, href, fingerprint, categories FROM permalinks WHERE build_id = ? ORDER BY source",
		buildID,
	)
	if err != nil {
		return nil, fmt.Errorf("query permalinks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var categories sql.NullString
		if err := rows.Scan(&e.Source, &e.Kind, &e.Path, &e.Href, &e.Fingerprint, &categories); err != nil {
			return nil, fmt.Errorf("scan permalink: %w", err)
		}
		if categories.Valid && categories.String != "" {
			if err := json.Unmarshal([]byte(categories.String), &e.Categories); err != nil {
				return nil, fmt.Errorf("unmarshal categories: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
