// Package dedupe persists the set of already-ingested URLs across runs.
package dedupe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"ContentPipeline/internal/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS seen_urls (
	url TEXT PRIMARY KEY,
	first_seen_utc TEXT NOT NULL
)`

// Store is an append-only URL set backed by SQLite. URLs are never removed.
type Store struct {
	db *sql.DB
}

var _ ports.DedupeStore = (*Store)(nil)

// Open opens the dedupe database at path, creating the schema if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open dedupe db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init dedupe schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Seen reports whether url was ingested on any previous run.
func (s *Store) Seen(ctx context.Context, url string) (bool, error) {
	query, args, err := sq.Select("1").
		From("seen_urls").
		Where(sq.Eq{"url": url}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build seen query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query seen: %w", err)
	}
	return true, nil
}

// MarkSeen records url with its first-seen timestamp; marking an existing
// URL again is a no-op.
func (s *Store) MarkSeen(ctx context.Context, url string) error {
	query, args, err := sq.Insert("seen_urls").
		Options("OR IGNORE").
		Columns("url", "first_seen_utc").
		Values(url, time.Now().UTC().Format(time.RFC3339)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
