package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var (
	// ErrCacheMiss indicates the requested key was not found in the store.
	ErrCacheMiss = errors.New("cache miss")
)

// Store is a disk-backed key-value store for raw Article Search responses.
// Entries never expire and are never evicted; a query that was answered once
// is answered from disk forever after.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at the given file path. Parent
// directories are created as needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("cache path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	// SQLite allows a single writer; serializing through one connection
	// avoids SQLITE_BUSY on concurrent test runs.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS responses (
			key        TEXT PRIMARY KEY,
			body       BLOB NOT NULL,
			created_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing cache schema: %w", err)
	}
	return nil
}

// Get retrieves the raw response body stored under key.
// Returns ErrCacheMiss if the key has never been stored.
func (s *Store) Get(ctx context.Context, key Key) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM responses WHERE key = ?", key.String()).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			cacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		cacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("cache get: %w", err)
	}

	cacheHits.Inc()
	return body, nil
}

// Put stores a raw response body under key. Storing the same key again
// replaces the body; entries are otherwise append-only.
func (s *Store) Put(ctx context.Context, key Key, body []byte) error {
	if body == nil {
		return fmt.Errorf("cache body cannot be nil")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO responses (key, body, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body
	`, key.String(), body, time.Now().UTC())
	if err != nil {
		cacheErrors.WithLabelValues("put").Inc()
		return fmt.Errorf("cache put: %w", err)
	}

	return nil
}

// Len reports the number of stored responses.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM responses").Scan(&n); err != nil {
		cacheErrors.WithLabelValues("len").Inc()
		return 0, fmt.Errorf("cache len: %w", err)
	}
	return n, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
