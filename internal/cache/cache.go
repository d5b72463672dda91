// Package cache implements the compile cache: rendered CSS keyed by
// source path, content digest and output style, stored in a sqlite
// database. A digest mismatch is a miss, so edits invalidate entries
// without any bookkeeping.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS renders (
	path       TEXT NOT NULL,
	digest     TEXT NOT NULL,
	style      TEXT NOT NULL,
	css        TEXT NOT NULL,
	compile_id TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (path, style)
);
CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_at);
`

// Entry is one cached render.
type Entry struct {
	Path          string
	Digest        string
	Style         string
	CSS           string
	CompilationID string
	CreatedAt     time.Time
}

type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the cache database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	// Single writer keeps the sqlite driver out of lock contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get looks up the cached render for a source file. A stored entry with a
// different digest counts as a miss.
func (s *Store) Get(path, digest, style string) (*Entry, bool, error) {
	row := s.db.QueryRow(
		`SELECT css, compile_id, created_at FROM renders
		 WHERE path = ? AND digest = ? AND style = ?`,
		path, digest, style,
	)

	entry := Entry{Path: path, Digest: digest, Style: style}
	var createdAt int64
	err := row.Scan(&entry.CSS, &entry.CompilationID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry for %s: %w", path, err)
	}
	entry.CreatedAt = time.Unix(createdAt, 0)
	return &entry, true, nil
}

// Put stores a render, replacing any previous entry for the same path and
// style.
func (s *Store) Put(entry Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO renders (path, digest, style, css, compile_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Path, entry.Digest, entry.Style, entry.CSS, entry.CompilationID, createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry for %s: %w", entry.Path, err)
	}
	return nil
}

// Prune deletes entries at least maxAge old and reports how many were
// removed. A zero maxAge clears the store.
func (s *Store) Prune(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()
	res, err := s.db.Exec(`DELETE FROM renders WHERE created_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return n, nil
}

// Digest fingerprints source text for cache keys.
func Digest(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
