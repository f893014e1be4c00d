// Package state is the local key-value store backing process restarts. It
// holds JSON blobs under fixed keys in a single-file SQLite database; the
// core engine only ever sees the decoded values.
package state

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Fixed keys. Everything the engine persists lives under one of these.
const (
	KeyEvents             = "events"
	KeyResolvedConflicts  = "resolved_conflicts"
	KeyAppliedPatterns    = "applied_patterns"
	KeyAppliedSuggestions = "applied_suggestions"
	KeyFeatures           = "features"
	KeySubscribers        = "subscribers"
	KeyOnboarding         = "onboarding"
)

// ErrNotFound is returned by Get when no blob exists under a key.
var ErrNotFound = errors.New("state: key not found")

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the state database at path. Use ":memory:" for an
// ephemeral store in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init state db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the blob stored under key, or ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("state get %q: %w", key, err)
	}
	return value, nil
}

// Put stores the blob under key, replacing any previous value.
func (s *Store) Put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("state put %q: %w", key, err)
	}
	return nil
}

// Delete removes the blob under key. Missing keys are a no-op.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("state delete %q: %w", key, err)
	}
	return nil
}

// Reset drops every key. This is the full reset that clears resolved and
// applied id sets along with the event snapshot.
func (s *Store) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM kv`); err != nil {
		return fmt.Errorf("state reset: %w", err)
	}
	return nil
}
