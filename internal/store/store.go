// Package store is the persistence layer: a SQLite database holding a
// key-value options table for configuration documents plus a users table
// for admin identities. Configuration lives as whole JSON documents under
// fixed keys; writers always replace, never patch.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle. database/sql serializes access, so a
// single Store is safe for concurrent request handlers; option writes are
// single-statement upserts and therefore atomic per key.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	stmts := []string{
		`PRAGMA foreign_keys=ON;`,
		`CREATE TABLE IF NOT EXISTS options (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL,
			role          TEXT NOT NULL,
			created_at    TIMESTAMP NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

// GetOption returns the raw JSON stored under key, or nil when the key has
// never been written.
func (s *Store) GetOption(key string) ([]byte, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM options WHERE key=?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get option %s: %w", key, err)
	}
	return []byte(value), nil
}

// SetOption replaces the entire value stored under key. The upsert is a
// single statement, so concurrent writers race whole-document: the last
// completed write wins in full.
func (s *Store) SetOption(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO options(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("store: set option %s: %w", key, err)
	}
	return nil
}

// DB exposes the underlying handle for the typed repositories.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
