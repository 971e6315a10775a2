// Package featuredb persists imported annotations and sequences in DuckDB so
// that large genomes are parsed once and browsed region by region.
package featuredb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// ErrNotFound is returned when a sequence id is not in the database.
var ErrNotFound = errors.New("not found in feature database")

// Store manages a DuckDB connection holding features and sequences.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, "" for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS features (
			seq_id VARCHAR,
			idx BIGINT,
			source VARCHAR,
			type VARCHAR,
			start_pos BIGINT,
			end_pos BIGINT,
			strand BIGINT,
			score DOUBLE,
			phase VARCHAR,
			attributes VARCHAR,
			z BIGINT,
			PRIMARY KEY (seq_id, idx)
		)`,
		`CREATE TABLE IF NOT EXISTS sequences (
			seq_id VARCHAR PRIMARY KEY,
			length BIGINT,
			sequence VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS sources (
			kind VARCHAR PRIMARY KEY,
			path VARCHAR,
			size BIGINT,
			mod_time BIGINT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
