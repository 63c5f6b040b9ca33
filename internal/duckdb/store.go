// Package duckdb persists gene predictions across genome runs.
// Predictions are stored in DuckDB (queryable, append-only), so results
// from many genomes can be searched without re-running the pipeline.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for caching gene predictions.
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
			return nil, fmt.Errorf("create store directory: %w", err)
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

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS gene_predictions (
		genome VARCHAR,
		gene_id VARCHAR,
		chrom VARCHAR,
		strand VARCHAR,
		start_pos BIGINT,
		end_pos BIGINT,
		spidroin VARCHAR,
		start_count INTEGER,
		end_count INTEGER,
		length BIGINT,
		PRIMARY KEY (genome, gene_id)
	)`); err != nil {
		return err
	}

	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS rejected_candidates (
		genome VARCHAR,
		chrom VARCHAR,
		strand VARCHAR,
		start_pos BIGINT,
		end_pos BIGINT,
		spidroin VARCHAR,
		reason VARCHAR
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		genome VARCHAR PRIMARY KEY,
		gff_path VARCHAR,
		gff_size BIGINT,
		gff_mod_time TIMESTAMP,
		genes INTEGER,
		rejected INTEGER
	)`)
	return err
}
