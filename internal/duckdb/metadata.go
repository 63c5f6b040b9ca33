package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for an alignment file, used to
// tell whether a stored run is stale.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// RecordRun stores the provenance of a genome's prediction run.
func (s *Store) RecordRun(genome string, fp FileFingerprint, genes, rejected int) error {
	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO runs VALUES (?, ?, ?, ?, ?, ?)`,
		genome, fp.Path, fp.Size, fp.ModTime, genes, rejected,
	); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RunCurrent reports whether a stored run for the genome matches the
// fingerprint of the alignment file on disk.
func (s *Store) RunCurrent(genome string, fp FileFingerprint) (bool, error) {
	var size int64
	var modTime time.Time
	err := s.db.QueryRow(
		`SELECT gff_size, gff_mod_time FROM runs WHERE genome=?`, genome,
	).Scan(&size, &modTime)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query run: %w", err)
	}
	return size == fp.Size && modTime.Equal(fp.ModTime), nil
}
