package featuredb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// Source kinds recorded by an import.
const (
	SourceGFF   = "gff"
	SourceFASTA = "fasta"
)

// FileFingerprint holds stat-based identity for a file.
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

// Matches reports whether two fingerprints describe the same file contents.
func (f FileFingerprint) Matches(o FileFingerprint) bool {
	return f.Path == o.Path && f.Size == o.Size && f.ModTime.Equal(o.ModTime)
}

// RecordSource stores the fingerprint of the file imported as kind.
func (s *Store) RecordSource(kind string, fp FileFingerprint) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO sources VALUES (?, ?, ?, ?)`,
		kind, fp.Path, fp.Size, fp.ModTime.UnixNano())
	if err != nil {
		return fmt.Errorf("record %s source: %w", kind, err)
	}
	return nil
}

// Source returns the fingerprint recorded for kind.
func (s *Store) Source(kind string) (FileFingerprint, bool, error) {
	var fp FileFingerprint
	var modTime int64
	err := s.db.QueryRow(`SELECT path, size, mod_time FROM sources WHERE kind = ?`, kind).
		Scan(&fp.Path, &fp.Size, &modTime)
	if errors.Is(err, sql.ErrNoRows) {
		return FileFingerprint{}, false, nil
	}
	if err != nil {
		return FileFingerprint{}, false, fmt.Errorf("query %s source: %w", kind, err)
	}
	fp.ModTime = time.Unix(0, modTime)
	return fp, true, nil
}

// Fresh reports whether the file at path is the one last imported as kind.
func (s *Store) Fresh(kind, path string) (bool, error) {
	cur, err := StatFile(path)
	if err != nil {
		return false, err
	}
	prev, ok, err := s.Source(kind)
	if err != nil || !ok {
		return false, err
	}
	return prev.Matches(cur), nil
}
