package featuredb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/genomenotebook/genomenotebook/internal/feature"
)

// WriteSequence stores or replaces a sequence.
func (s *Store) WriteSequence(seqID, seq string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO sequences VALUES (?, ?, ?)`, seqID, int64(len(seq)), seq)
	if err != nil {
		return fmt.Errorf("write sequence %s: %w", seqID, err)
	}
	return nil
}

// Sequence returns the stored sequence of seqID restricted to region.
func (s *Store) Sequence(seqID string, region feature.Region) (string, error) {
	var seq string
	err := s.db.QueryRow(`SELECT sequence FROM sequences WHERE seq_id = ?`, seqID).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("sequence %q: %w", seqID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("query sequence %s: %w", seqID, err)
	}
	return feature.SliceSequence(seq, region), nil
}

// SequenceLength returns the stored length of seqID.
func (s *Store) SequenceLength(seqID string) (int, error) {
	var n int64
	err := s.db.QueryRow(`SELECT length FROM sequences WHERE seq_id = ?`, seqID).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("sequence %q: %w", seqID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("query sequence length %s: %w", seqID, err)
	}
	return int(n), nil
}
