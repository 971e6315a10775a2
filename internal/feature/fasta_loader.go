package feature

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// ErrSequenceNotFound is returned when a FASTA file has no record for the requested id.
var ErrSequenceNotFound = errors.New("sequence not found")

// FASTALoader loads genome sequences from FASTA files (also accepts gzip files).
type FASTALoader struct {
	path string
}

// NewFASTALoader creates a new FASTA loader.
func NewFASTALoader(path string) *FASTALoader {
	return &FASTALoader{path: path}
}

// Load returns the sequence with the given id, or the first record when seqID is empty.
// The returned id is the record that was read.
func (l *FASTALoader) Load(seqID string) (id, sequence string, err error) {
	err = l.scan(func(name, s string) bool {
		if seqID == "" || name == seqID {
			id, sequence = name, s
			return false
		}
		return true
	})
	if err != nil {
		return "", "", err
	}
	if id != "" {
		return id, sequence, nil
	}
	if seqID == "" {
		return "", "", fmt.Errorf("empty FASTA file: %w", ErrSequenceNotFound)
	}
	return "", "", fmt.Errorf("%q: %w", seqID, ErrSequenceNotFound)
}

// Each calls fn for every record in file order.
func (l *FASTALoader) Each(fn func(id, sequence string) error) error {
	var fnErr error
	err := l.scan(func(name, s string) bool {
		fnErr = fn(name, s)
		return fnErr == nil
	})
	if err != nil {
		return err
	}
	return fnErr
}

func (l *FASTALoader) scan(fn func(id, sequence string) bool) error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return scanFASTA(reader, fn)
}

// scanFASTA calls fn for each record until it returns false.
func scanFASTA(reader io.Reader, fn func(id, sequence string) bool) error {
	template := linear.NewSeq("", nil, alphabet.DNAredundant)
	sc := seqio.NewScanner(fasta.NewReader(reader, template))

	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			continue
		}
		if !fn(s.Name(), string(s.Seq)) {
			return nil
		}
	}
	if err := sc.Error(); err != nil {
		return fmt.Errorf("scan FASTA: %w", err)
	}
	return nil
}

// SliceSequence returns seq restricted to the region, clamped to the sequence length.
func SliceSequence(seq string, r Region) string {
	if r.Unbounded() {
		return seq
	}
	start := min(max(r.Start, 0), len(seq))
	end := min(max(r.End, start), len(seq))
	return seq[start:end]
}
