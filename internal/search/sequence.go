// Package search maps coordinates to sequence text and finds features and
// sequence motifs for navigation.
package search

import (
	"strings"

	"github.com/biogo/biogo/alphabet"

	"github.com/genomenotebook/genomenotebook/internal/feature"
	"github.com/genomenotebook/genomenotebook/internal/viewport"
)

// Highlight colors of sequence matches.
const (
	ForwardColor = "green"
	ReverseColor = "red"
)

// DefaultCharWidth is the width of one base in the sequence panel, in pixels.
const DefaultCharWidth = 8

// Match is a located search hit in genome coordinates, half-open.
type Match struct {
	Start  int            `json:"start"`
	End    int            `json:"end"`
	Strand feature.Strand `json:"strand"`
	Name   string         `json:"name,omitempty"`
	Color  string         `json:"color,omitempty"`
}

// Center returns the midpoint of the match.
func (m Match) Center() float64 { return float64(m.Start+m.End) / 2 }

// Index holds the sequence of a browser, pre-sliced to its bounds.
type Index struct {
	seq    string
	bounds viewport.Range
}

// NewIndex creates an index over seq, whose first base sits at bounds.Start.
func NewIndex(seq string, bounds viewport.Range) *Index {
	return &Index{seq: strings.ToUpper(seq), bounds: bounds}
}

// Len returns the sequence length.
func (x *Index) Len() int { return len(x.seq) }

// Available reports whether a sequence is held.
func (x *Index) Available() bool { return x != nil && len(x.seq) > 0 }

// Substring returns the sequence between genome coordinates start and end,
// clamped to the held sequence.
func (x *Index) Substring(start, end int) string {
	if !x.Available() {
		return ""
	}
	i := min(max(start-x.bounds.Start, 0), len(x.seq))
	j := min(max(end-x.bounds.Start, 0), len(x.seq))
	if i >= j {
		return ""
	}
	return x.seq[i:j]
}

// Visible reports whether r is narrow enough for one character per base in a
// frame of frameWidth pixels.
func Visible(r viewport.Range, frameWidth, charWidth int) bool {
	if charWidth <= 0 {
		charWidth = DefaultCharWidth
	}
	return r.Width() <= frameWidth/charWidth
}

// View returns the sequence text for r, or "" if r is too wide to display.
func (x *Index) View(r viewport.Range, frameWidth, charWidth int) string {
	if !Visible(r, frameWidth, charWidth) {
		return ""
	}
	return x.Substring(r.Start, r.End)
}

// FindSequence returns every case-insensitive occurrence of query, including
// overlapping ones, on the forward strand and as reverse complement. Matches
// are ordered by start; forward matches precede reverse ones at equal starts.
func (x *Index) FindSequence(query string) []Match {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" || !x.Available() {
		return nil
	}

	matches := x.scan(q, feature.Plus, ForwardColor)
	if rc := ReverseComplement(q); rc != q {
		matches = mergeByStart(matches, x.scan(rc, feature.Minus, ReverseColor))
	}
	return matches
}

func (x *Index) scan(q string, strand feature.Strand, color string) []Match {
	var out []Match
	for from := 0; from+len(q) <= len(x.seq); {
		i := strings.Index(x.seq[from:], q)
		if i < 0 {
			break
		}
		start := x.bounds.Start + from + i
		out = append(out, Match{Start: start, End: start + len(q), Strand: strand, Color: color})
		from += i + 1
	}
	return out
}

func mergeByStart(a, b []Match) []Match {
	out := make([]Match, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if b[j].Start < a[i].Start {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// ReverseComplement returns the reverse complement of a nucleotide string.
// Letters without a complement are kept as they are.
func ReverseComplement(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		l := alphabet.Letter(s[len(s)-1-i])
		if c, ok := alphabet.DNAredundant.Complement(l); ok {
			l = c
		}
		out[i] = byte(l)
	}
	return string(out)
}
