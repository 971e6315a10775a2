package search

import (
	"sort"
	"strings"

	"github.com/genomenotebook/genomenotebook/internal/feature"
	"github.com/genomenotebook/genomenotebook/internal/glyph"
)

// FindByName returns the rows whose name equals query, ignoring case. If
// there is no exact match, rows whose name starts with query are returned.
// rows should be the full row set, not a loaded subset.
func FindByName(rows []glyph.Row, query string) []glyph.Row {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var exact, prefix []glyph.Row
	for _, r := range rows {
		name := strings.ToUpper(r.Name)
		switch {
		case name == q:
			exact = append(exact, r)
		case strings.HasPrefix(name, q):
			prefix = append(prefix, r)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return prefix
}

// RowMatches converts rows into navigable matches.
func RowMatches(rows []glyph.Row) []Match {
	out := make([]Match, len(rows))
	for i, r := range rows {
		out[i] = Match{
			Start:  r.XMin,
			End:    r.XMax,
			Strand: feature.ParseStrand(r.Strand),
			Name:   r.Name,
		}
	}
	return out
}

// Completions returns the sorted distinct non-empty names of rows.
func Completions(rows []glyph.Row) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if r.Name == "" || seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		out = append(out, r.Name)
	}
	sort.Strings(out)
	return out
}
