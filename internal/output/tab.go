// Package output provides feature and frame output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/genomenotebook/genomenotebook/internal/glyph"
	"github.com/genomenotebook/genomenotebook/internal/search"
)

// TabWriter writes geometry rows in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	seqID   string
	columns []string
}

// NewTabWriter creates a new tab-delimited writer for rows of seqID.
func NewTabWriter(w io.Writer, seqID string) *TabWriter {
	return &TabWriter{
		w:     bufio.NewWriter(w),
		seqID: seqID,
		columns: []string{
			"#SeqID",
			"Start",
			"End",
			"Strand",
			"Type",
			"Name",
			"Color",
			"Attributes",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single row.
func (tw *TabWriter) Write(r glyph.Row) error {
	values := []string{
		tw.seqID,
		strconv.Itoa(r.XMin),
		strconv.Itoa(r.XMax),
		r.Strand,
		orDash(r.Type),
		orDash(r.Name),
		orDash(r.Color),
		formatAttributes(r.Attributes, attributeOrder(r)),
	}
	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteMatches writes sequence or name search hits, one per line.
func (tw *TabWriter) WriteMatches(matches []search.Match) error {
	if _, err := tw.w.WriteString("#SeqID\tStart\tEnd\tStrand\tName\tColor\n"); err != nil {
		return err
	}
	for _, m := range matches {
		line := fmt.Sprintf("%s\t%d\t%d\t%s\t%s\t%s\n",
			tw.seqID, m.Start, m.End, m.Strand, orDash(m.Name), orDash(m.Color))
		if _, err := tw.w.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// attributeOrder lists the row's attribute keys in their tooltip order.
func attributeOrder(r glyph.Row) []string {
	keys := make([]string, 0, len(r.Attributes))
	for _, entry := range strings.Split(r.Tooltip, "<br>") {
		k, ok := strings.CutPrefix(entry, "<b>")
		if !ok {
			continue
		}
		k, _, ok = strings.Cut(k, ":</b>")
		if !ok {
			continue
		}
		if _, ok := r.Attributes[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func formatAttributes(attrs map[string]string, keys []string) string {
	if len(keys) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+attrs[k])
	}
	return strings.Join(parts, ";")
}
