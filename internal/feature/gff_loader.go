package feature

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
)

// DefaultTypes are the feature types loaded when no type filter is given.
var DefaultTypes = []string{"CDS", "repeat_region", "ncRNA", "rRNA", "tRNA"}

// Region is a half-open coordinate range used to restrict loading.
// A zero End means unbounded.
type Region struct {
	Start int
	End   int
}

// Unbounded reports whether the region places no limit on loading.
func (r Region) Unbounded() bool {
	return r.End == 0
}

// GFFLoader loads features from GFF3 files (also accepts gzip files).
type GFFLoader struct {
	path   string
	seqID  string
	region Region
	types  map[string]bool
}

// NewGFFLoader creates a new GFF loader.
func NewGFFLoader(path string) *GFFLoader {
	l := &GFFLoader{path: path}
	l.SetTypes(DefaultTypes)
	return l
}

// SetSeqID restricts loading to one sequence. When unset the first sequence in the file is used.
func (l *GFFLoader) SetSeqID(seqID string) {
	l.seqID = seqID
}

// SetRegion restricts loading to features overlapping the region.
func (l *GFFLoader) SetRegion(r Region) {
	l.region = r
}

// SetTypes sets the feature types to keep. An empty list keeps every type.
func (l *GFFLoader) SetTypes(types []string) {
	if len(types) == 0 {
		l.types = nil
		return
	}
	l.types = make(map[string]bool, len(types))
	for _, t := range types {
		l.types[t] = true
	}
}

// SeqID returns the sequence id used by the last Load.
func (l *GFFLoader) SeqID() string {
	return l.seqID
}

// Load parses the GFF file and appends the selected features to the store.
func (l *GFFLoader) Load(s *Store) error {
	features, err := l.read(false)
	if err != nil {
		return err
	}
	for _, feat := range features {
		if err := s.Add(feat); err != nil {
			return err
		}
	}
	return nil
}

// LoadAll returns the selected features of every sequence in file order,
// ignoring the sequence id restriction.
func (l *GFFLoader) LoadAll() ([]*Feature, error) {
	return l.read(true)
}

func (l *GFFLoader) read(allSeqs bool) ([]*Feature, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open GFF file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return l.parseGFF(reader, allSeqs)
}

// parseGFF reads features and applies the sequence, region and type filters.
func (l *GFFLoader) parseGFF(reader io.Reader, allSeqs bool) ([]*Feature, error) {
	body, attrs, err := featureLines(reader)
	if err != nil {
		return nil, err
	}

	sc := featio.NewScanner(gff.NewReader(body))
	var features []*Feature
	for sc.Next() {
		gf, ok := sc.Feat().(*gff.Feature)
		if !ok {
			continue
		}

		if !allSeqs {
			if l.seqID == "" {
				l.seqID = gf.SeqName
			}
			if gf.SeqName != l.seqID {
				continue
			}
		}
		if l.types != nil && !l.types[gf.Feature] {
			continue
		}

		feat := convertFeature(gf, attrs)
		if !l.region.Unbounded() && !feat.Overlaps(l.region.Start, l.region.End) {
			continue
		}
		features = append(features, feat)
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("scan GFF: %w", err)
	}

	return features, nil
}

// rowTag is the placeholder attribute handed to the biogo reader. It carries
// the record number; the real column 9 is kept aside in attrs.
const rowTag = "gn_row"

// featureLines strips comments and directives, stopping at an embedded ##FASTA
// section. Column 9 of each record is returned in attrs and replaced by a
// rowTag attribute, since the reader only accepts GTF-style tags.
func featureLines(reader io.Reader) (body io.Reader, attrs []string, err error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long attribute columns
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var out bytes.Buffer
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "##FASTA") {
			break
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.SplitN(line, "\t", 10)
		col9 := ""
		if len(fields) > 8 {
			col9 = fields[8]
		}
		if len(fields) >= 8 {
			fields = append(fields[:8], fmt.Sprintf("%s \"%d\"", rowTag, len(attrs)))
		}
		attrs = append(attrs, col9)

		out.WriteString(strings.Join(fields, "\t"))
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan GFF: %w", err)
	}
	return &out, attrs, nil
}

// convertFeature maps a biogo GFF record onto a Feature with 1-based coordinates.
func convertFeature(gf *gff.Feature, attrs []string) *Feature {
	f := &Feature{
		SeqID:      gf.SeqName,
		Source:     gf.Source,
		Type:       gf.Feature,
		Start:      gf.FeatStart + 1,
		End:        gf.FeatEnd,
		Score:      gf.FeatScore,
		Phase:      ".",
		Attributes: parseAttributes(rawAttributes(gf, attrs)),
	}

	switch gf.FeatStrand {
	case seq.Plus:
		f.Strand = Plus
	case seq.Minus:
		f.Strand = Minus
	}

	if gf.FeatFrame != gff.NoFrame {
		f.Phase = strconv.Itoa(int(gf.FeatFrame))
	}

	return f
}

// rawAttributes returns the original column 9 of a record read through featureLines.
func rawAttributes(gf *gff.Feature, attrs []string) string {
	i, err := strconv.Atoi(strings.Trim(gf.FeatAttributes.Get(rowTag), `"`))
	if err != nil || i < 0 || i >= len(attrs) {
		return ""
	}
	return attrs[i]
}

// parseAttributes parses a GFF3 (key=value;...) or GTF style (key "value"; ...)
// attribute column. GFF3 values are percent-decoded after splitting on ';'.
func parseAttributes(col string) map[string]string {
	out := make(map[string]string)
	if col == "." {
		return out
	}
	for _, part := range strings.Split(col, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, ok := strings.Cut(part, "=")
		if !ok {
			key, value, ok = strings.Cut(part, " ")
			if !ok {
				continue
			}
			value = strings.Trim(strings.TrimSpace(value), "\"")
		}

		if unescaped, err := url.PathUnescape(value); err == nil {
			value = unescaped
		}
		out[strings.TrimSpace(key)] = value
	}
	return out
}
