// Package feature provides the annotated feature store and its loaders.
package feature

// Strand is the strand a feature is annotated on.
type Strand int8

// Strand values.
const (
	Minus    Strand = -1
	NoStrand Strand = 0
	Plus     Strand = 1
)

// String returns the GFF representation of the strand.
func (s Strand) String() string {
	switch s {
	case Plus:
		return "+"
	case Minus:
		return "-"
	default:
		return "."
	}
}

// ParseStrand converts a GFF strand column value.
func ParseStrand(s string) Strand {
	switch s {
	case "+":
		return Plus
	case "-":
		return Minus
	default:
		return NoStrand
	}
}

// Feature represents a single annotated genomic element.
type Feature struct {
	SeqID      string            `json:"seq_id"`
	Source     string            `json:"source"`
	Type       string            `json:"type"`
	Start      int               `json:"start"` // 1-based
	End        int               `json:"end"`   // 1-based, inclusive
	Strand     Strand            `json:"strand"`
	Score      *float64          `json:"score,omitempty"`
	Phase      string            `json:"phase"`
	Attributes map[string]string `json:"attributes"`
	Z          int               `json:"z"` // stacking layer, 0 unless stacked
}

// Left returns the smaller of Start and End.
func (f *Feature) Left() int {
	return min(f.Start, f.End)
}

// Right returns the larger of Start and End.
func (f *Feature) Right() int {
	return max(f.Start, f.End)
}

// Middle returns the midpoint of the feature.
func (f *Feature) Middle() float64 {
	return float64(f.Left()+f.Right()) / 2
}

// Size returns Right - Left.
func (f *Feature) Size() int {
	return f.Right() - f.Left()
}

// Attr returns the named attribute, or "" if it is absent.
func (f *Feature) Attr(name string) string {
	if f.Attributes == nil {
		return ""
	}
	return f.Attributes[name]
}

// Overlaps reports whether the feature intersects the half-open range [left, right).
func (f *Feature) Overlaps(left, right int) bool {
	return f.Right() > left && f.Left() < right
}

// Contains returns true if the given position is within the feature boundaries.
func (f *Feature) Contains(pos int) bool {
	return pos >= f.Left() && pos <= f.Right()
}
