package glyph

import (
	"math"
	"strings"

	"github.com/genomenotebook/genomenotebook/internal/feature"
)

// Label justification values.
const (
	JustifyCenter = "center"
	JustifyLeft   = "left"
)

// Options controls geometry generation.
type Options struct {
	FeatureHeight       float64             // fraction of the track height occupied by glyphs
	LabelVerticalOffset float64             // label distance above the glyph top
	LabelJustify        string              // "center" or "left"
	ColorAttribute      string              // attribute holding a per-feature color
	Attributes          map[string][]string // hover attributes per feature type
}

// DefaultOptions returns the default geometry options.
func DefaultOptions() Options {
	return Options{
		FeatureHeight:       DefaultFeatureHeight,
		LabelVerticalOffset: 0.03,
		LabelJustify:        JustifyCenter,
	}
}

func (o Options) attributes(featureType string) []string {
	if attrs, ok := o.Attributes[featureType]; ok {
		return attrs
	}
	return DefaultAttributes
}

// Row is the drawable geometry of one feature.
type Row struct {
	Index      int               `json:"index"` // position of the feature in its store
	Xs         []float64         `json:"xs"`
	Ys         []float64         `json:"ys"`
	Color      string            `json:"color"`
	Alpha      float64           `json:"alpha"`
	Name       string            `json:"names"`
	LabelX     float64           `json:"label_x"`
	LabelY     float64           `json:"label_y"`
	Pos        float64           `json:"pos"`
	Type       string            `json:"type"`
	Strand     string            `json:"strand"`
	XMin       int               `json:"x_min"`
	XMax       int               `json:"x_max"`
	Attributes map[string]string `json:"attributes"`
	Tooltip    string            `json:"tooltip"`
}

// NewRow builds the geometry row of the feature at position idx of its store.
func NewRow(f *feature.Feature, idx int, table *Table, opts Options) Row {
	rule := table.Lookup(f.Type)
	xs, ys, color, alpha := rule.Render(f, opts.FeatureHeight)

	if f.Z > 0 {
		shift := float64(f.Z) * opts.FeatureHeight
		for i := range ys {
			ys[i] += shift
		}
	}

	if opts.ColorAttribute != "" {
		if c := f.Attr(opts.ColorAttribute); c != "" {
			color = c
		}
	}

	row := Row{
		Index:  idx,
		Xs:     xs,
		Ys:     ys,
		Color:  color,
		Alpha:  alpha,
		Name:   FeatureName(f, rule, DefaultAttributes),
		Pos:    f.Middle(),
		Type:   f.Type,
		Strand: f.Strand.String(),
		LabelY: maxOf(ys) + opts.LabelVerticalOffset,
	}

	row.XMin, row.XMax = extent(xs)
	if opts.LabelJustify == JustifyLeft {
		row.LabelX = float64(f.Left())
	} else {
		row.LabelX = f.Middle()
	}

	attrs := opts.attributes(f.Type)
	row.Attributes = make(map[string]string, len(attrs))
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		v, ok := f.Attributes[a]
		if !ok {
			continue
		}
		row.Attributes[a] = v
		parts = append(parts, FormatAttribute(a, v))
	}
	row.Tooltip = strings.Join(parts, "<br>")

	return row
}

// Rows returns the geometry of every feature intersecting [left, right), in store order.
func Rows(features []*feature.Feature, left, right int, table *Table, opts Options) []Row {
	rows := make([]Row, 0)
	for i, f := range features {
		if f.Overlaps(left, right) {
			rows = append(rows, NewRow(f, i, table, opts))
		}
	}
	return rows
}

// FormatAttribute formats one hover entry.
func FormatAttribute(name, value string) string {
	return "<b>" + name + ":</b> " + value
}

// AppendTooltip adds an entry to the row's hover text.
func (r *Row) AppendTooltip(name, value string) {
	entry := FormatAttribute(name, value)
	if r.Tooltip == "" {
		r.Tooltip = entry
		return
	}
	r.Tooltip += "<br>" + entry
}

func extent(xs []float64) (lo, hi int) {
	if len(xs) == 0 {
		return 0, 0
	}
	minX, maxX := xs[0], xs[0]
	for _, x := range xs[1:] {
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
	}
	return int(math.Floor(minX)), int(math.Ceil(maxX))
}

func maxOf(vs []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vs {
		m = math.Max(m, v)
	}
	return m
}
