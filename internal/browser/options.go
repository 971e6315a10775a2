package browser

import (
	"github.com/genomenotebook/genomenotebook/internal/feature"
	"github.com/genomenotebook/genomenotebook/internal/glyph"
	"github.com/genomenotebook/genomenotebook/internal/search"
	"github.com/genomenotebook/genomenotebook/internal/viewport"
	"github.com/genomenotebook/genomenotebook/internal/window"
)

// Options configure a browser. Exactly one of GFFPath, DBPath and Features
// must be set.
type Options struct {
	GFFPath  string
	DBPath   string
	Features []*feature.Feature

	GenomePath string // FASTA file holding the sequence
	Sequence   string // sequence given directly; takes precedence over GenomePath
	SeqID      string // defaults to the first sequence of the feature source

	Bounds      *viewport.Range // defaults to the sequence or the last feature
	Position    *int            // initial center
	Window      int             // initial width
	MinInterval int
	MaxInterval int
	Margin      int // bases loaded on each side of the viewport

	Types      []string            // feature types to load; nil uses feature.DefaultTypes, empty loads all
	NameAttr   string              // name attribute of every type when Glyphs is nil
	NameAttrs  map[string]string   // per-type name attribute overrides
	Attributes map[string][]string // per-type hover attributes
	Glyphs     *glyph.Table        // nil uses glyph.DefaultTable

	FeatureHeight       float64
	LabelVerticalOffset float64
	LabelJustify        string
	ColorAttribute      string
	ZStack              bool

	Width        int // frame width in pixels
	Height       int // annotation track height in pixels
	CharWidth    int // pixels per base in the sequence panel
	ShowSequence bool
	Search       bool
	Workers      int // geometry workers; 0 uses every CPU
}

// DefaultOptions returns options with every layout default filled in and no source.
func DefaultOptions() Options {
	geo := glyph.DefaultOptions()
	return Options{
		Window:              viewport.DefaultWindow,
		MinInterval:         viewport.DefaultMinInterval,
		MaxInterval:         viewport.DefaultMaxInterval,
		Margin:              window.DefaultMargin,
		NameAttr:            "gene",
		FeatureHeight:       geo.FeatureHeight,
		LabelVerticalOffset: geo.LabelVerticalOffset,
		LabelJustify:        geo.LabelJustify,
		Width:               600,
		Height:              150,
		CharWidth:           search.DefaultCharWidth,
		ShowSequence:        true,
		Search:              true,
	}
}

func (o Options) sourceCount() int {
	n := 0
	if o.GFFPath != "" {
		n++
	}
	if o.DBPath != "" {
		n++
	}
	if o.Features != nil {
		n++
	}
	return n
}

func (o Options) types() []string {
	if o.Types == nil {
		return feature.DefaultTypes
	}
	return o.Types
}

func (o Options) validate() error {
	if n := o.sourceCount(); n != 1 {
		return &ConfigurationError{Reason: "exactly one of a GFF path, a database path or a feature list must be provided"}
	}
	if o.Bounds != nil && o.Bounds.End <= o.Bounds.Start {
		return &ConfigurationError{Reason: "bounds end must be greater than start"}
	}
	if o.Width <= 0 {
		return &ConfigurationError{Reason: "width must be positive"}
	}
	if o.FeatureHeight <= 0 || o.FeatureHeight > 1 {
		return &ConfigurationError{Reason: "feature height must be in (0, 1]"}
	}
	switch o.LabelJustify {
	case glyph.JustifyCenter, glyph.JustifyLeft:
	default:
		return &ConfigurationError{Reason: "label justify must be center or left"}
	}
	if o.MinInterval > 0 && o.MaxInterval > 0 && o.MinInterval > o.MaxInterval {
		return &ConfigurationError{Reason: "min interval exceeds max interval"}
	}
	return nil
}

// glyphTable builds the glyph table, applying name attributes only when no
// table was supplied.
func (o Options) glyphTable() *glyph.Table {
	if o.Glyphs != nil {
		return o.Glyphs
	}
	t := glyph.DefaultTable()
	if o.NameAttr != "" {
		t.SetAllNameAttrs(o.NameAttr)
	}
	for ft, attr := range o.NameAttrs {
		t.SetNameAttr(ft, attr)
	}
	return t
}

func (o Options) geometry() glyph.Options {
	return glyph.Options{
		FeatureHeight:       o.FeatureHeight,
		LabelVerticalOffset: o.LabelVerticalOffset,
		LabelJustify:        o.LabelJustify,
		ColorAttribute:      o.ColorAttribute,
		Attributes:          o.Attributes,
	}
}

// Option customizes browser construction.
type Option func(*Browser)
