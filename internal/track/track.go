// Package track composes linked horizontal tracks sharing one viewport.
package track

import (
	"fmt"

	"github.com/genomenotebook/genomenotebook/internal/glyph"
	"github.com/genomenotebook/genomenotebook/internal/viewport"
	"github.com/genomenotebook/genomenotebook/internal/window"
)

// Defaults for new tracks.
const (
	DefaultHeight         = 200
	DefaultHighlightColor = "green"
	DefaultHighlightAlpha = 0.2
)

// Highlight is a shaded region drawn across a track.
type Highlight struct {
	Start int               `json:"start"`
	End   int               `json:"end"`
	Color string            `json:"color"`
	Alpha float64           `json:"alpha"`
	Hover map[string]string `json:"hover,omitempty"`
}

// Series kinds.
const (
	Line    = "line"
	Scatter = "scatter"
	Bar     = "bar"
)

// Series is a numeric data lane plotted along the genome axis.
type Series struct {
	Name  string    `json:"name"`
	Kind  string    `json:"kind"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Color string    `json:"color,omitempty"`
}

// Validate checks that X and Y line up.
func (s Series) Validate() error {
	if len(s.X) != len(s.Y) {
		return fmt.Errorf("series %q: %d x values for %d y values", s.Name, len(s.X), len(s.Y))
	}
	switch s.Kind {
	case Line, Scatter, Bar:
	default:
		return fmt.Errorf("series %q: unknown kind %q", s.Name, s.Kind)
	}
	return nil
}

// Options describe a track to add.
type Options struct {
	Name   string
	Height int
	Loader *window.Loader // geometry rows of a stacked browser, or nil
}

// Track is one horizontal lane. Its viewport is shared, never owned.
type Track struct {
	name       string
	height     int
	frameWidth int
	showAxis   bool
	viewport   *viewport.Viewport
	loader     *window.Loader
	series     []Series
	highlights []Highlight
}

func newTrack(v *viewport.Viewport, opts Options) *Track {
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	return &Track{
		name:     opts.Name,
		height:   opts.Height,
		viewport: v,
		loader:   opts.Loader,
	}
}

// Name returns the track name.
func (t *Track) Name() string { return t.name }

// Height returns the track height in pixels.
func (t *Track) Height() int { return t.height }

// FrameWidth returns the plotting width in pixels.
func (t *Track) FrameWidth() int { return t.frameWidth }

// ShowAxisLabels reports whether the track draws x axis tick labels.
func (t *Track) ShowAxisLabels() bool { return t.showAxis }

// Viewport returns the shared viewport.
func (t *Track) Viewport() *viewport.Viewport { return t.viewport }

// Loader returns the track's windowed loader, nil for data or highlight-only tracks.
func (t *Track) Loader() *window.Loader { return t.loader }

// Highlights returns the current highlight set.
func (t *Track) Highlights() []Highlight { return t.highlights }

// SetHighlights replaces the highlight set.
func (t *Track) SetHighlights(hs []Highlight) {
	t.highlights = append([]Highlight(nil), hs...)
}

// AddSeries adds a data lane to the track.
func (t *Track) AddSeries(s Series) error {
	if err := s.Validate(); err != nil {
		return err
	}
	t.series = append(t.series, s)
	return nil
}

// Series returns the data lanes.
func (t *Track) Series() []Series { return t.series }

// Snapshot is the drawable state of a track.
type Snapshot struct {
	Name           string         `json:"name"`
	Height         int            `json:"height"`
	FrameWidth     int            `json:"frame_width"`
	ShowAxisLabels bool           `json:"show_axis_labels"`
	Rows           []glyph.Row    `json:"rows,omitempty"`
	Loaded         *window.Loaded `json:"loaded_range,omitempty"`
	Highlights     []Highlight    `json:"highlights"`
	Series         []Series       `json:"series,omitempty"`
}

// Snapshot returns the track state for the current viewport.
func (t *Track) Snapshot() Snapshot {
	s := Snapshot{
		Name:           t.name,
		Height:         t.height,
		FrameWidth:     t.frameWidth,
		ShowAxisLabels: t.showAxis,
		Highlights:     t.highlights,
		Series:         t.series,
	}
	if s.Highlights == nil {
		s.Highlights = []Highlight{}
	}
	if t.loader != nil {
		rows, loaded, _ := t.loader.Update(t.viewport.Range())
		s.Rows = rows
		s.Loaded = &loaded
	}
	return s
}
