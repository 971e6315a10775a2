package browser

import (
	"fmt"

	"github.com/genomenotebook/genomenotebook/internal/glyph"
	"github.com/genomenotebook/genomenotebook/internal/search"
	"github.com/genomenotebook/genomenotebook/internal/track"
	"github.com/genomenotebook/genomenotebook/internal/viewport"
)

// Frame is everything a rendering surface needs to draw the browser.
type Frame struct {
	SeqID         string           `json:"seq_id"`
	Bounds        viewport.Range   `json:"bounds"`
	Viewport      viewport.Range   `json:"viewport"`
	MinInterval   int              `json:"min_interval"`
	MaxInterval   int              `json:"max_interval"`
	Tracks        []track.Snapshot `json:"tracks"`
	ShowSequence  bool             `json:"show_sequence"`
	Sequence      string           `json:"sequence"`
	Search        bool             `json:"search"`
	Completions   []string         `json:"completions,omitempty"`
	SearchMatches []search.Match   `json:"search_matches,omitempty"`
	Warnings      []Warning        `json:"warnings,omitempty"`
	LabelJustify  string           `json:"label_justify"`
	FeatureHeight float64          `json:"feature_height"`
	CharWidth     int              `json:"char_width"`
}

// Show returns the current state of the browser and its tracks.
func (b *Browser) Show() Frame {
	f := Frame{
		SeqID:         b.seqID,
		Bounds:        b.bounds,
		Viewport:      b.viewport.Range(),
		MinInterval:   b.viewport.MinInterval(),
		MaxInterval:   b.viewport.MaxInterval(),
		Tracks:        b.composer.Snapshots(),
		ShowSequence:  b.showSeq,
		Sequence:      b.SequenceText(),
		Search:        b.opts.Search,
		SearchMatches: b.SearchMatches(),
		Warnings:      b.warnings,
		LabelJustify:  b.opts.LabelJustify,
		FeatureHeight: b.opts.FeatureHeight,
		CharWidth:     b.opts.CharWidth,
	}
	if b.opts.Search {
		f.Completions = search.Completions(b.rows)
	}
	return f
}

// Region is a highlighted interval.
type Region struct {
	Left  int               `json:"left"`
	Right int               `json:"right"`
	Color string            `json:"color,omitempty"` // defaults to green
	Hover map[string]string `json:"hover,omitempty"`
}

// Highlight replaces the highlighted regions of the annotation track, and of
// every added track when allTracks is set.
func (b *Browser) Highlight(regions []Region, alpha float64, allTracks bool) {
	hs := make([]track.Highlight, len(regions))
	for i, r := range regions {
		c := r.Color
		if c == "" {
			c = track.DefaultHighlightColor
		}
		hs[i] = track.Highlight{Start: r.Left, End: r.Right, Color: c, Alpha: alpha, Hover: r.Hover}
	}
	b.composer.Highlight(hs, allTracks)
}

// AddTrack adds a linked track below the existing ones.
func (b *Browser) AddTrack(opts track.Options) *track.Track {
	return b.composer.Add(opts)
}

// AddTooltipData appends a hover entry to every row of featureType, or to
// every row when featureType is empty. values must hold one entry per
// selected row, in row order.
func (b *Browser) AddTooltipData(name string, values []string, featureType string) error {
	var idx []int
	for i, r := range b.rows {
		if featureType == "" || r.Type == featureType {
			idx = append(idx, i)
		}
	}
	if len(idx) != len(values) {
		return fmt.Errorf("tooltip data %q: %d values for %d features", name, len(values), len(idx))
	}

	rows := make([]glyph.Row, len(b.rows))
	copy(rows, b.rows)
	for j, i := range idx {
		rows[i].AppendTooltip(name, values[j])
	}
	b.rows = rows
	b.loader.UpdateRows(rows)
	b.loader.Update(b.viewport.Range())
	return nil
}
