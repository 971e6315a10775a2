package track

import (
	"github.com/genomenotebook/genomenotebook/internal/viewport"
)

// Composer holds a primary track and the auxiliary tracks linked to it.
type Composer struct {
	viewport   *viewport.Viewport
	frameWidth int
	primary    *Track
	aux        []*Track
}

// NewComposer creates a composer whose primary track uses v.
func NewComposer(v *viewport.Viewport, frameWidth int, primary Options) *Composer {
	c := &Composer{viewport: v, frameWidth: frameWidth}
	c.primary = c.link(primary)
	c.layout()
	return c
}

// Viewport returns the shared viewport.
func (c *Composer) Viewport() *viewport.Viewport { return c.viewport }

// Primary returns the primary track.
func (c *Composer) Primary() *Track { return c.primary }

// Aux returns the auxiliary tracks in the order added.
func (c *Composer) Aux() []*Track { return c.aux }

// Tracks returns all tracks from top to bottom.
func (c *Composer) Tracks() []*Track {
	return append([]*Track{c.primary}, c.aux...)
}

// Add links a new track below the existing ones.
func (c *Composer) Add(opts Options) *Track {
	t := c.link(opts)
	c.aux = append(c.aux, t)
	c.layout()
	return t
}

func (c *Composer) link(opts Options) *Track {
	t := newTrack(c.viewport, opts)
	t.frameWidth = c.frameWidth
	if t.loader != nil {
		t.loader.Attach(c.viewport)
	}
	return t
}

// layout keeps tick labels on the bottom track only.
func (c *Composer) layout() {
	tracks := c.Tracks()
	for i, t := range tracks {
		t.showAxis = i == len(tracks)-1
	}
}

// Highlight replaces the highlight set of the primary track, and of every
// auxiliary track when allTracks is set.
func (c *Composer) Highlight(hs []Highlight, allTracks bool) {
	c.primary.SetHighlights(hs)
	if !allTracks {
		return
	}
	for _, t := range c.aux {
		t.SetHighlights(hs)
	}
}

// Refreshes returns the total number of subset recomputations across tracks.
func (c *Composer) Refreshes() int {
	n := 0
	for _, t := range c.Tracks() {
		if t.loader != nil {
			n += t.loader.Refreshes()
		}
	}
	return n
}

// Snapshots returns the state of every track, top to bottom.
func (c *Composer) Snapshots() []Snapshot {
	tracks := c.Tracks()
	out := make([]Snapshot, len(tracks))
	for i, t := range tracks {
		out[i] = t.Snapshot()
	}
	return out
}
