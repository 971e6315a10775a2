package browser

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/genomenotebook/genomenotebook/internal/featuredb"
	"github.com/genomenotebook/genomenotebook/internal/track"
	"github.com/genomenotebook/genomenotebook/internal/window"
)

// Stack shows several browsers, one per sequence, under the viewport of the
// first one.
type Stack struct {
	browsers []*Browser
	tracks   []*track.Track
}

// NewStack links browsers[1:] as tracks of browsers[0]. Each stacked track
// keeps its own glyph rows behind a loader that follows the shared viewport.
func NewStack(browsers ...*Browser) (*Stack, error) {
	if len(browsers) == 0 {
		return nil, &ConfigurationError{Reason: "a stack needs at least one browser"}
	}
	first := browsers[0]
	s := &Stack{browsers: browsers}
	for _, b := range browsers[1:] {
		l := window.New(b.rows, first.bounds, first.opts.Margin)
		l.SetLogger(first.logger)
		t := first.AddTrack(track.Options{Name: b.seqID, Height: b.opts.Height, Loader: l})
		s.tracks = append(s.tracks, t)
	}
	return s, nil
}

// NewStackFromDB builds one browser per sequence stored in the database at
// opts.DBPath and stacks them in sequence id order.
func NewStackFromDB(opts Options, options ...Option) (*Stack, error) {
	if opts.DBPath == "" {
		return nil, &ConfigurationError{Reason: "a database path is required"}
	}
	db, err := featuredb.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open feature database: %w", err)
	}
	ids, err := db.SeqIDs()
	db.Close()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, &ConfigurationError{Reason: "the database holds no sequences"}
	}

	browsers := make([]*Browser, 0, len(ids))
	for _, id := range ids {
		o := opts
		o.SeqID = id
		b, err := New(o, options...)
		if err != nil {
			return nil, fmt.Errorf("browser for %s: %w", id, err)
		}
		b.logger.Debug("stacked browser", zap.String("seq_id", id))
		browsers = append(browsers, b)
	}
	return NewStack(browsers...)
}

// Browsers returns the stacked browsers.
func (s *Stack) Browsers() []*Browser { return s.browsers }

// Primary returns the browser owning the shared viewport.
func (s *Stack) Primary() *Browser { return s.browsers[0] }

// Tracks returns the tracks of browsers[1:].
func (s *Stack) Tracks() []*track.Track { return s.tracks }

// Show returns the frame of the primary browser, which includes every
// stacked track.
func (s *Stack) Show() Frame { return s.browsers[0].Show() }
