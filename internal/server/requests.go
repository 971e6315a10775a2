package server

import (
	"github.com/genomenotebook/genomenotebook/internal/browser"
	"github.com/genomenotebook/genomenotebook/internal/search"
	"github.com/genomenotebook/genomenotebook/internal/track"
	"github.com/genomenotebook/genomenotebook/internal/viewport"
)

const defaultHighlightAlpha = track.DefaultHighlightAlpha

// CreateRequest opens a browser session. Unset fields keep the server defaults.
type CreateRequest struct {
	GFFPath      string          `json:"gff_path"`
	DBPath       string          `json:"db_path"`
	GenomePath   string          `json:"genome_path"`
	SeqID        string          `json:"seq_id"`
	Bounds       *viewport.Range `json:"bounds"`
	Position     *int            `json:"position"`
	Window       int             `json:"window"`
	Types        []string        `json:"types"`
	ZStack       *bool           `json:"z_stack"`
	ShowSequence *bool           `json:"show_sequence"`
	Search       *bool           `json:"search"`
	Width        int             `json:"width"`
}

func (r CreateRequest) options(defaults browser.Options, resolve func(string) (string, error)) (browser.Options, error) {
	opts := defaults
	var err error
	if opts.GFFPath, err = resolve(r.GFFPath); err != nil {
		return opts, err
	}
	if opts.DBPath, err = resolve(r.DBPath); err != nil {
		return opts, err
	}
	if opts.GenomePath, err = resolve(r.GenomePath); err != nil {
		return opts, err
	}
	opts.SeqID = r.SeqID
	opts.Bounds = r.Bounds
	opts.Position = r.Position
	if r.Window > 0 {
		opts.Window = r.Window
	}
	if r.Types != nil {
		opts.Types = r.Types
	}
	if r.ZStack != nil {
		opts.ZStack = *r.ZStack
	}
	if r.ShowSequence != nil {
		opts.ShowSequence = *r.ShowSequence
	}
	if r.Search != nil {
		opts.Search = *r.Search
	}
	if r.Width > 0 {
		opts.Width = r.Width
	}
	return opts, nil
}

// CreateResponse carries the new session id and its first frame.
type CreateResponse struct {
	ID    string        `json:"id"`
	Frame browser.Frame `json:"frame"`
}

// RangeRequest sets the viewport.
type RangeRequest struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// PanRequest shifts the viewport.
type PanRequest struct {
	Delta int `json:"delta"`
}

// ZoomRequest scales the viewport around Pivot, or around its center when Pivot is unset.
type ZoomRequest struct {
	Factor float64  `json:"factor"`
	Pivot  *float64 `json:"pivot"`
}

// NavigateRequest centers the viewport on a position.
type NavigateRequest struct {
	Position int `json:"position"`
}

// SearchRequest runs a name or sequence search.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// SearchResponse is the viewport update plus every match of the query.
type SearchResponse struct {
	Update  browser.Update `json:"update"`
	Matches []search.Match `json:"matches"`
}

// HighlightRequest replaces the highlighted regions.
type HighlightRequest struct {
	Regions   []browser.Region `json:"regions"`
	Alpha     float64          `json:"alpha"`
	AllTracks bool             `json:"all_tracks"`
}

// TooltipRequest appends a hover entry to the rows of one feature type.
type TooltipRequest struct {
	Name        string   `json:"name" binding:"required"`
	Values      []string `json:"values"`
	FeatureType string   `json:"feature_type"`
}
