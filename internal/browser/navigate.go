package browser

import (
	"go.uber.org/zap"

	"github.com/genomenotebook/genomenotebook/internal/glyph"
	"github.com/genomenotebook/genomenotebook/internal/search"
	"github.com/genomenotebook/genomenotebook/internal/viewport"
	"github.com/genomenotebook/genomenotebook/internal/window"
)

// Update describes the outcome of a viewport event.
type Update struct {
	Viewport    viewport.Range `json:"viewport"`
	Moved       bool           `json:"moved"`
	Republished bool           `json:"republished"` // the primary geometry subset was recomputed
	Loaded      window.Loaded  `json:"loaded_range"`
	Rows        []glyph.Row    `json:"rows,omitempty"` // set only when Republished
	Sequence    string         `json:"sequence"`
	Match       *search.Match  `json:"match,omitempty"`
	Matches     int            `json:"matches"`
}

// mutate applies a viewport change and reports its effect. Loaders follow the
// viewport through its change listeners.
func (b *Browser) mutate(fn func(*viewport.Viewport) bool) Update {
	before := b.loader.Refreshes()
	moved := fn(b.viewport)

	rows, loaded, _ := b.loader.Update(b.viewport.Range())
	u := Update{
		Viewport:    b.viewport.Range(),
		Moved:       moved,
		Republished: b.loader.Refreshes() > before,
		Loaded:      loaded,
		Sequence:    b.SequenceText(),
	}
	if u.Republished {
		u.Rows = rows
	}
	if b.navigator != nil {
		u.Matches = b.navigator.Len()
	}
	return u
}

// Pan shifts the viewport by delta bases.
func (b *Browser) Pan(delta int) Update {
	return b.mutate(func(v *viewport.Viewport) bool { return v.Pan(delta) })
}

// Zoom scales the viewport around pivot.
func (b *Browser) Zoom(factor, pivot float64) Update {
	return b.mutate(func(v *viewport.Viewport) bool { return v.Zoom(factor, pivot) })
}

// SetRange moves the viewport to [start, end].
func (b *Browser) SetRange(start, end int) Update {
	return b.mutate(func(v *viewport.Viewport) bool { return v.Set(start, end) })
}

// Navigate centers the viewport on pos.
func (b *Browser) Navigate(pos int) Update {
	return b.mutate(func(v *viewport.Viewport) bool { return v.CenterOn(float64(pos)) })
}

// NavigateQuery searches feature names over every row, falling back to the
// sequence when no name matches, and centers on the first hit. The matches
// become the Next/Previous cycle; an empty result clears it.
func (b *Browser) NavigateQuery(query string) Update {
	var matches []search.Match
	if b.opts.Search {
		matches = search.RowMatches(search.FindByName(b.rows, query))
	}
	if len(matches) == 0 && b.showSeq {
		matches = b.index.FindSequence(query)
	}
	b.logger.Debug("search", zap.String("query", query), zap.Int("matches", len(matches)))

	b.navigator = search.NewNavigator(matches)
	return b.step((*search.Navigator).Next)
}

// Next centers the viewport on the following match.
func (b *Browser) Next() Update {
	return b.step((*search.Navigator).Next)
}

// Previous centers the viewport on the preceding match.
func (b *Browser) Previous() Update {
	return b.step((*search.Navigator).Previous)
}

func (b *Browser) step(move func(*search.Navigator) (search.Match, bool)) Update {
	if b.navigator == nil {
		return b.mutate(func(*viewport.Viewport) bool { return false })
	}
	m, ok := move(b.navigator)
	if !ok {
		return b.mutate(func(*viewport.Viewport) bool { return false })
	}
	u := b.mutate(func(v *viewport.Viewport) bool { return v.CenterOn(m.Center()) })
	u.Match = &m
	return u
}

// SearchMatches returns the matches of the last query.
func (b *Browser) SearchMatches() []search.Match {
	if b.navigator == nil {
		return nil
	}
	return b.navigator.Matches()
}

// SequenceText returns the sequence under the viewport when the sequence
// panel is enabled and the viewport is narrow enough to show it.
func (b *Browser) SequenceText() string {
	if !b.showSeq {
		return ""
	}
	return b.index.View(b.viewport.Range(), b.opts.Width, b.opts.CharWidth)
}
