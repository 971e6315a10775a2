// Package window publishes the subset of geometry rows around the viewport,
// refreshing it only when the viewport leaves the loaded range.
package window

import (
	"go.uber.org/zap"

	"github.com/genomenotebook/genomenotebook/internal/feature"
	"github.com/genomenotebook/genomenotebook/internal/glyph"
	"github.com/genomenotebook/genomenotebook/internal/viewport"
)

// DefaultMargin is the number of bases loaded on each side of the viewport.
const DefaultMargin = 20000

// Loaded is the materialized range around the viewport.
type Loaded struct {
	Start  int `json:"start"`
	End    int `json:"end"`
	Margin int `json:"margin"`
}

// Covers reports whether r lies within the loaded range.
func (l Loaded) Covers(r viewport.Range) bool {
	return r.Start >= l.Start && r.End <= l.End
}

// Loader holds every geometry row of a sequence and the currently published subset.
type Loader struct {
	rows      []glyph.Row
	index     *feature.IntervalIndex
	bounds    viewport.Range
	margin    int
	loaded    Loaded
	published []glyph.Row
	valid     bool
	refreshes int
	logger    *zap.Logger
}

// New creates a loader over rows. A negative margin is treated as 0.
func New(rows []glyph.Row, bounds viewport.Range, margin int) *Loader {
	l := &Loader{
		rows:   rows,
		bounds: bounds,
		margin: max(margin, 0),
		logger: zap.NewNop(),
	}
	l.reindex()
	return l
}

// SetLogger sets the logger for refresh events.
func (l *Loader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

func (l *Loader) reindex() {
	spans := make([]feature.Span, len(l.rows))
	for i, r := range l.rows {
		spans[i] = feature.Span{Start: r.XMin, End: r.XMax}
	}
	l.index = feature.BuildIntervalIndex(spans)
}

// Update handles a viewport change. The subset is recomputed only if nothing
// has been published yet or v extends past the loaded range; otherwise the
// previous publication is returned with changed == false.
func (l *Loader) Update(v viewport.Range) (rows []glyph.Row, loaded Loaded, changed bool) {
	if l.valid && l.loaded.Covers(v) {
		return l.published, l.loaded, false
	}

	l.loaded = Loaded{
		Start:  max(v.Start-l.margin, l.bounds.Start),
		End:    min(v.End+l.margin, l.bounds.End),
		Margin: l.margin,
	}
	l.published = l.Query(l.loaded.Start, l.loaded.End)
	l.valid = true
	l.refreshes++

	l.logger.Debug("glyph subset refreshed",
		zap.Int("start", l.loaded.Start),
		zap.Int("end", l.loaded.End),
		zap.Int("rows", len(l.published)),
		zap.Int("refreshes", l.refreshes))

	return l.published, l.loaded, true
}

// Query returns the rows whose x extent intersects [a, b), in row order.
// An empty result is a valid, non-nil slice.
func (l *Loader) Query(a, b int) []glyph.Row {
	ids := l.index.Overlapping(a, b)
	out := make([]glyph.Row, len(ids))
	for i, id := range ids {
		out[i] = l.rows[id]
	}
	return out
}

// Attach refreshes the loader on every change of v.
func (l *Loader) Attach(v *viewport.Viewport) {
	v.OnChange(func(r viewport.Range) { l.Update(r) })
}

// Published returns the current subset, nil before the first update.
func (l *Loader) Published() []glyph.Row { return l.published }

// Loaded returns the loaded range and whether it is valid.
func (l *Loader) Loaded() (Loaded, bool) { return l.loaded, l.valid }

// Rows returns every row, independent of the loaded range.
func (l *Loader) Rows() []glyph.Row { return l.rows }

// Margin returns the loading margin.
func (l *Loader) Margin() int { return l.margin }

// Refreshes returns how many times the subset was recomputed.
func (l *Loader) Refreshes() int { return l.refreshes }

// Invalidate forces the next Update to recompute.
func (l *Loader) Invalidate() {
	l.valid = false
}

// UpdateRows replaces the row set and invalidates the publication.
func (l *Loader) UpdateRows(rows []glyph.Row) {
	l.rows = rows
	l.reindex()
	l.Invalidate()
}
