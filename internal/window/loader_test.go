package window

import (
	"testing"

	"github.com/genomenotebook/genomenotebook/internal/feature"
	"github.com/genomenotebook/genomenotebook/internal/glyph"
	"github.com/genomenotebook/genomenotebook/internal/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsFor(t *testing.T, spans ...[2]int) []glyph.Row {
	t.Helper()
	fs := make([]*feature.Feature, len(spans))
	for i, s := range spans {
		fs[i] = &feature.Feature{Type: "CDS", Start: s[0], End: s[1], Strand: feature.Plus}
	}
	return glyph.NewRenderer(nil, glyph.DefaultOptions()).RenderAll(fs, 2)
}

func indexes(rows []glyph.Row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Index
	}
	return out
}

func TestUpdate_FirstCallPublishes(t *testing.T) {
	l := New(rowsFor(t, [2]int{100, 200}), viewport.Range{Start: 0, End: 1000}, 0)

	rows, loaded, changed := l.Update(viewport.Range{Start: 0, End: 1000})
	require.True(t, changed)
	require.Len(t, rows, 1)
	assert.Equal(t, Loaded{Start: 0, End: 1000, Margin: 0}, loaded)
	// arrow base at end - min(size, 100)
	assert.Equal(t, 100.0, rows[0].Xs[2])
}

func TestUpdate_ThresholdExamples(t *testing.T) {
	l := New(rowsFor(t, [2]int{10, 40}, [2]int{300, 350}, [2]int{600, 700}), viewport.Range{Start: 0, End: 1000}, 100)

	_, loaded, changed := l.Update(viewport.Range{Start: 50, End: 150})
	require.True(t, changed)
	assert.Equal(t, Loaded{Start: 0, End: 250, Margin: 100}, loaded)
	assert.Equal(t, 1, l.Refreshes())

	// micro-pan inside the loaded range
	rows, loaded, changed := l.Update(viewport.Range{Start: 90, End: 190})
	assert.False(t, changed)
	assert.Equal(t, Loaded{Start: 0, End: 250, Margin: 100}, loaded)
	assert.Equal(t, []int{0}, indexes(rows))
	assert.Equal(t, 1, l.Refreshes())

	rows, loaded, changed = l.Update(viewport.Range{Start: 210, End: 310})
	assert.True(t, changed)
	assert.Equal(t, Loaded{Start: 110, End: 410, Margin: 100}, loaded)
	assert.Equal(t, []int{1}, indexes(rows))
	assert.Equal(t, 2, l.Refreshes())
}

func TestUpdate_RecomputeIffOutsideLoaded(t *testing.T) {
	l := New(rowsFor(t, [2]int{100, 200}), viewport.Range{Start: 0, End: 100000}, 1000)
	l.Update(viewport.Range{Start: 5000, End: 6000})

	tests := []struct {
		v    viewport.Range
		want bool
	}{
		{viewport.Range{Start: 4000, End: 7000}, false},
		{viewport.Range{Start: 3999, End: 5000}, true},
		{viewport.Range{Start: 3000, End: 5000}, false},
		{viewport.Range{Start: 4000, End: 6001}, true},
	}
	for _, tt := range tests {
		before, _ := l.Loaded()
		_, _, changed := l.Update(tt.v)
		want := tt.v.Start < before.Start || tt.v.End > before.End
		assert.Equal(t, want, changed, "viewport %v loaded %+v", tt.v, before)
		assert.Equal(t, tt.want, changed, "viewport %v", tt.v)
	}
}

func TestUpdate_ClampsToBounds(t *testing.T) {
	l := New(nil, viewport.Range{Start: 1000, End: 5000}, 20000)
	rows, loaded, changed := l.Update(viewport.Range{Start: 2000, End: 3000})

	assert.True(t, changed)
	assert.Equal(t, Loaded{Start: 1000, End: 5000, Margin: 20000}, loaded)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestQuery_HalfOpen(t *testing.T) {
	l := New(rowsFor(t, [2]int{100, 200}, [2]int{150, 400}, [2]int{500, 600}), viewport.Range{Start: 0, End: 1000}, 0)

	assert.Equal(t, []int{0, 1}, indexes(l.Query(0, 201)))
	assert.Equal(t, []int{1}, indexes(l.Query(200, 500)))
	assert.Empty(t, l.Query(400, 500))
	assert.Equal(t, []int{0, 1, 2}, indexes(l.Query(0, 1000)))
}

func TestAttach(t *testing.T) {
	v, _, err := viewport.New(viewport.Config{Bounds: viewport.Range{Start: 0, End: 100000}, Window: 1000})
	require.NoError(t, err)

	l := New(rowsFor(t, [2]int{100, 200}, [2]int{60000, 61000}), v.Bounds(), 5000)
	l.Attach(v)
	l.Update(v.Range())
	assert.Empty(t, l.Published())

	v.CenterOn(60500)
	assert.Equal(t, []int{1}, indexes(l.Published()))
	assert.Equal(t, 2, l.Refreshes())

	v.Pan(100)
	assert.Equal(t, 2, l.Refreshes())
}

func TestInvalidateAndUpdateRows(t *testing.T) {
	l := New(rowsFor(t, [2]int{100, 200}), viewport.Range{Start: 0, End: 1000}, 100)
	l.Update(viewport.Range{Start: 100, End: 200})

	_, _, changed := l.Update(viewport.Range{Start: 100, End: 200})
	assert.False(t, changed)

	l.Invalidate()
	_, _, changed = l.Update(viewport.Range{Start: 100, End: 200})
	assert.True(t, changed)

	l.UpdateRows(rowsFor(t, [2]int{100, 200}, [2]int{150, 250}))
	rows, _, changed := l.Update(viewport.Range{Start: 100, End: 200})
	assert.True(t, changed)
	assert.Len(t, rows, 2)
}
