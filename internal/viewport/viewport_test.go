package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func newTestViewport(t *testing.T, pos, window int) *Viewport {
	t.Helper()
	v, warnings, err := New(Config{
		Bounds:   Range{Start: 0, End: 1000000},
		Position: intPtr(pos),
		Window:   window,
	})
	require.NoError(t, err)
	require.Empty(t, warnings)
	return v
}

func TestNew_Defaults(t *testing.T) {
	v, warnings, err := New(Config{Bounds: Range{Start: 0, End: 100000}})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, Range{Start: 45000, End: 55000}, v.Range())
	assert.Equal(t, DefaultMinInterval, v.MinInterval())
	assert.Equal(t, DefaultMaxInterval, v.MaxInterval())
}

func TestNew_PositionOutOfBounds(t *testing.T) {
	v, warnings, err := New(Config{
		Bounds:   Range{Start: 1000, End: 3000},
		Position: intPtr(5000),
		Window:   200,
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, PositionOutOfBounds, warnings[0].Kind)
	assert.Equal(t, Range{Start: 1900, End: 2100}, v.Range())
}

func TestNew_WindowTooLarge(t *testing.T) {
	v, warnings, err := New(Config{
		Bounds:      Range{Start: 0, End: 1000000},
		Position:    intPtr(500000),
		Window:      300000,
		MaxInterval: 100000,
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, WindowTooLarge, warnings[0].Kind)
	assert.Equal(t, 100000, v.Range().Width())
}

func TestNew_WindowCappedByBounds(t *testing.T) {
	v, warnings, err := New(Config{Bounds: Range{Start: 0, End: 4000}, Window: 10000})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, Range{Start: 0, End: 4000}, v.Range())
}

func TestNew_InvalidConfig(t *testing.T) {
	_, _, err := New(Config{Bounds: Range{Start: 10, End: 10}})
	assert.Error(t, err)

	_, _, err = New(Config{Bounds: Range{Start: 0, End: 10}, MinInterval: 500, MaxInterval: 100})
	assert.Error(t, err)
}

func TestPan(t *testing.T) {
	v := newTestViewport(t, 500000, 10000)

	assert.True(t, v.Pan(1000))
	assert.Equal(t, Range{Start: 496000, End: 506000}, v.Range())

	assert.True(t, v.Pan(-2000))
	assert.Equal(t, Range{Start: 494000, End: 504000}, v.Range())
}

func TestPan_ShrinksAtBounds(t *testing.T) {
	v := newTestViewport(t, 990000, 10000)
	require.Equal(t, Range{Start: 985000, End: 995000}, v.Range())

	assert.True(t, v.Pan(50000))
	assert.Equal(t, Range{Start: 990000, End: 1000000}, v.Range())

	assert.False(t, v.Pan(10), "already at the upper bound")

	v.Set(0, 5000)
	assert.False(t, v.Pan(-1))
}

func TestZoom_AroundPivot(t *testing.T) {
	v := newTestViewport(t, 500000, 10000)

	assert.True(t, v.Zoom(2, 500000))
	assert.Equal(t, Range{Start: 490000, End: 510000}, v.Range())

	assert.True(t, v.Zoom(0.5, 495000))
	assert.Equal(t, Range{Start: 492500, End: 502500}, v.Range())
}

func TestZoom_ClampedToMaxIntervalCentersOnPivot(t *testing.T) {
	v := newTestViewport(t, 500000, 10000)

	v.Zoom(20, 498000)
	assert.Equal(t, Range{Start: 448000, End: 548000}, v.Range())
}

func TestZoom_ClampedThenShiftedIntoBounds(t *testing.T) {
	v := newTestViewport(t, 5000, 10000)
	require.Equal(t, Range{Start: 0, End: 10000}, v.Range())

	v.Zoom(20, 5000)
	assert.Equal(t, Range{Start: 0, End: 100000}, v.Range())
}

func TestZoom_ClampedToMinInterval(t *testing.T) {
	v := newTestViewport(t, 500000, 10000)

	v.Zoom(0.001, 500000)
	assert.Equal(t, Range{Start: 499985, End: 500015}, v.Range())
}

func TestZoom_InvalidFactorIgnored(t *testing.T) {
	v := newTestViewport(t, 500000, 10000)
	before := v.Range()
	assert.False(t, v.Zoom(0, 500000))
	assert.False(t, v.Zoom(-2, 500000))
	assert.Equal(t, before, v.Range())
}

func TestSet(t *testing.T) {
	v := newTestViewport(t, 500000, 10000)

	tests := []struct {
		name       string
		start, end int
		want       Range
	}{
		{"plain", 100, 2100, Range{Start: 100, End: 2100}},
		{"swapped", 2100, 100, Range{Start: 100, End: 2100}},
		{"below bounds", -500, 500, Range{Start: 0, End: 1000}},
		{"too narrow", 1000, 1010, Range{Start: 990, End: 1020}},
		{"too wide", 0, 500000, Range{Start: 200000, End: 300000}},
		{"above bounds", 999000, 1001000, Range{Start: 998000, End: 1000000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v.Set(tt.start, tt.end)
			assert.Equal(t, tt.want, v.Range())
		})
	}
}

func TestCenterOn(t *testing.T) {
	v := newTestViewport(t, 500000, 10000)

	assert.True(t, v.CenterOn(20000))
	assert.Equal(t, Range{Start: 15000, End: 25000}, v.Range())

	v.CenterOn(100)
	assert.Equal(t, Range{Start: 0, End: 10000}, v.Range())
}

func TestSmallBoundsBelowMinInterval(t *testing.T) {
	v, _, err := New(Config{Bounds: Range{Start: 0, End: 20}})
	require.NoError(t, err)
	assert.Equal(t, Range{Start: 0, End: 20}, v.Range())

	v.Zoom(0.1, 10)
	assert.Equal(t, Range{Start: 0, End: 20}, v.Range())
}

func TestOnChange(t *testing.T) {
	v := newTestViewport(t, 500000, 10000)

	var seen []Range
	v.OnChange(func(r Range) { seen = append(seen, r) })

	v.Pan(100)
	v.Pan(0)
	v.Set(v.Start(), v.End())
	v.CenterOn(1000)

	require.Len(t, seen, 2)
	assert.Equal(t, Range{Start: 495100, End: 505100}, seen[0])
	assert.Equal(t, Range{Start: 0, End: 10000}, seen[1])
}
