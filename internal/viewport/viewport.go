// Package viewport holds the shared visible coordinate interval of a browser.
package viewport

import (
	"fmt"
	"math"
)

// Defaults for a new viewport.
const (
	DefaultMinInterval = 30
	DefaultMaxInterval = 100000
	DefaultWindow      = 10000
)

// Range is a coordinate interval [Start, End].
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Width returns End - Start.
func (r Range) Width() int { return r.End - r.Start }

// Center returns the midpoint of the range.
func (r Range) Center() float64 { return float64(r.Start+r.End) / 2 }

// Contains reports whether o lies entirely within r.
func (r Range) Contains(o Range) bool { return o.Start >= r.Start && o.End <= r.End }

func (r Range) String() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

// WarningKind classifies a recoverable construction problem.
type WarningKind string

// Warning kinds raised while building a viewport.
const (
	PositionOutOfBounds WarningKind = "position_out_of_bounds"
	WindowTooLarge      WarningKind = "window_too_large"
)

// Warning reports a construction request that was replaced by a safe default.
type Warning struct {
	Kind    WarningKind
	Message string
}

// Config describes a viewport to construct.
type Config struct {
	Bounds      Range
	Position    *int // requested center; nil centers on the bounds
	Window      int  // requested width; 0 uses DefaultWindow
	MinInterval int  // 0 uses DefaultMinInterval
	MaxInterval int  // 0 uses DefaultMaxInterval
}

// Listener is called after every mutation that changed the viewport.
type Listener func(Range)

// Viewport is the visible interval, clamped to its bounds and interval limits.
// It is shared by reference between a browser's consumers and is not safe for
// concurrent use.
type Viewport struct {
	cur         Range
	bounds      Range
	minInterval int
	maxInterval int
	listeners   []Listener
}

// New builds a viewport. A requested position outside the bounds is replaced
// by the bounds center, and a requested window wider than the max interval is
// capped; both produce a warning.
func New(cfg Config) (*Viewport, []Warning, error) {
	if cfg.Bounds.End <= cfg.Bounds.Start {
		return nil, nil, fmt.Errorf("invalid viewport bounds %s", cfg.Bounds)
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultMinInterval
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = DefaultMaxInterval
	}
	if cfg.MinInterval > cfg.MaxInterval {
		return nil, nil, fmt.Errorf("min interval %d exceeds max interval %d", cfg.MinInterval, cfg.MaxInterval)
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}

	v := &Viewport{
		bounds:      cfg.Bounds,
		minInterval: cfg.MinInterval,
		maxInterval: cfg.MaxInterval,
	}

	var warnings []Warning

	center := (cfg.Bounds.Start + cfg.Bounds.End) / 2
	if cfg.Position != nil {
		if *cfg.Position < cfg.Bounds.Start || *cfg.Position > cfg.Bounds.End {
			warnings = append(warnings, Warning{
				Kind:    PositionOutOfBounds,
				Message: fmt.Sprintf("initial position %d outside of bounds %s, centering on %d", *cfg.Position, cfg.Bounds, center),
			})
		} else {
			center = *cfg.Position
		}
	}

	win := cfg.Window
	if win > cfg.MaxInterval {
		warnings = append(warnings, Warning{
			Kind:    WindowTooLarge,
			Message: fmt.Sprintf("initial window %d larger than max interval %d", win, cfg.MaxInterval),
		})
		win = cfg.MaxInterval
	}
	win = min(win, cfg.Bounds.Width())

	half := float64(win) / 2
	v.cur = v.clamp(Range{
		Start: int(math.Round(float64(center) - half)),
		End:   int(math.Round(float64(center) + half)),
	})
	return v, warnings, nil
}

// Range returns the current interval.
func (v *Viewport) Range() Range { return v.cur }

// Start returns the current start.
func (v *Viewport) Start() int { return v.cur.Start }

// End returns the current end.
func (v *Viewport) End() int { return v.cur.End }

// Bounds returns the global bounds.
func (v *Viewport) Bounds() Range { return v.bounds }

// MinInterval returns the smallest allowed width.
func (v *Viewport) MinInterval() int { return v.minInterval }

// MaxInterval returns the largest allowed width.
func (v *Viewport) MaxInterval() int { return v.maxInterval }

// OnChange registers a listener for effective mutations.
func (v *Viewport) OnChange(l Listener) {
	v.listeners = append(v.listeners, l)
}

// Pan shifts the interval by delta bases. The shift is shortened so that the
// interval stays within the bounds. It reports whether the viewport moved.
func (v *Viewport) Pan(delta int) bool {
	if delta > 0 {
		delta = min(delta, v.bounds.End-v.cur.End)
	} else {
		delta = max(delta, v.bounds.Start-v.cur.Start)
	}
	return v.apply(Range{Start: v.cur.Start + delta, End: v.cur.End + delta})
}

// Zoom scales the width by factor around pivot; factor > 1 zooms out. The
// resulting width is clamped to the interval limits while keeping pivot at the
// same relative position. It reports whether the viewport changed.
func (v *Viewport) Zoom(factor float64, pivot float64) bool {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return false
	}
	width := float64(v.cur.Width()) * factor
	clamped := math.Min(math.Max(width, float64(v.minInterval)), float64(v.maxInterval))

	var start float64
	if clamped != width {
		// Clamped zooms center on the pivot.
		start = pivot - clamped/2
	} else {
		start = pivot - (pivot-float64(v.cur.Start))*factor
	}
	s := int(math.Round(start))
	return v.apply(Range{Start: s, End: s + int(math.Round(clamped))})
}

// Set moves the viewport to [start, end], clamped.
func (v *Viewport) Set(start, end int) bool {
	if end < start {
		start, end = end, start
	}
	return v.apply(Range{Start: start, End: end})
}

// CenterOn keeps the width and centers the interval on pos.
func (v *Viewport) CenterOn(pos float64) bool {
	w := v.cur.Width()
	s := int(math.Round(pos - float64(w)/2))
	return v.apply(Range{Start: s, End: s + w})
}

func (v *Viewport) apply(r Range) bool {
	r = v.clamp(r)
	if r == v.cur {
		return false
	}
	v.cur = r
	for _, l := range v.listeners {
		l(r)
	}
	return true
}

// clamp enforces the width limits and then shifts r into the bounds,
// preserving its center where possible.
func (v *Viewport) clamp(r Range) Range {
	maxW := min(v.maxInterval, v.bounds.Width())
	minW := min(v.minInterval, maxW)

	w := r.Width()
	if w < minW || w > maxW {
		target := max(minW, min(w, maxW))
		c := r.Center()
		r.Start = int(math.Round(c - float64(target)/2))
		r.End = r.Start + target
	}

	if r.Start < v.bounds.Start {
		r.End += v.bounds.Start - r.Start
		r.Start = v.bounds.Start
	}
	if r.End > v.bounds.End {
		r.Start -= r.End - v.bounds.End
		r.End = v.bounds.End
	}
	return r
}
