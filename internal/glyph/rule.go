// Package glyph converts features into drawable polygon geometry.
package glyph

import (
	"fmt"

	"github.com/genomenotebook/genomenotebook/internal/feature"
)

// Shape is the kind of polygon drawn for a feature.
type Shape string

// Glyph shapes.
const (
	Arrow Shape = "arrow"
	Box   Shape = "box"
)

// Track geometry constants, as fractions of the annotation track height.
const (
	Baseline             = 0.05
	DefaultFeatureHeight = 0.15
	MaxArrowHead         = 100 // bases
)

// Rule defines how features of one type are drawn.
type Rule struct {
	Shape    Shape    `json:"shape" mapstructure:"shape"`
	Colors   []string `json:"colors" mapstructure:"colors"` // one color, or one per strand (+, -)
	Alpha    float64  `json:"alpha" mapstructure:"alpha"`
	ShowName bool     `json:"show_name" mapstructure:"show_name"`
	Height   float64  `json:"height" mapstructure:"height"` // relative to other features, in (0, 1]
	NameAttr string   `json:"name_attr" mapstructure:"name_attr"`
}

// Validate checks the rule's ranges.
func (r Rule) Validate() error {
	if r.Shape != Arrow && r.Shape != Box {
		return fmt.Errorf("unknown glyph shape %q", r.Shape)
	}
	if len(r.Colors) < 1 || len(r.Colors) > 2 {
		return fmt.Errorf("glyph needs 1 or 2 colors, got %d", len(r.Colors))
	}
	if r.Alpha < 0 || r.Alpha > 1 {
		return fmt.Errorf("glyph alpha %v outside [0, 1]", r.Alpha)
	}
	if r.Height <= 0 || r.Height > 1 {
		return fmt.Errorf("glyph height %v outside (0, 1]", r.Height)
	}
	return nil
}

// Color returns the fill color for a strand. Two-color rules map + and - to
// the first and second color; anything else gets the first color.
func (r Rule) Color(strand feature.Strand) string {
	if len(r.Colors) == 0 {
		return ""
	}
	if len(r.Colors) > 1 && strand == feature.Minus {
		return r.Colors[1]
	}
	return r.Colors[0]
}

// Coordinates returns the polygon of the feature for this rule's shape.
func (r Rule) Coordinates(f *feature.Feature, featureHeight float64) (xs, ys []float64) {
	if r.Shape == Box {
		return boxCoordinates(f, r.Height, featureHeight)
	}
	return arrowCoordinates(f, r.Height, featureHeight)
}

// Render returns the polygon, fill color and alpha of a feature.
func (r Rule) Render(f *feature.Feature, featureHeight float64) (xs, ys []float64, color string, alpha float64) {
	xs, ys = r.Coordinates(f, featureHeight)
	return xs, ys, r.Color(f.Strand), r.Alpha
}

// verticalBand returns the bottom and top of a glyph of relative height h.
func verticalBand(h, featureHeight float64) (yMin, yMax float64) {
	offset := featureHeight * (1 - h) / 2
	return Baseline + offset, Baseline + featureHeight - offset
}

// ArrowBase returns the x coordinate of the arrowhead base. The head points at
// Right on the + strand and at Left otherwise.
func ArrowBase(f *feature.Feature) (tip, base int) {
	head := min(f.Size(), MaxArrowHead)
	if f.Strand == feature.Plus {
		return f.Right(), f.Right() - head
	}
	return f.Left(), f.Left() + head
}

func arrowCoordinates(f *feature.Feature, h, featureHeight float64) (xs, ys []float64) {
	tip, base := ArrowBase(f)
	tail := f.Left()
	if f.Strand != feature.Plus {
		tail = f.Right()
	}

	xs = []float64{float64(tail), float64(tail), float64(base), float64(tip), float64(base)}

	yMin, yMax := verticalBand(h, featureHeight)
	ys = []float64{yMin, yMax, yMax, (yMax + yMin) / 2, yMin}
	return xs, ys
}

func boxCoordinates(f *feature.Feature, h, featureHeight float64) (xs, ys []float64) {
	left, right := float64(f.Left()), float64(f.Right())
	xs = []float64{left, left, right, right}

	yMin, yMax := verticalBand(h, featureHeight)
	ys = []float64{yMin, yMax, yMax, yMin}
	return xs, ys
}
