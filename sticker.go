package sticker

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication, if any, is the backend's business.
type Color struct {
	R, G, B, A float64
}

// ColorBlack is the paint used when a color track resolves to nothing.
var ColorBlack = Color{0, 0, 0, 1}

// ParseHexColor parses "#rrggbb" (or "#rgb") into an opaque Color.
func ParseHexColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// colorFromVector converts an evaluated color track value (RGB or RGBA, each
// in [0, 1]) into a clamped Color. Missing components fall back to black and
// full alpha.
func colorFromVector(v Vector) Color {
	var c colorful.Color
	if len(v) > 0 {
		c.R = v[0]
	}
	if len(v) > 1 {
		c.G = v[1]
	}
	if len(v) > 2 {
		c.B = v[2]
	}
	c = c.Clamped()
	a := 1.0
	if len(v) > 3 {
		a = clamp01(v[3])
	}
	return Color{R: c.R, G: c.G, B: c.B, A: a}
}

// RGBA255 returns the color as 8-bit straight-alpha components.
func (c Color) RGBA255() (r, g, b, a uint8) {
	r, g, b = colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().RGB255()
	return r, g, b, uint8(clamp01(c.A)*255 + 0.5)
}

// Vec2 is a 2D point or offset.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// LineCap selects how open stroke ends are drawn.
type LineCap uint8

const (
	LineCapButt   LineCap = iota // flat end at the vertex
	LineCapRound                 // semicircle past the vertex
	LineCapSquare                // half-width square past the vertex
)

// LineJoin selects how stroke corners are drawn.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota // sharp corner
	LineJoinRound                 // rounded corner
	LineJoinBevel                 // flattened corner
)

// LayerKind distinguishes layers that carry shapes from transform-only layers.
type LayerKind uint8

const (
	LayerShape LayerKind = iota // container of shape groups, rendered
	LayerNull                   // transform-only parent, never drawn
	LayerOther                  // image, text, precomp: kept for parenting only
)

// ShapeKind identifies a shape item inside a group.
type ShapeKind uint8

const (
	ShapeUnknown   ShapeKind = iota // ignored by the builder
	ShapeGroup                      // nested group with its own items
	ShapePath                       // free-form path track
	ShapeRect                       // rectangle primitive
	ShapeEllipse                    // ellipse primitive
	ShapeFill                       // fill paint
	ShapeStroke                     // stroke paint
	ShapeTransform                  // group-local transform
	ShapeMerge                      // merge paths operator (not supported)
)

// clamp01 clamps v into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
