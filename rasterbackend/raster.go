// Package rasterbackend renders stickers into in-memory images with
// golang.org/x/image/vector, for headless export and tests.
//
// Fills use the rasterizer's non-zero coverage rule. Strokes are expanded
// into segment quads with round joins; butt, round and square caps are
// honored.
package rasterbackend

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/phanxgames/sticker"
	"github.com/phanxgames/sticker/internal/retained"
	"github.com/phanxgames/sticker/internal/snapshot"
)

// discSegments is the polygon resolution of round joins and caps.
const discSegments = 16

// Backend is a sticker.Backend that keeps the pushed node tree and
// rasterizes it on demand.
type Backend struct {
	*retained.Tree

	// Background fills the image before drawing. The zero value is
	// transparent.
	Background sticker.Color

	width, height int
	raster        *vector.Rasterizer
	line          []sticker.Vec2
}

// New returns a backend rendering width x height images.
func New(width, height int) *Backend {
	return &Backend{
		Tree:   retained.New(),
		width:  width,
		height: height,
		raster: vector.NewRasterizer(width, height),
	}
}

// Size returns the output image size.
func (b *Backend) Size() (width, height int) {
	return b.width, b.height
}

// Viewport returns the output bounds as a sticker rectangle, for
// Stage.SetViewport.
func (b *Backend) Viewport() sticker.Rect {
	return sticker.Rect{Width: float64(b.width), Height: float64(b.height)}
}

// Render draws the current tree into a new image.
func (b *Backend) Render() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	b.RenderInto(dst)
	return dst
}

// RenderInto clears dst to the background and draws the current tree.
func (b *Backend) RenderInto(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(nrgba(b.Background, 1)), image.Point{}, draw.Src)
	b.Walk(sticker.Identity, func(n *retained.Node, world sticker.Affine, alpha float64) {
		if len(n.Paths) == 0 {
			return
		}
		if n.Fill != nil {
			b.fill(dst, n.Paths, world, nrgba(n.Fill.Color, n.Fill.Opacity*alpha))
		}
		if n.Stroke != nil && n.Stroke.Width > 0 {
			b.stroke(dst, n.Paths, world, n.Stroke, nrgba(n.Stroke.Color, n.Stroke.Opacity*alpha))
		}
	})
}

// WritePNG renders the current tree and writes it to path.
func (b *Backend) WritePNG(path string) error {
	return snapshot.WritePNG(path, b.Render())
}

func nrgba(c sticker.Color, opacity float64) color.NRGBA {
	r, g, bl, a := sticker.Color{R: c.R, G: c.G, B: c.B, A: c.A * opacity}.RGBA255()
	return color.NRGBA{R: r, G: g, B: bl, A: a}
}

func (b *Backend) fill(dst *image.RGBA, paths []sticker.PathValue, world sticker.Affine, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	z := b.raster
	z.Reset(b.width, b.height)
	for _, p := range paths {
		if len(p.Vertices) == 0 {
			continue
		}
		start := world.Apply(p.Vertices[0].Point)
		z.MoveTo(float32(start.X), float32(start.Y))
		// Fills always close the outline.
		closed := p
		closed.Closed = true
		closed.Segments(func(_, c1, c2, p1 sticker.Vec2) {
			c1, c2, p1 = world.Apply(c1), world.Apply(c2), world.Apply(p1)
			z.CubeTo(float32(c1.X), float32(c1.Y), float32(c2.X), float32(c2.Y), float32(p1.X), float32(p1.Y))
		})
		z.ClosePath()
	}
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

func (b *Backend) stroke(dst *image.RGBA, paths []sticker.PathValue, world sticker.Affine, st *sticker.StrokeState, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	hw := st.Width * world.Scale() / 2
	if hw <= 0 {
		return
	}
	z := b.raster
	z.Reset(b.width, b.height)
	for _, p := range paths {
		b.line = flatten(b.line[:0], p.Transformed(world))
		strokeLine(z, b.line, p.Closed, hw, st.Cap)
	}
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// flatten appends the path as a polyline. Closed paths end on their
// first point.
func flatten(dst []sticker.Vec2, p sticker.PathValue) []sticker.Vec2 {
	if len(p.Vertices) == 0 {
		return dst
	}
	dst = append(dst, p.Vertices[0].Point)
	p.Segments(func(p0, c1, c2, p1 sticker.Vec2) {
		n := cubicSteps(p0, c1, c2, p1)
		for i := 1; i <= n; i++ {
			dst = append(dst, cubicAt(p0, c1, c2, p1, float64(i)/float64(n)))
		}
	})
	return dst
}

// cubicSteps picks a subdivision count from the control polygon length.
func cubicSteps(p0, c1, c2, p1 sticker.Vec2) int {
	if c1 == p0 && c2 == p1 {
		return 1
	}
	l := dist(p0, c1) + dist(c1, c2) + dist(c2, p1)
	return max(1, min(64, int(l/4)+1))
}

func cubicAt(p0, c1, c2, p1 sticker.Vec2, t float64) sticker.Vec2 {
	u := 1 - t
	a, bb, cc, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return sticker.Vec2{
		X: a*p0.X + bb*c1.X + cc*c2.X + d*p1.X,
		Y: a*p0.Y + bb*c1.Y + cc*c2.Y + d*p1.Y,
	}
}

func dist(a, b sticker.Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// strokeLine adds the outline of a polyline of half-width hw to z. Every
// polygon is wound the same way so overlaps add up instead of cancelling.
func strokeLine(z *vector.Rasterizer, pts []sticker.Vec2, closed bool, hw float64, lc sticker.LineCap) {
	if len(pts) < 2 {
		return
	}
	last := len(pts) - 1
	for i := 0; i < last; i++ {
		a, b := pts[i], pts[i+1]
		if !closed && lc == sticker.LineCapSquare {
			if i == 0 {
				a = extend(a, b, hw)
			}
			if i == last-1 {
				b = extend(b, a, hw)
			}
		}
		quad(z, a, b, hw)
	}
	for i, p := range pts {
		end := i == 0 || i == last
		if end && !closed {
			if lc == sticker.LineCapRound {
				disc(z, p, hw)
			}
			continue
		}
		disc(z, p, hw)
	}
}

// extend moves p away from toward by d.
func extend(p, toward sticker.Vec2, d float64) sticker.Vec2 {
	l := dist(p, toward)
	if l == 0 {
		return p
	}
	return sticker.Vec2{X: p.X + (p.X-toward.X)/l*d, Y: p.Y + (p.Y-toward.Y)/l*d}
}

func quad(z *vector.Rasterizer, a, b sticker.Vec2, hw float64) {
	l := dist(a, b)
	if l == 0 {
		return
	}
	nx, ny := -(b.Y-a.Y)/l*hw, (b.X-a.X)/l*hw
	z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	z.LineTo(float32(b.X+nx), float32(b.Y+ny))
	z.LineTo(float32(b.X-nx), float32(b.Y-ny))
	z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	z.ClosePath()
}

func disc(z *vector.Rasterizer, c sticker.Vec2, r float64) {
	z.MoveTo(float32(c.X+r), float32(c.Y))
	for i := 1; i < discSegments; i++ {
		sin, cos := math.Sincos(-2 * math.Pi * float64(i) / discSegments)
		z.LineTo(float32(c.X+r*cos), float32(c.Y+r*sin))
	}
	z.ClosePath()
}
