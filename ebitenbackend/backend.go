// Package ebitenbackend draws stickers with Ebitengine.
//
// Backend keeps the node tree the stage pushes into it and tessellates it
// with ebiten's vector package on every Draw. Host turns the ebiten game
// loop into a sticker.TickSource, and Game ties a Player, a Backend and a
// Host into an ebiten.Game:
//
//	g := ebitenbackend.NewGame(ebitenbackend.RunConfig{Title: "sticker", Width: 512, Height: 512})
//	if err := g.Player.Load(doc); err != nil {
//		log.Fatal(err)
//	}
//	g.Player.Play()
//	log.Fatal(ebitenbackend.Run(g))
package ebitenbackend

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/sticker"
	"github.com/phanxgames/sticker/internal/retained"
)

var (
	whiteImage    *ebiten.Image
	whiteSubImage *ebiten.Image
)

// ensureWhite lazily creates the solid source image used for every
// triangle. The 1px border keeps anti-aliased edges from sampling outside.
func ensureWhite() *ebiten.Image {
	if whiteSubImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
		whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// Backend is a sticker.Backend that draws onto an ebiten image.
type Backend struct {
	*retained.Tree

	// Background clears the target before drawing. A zero alpha leaves the
	// target as it is.
	Background sticker.Color

	path     vector.Path
	vertices []ebiten.Vertex
	indices  []uint16
}

// New returns an empty backend.
func New() *Backend {
	return &Backend{Tree: retained.New()}
}

// Draw renders the current tree onto dst.
func (b *Backend) Draw(dst *ebiten.Image) {
	if b.Background.A > 0 {
		dst.Fill(toRGBA(b.Background, 1))
	}
	src := ensureWhite()
	b.Walk(sticker.Identity, func(n *retained.Node, world sticker.Affine, alpha float64) {
		if len(n.Paths) == 0 {
			return
		}
		b.buildPath(n.Paths, world)
		if f := n.Fill; f != nil {
			b.vertices, b.indices = b.path.AppendVerticesAndIndicesForFilling(b.vertices[:0], b.indices[:0])
			b.submit(dst, src, f.Color, f.Opacity*alpha, ebiten.FillRuleNonZero)
		}
		if s := n.Stroke; s != nil && s.Width > 0 {
			b.vertices, b.indices = b.path.AppendVerticesAndIndicesForStroke(b.vertices[:0], b.indices[:0], strokeOptions(s, world))
			b.submit(dst, src, s.Color, s.Opacity*alpha, ebiten.FillRuleFillAll)
		}
	})
}

// buildPath replaces b.path with paths mapped through world.
func (b *Backend) buildPath(paths []sticker.PathValue, world sticker.Affine) {
	b.path = vector.Path{}
	for _, p := range paths {
		if len(p.Vertices) == 0 {
			continue
		}
		start := world.Apply(p.Vertices[0].Point)
		b.path.MoveTo(float32(start.X), float32(start.Y))
		p.Segments(func(_, c1, c2, p1 sticker.Vec2) {
			c1, c2, p1 = world.Apply(c1), world.Apply(c2), world.Apply(p1)
			b.path.CubicTo(float32(c1.X), float32(c1.Y), float32(c2.X), float32(c2.Y), float32(p1.X), float32(p1.Y))
		})
		if p.Closed {
			b.path.Close()
		}
	}
}

// submit colors the tessellated vertices and draws them.
func (b *Backend) submit(dst, src *ebiten.Image, c sticker.Color, opacity float64, rule ebiten.FillRule) {
	a := float32(c.A * opacity)
	if a <= 0 || len(b.indices) == 0 {
		return
	}
	r, g, bl := float32(c.R), float32(c.G), float32(c.B)
	for i := range b.vertices {
		v := &b.vertices[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = r, g, bl, a
	}
	var op ebiten.DrawTrianglesOptions
	op.FillRule = rule
	op.AntiAlias = true
	dst.DrawTriangles(b.vertices, b.indices, src, &op)
}

func strokeOptions(s *sticker.StrokeState, world sticker.Affine) *vector.StrokeOptions {
	return &vector.StrokeOptions{
		Width:      float32(s.Width * world.Scale()),
		LineCap:    lineCap(s.Cap),
		LineJoin:   lineJoin(s.Join),
		MiterLimit: float32(s.MiterLimit),
	}
}

func lineCap(c sticker.LineCap) vector.LineCap {
	switch c {
	case sticker.LineCapRound:
		return vector.LineCapRound
	case sticker.LineCapSquare:
		return vector.LineCapSquare
	}
	return vector.LineCapButt
}

func lineJoin(j sticker.LineJoin) vector.LineJoin {
	switch j {
	case sticker.LineJoinRound:
		return vector.LineJoinRound
	case sticker.LineJoinBevel:
		return vector.LineJoinBevel
	}
	return vector.LineJoinMiter
}

// toRGBA converts a straight-alpha color to premultiplied color.RGBA.
func toRGBA(c sticker.Color, opacity float64) color.RGBA {
	r, g, b, a := sticker.Color{R: c.R, G: c.G, B: c.B, A: c.A * opacity}.RGBA255()
	return color.RGBA{
		R: uint8(uint16(r) * uint16(a) / 255),
		G: uint8(uint16(g) * uint16(a) / 255),
		B: uint8(uint16(b) * uint16(a) / 255),
		A: a,
	}
}
