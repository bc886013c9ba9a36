package sticker

import "math"

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

// resolveGeometry evaluates one geometry item into a path.
func resolveGeometry(g *Geometry, frame float64) PathValue {
	switch g.Kind {
	case ShapePath:
		if g.Path == nil {
			return PathValue{}
		}
		return EvaluatePath(g.Path, frame)
	case ShapeRect:
		size := evalVector(g.Size, frame, zeroVector)
		pos := evalVector(g.Position, frame, zeroVector)
		r := evalScalar(g.Roundness, frame, 0)
		return rectPath(pos.At(0, 0), pos.At(1, 0), size.At(0, 0), size.At(1, 0), r)
	case ShapeEllipse:
		size := evalVector(g.Size, frame, zeroVector)
		pos := evalVector(g.Position, frame, zeroVector)
		return ellipsePath(pos.At(0, 0), pos.At(1, 0), size.At(0, 0), size.At(1, 0))
	}
	return PathValue{}
}

// rectPath returns a closed rectangle centred on (cx, cy), clockwise from the
// top-right corner. A positive radius rounds the corners; it is clamped to
// half the shorter side.
func rectPath(cx, cy, w, h, r float64) PathValue {
	hw, hh := math.Abs(w)/2, math.Abs(h)/2
	r = math.Min(r, math.Min(hw, hh))
	if r <= 0 {
		return PathValue{Closed: true, Vertices: []Vertex{
			{Point: Vec2{cx + hw, cy - hh}},
			{Point: Vec2{cx + hw, cy + hh}},
			{Point: Vec2{cx - hw, cy + hh}},
			{Point: Vec2{cx - hw, cy - hh}},
		}}
	}
	c := r * kappa
	return PathValue{Closed: true, Vertices: []Vertex{
		{Point: Vec2{cx + hw - r, cy - hh}, Out: Vec2{c, 0}},
		{Point: Vec2{cx + hw, cy - hh + r}, In: Vec2{0, -c}},
		{Point: Vec2{cx + hw, cy + hh - r}, Out: Vec2{0, c}},
		{Point: Vec2{cx + hw - r, cy + hh}, In: Vec2{c, 0}},
		{Point: Vec2{cx - hw + r, cy + hh}, Out: Vec2{-c, 0}},
		{Point: Vec2{cx - hw, cy + hh - r}, In: Vec2{0, c}},
		{Point: Vec2{cx - hw, cy - hh + r}, Out: Vec2{0, -c}},
		{Point: Vec2{cx - hw + r, cy - hh}, In: Vec2{-c, 0}},
	}}
}

// ellipsePath returns a closed four-segment ellipse centred on (cx, cy),
// clockwise from the top.
func ellipsePath(cx, cy, w, h float64) PathValue {
	rx, ry := math.Abs(w)/2, math.Abs(h)/2
	kx, ky := rx*kappa, ry*kappa
	return PathValue{Closed: true, Vertices: []Vertex{
		{Point: Vec2{cx, cy - ry}, In: Vec2{-kx, 0}, Out: Vec2{kx, 0}},
		{Point: Vec2{cx + rx, cy}, In: Vec2{0, -ky}, Out: Vec2{0, ky}},
		{Point: Vec2{cx, cy + ry}, In: Vec2{kx, 0}, Out: Vec2{-kx, 0}},
		{Point: Vec2{cx - rx, cy}, In: Vec2{0, ky}, Out: Vec2{0, -ky}},
	}}
}

// Segments calls fn for each cubic segment of the path in absolute
// coordinates: start point, two control points, end point. Closed paths
// include the segment back to the first vertex.
func (p PathValue) Segments(fn func(p0, c1, c2, p1 Vec2)) {
	n := len(p.Vertices)
	if n < 2 {
		return
	}
	last := n - 1
	if p.Closed {
		last = n
	}
	for i := 0; i < last; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		fn(a.Point,
			Vec2{a.Point.X + a.Out.X, a.Point.Y + a.Out.Y},
			Vec2{b.Point.X + b.In.X, b.Point.Y + b.In.Y},
			b.Point)
	}
}
