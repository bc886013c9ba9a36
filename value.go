package sticker

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Vector is a fixed-length numeric value: a 2-D/3-D point, a scale pair, or
// an RGB/RGBA color with components in [0, 1].
type Vector []float64

// Lerp interpolates v toward to component-wise. The result has len(v)
// components; components missing from to hold v's value.
func (v Vector) Lerp(to Vector, t float64) Vector {
	out := make(Vector, len(v))
	for i, a := range v {
		if i < len(to) {
			out[i] = Lerp(a, to[i], t)
		} else {
			out[i] = a
		}
	}
	return out
}

// At returns component i, or def when the vector is too short.
func (v Vector) At(i int, def float64) float64 {
	if i < len(v) {
		return v[i]
	}
	return def
}

// Vertex is one path point. In and Out are tangent offsets relative to Point.
type Vertex struct {
	Point Vec2
	In    Vec2
	Out   Vec2
}

// PathValue is an open or closed vector shape made of cubic segments. The
// segment from vertex i to vertex i+1 uses control points
// Point[i]+Out[i] and Point[i+1]+In[i+1].
type PathValue struct {
	Vertices []Vertex
	Closed   bool
}

// Lerp blends two paths vertex by vertex. The closed flag comes from p.
// Paths with different vertex counts cannot be blended; p is returned
// unchanged (the last good shape), and Validate reports the mismatch.
func (p PathValue) Lerp(to PathValue, t float64) PathValue {
	if len(p.Vertices) != len(to.Vertices) {
		return p
	}
	out := PathValue{Vertices: make([]Vertex, len(p.Vertices)), Closed: p.Closed}
	for i, a := range p.Vertices {
		b := to.Vertices[i]
		out.Vertices[i] = Vertex{
			Point: lerpVec2(a.Point, b.Point, t),
			In:    lerpVec2(a.In, b.In, t),
			Out:   lerpVec2(a.Out, b.Out, t),
		}
	}
	return out
}

// Transformed returns a copy of the path with every point mapped through m.
// Tangents are offsets, so only the linear part of m applies to them.
func (p PathValue) Transformed(m Affine) PathValue {
	out := PathValue{Vertices: make([]Vertex, len(p.Vertices)), Closed: p.Closed}
	for i, v := range p.Vertices {
		out.Vertices[i] = Vertex{
			Point: m.Apply(v.Point),
			In:    m.ApplyLinear(v.In),
			Out:   m.ApplyLinear(v.Out),
		}
	}
	return out
}

func lerpVec2(a, b Vec2, t float64) Vec2 {
	return Vec2{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

func lerpVector(a, b Vector, t float64) Vector { return a.Lerp(b, t) }

func lerpPath(a, b PathValue, t float64) PathValue { return a.Lerp(b, t) }
