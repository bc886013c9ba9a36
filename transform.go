package sticker

import "math"

// Affine is a 2D affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// Identity is the identity affine matrix.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Multiply returns m * o: o is applied first, then m.
func (m Affine) Multiply(o Affine) Affine {
	return Affine{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Invert returns the inverse matrix, or Identity if m is singular.
func (m Affine) Invert() Affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply maps a point through m.
func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

// ApplyLinear maps an offset through the linear part of m (no translation).
func (m Affine) ApplyLinear(p Vec2) Vec2 {
	return Vec2{X: m[0]*p.X + m[2]*p.Y, Y: m[1]*p.X + m[3]*p.Y}
}

// Scale returns the geometric-mean scale factor of m, used to scale stroke
// widths.
func (m Affine) Scale() float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
}

// Transform is the animatable transform bundle shared by layers and shape
// groups. Nil tracks take the neutral value: position and anchor (0, 0),
// scale (100%, 100%), rotation 0°, opacity 100.
type Transform struct {
	Position *VectorTrack
	Anchor   *VectorTrack
	Scale    *VectorTrack // percent
	Rotation *ScalarTrack // degrees, clockwise on screen
	Opacity  *ScalarTrack // [0, 100]
}

var (
	zeroVector    = Vector{0, 0}
	hundredVector = Vector{100, 100}
)

// evalVector and evalScalar evaluate optional tracks with a neutral default.
func evalVector(tr *VectorTrack, frame float64, def Vector) Vector {
	if tr == nil {
		return def
	}
	return EvaluateVector(tr, frame, def)
}

func evalScalar(tr *ScalarTrack, frame, def float64) float64 {
	if tr == nil {
		return def
	}
	return EvaluateScalar(tr, frame, def)
}

// evaluateTransform resolves the bundle at frame into a local matrix and a
// normalized opacity in [0, 1].
func evaluateTransform(tr *Transform, frame float64) (Affine, float64) {
	if tr == nil {
		return Identity, 1
	}
	pos := evalVector(tr.Position, frame, zeroVector)
	anchor := evalVector(tr.Anchor, frame, zeroVector)
	scale := evalVector(tr.Scale, frame, hundredVector)
	rot := evalScalar(tr.Rotation, frame, 0)
	opacity := evalScalar(tr.Opacity, frame, 100)

	m := composeTransform(
		pos.At(0, 0), pos.At(1, 0),
		anchor.At(0, 0), anchor.At(1, 0),
		scale.At(0, 100)/100, scale.At(1, 100)/100,
		rot*math.Pi/180,
	)
	return m, clamp01(opacity / 100)
}

// composeTransform builds the local matrix for one transform bundle.
//
// Composition order:
//
//	Translate(-anchor) -> Scale -> Rotate -> Translate(position)
func composeTransform(x, y, ax, ay, sx, sy, rotation float64) Affine {
	sin, cos := math.Sincos(rotation)

	// After Scale * Translate(-anchor):
	//   a=sx, b=0, c=0, d=sy, tx=-ax*sx, ty=-ay*sy
	preTx := -ax * sx
	preTy := -ay * sy

	// After Rotate, then Translate(x, y):
	return Affine{
		cos * sx,
		sin * sx,
		-sin * sy,
		cos * sy,
		cos*preTx - sin*preTy + x,
		sin*preTx + cos*preTy + y,
	}
}
