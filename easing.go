package sticker

import "math"

// EasingFunc maps normalized progress in [0, 1] to eased progress.
type EasingFunc func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

const (
	splineTableSize   = 11
	sampleStepSize    = 1.0 / (splineTableSize - 1)
	newtonIterations  = 4
	newtonMinSlope    = 0.001
	subdivisionEps    = 1e-7
	subdivisionMaxIts = 10
)

// bezierCurve is one axis of a cubic Bézier with endpoints fixed at 0 and 1.
// Coefficients are in Horner form: ((a*t + b)*t + c)*t.
type bezierCurve struct {
	a, b, c float64
}

func newBezierCurve(p1, p2 float64) bezierCurve {
	return bezierCurve{
		a: 1 - 3*p2 + 3*p1,
		b: 3*p2 - 6*p1,
		c: 3 * p1,
	}
}

func (bc bezierCurve) at(t float64) float64 {
	return ((bc.a*t+bc.b)*t + bc.c) * t
}

func (bc bezierCurve) slope(t float64) float64 {
	return 3*bc.a*t*t + 2*bc.b*t + bc.c
}

// MakeEasing returns the timing function for the cubic Bézier with control
// points (x1, y1) and (x2, y2); the curve runs from (0, 0) to (1, 1).
//
// Coinciding control points, or control points on the diagonal, give the
// identity. X control coordinates are clamped into [0, 1] so the curve stays a
// function of time. Inputs 0 and 1 map exactly to 0 and 1. Inputs outside
// [0, 1] are not contracted; callers clamp first.
func MakeEasing(x1, y1, x2, y2 float64) EasingFunc {
	if (x1 == x2 && y1 == y2) || (x1 == y1 && x2 == y2) {
		return Linear
	}
	x1 = clamp01(x1)
	x2 = clamp01(x2)

	cx := newBezierCurve(x1, x2)
	cy := newBezierCurve(y1, y2)

	var samples [splineTableSize]float64
	for i := range samples {
		samples[i] = cx.at(float64(i) * sampleStepSize)
	}

	tForX := func(x float64) float64 {
		start := 0.0
		i := 1
		for ; i != splineTableSize-1 && samples[i] <= x; i++ {
			start += sampleStepSize
		}
		i--

		span := samples[i+1] - samples[i]
		dist := 0.0
		if span != 0 {
			dist = (x - samples[i]) / span
		}
		guess := start + dist*sampleStepSize

		slope := cx.slope(guess)
		switch {
		case slope >= newtonMinSlope:
			return newtonRaphson(cx, x, guess)
		case slope == 0:
			return guess
		default:
			return binarySubdivide(cx, x, start, start+sampleStepSize)
		}
	}

	return func(t float64) float64 {
		if t == 0 || t == 1 {
			return t
		}
		return cy.at(tForX(t))
	}
}

// newtonRaphson refines guess so that curve(guess) ≈ x.
func newtonRaphson(c bezierCurve, x, guess float64) float64 {
	for range newtonIterations {
		slope := c.slope(guess)
		if slope == 0 {
			return guess
		}
		guess -= (c.at(guess) - x) / slope
	}
	return guess
}

// binarySubdivide bisects [lo, hi] until curve(t) is within subdivisionEps of x.
func binarySubdivide(c bezierCurve, x, lo, hi float64) float64 {
	var t float64
	for i := 0; i < subdivisionMaxIts; i++ {
		t = lo + (hi-lo)/2
		cur := c.at(t) - x
		if math.Abs(cur) <= subdivisionEps {
			break
		}
		if cur > 0 {
			hi = t
		} else {
			lo = t
		}
	}
	return t
}
