package sticker

import "sort"

// EasingHandle is one normalized control point of a keyframe timing curve.
type EasingHandle struct {
	X, Y float64
}

// Keyframe anchors a track value at a frame.
//
// End, when set, is the value this segment moves toward; otherwise the next
// keyframe's Start is used. Out and In are the segment's timing handles
// (Out is the first Bézier control point, In the second); when either is
// missing the segment is linear. Hold keeps Start until the next keyframe.
type Keyframe[T any] struct {
	Time  float64
	Start T
	End   *T
	Out   *EasingHandle
	In    *EasingHandle
	Hold  bool

	ease EasingFunc
}

// easing returns the segment timing function, or nil for linear segments.
func (k *Keyframe[T]) easing() EasingFunc {
	if k.ease != nil {
		return k.ease
	}
	if k.Out == nil || k.In == nil {
		return nil
	}
	return MakeEasing(k.Out.X, k.Out.Y, k.In.X, k.In.Y)
}

// Track is an animatable property: a static Value, or a keyframe sequence
// when Animated is set. Keyframe times must be non-decreasing.
type Track[T any] struct {
	Value     T
	Keyframes []Keyframe[T]
	Animated  bool
}

// ScalarTrack, VectorTrack and PathTrack are the property kinds the
// renderer evaluates.
type (
	ScalarTrack = Track[float64]
	VectorTrack = Track[Vector]
	PathTrack   = Track[PathValue]
)

// Static returns a track that always evaluates to v.
func Static[T any](v T) Track[T] {
	return Track[T]{Value: v}
}

// Animated returns a keyframed track.
func Animated[T any](keyframes ...Keyframe[T]) Track[T] {
	return Track[T]{Keyframes: keyframes, Animated: true}
}

// Compile returns a copy of the track with every segment's timing function
// precomputed. The receiver is not modified.
func (tr Track[T]) Compile() Track[T] {
	if !tr.Animated || len(tr.Keyframes) == 0 {
		return tr
	}
	kfs := make([]Keyframe[T], len(tr.Keyframes))
	copy(kfs, tr.Keyframes)
	for i := range kfs {
		kfs[i].ease = kfs[i].easing()
	}
	tr.Keyframes = kfs
	return tr
}

// Evaluate resolves tr at a continuous frame. lerp blends two values of the
// track's kind; def is returned for an animated track with no keyframes.
//
// Before the first keyframe the first Start is returned; at or after the
// last keyframe its End (if set) or Start. No extrapolation happens.
func Evaluate[T any](tr *Track[T], frame float64, lerp func(a, b T, t float64) T, def T) T {
	if !tr.Animated {
		return tr.Value
	}
	kfs := tr.Keyframes
	n := len(kfs)
	if n == 0 {
		return def
	}
	if frame <= kfs[0].Time {
		return kfs[0].Start
	}
	last := &kfs[n-1]
	if frame >= last.Time {
		if last.End != nil {
			return *last.End
		}
		return last.Start
	}

	// First keyframe strictly after frame; its predecessor starts the segment.
	next := sort.Search(n, func(i int) bool { return kfs[i].Time > frame })
	k := &kfs[next-1]
	if k.Hold {
		return k.Start
	}
	duration := kfs[next].Time - k.Time
	if duration <= 0 {
		return k.Start
	}
	t := (frame - k.Time) / duration
	if ease := k.easing(); ease != nil {
		t = ease(t)
	}

	end := kfs[next].Start
	if k.End != nil {
		end = *k.End
	}
	return lerp(k.Start, end, t)
}

// EvaluateScalar resolves a scalar track; def is used for an empty keyframe list.
func EvaluateScalar(tr *ScalarTrack, frame, def float64) float64 {
	return Evaluate(tr, frame, Lerp, def)
}

// EvaluateVector resolves a vector or color track; def is used for an empty
// keyframe list and for a static track with no value.
func EvaluateVector(tr *VectorTrack, frame float64, def Vector) Vector {
	v := Evaluate(tr, frame, lerpVector, def)
	if v == nil {
		return def
	}
	return v
}

// EvaluatePath resolves a path track. The empty path is the neutral value.
func EvaluatePath(tr *PathTrack, frame float64) PathValue {
	return Evaluate(tr, frame, lerpPath, PathValue{})
}
