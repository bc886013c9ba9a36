package lottie

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phanxgames/sticker"
)

// isKeyframed reports whether p.k holds a keyframe list. Older exporters
// omit "a", so a list of objects is taken as keyframes too.
func (p *property) isKeyframed() bool {
	if p.Animated == 1 {
		return true
	}
	k := bytes.TrimSpace(p.K)
	if len(k) == 0 || k[0] != '[' {
		return false
	}
	k = bytes.TrimSpace(k[1:])
	return len(k) > 0 && k[0] == '{'
}

// convertTrack turns a property into a track; value decodes one static or
// keyframe value. A nil property yields nil.
func convertTrack[T any](p *property, value func(json.RawMessage) (T, error)) (*sticker.Track[T], error) {
	if p == nil || len(p.K) == 0 {
		return nil, nil
	}
	if !p.isKeyframed() {
		v, err := value(p.K)
		if err != nil {
			return nil, err
		}
		tr := sticker.Static(v)
		return &tr, nil
	}

	var raw []keyframe
	if err := json.Unmarshal(p.K, &raw); err != nil {
		return nil, fmt.Errorf("keyframes: %w", err)
	}
	kfs := make([]sticker.Keyframe[T], 0, len(raw))
	for i := range raw {
		rk := &raw[i]
		kf := sticker.Keyframe[T]{Time: rk.Time, Hold: rk.Hold == 1}
		switch {
		case len(rk.Start) > 0:
			v, err := value(rk.Start)
			if err != nil {
				return nil, fmt.Errorf("keyframe %d: %w", i, err)
			}
			kf.Start = v
		case len(kfs) > 0:
			// Old-style terminal keyframe: only "t", the value is where the
			// previous segment ended.
			prev := &kfs[len(kfs)-1]
			kf.Start = prev.Start
			if prev.End != nil {
				kf.Start = *prev.End
			}
		default:
			return nil, fmt.Errorf("keyframe %d: missing value", i)
		}
		if len(rk.End) > 0 {
			v, err := value(rk.End)
			if err != nil {
				return nil, fmt.Errorf("keyframe %d end: %w", i, err)
			}
			kf.End = &v
		}
		if rk.Out != nil && rk.In != nil {
			out, err := rk.Out.point()
			if err != nil {
				return nil, fmt.Errorf("keyframe %d out handle: %w", i, err)
			}
			in, err := rk.In.point()
			if err != nil {
				return nil, fmt.Errorf("keyframe %d in handle: %w", i, err)
			}
			kf.Out, kf.In = &out, &in
		}
		kfs = append(kfs, kf)
	}
	tr := sticker.Animated(kfs...)
	return &tr, nil
}

func (h *handle) point() (sticker.EasingHandle, error) {
	x, err := firstNumber(h.X)
	if err != nil {
		return sticker.EasingHandle{}, err
	}
	y, err := firstNumber(h.Y)
	if err != nil {
		return sticker.EasingHandle{}, err
	}
	return sticker.EasingHandle{X: x, Y: y}, nil
}

// firstNumber decodes a number or the first element of a number array.
func firstNumber(raw json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var list []float64
	if err := json.Unmarshal(raw, &list); err != nil {
		return 0, fmt.Errorf("number: %w", err)
	}
	if len(list) == 0 {
		return 0, errors.New("number: empty array")
	}
	return list[0], nil
}

func scalarValue(raw json.RawMessage) (float64, error) {
	return firstNumber(raw)
}

func vectorValue(raw json.RawMessage) (sticker.Vector, error) {
	var list []float64
	if err := json.Unmarshal(raw, &list); err == nil {
		return sticker.Vector(list), nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("vector: %w", err)
	}
	return sticker.Vector{n, n}, nil
}

// colorValue decodes an RGB(A) vector. Some exporters write 0-255
// components; those are normalized.
func colorValue(raw json.RawMessage) (sticker.Vector, error) {
	v, err := vectorValue(raw)
	if err != nil {
		return nil, err
	}
	for _, c := range v {
		if c > 1 {
			out := make(sticker.Vector, len(v))
			for i := range v {
				out[i] = v[i] / 255
			}
			return out, nil
		}
	}
	return v, nil
}

// pathValue decodes a bezier object, or the first element of a bezier array
// as keyframes store it.
func pathValue(raw json.RawMessage) (sticker.PathValue, error) {
	var b bezier
	if err := json.Unmarshal(raw, &b); err != nil {
		var list []bezier
		if err2 := json.Unmarshal(raw, &list); err2 != nil || len(list) == 0 {
			return sticker.PathValue{}, fmt.Errorf("path: %w", err)
		}
		b = list[0]
	}
	p := sticker.PathValue{Closed: b.Closed, Vertices: make([]sticker.Vertex, len(b.Vertices))}
	for i, v := range b.Vertices {
		p.Vertices[i] = sticker.Vertex{
			Point: vec2(v),
			In:    vec2(at(b.In, i)),
			Out:   vec2(at(b.Out, i)),
		}
	}
	return p, nil
}

func at(list [][]float64, i int) []float64 {
	if i < len(list) {
		return list[i]
	}
	return nil
}

func vec2(v []float64) sticker.Vec2 {
	var p sticker.Vec2
	if len(v) > 0 {
		p.X = v[0]
	}
	if len(v) > 1 {
		p.Y = v[1]
	}
	return p
}

// positionTrack handles both combined and split ("s": true) positions.
// Split axes are merged when both are static or share keyframe times.
func positionTrack(p *property) (*sticker.VectorTrack, error) {
	if p == nil || !p.Split {
		return convertTrack(p, vectorValue)
	}
	x, err := convertTrack(p.X, scalarValue)
	if err != nil {
		return nil, fmt.Errorf("x: %w", err)
	}
	y, err := convertTrack(p.Y, scalarValue)
	if err != nil {
		return nil, fmt.Errorf("y: %w", err)
	}
	if x == nil || y == nil {
		return nil, fmt.Errorf("split position: %w", ErrUnsupported)
	}
	if !x.Animated && !y.Animated {
		tr := sticker.Static(sticker.Vector{x.Value, y.Value})
		return &tr, nil
	}

	xs, ys := x.Keyframes, y.Keyframes
	switch {
	case !x.Animated:
		xs = constantKeys(x.Value, ys)
	case !y.Animated:
		ys = constantKeys(y.Value, xs)
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("split position keyframes differ: %w", ErrUnsupported)
	}
	kfs := make([]sticker.Keyframe[sticker.Vector], len(xs))
	for i := range xs {
		if xs[i].Time != ys[i].Time {
			return nil, fmt.Errorf("split position keyframe %d times differ: %w", i, ErrUnsupported)
		}
		timing := xs[i]
		if timing.Out == nil {
			timing = ys[i]
		}
		kfs[i] = sticker.Keyframe[sticker.Vector]{
			Time:  xs[i].Time,
			Start: sticker.Vector{xs[i].Start, ys[i].Start},
			Out:   timing.Out,
			In:    timing.In,
			Hold:  xs[i].Hold || ys[i].Hold,
		}
		if xs[i].End != nil || ys[i].End != nil {
			end := sticker.Vector{endOrStart(xs[i]), endOrStart(ys[i])}
			kfs[i].End = &end
		}
	}
	tr := sticker.Animated(kfs...)
	return &tr, nil
}

// constantKeys holds v at every time of like, so a static axis can pair
// with an animated one.
func constantKeys(v float64, like []sticker.Keyframe[float64]) []sticker.Keyframe[float64] {
	out := make([]sticker.Keyframe[float64], len(like))
	for i, k := range like {
		out[i] = sticker.Keyframe[float64]{Time: k.Time, Start: v}
	}
	return out
}

func endOrStart(k sticker.Keyframe[float64]) float64 {
	if k.End != nil {
		return *k.End
	}
	return k.Start
}
