package sticker

import (
	"errors"
	"fmt"
)

// Data-integrity errors. The player renders malformed documents on a best
// effort basis; Validate is where they are reported.
var (
	ErrNoDocument      = errors.New("sticker: no document")
	ErrFrameRange      = errors.New("sticker: invalid frame range")
	ErrDuplicateLayer  = errors.New("sticker: duplicate layer index")
	ErrDanglingParent  = errors.New("sticker: parent layer does not exist")
	ErrParentCycle     = errors.New("sticker: parent chain forms a cycle")
	ErrKeyframeOrder   = errors.New("sticker: keyframe times decrease")
	ErrEmptyTrack      = errors.New("sticker: animated track has no keyframes")
	ErrPathTopology    = errors.New("sticker: path keyframes differ in vertex count")
	ErrUnsupportedItem = errors.New("sticker: unsupported shape item")
)

// Validate checks a document against the invariants the renderer assumes.
// All problems are reported, joined with errors.Join.
func Validate(doc *Document) error {
	if doc == nil {
		return ErrNoDocument
	}
	var errs []error
	if doc.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("frame rate %v: %w", doc.FrameRate, ErrFrameRange))
	}
	if doc.OutPoint <= doc.InPoint {
		errs = append(errs, fmt.Errorf("frames [%v, %v]: %w", doc.InPoint, doc.OutPoint, ErrFrameRange))
	}

	parents := make(map[int]*int, len(doc.Layers))
	for i := range doc.Layers {
		l := &doc.Layers[i]
		if _, dup := parents[l.Index]; dup {
			errs = append(errs, fmt.Errorf("layer %d: %w", l.Index, ErrDuplicateLayer))
			continue
		}
		parents[l.Index] = l.Parent
	}
	for i := range doc.Layers {
		l := &doc.Layers[i]
		if l.Parent != nil {
			if _, ok := parents[*l.Parent]; !ok {
				errs = append(errs, fmt.Errorf("layer %d: parent %d: %w", l.Index, *l.Parent, ErrDanglingParent))
			}
		}
		if hasParentCycle(parents, l.Index) {
			errs = append(errs, fmt.Errorf("layer %d: %w", l.Index, ErrParentCycle))
		}

		v := &trackValidator{}
		v.transform(fmt.Sprintf("layer %d", l.Index), &l.Transform)
		v.items(fmt.Sprintf("layer %d", l.Index), l.Shapes)
		errs = append(errs, v.errs...)
	}
	return errors.Join(errs...)
}

// hasParentCycle reports whether following parents from start revisits a layer.
func hasParentCycle(parents map[int]*int, start int) bool {
	seen := make(map[int]bool, len(parents))
	cur := start
	for {
		if seen[cur] {
			return true
		}
		seen[cur] = true
		p, ok := parents[cur]
		if !ok || p == nil {
			return false
		}
		cur = *p
	}
}

type trackValidator struct {
	errs []error
}

func (v *trackValidator) add(where string, err error) {
	v.errs = append(v.errs, fmt.Errorf("%s: %w", where, err))
}

func (v *trackValidator) transform(where string, t *Transform) {
	if t == nil {
		return
	}
	checkTrack(v, where+" position", t.Position)
	checkTrack(v, where+" anchor", t.Anchor)
	checkTrack(v, where+" scale", t.Scale)
	checkTrack(v, where+" rotation", t.Rotation)
	checkTrack(v, where+" opacity", t.Opacity)
}

func (v *trackValidator) items(where string, items []ShapeItem) {
	for i := range items {
		it := &items[i]
		at := fmt.Sprintf("%s shape %d (%s)", where, i, it.Name)
		switch it.Kind {
		case ShapeGroup:
			v.items(at, it.Items)
		case ShapePath:
			checkTrack(v, at+" path", it.Path)
			if it.Path != nil {
				checkTopology(v, at+" path", it.Path)
			}
		case ShapeRect:
			checkTrack(v, at+" size", it.Size)
			checkTrack(v, at+" position", it.Position)
			checkTrack(v, at+" roundness", it.Roundness)
		case ShapeEllipse:
			checkTrack(v, at+" size", it.Size)
			checkTrack(v, at+" position", it.Position)
		case ShapeFill:
			if it.Fill != nil {
				checkTrack(v, at+" color", it.Fill.Color)
				checkTrack(v, at+" opacity", it.Fill.Opacity)
			}
		case ShapeStroke:
			if it.Stroke != nil {
				checkTrack(v, at+" color", it.Stroke.Color)
				checkTrack(v, at+" opacity", it.Stroke.Opacity)
				checkTrack(v, at+" width", it.Stroke.Width)
			}
		case ShapeTransform:
			v.transform(at, it.Transform)
		case ShapeMerge:
			v.add(at, ErrUnsupportedItem)
		}
	}
}

func checkTrack[T any](v *trackValidator, where string, tr *Track[T]) {
	if tr == nil || !tr.Animated {
		return
	}
	if len(tr.Keyframes) == 0 {
		v.add(where, ErrEmptyTrack)
		return
	}
	for i := 1; i < len(tr.Keyframes); i++ {
		if tr.Keyframes[i].Time < tr.Keyframes[i-1].Time {
			v.add(fmt.Sprintf("%s keyframe %d", where, i), ErrKeyframeOrder)
		}
	}
}

// checkTopology reports path segments whose endpoints cannot be blended.
func checkTopology(v *trackValidator, where string, tr *PathTrack) {
	if !tr.Animated {
		return
	}
	kfs := tr.Keyframes
	for i := range kfs {
		k := &kfs[i]
		n := len(k.Start.Vertices)
		if k.End != nil && len(k.End.Vertices) != n {
			v.add(fmt.Sprintf("%s keyframe %d: %d vs %d vertices", where, i, n, len(k.End.Vertices)), ErrPathTopology)
			continue
		}
		if k.End == nil && !k.Hold && i+1 < len(kfs) && len(kfs[i+1].Start.Vertices) != n {
			v.add(fmt.Sprintf("%s keyframe %d: %d vs %d vertices", where, i, n, len(kfs[i+1].Start.Vertices)), ErrPathTopology)
		}
	}
}
