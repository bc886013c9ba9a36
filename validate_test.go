package sticker

import (
	"errors"
	"testing"
)

func validDoc() *Document {
	return &Document{
		Name:      "valid",
		FrameRate: 60,
		InPoint:   0,
		OutPoint:  180,
		Width:     512,
		Height:    512,
		Layers: []Layer{
			{Index: 1, Name: "child", Parent: IntPtr(2), OutPoint: 180},
			{Index: 2, Name: "root", Kind: LayerNull, OutPoint: 180},
		},
	}
}

func TestValidateAcceptsValidDocument(t *testing.T) {
	if err := Validate(validDoc()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("Validate(nil) = %v, want ErrNoDocument", err)
	}
}

func TestValidateReportsProblems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Document)
		want   error
	}{
		{"zero frame rate", func(d *Document) { d.FrameRate = 0 }, ErrFrameRange},
		{"empty range", func(d *Document) { d.OutPoint = d.InPoint }, ErrFrameRange},
		{"duplicate index", func(d *Document) { d.Layers[1].Index = 1; d.Layers[0].Parent = nil }, ErrDuplicateLayer},
		{"dangling parent", func(d *Document) { d.Layers[0].Parent = IntPtr(99) }, ErrDanglingParent},
		{"cycle", func(d *Document) { d.Layers[1].Parent = IntPtr(1) }, ErrParentCycle},
		{"self parent", func(d *Document) { d.Layers[1].Parent = IntPtr(2) }, ErrParentCycle},
		{"keyframe order", func(d *Document) {
			d.Layers[0].Transform.Rotation = scalarKeys(
				Keyframe[float64]{Time: 10, Start: 0},
				Keyframe[float64]{Time: 5, Start: 90},
			)
		}, ErrKeyframeOrder},
		{"empty animated track", func(d *Document) {
			tr := Animated[Vector]()
			d.Layers[0].Transform.Position = &tr
		}, ErrEmptyTrack},
		{"path topology", func(d *Document) {
			tr := Animated(
				Keyframe[PathValue]{Time: 0, Start: square(10, true)},
				Keyframe[PathValue]{Time: 10, Start: PathValue{Vertices: []Vertex{{}, {}}}},
			)
			d.Layers[0].Shapes = []ShapeItem{{Kind: ShapeGroup, Items: []ShapeItem{{Kind: ShapePath, Path: &tr}}}}
		}, ErrPathTopology},
		{"merge paths", func(d *Document) {
			d.Layers[0].Shapes = []ShapeItem{{Kind: ShapeMerge, Name: "merge"}}
		}, ErrUnsupportedItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDoc()
			tt.mutate(d)
			err := Validate(d)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateHoldSkipsTopology(t *testing.T) {
	d := validDoc()
	tr := Animated(
		Keyframe[PathValue]{Time: 0, Start: square(10, true), Hold: true},
		Keyframe[PathValue]{Time: 10, Start: PathValue{Vertices: []Vertex{{}, {}}}},
	)
	d.Layers[0].Shapes = []ShapeItem{{Kind: ShapePath, Path: &tr}}
	if err := Validate(d); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateJoinsAllProblems(t *testing.T) {
	d := validDoc()
	d.FrameRate = -1
	d.Layers[0].Parent = IntPtr(42)
	err := Validate(d)
	if !errors.Is(err, ErrFrameRange) || !errors.Is(err, ErrDanglingParent) {
		t.Fatalf("Validate = %v, want both frame range and dangling parent", err)
	}
	if n := len(unwrapJoined(err)); n != 2 {
		t.Errorf("joined errors = %d, want 2", n)
	}
}
