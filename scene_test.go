package sticker

import (
	"errors"
	"testing"
)

func red() *Fill {
	return &Fill{Color: staticVec(1, 0, 0)}
}

func shapeLayer(index int, name string, shapes ...ShapeItem) Layer {
	return Layer{Index: index, Name: name, Kind: LayerShape, OutPoint: 180, Shapes: shapes}
}

func pathItem(p PathValue) ShapeItem {
	tr := Static(p)
	return ShapeItem{Kind: ShapePath, Path: &tr}
}

func testDoc(layers ...Layer) *Document {
	return &Document{Name: "test", FrameRate: 60, OutPoint: 180, Width: 100, Height: 100, Layers: layers}
}

func TestBuildPaintOrderIsReversed(t *testing.T) {
	g := BuildSceneGraph(testDoc(
		shapeLayer(1, "front"),
		shapeLayer(2, "middle"),
		shapeLayer(3, "back"),
	))
	nodes := g.Nodes()
	want := []string{"back", "middle", "front"}
	if len(nodes) != len(want) {
		t.Fatalf("nodes = %d, want %d", len(nodes), len(want))
	}
	for i, name := range want {
		if nodes[i].Name != name {
			t.Errorf("nodes[%d] = %q, want %q", i, nodes[i].Name, name)
		}
	}
}

func TestBuildRegistryByIndex(t *testing.T) {
	g := BuildSceneGraph(testDoc(shapeLayer(7, "seven"), shapeLayer(3, "three")))
	if n := g.Node(7); n == nil || n.Name != "seven" {
		t.Errorf("Node(7) = %v", n)
	}
	if n := g.Node(99); n != nil {
		t.Errorf("Node(99) = %v, want nil", n)
	}
}

func TestBuildGraphsAreIsolated(t *testing.T) {
	a := BuildSceneGraph(testDoc(shapeLayer(1, "a")))
	b := BuildSceneGraph(testDoc(shapeLayer(1, "b")))
	if a.Node(1).Name != "a" || b.Node(1).Name != "b" {
		t.Error("graphs share a layer registry")
	}
}

func TestBuildMultiLevelChain(t *testing.T) {
	child := shapeLayer(1, "child")
	child.Parent = IntPtr(2)
	g := BuildSceneGraph(testDoc(
		child,
		Layer{Index: 2, Name: "mid", Kind: LayerNull, Parent: IntPtr(3), OutPoint: 180},
		Layer{Index: 3, Name: "root", Kind: LayerNull, OutPoint: 180},
	))
	chain := g.Chain(1)
	want := []string{"root", "mid", "child"}
	if len(chain) != len(want) {
		t.Fatalf("chain length = %d, want %d", len(chain), len(want))
	}
	for i, name := range want {
		if chain[i].Name != name {
			t.Errorf("chain[%d] = %q, want %q", i, chain[i].Name, name)
		}
	}
	if d := g.Node(1).Depth(); d != 2 {
		t.Errorf("Depth = %d, want 2", d)
	}
	if len(g.Issues()) != 0 {
		t.Errorf("unexpected issues: %v", g.Issues())
	}
}

func TestBuildDropsDanglingParent(t *testing.T) {
	l := shapeLayer(1, "orphan")
	l.Parent = IntPtr(42)
	g := BuildSceneGraph(testDoc(l))
	if g.Node(1).Parent != nil {
		t.Error("dangling parent should be dropped")
	}
	if len(g.Chain(1)) != 1 {
		t.Errorf("chain length = %d, want 1", len(g.Chain(1)))
	}
	if len(g.Issues()) != 1 || !errors.Is(g.Issues()[0], ErrDanglingParent) {
		t.Errorf("issues = %v, want one ErrDanglingParent", g.Issues())
	}
}

func TestBuildBreaksCycles(t *testing.T) {
	a := shapeLayer(1, "a")
	a.Parent = IntPtr(2)
	b := shapeLayer(2, "b")
	b.Parent = IntPtr(1)
	g := BuildSceneGraph(testDoc(a, b))

	var cycle bool
	for _, err := range g.Issues() {
		if errors.Is(err, ErrParentCycle) {
			cycle = true
		}
	}
	if !cycle {
		t.Fatalf("issues = %v, want ErrParentCycle", g.Issues())
	}
	for _, idx := range []int{1, 2} {
		if n := len(g.Chain(idx)); n > 2 {
			t.Errorf("chain(%d) length = %d, want at most 2", idx, n)
		}
	}
}

func TestBuildDuplicateIndexKeepsBackmost(t *testing.T) {
	g := BuildSceneGraph(testDoc(shapeLayer(1, "front"), shapeLayer(1, "back")))
	if len(g.Nodes()) != 1 || g.Node(1).Name != "back" {
		t.Errorf("nodes = %d, Node(1) = %q", len(g.Nodes()), g.Node(1).Name)
	}
	if len(g.Issues()) != 1 || !errors.Is(g.Issues()[0], ErrDuplicateLayer) {
		t.Errorf("issues = %v", g.Issues())
	}
}

func TestBuildDuplicateIndexIgnoresDroppedParent(t *testing.T) {
	front := shapeLayer(1, "front")
	front.Parent = IntPtr(2)
	g := BuildSceneGraph(testDoc(front, shapeLayer(1, "back"), shapeLayer(2, "parent")))

	n := g.Node(1)
	if n.Name != "back" {
		t.Fatalf("Node(1) = %q, want back", n.Name)
	}
	if n.Parent != nil {
		t.Errorf("parent = %q, want none: the kept layer has no parent", n.Parent.Name)
	}
	if len(g.Chain(1)) != 1 {
		t.Errorf("chain length = %d, want 1", len(g.Chain(1)))
	}
}

func TestBuildGroupsBecomeBundles(t *testing.T) {
	g := BuildSceneGraph(testDoc(shapeLayer(1, "shapes",
		ShapeItem{Kind: ShapeGroup, Name: "front", Items: []ShapeItem{
			pathItem(square(10, true)),
			{Kind: ShapeFill, Fill: red()},
		}},
		ShapeItem{Kind: ShapeGroup, Name: "back", Items: []ShapeItem{
			{Kind: ShapeEllipse, Size: staticVec(10, 10)},
			{Kind: ShapeStroke, Stroke: &Stroke{Color: staticVec(0, 0, 1)}},
			{Kind: ShapeTransform, Transform: &Transform{Position: staticVec(5, 5)}},
		}},
	)))
	bundles := g.Node(1).Bundles
	if len(bundles) != 2 {
		t.Fatalf("bundles = %d, want 2", len(bundles))
	}
	if bundles[0].Name != "back" || bundles[1].Name != "front" {
		t.Errorf("bundle order = %q, %q, want back, front", bundles[0].Name, bundles[1].Name)
	}
	if bundles[0].Stroke == nil || bundles[0].Fill != nil {
		t.Error("back bundle should carry only a stroke")
	}
	if len(bundles[0].Transforms) != 1 {
		t.Errorf("back transforms = %d, want 1", len(bundles[0].Transforms))
	}
	if bundles[1].Fill == nil || len(bundles[1].Geometry) != 1 {
		t.Error("front bundle should carry one path and a fill")
	}
}

func TestBuildMixedPathsAndGroupsKeepListOrder(t *testing.T) {
	g := BuildSceneGraph(testDoc(shapeLayer(1, "mixed",
		pathItem(square(1, true)),
		ShapeItem{Kind: ShapeGroup, Name: "middle", Items: []ShapeItem{
			pathItem(square(2, true)),
		}},
		pathItem(square(3, true)),
		pathItem(square(4, true)),
		ShapeItem{Kind: ShapeFill, Fill: red()},
	)))
	bundles := g.Node(1).Bundles

	// Back to front: the two trailing paths, the group, then the first path.
	want := []struct {
		name  string
		sizes []float64
	}{
		{"", []float64{3, 4}},
		{"middle", []float64{2}},
		{"", []float64{1}},
	}
	if len(bundles) != len(want) {
		t.Fatalf("bundles = %d, want %d", len(bundles), len(want))
	}
	for i, w := range want {
		b := bundles[i]
		if b.Name != w.name {
			t.Errorf("bundle %d name = %q, want %q", i, b.Name, w.name)
		}
		if b.Fill == nil {
			t.Errorf("bundle %d has no fill", i)
		}
		if len(b.Geometry) != len(w.sizes) {
			t.Errorf("bundle %d geometry = %d, want %d", i, len(b.Geometry), len(w.sizes))
			continue
		}
		for j, size := range w.sizes {
			if got := b.Geometry[j].Path.Value.Vertices[1].Point.X; got != size {
				t.Errorf("bundle %d geometry %d size = %v, want %v", i, j, got, size)
			}
		}
	}
}

func TestBuildNestedGroupsInheritPaintAndTransforms(t *testing.T) {
	doc := testDoc(shapeLayer(1, "nested",
		ShapeItem{Kind: ShapeGroup, Name: "outer", Items: []ShapeItem{
			{Kind: ShapeGroup, Name: "inner", Items: []ShapeItem{
				pathItem(square(4, true)),
				{Kind: ShapeTransform, Transform: &Transform{Rotation: staticScalar(45)}},
			}},
			{Kind: ShapeFill, Fill: red()},
			{Kind: ShapeTransform, Transform: &Transform{Position: staticVec(10, 0)}},
		}},
	))
	g := BuildSceneGraph(doc)
	bundles := g.Node(1).Bundles
	if len(bundles) != 1 || bundles[0].Name != "inner" {
		t.Fatalf("bundles = %v, want only inner", bundles)
	}
	if bundles[0].Fill == nil {
		t.Error("inner group should inherit the outer fill")
	}
	if len(bundles[0].Transforms) != 2 {
		t.Errorf("inner transforms = %d, want outer + inner", len(bundles[0].Transforms))
	}
	// The document is not modified by inheritance.
	if n := len(doc.Layers[0].Shapes[0].Items[0].Items); n != 2 {
		t.Errorf("inner items mutated: %d, want 2", n)
	}
}

func TestBuildIgnoresUnknownItemsAndFlagsMerge(t *testing.T) {
	g := BuildSceneGraph(testDoc(shapeLayer(1, "odd",
		ShapeItem{Kind: ShapeGroup, Name: "g", Items: []ShapeItem{
			{Kind: ShapeUnknown, Name: "gradient"},
			{Kind: ShapeMerge, Name: "merge"},
			pathItem(square(1, true)),
		}},
	)))
	if len(g.Node(1).Bundles) != 1 {
		t.Errorf("bundles = %d, want 1", len(g.Node(1).Bundles))
	}
	if len(g.Issues()) != 1 || !errors.Is(g.Issues()[0], ErrUnsupportedItem) {
		t.Errorf("issues = %v, want one ErrUnsupportedItem", g.Issues())
	}
}

func TestBuildNullLayersAreNotRenderable(t *testing.T) {
	g := BuildSceneGraph(testDoc(
		shapeLayer(1, "shape"),
		Layer{Index: 2, Name: "null", Kind: LayerNull},
		Layer{Index: 3, Name: "image", Kind: LayerOther},
	))
	if !g.Node(1).Renderable() || g.Node(2).Renderable() || g.Node(3).Renderable() {
		t.Error("only shape layers should be renderable")
	}
}

func TestBuildCompilesTracks(t *testing.T) {
	rot := scalarKeys(
		Keyframe[float64]{Time: 0, Start: 0, Out: &EasingHandle{0.4, 0}, In: &EasingHandle{0.6, 1}},
		Keyframe[float64]{Time: 10, Start: 90},
	)
	l := shapeLayer(1, "spin")
	l.Transform.Rotation = rot
	g := BuildSceneGraph(testDoc(l))
	if g.Node(1).Transform.Rotation.Keyframes[0].ease == nil {
		t.Error("layer track was not compiled")
	}
	if rot.Keyframes[0].ease != nil {
		t.Error("document track was modified")
	}
}
