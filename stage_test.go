package sticker

import "testing"

// recordNode is the state a recordBackend keeps for one node.
type recordNode struct {
	parent    NodeID
	name      string
	container bool
	visible   bool
	transform Affine
	opacity   float64
	paths     []PathValue
	fill      *FillState
	stroke    *StrokeState
}

// recordBackend is an in-memory Backend that remembers the last value set
// on every node.
type recordBackend struct {
	next    NodeID
	nodes   map[NodeID]*recordNode
	calls   int
	removed []NodeID
}

func newRecordBackend() *recordBackend {
	return &recordBackend{nodes: make(map[NodeID]*recordNode)}
}

func (b *recordBackend) create(parent NodeID, name string, container bool) NodeID {
	b.next++
	b.nodes[b.next] = &recordNode{parent: parent, name: name, container: container, visible: true, transform: Identity, opacity: 1}
	return b.next
}

func (b *recordBackend) CreateContainer(parent NodeID, name string) NodeID {
	return b.create(parent, name, true)
}

func (b *recordBackend) CreatePath(container NodeID, name string) NodeID {
	return b.create(container, name, false)
}

func (b *recordBackend) SetPath(id NodeID, paths []PathValue) { b.calls++; b.nodes[id].paths = paths }
func (b *recordBackend) SetFill(id NodeID, f *FillState) { b.calls++; b.nodes[id].fill = f }
func (b *recordBackend) SetStroke(id NodeID, s *StrokeState) { b.calls++; b.nodes[id].stroke = s }
func (b *recordBackend) SetVisible(id NodeID, v bool) { b.calls++; b.nodes[id].visible = v }

func (b *recordBackend) SetTransform(id NodeID, m Affine, opacity float64) {
	b.calls++
	n := b.nodes[id]
	n.transform, n.opacity = m, opacity
}

func (b *recordBackend) Remove(id NodeID) {
	b.removed = append(b.removed, id)
	for child, n := range b.nodes {
		if n.parent == id {
			b.Remove(child)
		}
	}
	delete(b.nodes, id)
}

// byName returns the first node created with name.
func (b *recordBackend) byName(t *testing.T, name string) *recordNode {
	t.Helper()
	for id := NodeID(1); id <= b.next; id++ {
		if n, ok := b.nodes[id]; ok && n.name == name {
			return n
		}
	}
	t.Fatalf("no node named %q", name)
	return nil
}

func TestNewStageCreatesNodes(t *testing.T) {
	b := newRecordBackend()
	NewStage(BuildSceneGraph(spinner()), b)

	root := b.byName(t, "spinner")
	if root.parent != RootID || !root.container {
		t.Errorf("sticker root = %+v", root)
	}
	// Two shape layers, one bundle each; the null layer gets nothing.
	if len(b.nodes) != 5 {
		t.Errorf("nodes = %d, want 5", len(b.nodes))
	}
	body := b.byName(t, "body")
	if body.container || b.nodes[body.parent].name != "square" {
		t.Errorf("body = %+v", body)
	}
	if b.calls != 0 {
		t.Errorf("construction set %d properties, want 0", b.calls)
	}
}

func TestStageRenderPushesFrame(t *testing.T) {
	b := newRecordBackend()
	s := NewStage(BuildSceneGraph(spinner()), b)
	f := s.Render(90)

	ls := findLayer(t, f, 1)
	layer := b.byName(t, "square")
	assertMatrix(t, "layer transform", layer.transform, ls.Transform)
	assertNear(t, "layer opacity", layer.opacity, ls.Opacity)

	body := b.byName(t, "body")
	if len(body.paths) != 1 || body.fill == nil || body.stroke == nil {
		t.Fatalf("body = %+v", body)
	}
	assertNear(t, "stroke width", body.stroke.Width, 3)
	assertNear(t, "shape opacity", body.opacity, 0.5)
}

func TestStageHidesLayersOutsideWindow(t *testing.T) {
	doc := spinner()
	doc.Layers[2].InPoint = 100
	b := newRecordBackend()
	s := NewStage(BuildSceneGraph(doc), b)

	s.Render(10)
	late := b.byName(t, "late")
	if late.visible {
		t.Error("late layer visible at frame 10")
	}
	s.Render(120)
	if !late.visible {
		t.Error("late layer hidden at frame 120")
	}
}

func TestStageKeepsLastGoodStateForStaleLayer(t *testing.T) {
	b := newRecordBackend()
	g := BuildSceneGraph(spinner())
	s := NewStage(g, b)
	s.Render(0)
	before := b.byName(t, "late").transform

	f := EvaluateFrame(g, 30)
	for i := range f.Layers {
		if f.Layers[i].Index == 3 {
			f.Layers[i] = LayerState{Index: 3, Stale: true}
		}
	}
	s.Emit(f)
	late := b.byName(t, "late")
	if !late.visible {
		t.Error("stale layer was hidden")
	}
	assertMatrix(t, "stale transform", late.transform, before)
}

func TestStageViewportFit(t *testing.T) {
	s := NewStage(BuildSceneGraph(spinner()), newRecordBackend())
	assertMatrix(t, "no viewport", s.RootTransform(), Identity)

	// 200x200 canvas into a 400x100 viewport: scale 0.5, centred horizontally.
	s.SetViewport(Rect{X: 10, Y: 20, Width: 400, Height: 100})
	assertMatrix(t, "fit", s.RootTransform(), Affine{0.5, 0, 0, 0.5, 10 + 150, 20})
}

func TestStagePresentation(t *testing.T) {
	b := newRecordBackend()
	s := NewStage(BuildSceneGraph(spinner()), b)
	s.Presentation = Presentation{X: 5, Y: -5, Scale: 2, Alpha: 0.25}
	s.Render(0)

	root := b.byName(t, "spinner")
	// Scaling about the canvas center (100, 100) moves the origin to (-100, -100).
	assertMatrix(t, "root", root.transform, Affine{2, 0, 0, 2, -95, -105})
	assertNear(t, "alpha", root.opacity, 0.25)
}

func TestStageDispose(t *testing.T) {
	b := newRecordBackend()
	s := NewStage(BuildSceneGraph(spinner()), b)
	s.Dispose()
	if len(b.nodes) != 0 {
		t.Errorf("nodes after Dispose = %d, want 0", len(b.nodes))
	}
	if !s.IsDisposed() {
		t.Error("IsDisposed = false")
	}
	calls := b.calls
	s.Render(10)
	s.Dispose()
	if b.calls != calls {
		t.Error("disposed stage still writes to the backend")
	}
}

func TestNewStageNilBackendPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewStage(BuildSceneGraph(spinner()), nil)
}
