package sticker

// NodeID identifies a node created by a Backend. RootID is the backend's
// own root; it is never created or removed by the stage.
type NodeID uint32

// RootID is the implicit root container of every backend.
const RootID NodeID = 0

// Backend is the retained drawing surface the stage renders into. The stage
// creates nodes once per loaded document and then only mutates them; it
// never reads state back.
//
// A container's transform and opacity apply to everything inside it. A path
// node's transform is relative to its container.
type Backend interface {
	CreateContainer(parent NodeID, name string) NodeID
	CreatePath(container NodeID, name string) NodeID
	SetPath(id NodeID, paths []PathValue)
	SetFill(id NodeID, fill *FillState)       // nil removes the fill
	SetStroke(id NodeID, stroke *StrokeState) // nil removes the stroke
	SetTransform(id NodeID, m Affine, opacity float64)
	SetVisible(id NodeID, visible bool)
	Remove(id NodeID) // removes the node and everything inside it
}

// Presentation positions the whole sticker on top of its own animation.
// Scale is applied about the canvas center.
type Presentation struct {
	X, Y  float64
	Scale float64
	Alpha float64
}

// DefaultPresentation leaves the sticker untouched.
var DefaultPresentation = Presentation{Scale: 1, Alpha: 1}

type stageLayer struct {
	container NodeID
	paths     []NodeID
}

// Stage binds one scene graph to one backend: it creates the backend nodes
// and pushes evaluated frames into them.
type Stage struct {
	graph    *SceneGraph
	backend  Backend
	root     NodeID
	layers   map[int]*stageLayer
	viewport Rect
	disposed bool

	// Presentation is applied on top of the animation at every Emit. Tweens
	// write to it.
	Presentation Presentation
}

// NewStage creates a container for the sticker and one container per shape
// layer, with one path node per shape bundle, in paint order.
func NewStage(g *SceneGraph, b Backend) *Stage {
	if b == nil {
		panic("sticker: nil backend")
	}
	s := &Stage{
		graph:        g,
		backend:      b,
		layers:       make(map[int]*stageLayer, len(g.nodes)),
		Presentation: DefaultPresentation,
	}
	s.root = b.CreateContainer(RootID, g.doc.Name)
	for _, n := range g.nodes {
		if !n.Renderable() {
			continue
		}
		sl := &stageLayer{container: b.CreateContainer(s.root, n.Name)}
		for _, bundle := range n.Bundles {
			sl.paths = append(sl.paths, b.CreatePath(sl.container, bundle.Name))
		}
		s.layers[n.Index] = sl
	}
	return s
}

// SetViewport fits the document canvas into r, uniformly scaled and
// centred. A zero rectangle maps the canvas one to one.
func (s *Stage) SetViewport(r Rect) {
	s.viewport = r
}

// RootTransform returns the matrix from document space to backend space.
func (s *Stage) RootTransform() Affine {
	doc := s.graph.doc
	fit := Identity
	if s.viewport.Width > 0 && s.viewport.Height > 0 && doc.Width > 0 && doc.Height > 0 {
		k := min(s.viewport.Width/doc.Width, s.viewport.Height/doc.Height)
		fit = Affine{
			k, 0, 0, k,
			s.viewport.X + (s.viewport.Width-doc.Width*k)/2,
			s.viewport.Y + (s.viewport.Height-doc.Height*k)/2,
		}
	}
	p := s.Presentation
	cx, cy := doc.Width/2, doc.Height/2
	present := Affine{p.Scale, 0, 0, p.Scale, cx - cx*p.Scale + p.X, cy - cy*p.Scale + p.Y}
	return fit.Multiply(present)
}

// Render evaluates frame and emits it. The evaluated frame is returned.
func (s *Stage) Render(frame float64) *Frame {
	f := EvaluateFrame(s.graph, frame)
	s.Emit(f)
	return f
}

// Emit pushes an evaluated frame into the backend. Stale layers are left
// as they were, so the last good state stays on screen.
func (s *Stage) Emit(f *Frame) {
	if s.disposed {
		return
	}
	b := s.backend
	b.SetTransform(s.root, s.RootTransform(), clamp01(s.Presentation.Alpha))
	for i := range f.Layers {
		ls := &f.Layers[i]
		sl := s.layers[ls.Index]
		if sl == nil || ls.Stale {
			continue
		}
		b.SetVisible(sl.container, ls.Visible)
		if !ls.Visible {
			continue
		}
		b.SetTransform(sl.container, ls.Transform, ls.Opacity)
		for j := range ls.Shapes {
			if j >= len(sl.paths) {
				break
			}
			sh := &ls.Shapes[j]
			id := sl.paths[j]
			b.SetPath(id, sh.Paths)
			b.SetFill(id, sh.Fill)
			b.SetStroke(id, sh.Stroke)
			b.SetTransform(id, sh.Transform, sh.Opacity)
		}
	}
}

// Graph returns the scene graph the stage renders.
func (s *Stage) Graph() *SceneGraph {
	return s.graph
}

// Dispose removes every backend node the stage created.
func (s *Stage) Dispose() {
	if s.disposed {
		return
	}
	s.backend.Remove(s.root)
	s.layers = nil
	s.disposed = true
}

// IsDisposed reports whether Dispose has been called.
func (s *Stage) IsDisposed() bool {
	return s.disposed
}
