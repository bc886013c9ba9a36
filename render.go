package sticker

import "fmt"

// Frame is the fully resolved state of every renderable layer at one frame.
type Frame struct {
	Number float64
	Layers []LayerState // paint order, back to front
	Errors []error      // layers whose evaluation failed; they are marked Stale
}

// LayerState is one shape layer at one frame. Hidden layers carry only
// Index, Name and Visible=false.
type LayerState struct {
	Index     int
	Name      string
	Visible   bool
	Stale     bool   // evaluation failed; backends keep the previous state
	Transform Affine // layer space to document space, parents included
	Opacity   float64
	Shapes    []ShapeState
}

// ShapeState is one resolved shape bundle.
type ShapeState struct {
	Name      string
	Paths     []PathValue // bundle space
	Transform Affine      // bundle space to layer space
	Opacity   float64
	Fill      *FillState   // nil: no fill
	Stroke    *StrokeState // nil: no stroke
}

// FillState is resolved fill paint.
type FillState struct {
	Color   Color
	Opacity float64 // [0, 1]
}

// StrokeState is resolved stroke paint.
type StrokeState struct {
	Color      Color
	Opacity    float64 // [0, 1]
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
}

const defaultMiterLimit = 4

// frameEval memoizes per-layer local transforms for one frame so that a
// parent shared by many children is evaluated once.
type frameEval struct {
	frame    float64
	locals   []Affine
	opacity  []float64
	resolved []bool
}

// EvaluateFrame resolves every renderable layer of g at frame. Layers
// outside their time window are reported hidden without evaluating any of
// their tracks. EvaluateFrame does not modify g.
func EvaluateFrame(g *SceneGraph, frame float64) *Frame {
	n := len(g.nodes)
	ev := &frameEval{
		frame:    frame,
		locals:   make([]Affine, n),
		opacity:  make([]float64, n),
		resolved: make([]bool, n),
	}
	f := &Frame{Number: frame, Layers: make([]LayerState, 0, n)}
	for _, node := range g.nodes {
		if !node.Renderable() {
			continue
		}
		ls := LayerState{Index: node.Index, Name: node.Name}
		if node.VisibleAt(frame) {
			if err := ev.layer(node, &ls); err != nil {
				ls = LayerState{Index: node.Index, Name: node.Name, Stale: true}
				f.Errors = append(f.Errors, err)
			}
		}
		f.Layers = append(f.Layers, ls)
	}
	return f
}

// layer fills ls for a visible node. A panic while evaluating malformed
// tracks is turned into an error so one bad layer cannot stop playback.
func (ev *frameEval) layer(n *Node, ls *LayerState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("layer %d at frame %v: %v", n.Index, ev.frame, r)
		}
	}()

	ls.Transform = ev.world(n)
	_, ls.Opacity = ev.local(n)
	ls.Visible = true
	ls.Shapes = make([]ShapeState, len(n.Bundles))
	for i, b := range n.Bundles {
		ls.Shapes[i] = evaluateBundle(b, ev.frame)
	}
	return nil
}

// local returns the node's own matrix and opacity at this frame.
func (ev *frameEval) local(n *Node) (Affine, float64) {
	if !ev.resolved[n.slot] {
		ev.locals[n.slot], ev.opacity[n.slot] = evaluateTransform(&n.Transform, ev.frame)
		ev.resolved[n.slot] = true
	}
	return ev.locals[n.slot], ev.opacity[n.slot]
}

// world composes the node's ancestor chain, root first. Parent opacity is
// not inherited; parenting only carries the transform.
func (ev *frameEval) world(n *Node) Affine {
	m := Identity
	for _, p := range n.chain {
		local, _ := ev.local(p)
		m = m.Multiply(local)
	}
	return m
}

// evaluateBundle resolves one bundle's geometry, paint and transform chain.
func evaluateBundle(b *ShapeBundle, frame float64) ShapeState {
	st := ShapeState{Name: b.Name, Transform: Identity, Opacity: 1}
	for _, t := range b.Transforms {
		m, o := evaluateTransform(t, frame)
		st.Transform = st.Transform.Multiply(m)
		st.Opacity *= o
	}

	st.Paths = make([]PathValue, 0, len(b.Geometry))
	for i := range b.Geometry {
		st.Paths = append(st.Paths, resolveGeometry(&b.Geometry[i], frame))
	}

	if b.Fill != nil && b.Fill.Color != nil {
		st.Fill = &FillState{
			Color:   colorFromVector(EvaluateVector(b.Fill.Color, frame, nil)),
			Opacity: clamp01(evalScalar(b.Fill.Opacity, frame, 100) / 100),
		}
	}
	if s := b.Stroke; s != nil && s.Color != nil {
		miter := s.MiterLimit
		if miter <= 0 {
			miter = defaultMiterLimit
		}
		st.Stroke = &StrokeState{
			Color:      colorFromVector(EvaluateVector(s.Color, frame, nil)),
			Opacity:    clamp01(evalScalar(s.Opacity, frame, 100) / 100),
			Width:      evalScalar(s.Width, frame, 1),
			Cap:        s.Cap,
			Join:       s.Join,
			MiterLimit: miter,
		}
	}
	return st
}
