package sticker

// Node is one layer of a built scene graph. All tracks are compiled copies
// of the document's, so evaluating a Node never rebuilds easing tables.
//
// Nodes are read-only after BuildSceneGraph returns; the same graph may be
// evaluated from several goroutines.
type Node struct {
	Index    int
	Name     string
	Kind     LayerKind
	Parent   *Node
	InPoint  float64
	OutPoint float64

	Transform Transform
	Bundles   []*ShapeBundle // back to front

	// chain lists the ancestors root first, ending with the node itself.
	chain []*Node
	// slot is the node's position in SceneGraph.nodes.
	slot int
	// layer is the position of the source layer in Document.Layers.
	layer int
}

// Renderable reports whether the node draws anything.
func (n *Node) Renderable() bool {
	return n.Kind == LayerShape
}

// VisibleAt reports whether frame lies inside the layer's time window.
func (n *Node) VisibleAt(frame float64) bool {
	return frame >= n.InPoint && frame <= n.OutPoint
}

// Depth returns the number of ancestors above the node.
func (n *Node) Depth() int {
	return len(n.chain) - 1
}

// ShapeBundle is one rendering unit: the paths of a shape group drawn with
// the group's paint under the group's transform chain.
type ShapeBundle struct {
	Name       string
	Geometry   []Geometry
	Fill       *Fill
	Stroke     *Stroke
	Transforms []*Transform // outermost group first
}

// Geometry is one path-producing item of a bundle.
type Geometry struct {
	Kind      ShapeKind // ShapePath, ShapeRect or ShapeEllipse
	Path      *PathTrack
	Size      *VectorTrack
	Position  *VectorTrack
	Roundness *ScalarTrack
}

// compiled returns a compiled copy of an optional track.
func compiled[T any](tr *Track[T]) *Track[T] {
	if tr == nil {
		return nil
	}
	c := tr.Compile()
	return &c
}

func compileTransform(t *Transform) *Transform {
	if t == nil {
		return nil
	}
	return &Transform{
		Position: compiled(t.Position),
		Anchor:   compiled(t.Anchor),
		Scale:    compiled(t.Scale),
		Rotation: compiled(t.Rotation),
		Opacity:  compiled(t.Opacity),
	}
}

func compileFill(f *Fill) *Fill {
	if f == nil {
		return nil
	}
	return &Fill{Color: compiled(f.Color), Opacity: compiled(f.Opacity)}
}

func compileStroke(s *Stroke) *Stroke {
	if s == nil {
		return nil
	}
	return &Stroke{
		Color:      compiled(s.Color),
		Opacity:    compiled(s.Opacity),
		Width:      compiled(s.Width),
		Cap:        s.Cap,
		Join:       s.Join,
		MiterLimit: s.MiterLimit,
	}
}
