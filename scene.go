package sticker

import (
	"fmt"
	"slices"
)

// SceneGraph is the in-memory layer tree built from one Document. It owns
// its layer registry, so several graphs can be loaded and evaluated side by
// side.
type SceneGraph struct {
	doc     *Document
	nodes   []*Node // paint order, back to front
	byIndex map[int]*Node
	issues  []error
}

// BuildSceneGraph turns a document into a scene graph. It never fails: a
// dangling or cyclic parent link is dropped and recorded in Issues, and
// unrecognized shape items are skipped.
func BuildSceneGraph(doc *Document) *SceneGraph {
	g := &SceneGraph{
		doc:     doc,
		byIndex: make(map[int]*Node, len(doc.Layers)),
	}

	// Document order is front to back; build back to front.
	for i := len(doc.Layers) - 1; i >= 0; i-- {
		l := &doc.Layers[i]
		if _, dup := g.byIndex[l.Index]; dup {
			g.issue(fmt.Errorf("layer %d: %w", l.Index, ErrDuplicateLayer))
			continue
		}
		n := &Node{
			Index:    l.Index,
			Name:     l.Name,
			Kind:     l.Kind,
			InPoint:  l.InPoint,
			OutPoint: l.OutPoint,
			slot:     len(g.nodes),
			layer:    i,
		}
		n.Transform = *compileTransform(&l.Transform)
		if l.Kind == LayerShape {
			b := bundleBuilder{graph: g, layer: l.Index}
			b.group("", l.Shapes, nil)
			n.Bundles = b.bundles
		}
		g.nodes = append(g.nodes, n)
		g.byIndex[l.Index] = n
	}

	g.linkParents()
	return g
}

// linkParents resolves parent indices, breaks cycles, and records each
// node's root-to-leaf chain.
func (g *SceneGraph) linkParents() {
	for i := len(g.doc.Layers) - 1; i >= 0; i-- {
		l := &g.doc.Layers[i]
		if l.Parent == nil {
			continue
		}
		// Skip layers dropped as duplicates.
		n := g.byIndex[l.Index]
		if n == nil || n.layer != i {
			continue
		}
		p, ok := g.byIndex[*l.Parent]
		if !ok {
			g.issue(fmt.Errorf("layer %d: parent %d: %w", l.Index, *l.Parent, ErrDanglingParent))
			continue
		}
		if isAncestor(n, p) {
			g.issue(fmt.Errorf("layer %d: parent %d: %w", l.Index, *l.Parent, ErrParentCycle))
			continue
		}
		n.Parent = p
	}

	for _, n := range g.nodes {
		depth := 0
		for p := n; p != nil; p = p.Parent {
			depth++
		}
		n.chain = make([]*Node, depth)
		for p := n; p != nil; p = p.Parent {
			depth--
			n.chain[depth] = p
		}
	}
}

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func (g *SceneGraph) issue(err error) {
	g.issues = append(g.issues, err)
}

// Document returns the document the graph was built from.
func (g *SceneGraph) Document() *Document {
	return g.doc
}

// Nodes returns all layer nodes in paint order (back to front). The returned
// slice MUST NOT be mutated by the caller.
func (g *SceneGraph) Nodes() []*Node {
	return g.nodes
}

// Node returns the node registered for a layer index, or nil.
func (g *SceneGraph) Node(index int) *Node {
	return g.byIndex[index]
}

// Chain returns the ancestors of the layer root first, ending with the layer
// itself, or nil for an unknown index.
func (g *SceneGraph) Chain(index int) []*Node {
	n := g.byIndex[index]
	if n == nil {
		return nil
	}
	return n.chain
}

// Issues returns the data-integrity problems found while building.
func (g *SceneGraph) Issues() []error {
	return g.issues
}

// bundleBuilder flattens a layer's shape list into bundles.
type bundleBuilder struct {
	graph   *SceneGraph
	layer   int
	bundles []*ShapeBundle
}

// group turns one shape list into bundles. outer is the transform chain of
// the enclosing groups. Paint and transforms apply to the whole list. Items
// are front to back, so the list is walked in reverse and every nested group
// splits the surrounding paths into separate bundles that keep list order.
func (b *bundleBuilder) group(name string, items []ShapeItem, outer []*Transform) {
	paint := &ShapeBundle{Name: name}
	var local []*Transform
	for i := range items {
		it := &items[i]
		switch it.Kind {
		case ShapeFill:
			if paint.Fill == nil {
				paint.Fill = compileFill(it.Fill)
			}
		case ShapeStroke:
			if paint.Stroke == nil {
				paint.Stroke = compileStroke(it.Stroke)
			}
		case ShapeTransform:
			if t := compileTransform(it.Transform); t != nil {
				local = append(local, t)
			}
		case ShapeMerge:
			b.graph.issue(fmt.Errorf("layer %d group %q: merge paths drawn as stacked paths: %w",
				b.layer, name, ErrUnsupportedItem))
		}
	}

	chain := make([]*Transform, 0, len(outer)+len(local))
	chain = append(chain, outer...)
	chain = append(chain, local...)

	var run []Geometry // back to front
	flush := func() {
		if len(run) == 0 {
			return
		}
		slices.Reverse(run)
		b.bundles = append(b.bundles, &ShapeBundle{
			Name:       name,
			Geometry:   run,
			Fill:       paint.Fill,
			Stroke:     paint.Stroke,
			Transforms: chain,
		})
		run = nil
	}

	for i := len(items) - 1; i >= 0; i-- {
		it := &items[i]
		if it.Kind == ShapeGroup {
			flush()
			b.group(it.Name, inheritPaint(it.Items, paint), chain)
			continue
		}
		if geo, ok := geometryOf(it); ok {
			run = append(run, geo)
		}
	}
	flush()
}

// geometryOf returns the compiled geometry of a path, rectangle or ellipse
// item.
func geometryOf(it *ShapeItem) (Geometry, bool) {
	switch it.Kind {
	case ShapePath:
		if it.Path == nil {
			return Geometry{}, false
		}
		return Geometry{Kind: ShapePath, Path: compiled(it.Path)}, true
	case ShapeRect:
		return Geometry{
			Kind:      ShapeRect,
			Size:      compiled(it.Size),
			Position:  compiled(it.Position),
			Roundness: compiled(it.Roundness),
		}, true
	case ShapeEllipse:
		return Geometry{
			Kind:     ShapeEllipse,
			Size:     compiled(it.Size),
			Position: compiled(it.Position),
		}, true
	}
	return Geometry{}, false
}

// inheritPaint appends the enclosing group's paint to a nested group's items
// when the nested group declares none of its own, so "group(fill,
// group(path))" paints the path. The document's slice is never modified.
func inheritPaint(items []ShapeItem, parent *ShapeBundle) []ShapeItem {
	if parent.Fill == nil && parent.Stroke == nil {
		return items
	}
	hasFill, hasStroke := false, false
	for i := range items {
		switch items[i].Kind {
		case ShapeFill:
			hasFill = true
		case ShapeStroke:
			hasStroke = true
		}
	}
	if (hasFill || parent.Fill == nil) && (hasStroke || parent.Stroke == nil) {
		return items
	}
	out := make([]ShapeItem, 0, len(items)+2)
	out = append(out, items...)
	if !hasFill && parent.Fill != nil {
		out = append(out, ShapeItem{Kind: ShapeFill, Fill: parent.Fill})
	}
	if !hasStroke && parent.Stroke != nil {
		out = append(out, ShapeItem{Kind: ShapeStroke, Stroke: parent.Stroke})
	}
	return out
}
