// Package retained is an in-memory sticker.Backend: a node tree that keeps
// whatever the stage pushed into it, for backends that redraw from scratch
// every frame.
package retained

import (
	"github.com/phanxgames/sticker"
)

// Kind distinguishes containers from drawable path nodes.
type Kind uint8

const (
	KindContainer Kind = iota
	KindPath
)

// Node is one retained backend node.
type Node struct {
	ID        sticker.NodeID
	Name      string
	Kind      Kind
	Parent    *Node
	Visible   bool
	Transform sticker.Affine // relative to Parent
	Opacity   float64

	// Path nodes only.
	Paths  []sticker.PathValue
	Fill   *sticker.FillState
	Stroke *sticker.StrokeState

	children []*Node
}

// Children returns the node's children in paint order. The slice is owned
// by the node.
func (n *Node) Children() []*Node {
	return n.children
}

func newNode(id sticker.NodeID, name string, kind Kind) *Node {
	return &Node{
		ID:        id,
		Name:      name,
		Kind:      kind,
		Visible:   true,
		Transform: sticker.Identity,
		Opacity:   1,
	}
}

// Tree implements sticker.Backend. Nodes are drawn in creation order within
// their container, depth first.
type Tree struct {
	root  *Node
	nodes map[sticker.NodeID]*Node
	next  sticker.NodeID
}

// New returns an empty tree holding only the root container.
func New() *Tree {
	root := newNode(sticker.RootID, "root", KindContainer)
	return &Tree{
		root:  root,
		nodes: map[sticker.NodeID]*Node{sticker.RootID: root},
		next:  sticker.RootID + 1,
	}
}

// Root returns the root container.
func (t *Tree) Root() *Node { return t.root }

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id sticker.NodeID) *Node { return t.nodes[id] }

// Len returns the number of nodes, the root included.
func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) add(parent sticker.NodeID, name string, kind Kind) sticker.NodeID {
	p := t.nodes[parent]
	if p == nil {
		panic("retained: unknown parent node")
	}
	if p.Kind != KindContainer {
		panic("retained: parent is not a container")
	}
	n := newNode(t.next, name, kind)
	t.next++
	n.Parent = p
	p.children = append(p.children, n)
	t.nodes[n.ID] = n
	return n.ID
}

// CreateContainer adds a container as the last child of parent.
func (t *Tree) CreateContainer(parent sticker.NodeID, name string) sticker.NodeID {
	return t.add(parent, name, KindContainer)
}

// CreatePath adds a path node as the last child of container.
func (t *Tree) CreatePath(container sticker.NodeID, name string) sticker.NodeID {
	return t.add(container, name, KindPath)
}

// SetPath replaces the node's outlines.
func (t *Tree) SetPath(id sticker.NodeID, paths []sticker.PathValue) {
	if n := t.nodes[id]; n != nil {
		n.Paths = paths
	}
}

// SetFill copies fill into the node; nil removes the fill.
func (t *Tree) SetFill(id sticker.NodeID, fill *sticker.FillState) {
	n := t.nodes[id]
	if n == nil {
		return
	}
	n.Fill = nil
	if fill != nil {
		f := *fill
		n.Fill = &f
	}
}

// SetStroke copies stroke into the node; nil removes the stroke.
func (t *Tree) SetStroke(id sticker.NodeID, stroke *sticker.StrokeState) {
	n := t.nodes[id]
	if n == nil {
		return
	}
	n.Stroke = nil
	if stroke != nil {
		s := *stroke
		n.Stroke = &s
	}
}

// SetTransform sets the node's local matrix and opacity.
func (t *Tree) SetTransform(id sticker.NodeID, m sticker.Affine, opacity float64) {
	if n := t.nodes[id]; n != nil {
		n.Transform = m
		n.Opacity = opacity
	}
}

// SetVisible shows or hides the node and everything inside it.
func (t *Tree) SetVisible(id sticker.NodeID, visible bool) {
	if n := t.nodes[id]; n != nil {
		n.Visible = visible
	}
}

// Remove detaches the node and forgets its subtree. Removing the root
// clears its children but keeps the root itself.
func (t *Tree) Remove(id sticker.NodeID) {
	n := t.nodes[id]
	if n == nil {
		return
	}
	if n == t.root {
		for _, c := range n.children {
			t.forget(c)
		}
		n.children = nil
		return
	}
	t.forget(n)
	p := n.Parent
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.Parent = nil
}

func (t *Tree) forget(n *Node) {
	delete(t.nodes, n.ID)
	for _, c := range n.children {
		t.forget(c)
	}
}

// Walk visits every visible path node in paint order with its world matrix
// (base applied last) and its accumulated opacity. Hidden containers and
// fully transparent subtrees are skipped.
func (t *Tree) Walk(base sticker.Affine, fn func(n *Node, world sticker.Affine, alpha float64)) {
	t.walk(t.root, base, 1, fn)
}

func (t *Tree) walk(n *Node, parent sticker.Affine, parentAlpha float64, fn func(*Node, sticker.Affine, float64)) {
	if !n.Visible {
		return
	}
	world := parent.Multiply(n.Transform)
	alpha := parentAlpha * n.Opacity
	if alpha <= 0 {
		return
	}
	if n.Kind == KindPath {
		fn(n, world, alpha)
		return
	}
	for _, c := range n.children {
		t.walk(c, world, alpha, fn)
	}
}
