package model

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// node is the implementation of the Node interface.
type node struct {
	name      string
	transform Transform
	children  []Node
	surface   *Surface
}

// Node is one element of a loaded fragment's hierarchy.
// A Node carries a local Transform, an ordered list of children and at most one Surface.
// The root Node returned by the Loader is the fragment itself.
type Node interface {
	// Name retrieves the node identifier.
	//
	// Returns:
	//   - string: the node name
	Name() string

	// Transform retrieves the local transform relative to the parent.
	//
	// Returns:
	//   - Transform: the local transform
	Transform() Transform

	// SetTransform replaces the local transform.
	//
	// Parameters:
	//   - t: the new local transform
	SetTransform(t Transform)

	// Children retrieves the child nodes in declaration order.
	//
	// Returns:
	//   - []Node: the children
	Children() []Node

	// AddChild appends a child node.
	//
	// Parameters:
	//   - child: the node to append
	AddChild(child Node)

	// Surface retrieves the drawable attached to this node, or nil if the node is a pure transform.
	//
	// Returns:
	//   - *Surface: the surface or nil
	Surface() *Surface

	// Walk visits this node and its descendants depth-first in pre-order, children in
	// declaration order. When fn returns false the visited node's subtree is skipped.
	//
	// Parameters:
	//   - fn: the visitor
	Walk(fn func(Node) bool)

	// WalkWorld is Walk with the accumulated world matrix of each visited node.
	//
	// Parameters:
	//   - parent: the matrix of this node's parent space (mgl32.Ident4 for a root)
	//   - fn: the visitor
	WalkWorld(parent mgl32.Mat4, fn func(n Node, world mgl32.Mat4) bool)

	// WorldBounds computes the axis-aligned box enclosing every surface in the hierarchy,
	// with this node's own transform applied. Empty when the hierarchy has no surfaces.
	//
	// Returns:
	//   - common.Box3: the enclosing box
	WorldBounds() common.Box3
}

var _ Node = &node{}

// NewNode creates a new Node instance configured with the provided options.
// The node starts with the identity transform.
//
// Parameters:
//   - options: a variadic list of NodeBuilderOption functions to configure the node
//
// Returns:
//   - Node: a new instance of Node configured with the provided options
func NewNode(options ...NodeBuilderOption) Node {
	n := &node{
		transform: IdentityTransform(),
	}
	for _, opt := range options {
		opt(n)
	}
	return n
}

func (n *node) Name() string {
	return n.name
}

func (n *node) Transform() Transform {
	return n.transform
}

func (n *node) SetTransform(t Transform) {
	n.transform = t
}

func (n *node) Children() []Node {
	return n.children
}

func (n *node) AddChild(child Node) {
	if child == nil {
		return
	}
	n.children = append(n.children, child)
}

func (n *node) Surface() *Surface {
	return n.surface
}

func (n *node) Walk(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

func (n *node) WalkWorld(parent mgl32.Mat4, fn func(n Node, world mgl32.Mat4) bool) {
	world := parent.Mul4(n.transform.Matrix())
	if !fn(n, world) {
		return
	}
	for _, c := range n.children {
		c.WalkWorld(world, fn)
	}
}

func (n *node) WorldBounds() common.Box3 {
	box := common.EmptyBox3()
	n.WalkWorld(mgl32.Ident4(), func(v Node, world mgl32.Mat4) bool {
		if s := v.Surface(); s != nil {
			box = box.Union(TransformBox(s.Bounds, world))
		}
		return true
	})
	return box
}
