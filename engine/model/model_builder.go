package model

// NodeBuilderOption is a functional option for configuring a Node via NewNode.
type NodeBuilderOption func(*node)

// WithName is an option builder that sets the name of the Node.
//
// Parameters:
//   - name: the node identifier
//
// Returns:
//   - NodeBuilderOption: a function that applies the name option to a node
func WithName(name string) NodeBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// WithTransform is an option builder that sets the local transform of the Node.
//
// Parameters:
//   - t: the local transform
//
// Returns:
//   - NodeBuilderOption: a function that applies the transform option to a node
func WithTransform(t Transform) NodeBuilderOption {
	return func(n *node) {
		n.transform = t
	}
}

// WithChildren is an option builder that appends child nodes in the given order.
//
// Parameters:
//   - children: the nodes to append
//
// Returns:
//   - NodeBuilderOption: a function that applies the children option to a node
func WithChildren(children ...Node) NodeBuilderOption {
	return func(n *node) {
		for _, c := range children {
			if c != nil {
				n.children = append(n.children, c)
			}
		}
	}
}

// WithSurface is an option builder that attaches a drawable to the Node.
//
// Parameters:
//   - s: the surface
//
// Returns:
//   - NodeBuilderOption: a function that applies the surface option to a node
func WithSurface(s *Surface) NodeBuilderOption {
	return func(n *node) {
		n.surface = s
	}
}
