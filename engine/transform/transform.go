// Package transform keeps independently loaded fragments visually co-registered.
// Two fragments registered with the same spec (or specs within a small epsilon) overlap
// exactly in world space; the colorable fragment is deliberately pushed a hair larger so
// its surfaces win the depth test over the coincident base geometry.
package transform

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultZOffset is the scale delta applied to the colorable fragment to avoid z-fighting.
const DefaultZOffset float32 = 0.01

// RegistrationSpec is the scale and Y rotation applied to a fragment root.
type RegistrationSpec struct {
	// Scale is the per-axis scale of the fragment root.
	Scale [3]float32

	// RotationY is the rotation about the world Y axis, in radians.
	RotationY float32
}

// NewRegistrationSpec builds the spec shared by the viewer's fragments: uniform scale s
// and a half turn about Y.
//
// Parameters:
//   - s: the uniform scale
//
// Returns:
//   - RegistrationSpec: the spec
func NewRegistrationSpec(s float32) RegistrationSpec {
	return RegistrationSpec{
		Scale:     [3]float32{s, s, s},
		RotationY: math32.Pi,
	}
}

// WithZOffset returns a copy of spec with eps added to every scale component.
//
// Parameters:
//   - spec: the base spec
//   - eps: the scale delta
//
// Returns:
//   - RegistrationSpec: the offset spec
func WithZOffset(spec RegistrationSpec, eps float32) RegistrationSpec {
	for i := range spec.Scale {
		spec.Scale[i] += eps
	}
	return spec
}

// CoRegistered reports whether a and b differ by at most eps in every component.
//
// Parameters:
//   - a, b: the specs to compare
//   - eps: the tolerance
//
// Returns:
//   - bool: true if the specs are within eps of each other
func CoRegistered(a, b RegistrationSpec, eps float32) bool {
	for i := range a.Scale {
		if math32.Abs(a.Scale[i]-b.Scale[i]) > eps {
			return false
		}
	}
	return math32.Abs(a.RotationY-b.RotationY) <= eps
}

// Register sets the root transform's scale and rotation to the values in spec. The
// translation is kept. The assignment is absolute, so registering twice leaves the node
// in the same state as registering once.
//
// Parameters:
//   - node: the fragment root
//   - spec: the registration to apply
//
// Returns:
//   - model.Node: the same node, for chaining
func Register(node model.Node, spec RegistrationSpec) model.Node {
	if node == nil {
		return nil
	}
	t := node.Transform()
	t.Scale = spec.Scale
	t.SetQuat(mgl32.QuatRotate(spec.RotationY, mgl32.Vec3{0, 1, 0}))
	node.SetTransform(t)
	return node
}
